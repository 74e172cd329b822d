package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
)

// DefaultKey names the single persisted session record.
const DefaultKey = "auth-user"

// Store persists the session record under a single key.
type Store interface {
	// Load returns the stored record. ok is false when none is stored or the
	// stored record cannot be decoded.
	Load(ctx context.Context) (user domain.User, ok bool, err error)
	Save(ctx context.Context, user domain.User) error
	Clear(ctx context.Context) error
}

// FileStore keeps the record as a JSON file, one file per key.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing <dir>/<key>.json. An empty key uses DefaultKey.
func NewFileStore(dir, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{path: filepath.Join(dir, key+".json")}
}

// DefaultDir returns the per-user config directory for session files.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "rainwater"), nil
}

// Path returns the file backing the record.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (domain.User, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("read session record: %w", err)
	}
	return decode(data)
}

// Save replaces the record atomically via a temp file and rename.
func (s *FileStore) Save(_ context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write session record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session record: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace session record: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session record: %w", err)
	}
	return nil
}

// MemoryStore keeps the encoded record in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (domain.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return domain.User{}, false, nil
	}
	return decode(s.data)
}

func (s *MemoryStore) Save(_ context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}

// SetRaw replaces the stored bytes verbatim, as another writer of the key would.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

func decode(data []byte) (domain.User, bool, error) {
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil || !user.Valid() {
		return domain.User{}, false, nil
	}
	return user, true, nil
}
