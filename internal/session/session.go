// Package session implements the mock identity provider: a single session
// record that any non-empty credentials can create.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/couchcryptid/rainwater-harvest-service/internal/roundtrip"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the simulated round trip of sign-in and sign-up.
const DefaultDelay = time.Second

// Session holds the current identity. It is created by Open and changed only
// by SignIn, SignUp, and SignOut.
type Session struct {
	store  Store
	clock  clockwork.Clock
	delay  time.Duration
	newID  func() string
	logger *slog.Logger

	mu   sync.RWMutex
	user *domain.User
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock driving the simulated delay.
func WithClock(c clockwork.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithDelay sets the simulated round trip. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(s *Session) { s.delay = d }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithIDGenerator sets how sign-up assigns user IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// Open loads the stored record, if any, into a new Session.
func Open(ctx context.Context, store Store, opts ...Option) (*Session, error) {
	s := &Session{
		store:  store,
		clock:  clockwork.NewRealClock(),
		delay:  DefaultDelay,
		newID:  uuid.NewString,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	user, ok, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if ok {
		s.user = &user
		s.logger.Debug("session restored", "user_id", user.ID)
	}
	return s, nil
}

// SignIn accepts any non-empty email and password. The display name is the
// email's local part and the ID is stable per email.
func (s *Session) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	if err := roundtrip.Wait(ctx, s.clock, s.delay); err != nil {
		return domain.User{}, err
	}
	if email == "" || password == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	user := domain.User{
		ID:    signInID(email),
		Email: email,
		Name:  domain.EmailLocalPart(email),
	}
	if err := s.set(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("signed in", "user_id", user.ID)
	return user, nil
}

// SignUp accepts any non-empty email, password, and name and assigns a fresh ID.
func (s *Session) SignUp(ctx context.Context, email, password, name string) (domain.User, error) {
	if err := roundtrip.Wait(ctx, s.clock, s.delay); err != nil {
		return domain.User{}, err
	}
	if email == "" || password == "" || name == "" {
		return domain.User{}, domain.ErrMissingFields
	}

	user := domain.User{ID: s.newID(), Email: email, Name: name}
	if err := s.set(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("signed up", "user_id", user.ID)
	return user, nil
}

// SignOut clears the record. Signing out without a session is a no-op
// apart from clearing the store.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.logger.Info("signed out")
	return nil
}

// Authenticated reports whether a record is present.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the current record.
func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// DisplayName returns the signed-in user's name, or "" when signed out.
func (s *Session) DisplayName() string {
	u, _ := s.User()
	return u.Name
}

func (s *Session) set(ctx context.Context, user domain.User) error {
	if err := s.store.Save(ctx, user); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

func signInID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}
