package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is returned by sign-in when email or password is empty.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingFields is returned by sign-up when any field is empty.
	ErrMissingFields = errors.New("all fields are required")
)

// User is the persisted session record.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Valid reports whether the record identifies someone. A record without an
// email is treated as absent.
func (u User) Valid() bool {
	return u.Email != ""
}

// EmailLocalPart returns the part of an email before the first "@",
// used as the display name when none was supplied.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
