package domain

import (
	"context"
	"errors"
	"time"
)

// Position is a geolocation fix.
type Position struct {
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Accuracy float64   `json:"accuracy"` // meters
	At       time.Time `json:"at"`
}

// AnalysisPayload is what the analysis page submits for a located property.
type AnalysisPayload struct {
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAnalysisPayload stamps pos with the submission time at, in UTC.
func NewAnalysisPayload(pos Position, at time.Time) AnalysisPayload {
	var p AnalysisPayload
	p.Location.Latitude = pos.Lat
	p.Location.Longitude = pos.Lng
	p.Accuracy = pos.Accuracy
	p.Timestamp = at.UTC()
	return p
}

// PositionOptions tunes a location request.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration // zero means no timeout
	MaximumAge   time.Duration // cached fixes younger than this may be reused
}

// DefaultPositionOptions mirrors the request the site makes: high accuracy,
// 10s timeout, fixes up to a minute old.
func DefaultPositionOptions() PositionOptions {
	return PositionOptions{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaximumAge:   time.Minute,
	}
}

// PositionUpdate is one element of a watch stream: a fix or a failure.
type PositionUpdate struct {
	Position Position
	Err      error
}

// Locator reports device coordinates.
type Locator interface {
	// CurrentPosition delivers a single fix.
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)

	// Watch delivers fixes until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context, opts PositionOptions) <-chan PositionUpdate
}

// GeolocationErrorCode classifies a geolocation failure.
type GeolocationErrorCode int

const (
	PermissionDenied GeolocationErrorCode = iota + 1
	PositionUnavailable
	Timeout
	Unsupported
)

func (c GeolocationErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission_denied"
	case PositionUnavailable:
		return "position_unavailable"
	case Timeout:
		return "timeout"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Advisory returns the message shown to the user for this failure.
func (c GeolocationErrorCode) Advisory() string {
	switch c {
	case PermissionDenied:
		return "Location access denied by user"
	case PositionUnavailable:
		return "Location information unavailable"
	case Timeout:
		return "Location request timed out"
	case Unsupported:
		return "Geolocation is not supported by this browser."
	default:
		return "Unable to retrieve location"
	}
}

// GeolocationError is an advisory geolocation failure. None is fatal; the
// user may always retry.
type GeolocationError struct {
	Code GeolocationErrorCode
	Err  error
}

// NewGeolocationError wraps cause with an advisory code.
func NewGeolocationError(code GeolocationErrorCode, cause error) *GeolocationError {
	return &GeolocationError{Code: code, Err: cause}
}

func (e *GeolocationError) Error() string {
	if e.Err != nil {
		return e.Code.Advisory() + ": " + e.Err.Error()
	}
	return e.Code.Advisory()
}

func (e *GeolocationError) Unwrap() error { return e.Err }

// Is matches any *GeolocationError with the same code.
func (e *GeolocationError) Is(target error) bool {
	var t *GeolocationError
	if errors.As(target, &t) {
		return t.Code == e.Code && t.Err == nil
	}
	return false
}

// Retryable is always true: every geolocation failure offers a manual retry.
func (e *GeolocationError) Retryable() bool { return true }

// Sentinel values for errors.Is checks.
var (
	ErrPermissionDenied    = &GeolocationError{Code: PermissionDenied}
	ErrPositionUnavailable = &GeolocationError{Code: PositionUnavailable}
	ErrLocationTimeout     = &GeolocationError{Code: Timeout}
	ErrUnsupported         = &GeolocationError{Code: Unsupported}
)

// AdvisoryFor returns the user-facing message for err, falling back to a
// generic message for errors that are not geolocation failures.
func AdvisoryFor(err error) string {
	var ge *GeolocationError
	if errors.As(err, &ge) {
		return ge.Code.Advisory()
	}
	return "Unable to retrieve location"
}
