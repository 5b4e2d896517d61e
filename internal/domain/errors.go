package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound        = errors.New("domain: not found")
	ErrBusy            = errors.New("domain: operation already in progress")
	ErrInvalidInitials = errors.New("domain: initials must be exactly 3 letters A-Z")
	ErrEmptyTitle      = errors.New("domain: title is required")
	ErrNoActiveSprint  = errors.New("domain: no current sprint")
)

// BackendError is a tracker-reported logical failure: the response arrived
// but its success flag was false. Callers treat it the same as a transport
// failure; the message is what gets surfaced to the user.
type BackendError struct {
	Op      string // tracker operation, e.g. "moveTask"
	Message string // human-readable message from the tracker
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return e.Op + ": request failed"
	}
	return e.Op + ": " + e.Message
}

// AsBackendError unwraps a BackendError from an error chain, if present.
func AsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
