package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound matches every SessionNotFoundError via errors.Is.
var ErrSessionNotFound = errors.New("session not found")

// SessionNotFoundError is returned when no session matches a lookup.
type SessionNotFoundError struct {
	GUID string
}

func (e *SessionNotFoundError) Error() string {
	if e.GUID == "" {
		return ErrSessionNotFound.Error()
	}
	return fmt.Sprintf("session not found: %s", e.GUID)
}

// Is reports ErrSessionNotFound as equivalent.
func (e *SessionNotFoundError) Is(target error) bool {
	return target == ErrSessionNotFound
}

// InvalidStateTransitionError is returned for a disallowed state change.
type InvalidStateTransitionError struct {
	From SessionState
	To   SessionState
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid session state transition: %s -> %s", e.From, e.To)
}
