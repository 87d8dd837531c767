package domain

import "context"

// ListFilter provides filtering options for listing sessions.
type ListFilter struct {
	// State filters sessions by their current state.
	// If empty, all states are included.
	State SessionState

	// Limit restricts the number of sessions returned.
	// If 0, no limit is applied.
	Limit int
}

// SessionRepository defines the persistence interface for Session entities.
type SessionRepository interface {
	// Save persists a session. New sessions (ID == 0) are inserted and get
	// their ID set; existing sessions are updated.
	Save(ctx context.Context, session *Session) error

	// FindByGUID retrieves a session by GUID.
	// Returns SessionNotFoundError if no matching session exists.
	FindByGUID(ctx context.Context, guid string) (*Session, error)

	// Latest returns the most recently started session.
	// Returns SessionNotFoundError when there are none.
	Latest(ctx context.Context) (*Session, error)

	// List returns sessions newest first.
	List(ctx context.Context, filter ListFilter) ([]*Session, error)
}

// MarkerRepository defines the persistence interface for Marker entities.
type MarkerRepository interface {
	// Append inserts a marker and sets its ID.
	Append(ctx context.Context, marker *Marker) error

	// ListBySession returns a session's markers in emission order.
	ListBySession(ctx context.Context, sessionID int64) ([]*Marker, error)

	// CountBySession returns how many markers a session holds.
	CountBySession(ctx context.Context, sessionID int64) (int, error)
}
