// Package domain provides the pure domain layer for recording sessions with
// no infrastructure dependencies.
//
// A recording session spans one run of the console. Every marker emitted
// during the run is stored against it so the run can be reviewed later.
package domain

import "time"

// SessionState represents the lifecycle state of a recording session.
type SessionState string

const (
	// SessionStateRecording indicates markers are still being captured.
	SessionStateRecording SessionState = "recording"

	// SessionStateEnded indicates the session finished with a quit key.
	SessionStateEnded SessionState = "ended"

	// SessionStateFailed indicates the key source failed mid-session.
	SessionStateFailed SessionState = "failed"
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	return string(s)
}

// IsValid returns true if the state is a recognized session state.
func (s SessionState) IsValid() bool {
	switch s {
	case SessionStateRecording, SessionStateEnded, SessionStateFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further markers may be recorded.
func (s SessionState) IsTerminal() bool {
	return s == SessionStateEnded || s == SessionStateFailed
}

// Session is a recording session. Fields are unexported; use the
// constructors and getters.
type Session struct {
	id        int64
	guid      string
	host      string
	state     SessionState
	startedAt time.Time
	endedAt   *time.Time
	updatedAt time.Time
}

// NewSession creates a recording session started at startedAt.
// The ID is left as zero; it will be assigned by the persistence layer.
func NewSession(guid, host string, startedAt time.Time) *Session {
	return &Session{
		guid:      guid,
		host:      host,
		state:     SessionStateRecording,
		startedAt: startedAt,
		updatedAt: startedAt,
	}
}

// ReconstituteSession creates a Session from stored data.
func ReconstituteSession(
	id int64,
	guid, host string,
	state SessionState,
	startedAt time.Time,
	endedAt *time.Time,
	updatedAt time.Time,
) *Session {
	return &Session{
		id:        id,
		guid:      guid,
		host:      host,
		state:     state,
		startedAt: startedAt,
		endedAt:   endedAt,
		updatedAt: updatedAt,
	}
}

// ID returns the database identifier, or 0 before the session is saved.
func (s *Session) ID() int64 {
	return s.id
}

// GUID returns the globally unique identifier for this session.
func (s *Session) GUID() string {
	return s.guid
}

// Host returns the machine the session was recorded on.
func (s *Session) Host() string {
	return s.host
}

// State returns the lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

// StartedAt returns when recording began.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// EndedAt returns when recording stopped, or nil while recording.
func (s *Session) EndedAt() *time.Time {
	return s.endedAt
}

// UpdatedAt returns the last modification time.
func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

// Duration returns how long the session ran, measured to now while it is
// still recording.
func (s *Session) Duration(now time.Time) time.Duration {
	if s.endedAt != nil {
		return s.endedAt.Sub(s.startedAt)
	}
	return now.Sub(s.startedAt)
}

// SetID assigns the database identifier after insert.
func (s *Session) SetID(id int64) {
	s.id = id
}

// End moves the session to a terminal state. Ending an already terminal
// session returns InvalidStateTransitionError.
func (s *Session) End(state SessionState, at time.Time) error {
	if !state.IsTerminal() || s.state.IsTerminal() {
		return &InvalidStateTransitionError{From: s.state, To: state}
	}
	s.state = state
	s.endedAt = &at
	s.updatedAt = at
	return nil
}
