package domain

import (
	"strings"
	"time"
)

// UndoPrefix starts every undo marker name.
const UndoPrefix = "UNDO_"

// MarkerKind classifies a recorded marker.
type MarkerKind string

const (
	MarkerKindEvent MarkerKind = "event"
	MarkerKindUndo  MarkerKind = "undo"
)

// ClassifyMarker returns the kind implied by a marker name.
func ClassifyMarker(name string) MarkerKind {
	if strings.HasPrefix(name, UndoPrefix) {
		return MarkerKindUndo
	}
	return MarkerKindEvent
}

// Marker is one emitted marker stored against a session.
type Marker struct {
	id         int64
	sessionID  int64
	seq        int
	name       string
	kind       MarkerKind
	recordedAt time.Time
}

// NewMarker creates an unsaved marker. seq orders markers that share a
// timestamp within a session.
func NewMarker(sessionID int64, seq int, name string, recordedAt time.Time) *Marker {
	return &Marker{
		sessionID:  sessionID,
		seq:        seq,
		name:       name,
		kind:       ClassifyMarker(name),
		recordedAt: recordedAt,
	}
}

// ReconstituteMarker creates a Marker from stored data.
func ReconstituteMarker(id, sessionID int64, seq int, name string, kind MarkerKind, recordedAt time.Time) *Marker {
	return &Marker{
		id:         id,
		sessionID:  sessionID,
		seq:        seq,
		name:       name,
		kind:       kind,
		recordedAt: recordedAt,
	}
}

func (m *Marker) ID() int64             { return m.id }
func (m *Marker) SessionID() int64      { return m.sessionID }
func (m *Marker) Seq() int              { return m.seq }
func (m *Marker) Name() string          { return m.name }
func (m *Marker) Kind() MarkerKind      { return m.kind }
func (m *Marker) RecordedAt() time.Time { return m.recordedAt }

// SetID assigns the database identifier after insert.
func (m *Marker) SetID(id int64) {
	m.id = id
}

// UndoneName returns the marker an undo marker refers to.
func (m *Marker) UndoneName() (string, bool) {
	if m.kind != MarkerKindUndo {
		return "", false
	}
	return strings.TrimPrefix(m.name, UndoPrefix), true
}
