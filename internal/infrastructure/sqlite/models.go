package sqlite

import (
	"time"

	"github.com/datasync/keymarker/internal/sessions/domain"
)

// SessionModel is the row shape of the sessions table.
// Times are Unix milliseconds.
type SessionModel struct {
	ID        int64
	GUID      string
	Host      string
	State     string
	StartedAt int64
	EndedAt   *int64 // nullable
	UpdatedAt int64
}

// MarkerModel is the row shape of the markers table.
type MarkerModel struct {
	ID         int64
	SessionID  int64
	Seq        int
	Name       string
	Kind       string
	RecordedAt int64
}

func toSessionModel(s *domain.Session) *SessionModel {
	m := &SessionModel{
		ID:        s.ID(),
		GUID:      s.GUID(),
		Host:      s.Host(),
		State:     string(s.State()),
		StartedAt: s.StartedAt().UnixMilli(),
		UpdatedAt: s.UpdatedAt().UnixMilli(),
	}
	if s.EndedAt() != nil {
		ended := s.EndedAt().UnixMilli()
		m.EndedAt = &ended
	}
	return m
}

func (m *SessionModel) toDomain() *domain.Session {
	var endedAt *time.Time
	if m.EndedAt != nil {
		t := time.UnixMilli(*m.EndedAt)
		endedAt = &t
	}
	return domain.ReconstituteSession(
		m.ID,
		m.GUID,
		m.Host,
		domain.SessionState(m.State),
		time.UnixMilli(m.StartedAt),
		endedAt,
		time.UnixMilli(m.UpdatedAt),
	)
}

func toMarkerModel(mk *domain.Marker) *MarkerModel {
	return &MarkerModel{
		ID:         mk.ID(),
		SessionID:  mk.SessionID(),
		Seq:        mk.Seq(),
		Name:       mk.Name(),
		Kind:       string(mk.Kind()),
		RecordedAt: mk.RecordedAt().UnixMilli(),
	}
}

func (m *MarkerModel) toDomain() *domain.Marker {
	return domain.ReconstituteMarker(
		m.ID,
		m.SessionID,
		m.Seq,
		m.Name,
		domain.MarkerKind(m.Kind),
		time.UnixMilli(m.RecordedAt),
	)
}
