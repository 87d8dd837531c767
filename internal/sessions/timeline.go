package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/datasync/keymarker/internal/sessions/domain"
)

// Timeline is a session's markers with undo applied.
type Timeline struct {
	Session *domain.Session
	Entries []TimelineEntry
}

// TimelineEntry is one recorded marker. Offset is measured from session start.
type TimelineEntry struct {
	Marker *domain.Marker
	Offset time.Duration
	// Undone is set on event markers cancelled by a later undo marker.
	Undone bool
}

// Effective returns the event markers that were not undone.
func (t *Timeline) Effective() []TimelineEntry {
	var out []TimelineEntry
	for _, e := range t.Entries {
		if e.Marker.Kind() == domain.MarkerKindEvent && !e.Undone {
			out = append(out, e)
		}
	}
	return out
}

// LoadTimeline reads the session with guid, or the latest session when guid
// is empty.
func LoadTimeline(ctx context.Context, sessions domain.SessionRepository, markers domain.MarkerRepository, guid string) (*Timeline, error) {
	var (
		s   *domain.Session
		err error
	)
	if guid == "" {
		s, err = sessions.Latest(ctx)
	} else {
		s, err = sessions.FindByGUID(ctx, guid)
	}
	if err != nil {
		return nil, err
	}

	ms, err := markers.ListBySession(ctx, s.ID())
	if err != nil {
		return nil, fmt.Errorf("load markers for %s: %w", s.GUID(), err)
	}
	return BuildTimeline(s, ms), nil
}

// BuildTimeline marks, for each undo marker, the latest earlier event marker
// of the same name that is not already undone.
func BuildTimeline(s *domain.Session, ms []*domain.Marker) *Timeline {
	t := &Timeline{Session: s, Entries: make([]TimelineEntry, len(ms))}
	for i, m := range ms {
		t.Entries[i] = TimelineEntry{Marker: m, Offset: m.RecordedAt().Sub(s.StartedAt())}

		target, ok := m.UndoneName()
		if !ok {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			prev := &t.Entries[j]
			if prev.Marker.Kind() == domain.MarkerKindEvent && !prev.Undone && prev.Marker.Name() == target {
				prev.Undone = true
				break
			}
		}
	}
	return t
}
