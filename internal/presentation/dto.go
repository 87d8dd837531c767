package presentation

import (
	"sort"
	"time"

	"github.com/datasync/keymarker/internal/chord"
	"github.com/datasync/keymarker/internal/sessions"
)

// BindingDTO represents one chord table entry for presentation
type BindingDTO struct {
	Keys     string `json:"keys"`
	Marker   string `json:"marker"`
	Kind     string `json:"kind"`
	Prompt   string `json:"prompt,omitempty"`
	Question string `json:"question,omitempty"`
	Deferred bool   `json:"deferred,omitempty"`
	Prefix   bool   `json:"prefix"` // single key that also starts a chord
}

// BindingsDTO is the whole table plus the timings that govern it.
type BindingsDTO struct {
	SequenceTimeout string       `json:"sequence_timeout"`
	DebounceWindow  string       `json:"debounce_window"`
	Bindings        []BindingDTO `json:"bindings"`
}

// FromTable converts a chord table to DTOs, singles first then chords,
// each group sorted by keys.
func FromTable(table *chord.Table, questions map[string]string) []BindingDTO {
	bindings := table.Bindings()
	sort.SliceStable(bindings, func(i, j int) bool {
		if len(bindings[i].Keys) != len(bindings[j].Keys) {
			return len(bindings[i].Keys) < len(bindings[j].Keys)
		}
		return bindings[i].Keys < bindings[j].Keys
	})

	out := make([]BindingDTO, 0, len(bindings))
	for _, b := range bindings {
		dto := BindingDTO{
			Keys:     b.Keys,
			Marker:   b.Spec.Name,
			Kind:     b.Spec.Kind.String(),
			Prompt:   b.Spec.Prompt,
			Deferred: b.Spec.Deferred,
		}
		if b.Spec.Prompt != "" {
			dto.Question = questions[b.Spec.Prompt]
		}
		if !b.IsChord() {
			dto.Prefix = table.IsPrefix(b.Keys[0])
		}
		out = append(out, dto)
	}
	return out
}

// MarkerDTO represents one recorded marker
type MarkerDTO struct {
	Seq        int       `json:"seq"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	RecordedAt time.Time `json:"recorded_at"`
	OffsetMS   int64     `json:"offset_ms"`
	Undone     bool      `json:"undone,omitempty"`
}

// TimelineDTO represents a recorded session and its markers
type TimelineDTO struct {
	GUID      string      `json:"guid"`
	Host      string      `json:"host"`
	State     string      `json:"state"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   *time.Time  `json:"ended_at,omitempty"`
	Markers   []MarkerDTO `json:"markers"`
	Effective []string    `json:"effective"` // event marker names with undo applied
}

// FromTimeline converts a loaded timeline to a DTO
func FromTimeline(t *sessions.Timeline) TimelineDTO {
	s := t.Session
	markers := make([]MarkerDTO, 0, len(t.Entries))
	for _, e := range t.Entries {
		markers = append(markers, MarkerDTO{
			Seq:        e.Marker.Seq(),
			Name:       e.Marker.Name(),
			Kind:       string(e.Marker.Kind()),
			RecordedAt: e.Marker.RecordedAt().UTC(),
			OffsetMS:   e.Offset.Milliseconds(),
			Undone:     e.Undone,
		})
	}

	effective := make([]string, 0, len(t.Entries))
	for _, e := range t.Effective() {
		effective = append(effective, e.Marker.Name())
	}

	var ended *time.Time
	if at := s.EndedAt(); at != nil {
		u := at.UTC()
		ended = &u
	}

	return TimelineDTO{
		GUID:      s.GUID(),
		Host:      s.Host(),
		State:     s.State().String(),
		StartedAt: s.StartedAt().UTC(),
		EndedAt:   ended,
		Markers:   markers,
		Effective: effective,
	}
}
