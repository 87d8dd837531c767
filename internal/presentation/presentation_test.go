package presentation

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/datasync/keymarker/internal/chord"
	"github.com/datasync/keymarker/internal/sessions"
	"github.com/datasync/keymarker/internal/sessions/domain"
)

func TestFromTable_DefaultTable(t *testing.T) {
	table := chord.MustNew(chord.Defaults())

	dtos := FromTable(table, chord.DefaultPrompts())
	require.Len(t, dtos, len(chord.Defaults()))

	byKeys := make(map[string]BindingDTO, len(dtos))
	for _, d := range dtos {
		byKeys[d.Keys] = d
	}

	require.Equal(t, BindingDTO{Keys: "x", Marker: "Test", Kind: "plain"}, byKeys["x"])
	require.True(t, byKeys["b"].Prefix, "b starts br")
	require.Equal(t, "prompt", byKeys["a"].Kind)
	require.Equal(t, "activity", byKeys["a"].Prompt)
	require.False(t, byKeys["a"].Deferred)
	require.True(t, byKeys["im"].Deferred)
	require.Equal(t, "Enter activity name: ", byKeys["a"].Question)
	require.Equal(t, "undo", byKeys["un"].Kind)
	require.False(t, byKeys["un"].Prefix)

	// singles sort before chords
	require.Len(t, dtos[0].Keys, 1)
	require.Len(t, dtos[len(dtos)-1].Keys, 2)
}

func TestFromTimeline(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := domain.ReconstituteSession(1, "guid-1", "host", domain.SessionStateEnded, start, ptr(start.Add(time.Minute)), start.Add(time.Minute))
	ms := []*domain.Marker{
		domain.ReconstituteMarker(1, 1, 1, "Books", domain.MarkerKindEvent, start.Add(time.Second)),
		domain.ReconstituteMarker(2, 1, 2, "Test", domain.MarkerKindEvent, start.Add(2*time.Second)),
		domain.ReconstituteMarker(3, 1, 3, "UNDO_Test", domain.MarkerKindUndo, start.Add(3*time.Second)),
	}

	dto := FromTimeline(sessions.BuildTimeline(s, ms))

	require.Equal(t, "guid-1", dto.GUID)
	require.Equal(t, "ended", dto.State)
	require.NotNil(t, dto.EndedAt)
	require.Len(t, dto.Markers, 3)
	require.Equal(t, int64(2000), dto.Markers[1].OffsetMS)
	require.True(t, dto.Markers[1].Undone)
	require.Equal(t, "undo", dto.Markers[2].Kind)
	require.Equal(t, []string{"Books"}, dto.Effective)
}

func TestFormatter_FormatBindings(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	err := f.FormatBindings(BindingsDTO{
		SequenceTimeout: "1s",
		DebounceWindow:  "300ms",
		Bindings:        []BindingDTO{{Keys: "x", Marker: "Test", Kind: "plain"}},
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "\n  \"bindings\": [")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "300ms", decoded["debounce_window"])
	entry := decoded["bindings"].([]any)[0].(map[string]any)
	require.NotContains(t, entry, "prompt")
	require.Equal(t, false, entry["prefix"])
}

func TestFormatter_FormatTimeline(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, NewFormatter(&buf).FormatTimeline(TimelineDTO{
		GUID:      "g",
		StartedAt: start,
		Markers:   []MarkerDTO{},
		Effective: []string{},
	}))

	require.Contains(t, buf.String(), `"started_at": "2026-03-01T09:00:00Z"`)
	require.NotContains(t, buf.String(), "ended_at")
	require.Contains(t, buf.String(), `"markers": []`)
}

func ptr[T any](v T) *T { return &v }
