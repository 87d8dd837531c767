package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionState_IsValid(t *testing.T) {
	tests := []struct {
		state   SessionState
		isValid bool
	}{
		{SessionStateRecording, true},
		{SessionStateEnded, true},
		{SessionStateFailed, true},
		{SessionState("invalid"), false},
		{SessionState(""), false},
		{SessionState("ENDED"), false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			require.Equal(t, tt.isValid, tt.state.IsValid())
		})
	}
}

func TestNewSession(t *testing.T) {
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	s := NewSession("guid-1", "studio-pc", start)

	require.Zero(t, s.ID())
	require.Equal(t, "guid-1", s.GUID())
	require.Equal(t, "studio-pc", s.Host())
	require.Equal(t, SessionStateRecording, s.State())
	require.Equal(t, start, s.StartedAt())
	require.Equal(t, start, s.UpdatedAt())
	require.Nil(t, s.EndedAt())
	require.Equal(t, 5*time.Minute, s.Duration(start.Add(5*time.Minute)))
}

func TestSession_End(t *testing.T) {
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	s := NewSession("guid-1", "host", start)

	require.NoError(t, s.End(SessionStateEnded, end))
	require.Equal(t, SessionStateEnded, s.State())
	require.Equal(t, end, *s.EndedAt())
	require.Equal(t, 45*time.Minute, s.Duration(end.Add(time.Hour)))

	err := s.End(SessionStateFailed, end)
	var transition *InvalidStateTransitionError
	require.True(t, errors.As(err, &transition))
	require.Equal(t, SessionStateEnded, transition.From)
}

func TestSession_EndRequiresTerminalState(t *testing.T) {
	s := NewSession("guid-1", "host", time.Now())
	require.Error(t, s.End(SessionStateRecording, time.Now()))
	require.Equal(t, SessionStateRecording, s.State())
}

func TestClassifyMarker(t *testing.T) {
	require.Equal(t, MarkerKindEvent, ClassifyMarker("Books"))
	require.Equal(t, MarkerKindEvent, ClassifyMarker("NewActivity_Reading"))
	require.Equal(t, MarkerKindUndo, ClassifyMarker("UNDO_Books"))

	m := NewMarker(7, 3, "UNDO_NewActivity_Reading", time.Now())
	name, ok := m.UndoneName()
	require.True(t, ok)
	require.Equal(t, "NewActivity_Reading", name)

	_, ok = NewMarker(7, 4, "Books", time.Now()).UndoneName()
	require.False(t, ok)
}

func TestSessionNotFoundError(t *testing.T) {
	err := error(&SessionNotFoundError{GUID: "abc"})
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Equal(t, "session not found: abc", err.Error())
	require.Equal(t, "session not found", (&SessionNotFoundError{}).Error())
}
