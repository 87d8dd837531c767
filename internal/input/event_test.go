package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyEvent_Letter(t *testing.T) {
	tests := []struct {
		name   string
		event  KeyEvent
		want   byte
		wantOK bool
	}{
		{"lowercase", Char('s'), 's', true},
		{"uppercase folds", Char('S'), 's', true},
		{"digit", Char('7'), 0, false},
		{"symbol", Char('/'), 0, false},
		{"non ascii", Char('é'), 0, false},
		{"special", Key(SpecialBackspace), 0, false},
		{"release keeps letter", Char('u').Released(), 'u', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.event.Letter()
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestKeyEvent_String(t *testing.T) {
	require.Equal(t, "a", Char('a').String())
	require.Equal(t, "quit", Key(SpecialQuit).String())
	require.Equal(t, "release:history", Key(SpecialHistory).Released().String())
}

func TestParseSpecial(t *testing.T) {
	s, ok := ParseSpecial("history")
	require.True(t, ok)
	require.Equal(t, SpecialHistory, s)

	_, ok = ParseSpecial("none")
	require.False(t, ok, "none is not a key")

	_, ok = ParseSpecial("f13")
	require.False(t, ok)
}

func TestKeyEvent_Is(t *testing.T) {
	require.True(t, Key(SpecialQuit).Is(SpecialQuit))
	require.False(t, Char('q').Is(SpecialQuit))
	require.False(t, Char('q').IsSpecial())
}
