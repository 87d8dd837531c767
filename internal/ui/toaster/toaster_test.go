package toaster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View(40))
}

func TestShow(t *testing.T) {
	m, cmd := New().Show("No markers to undo", StyleWarn, time.Millisecond)

	require.NotNil(t, cmd)
	assert.True(t, m.Visible())
	assert.Contains(t, m.View(60), "No markers to undo")
	assert.Contains(t, m.View(60), "⚠️")
}

func TestDismiss_MatchingGeneration(t *testing.T) {
	m, cmd := New().Show("Undone: Books", StyleInfo, time.Millisecond)

	msg, ok := cmd().(DismissMsg)
	require.True(t, ok)

	m = m.Update(msg)
	assert.False(t, m.Visible())
	assert.Empty(t, m.View(40))
}

func TestDismiss_StaleGenerationIgnored(t *testing.T) {
	m, first := New().Show("first", StyleSuccess, time.Millisecond)
	m, _ = m.Show("second", StyleError, time.Millisecond)

	m = m.Update(first().(DismissMsg))

	assert.True(t, m.Visible())
	assert.Equal(t, "second", m.Message())
	assert.Contains(t, m.View(40), "❌")
}

func TestView_Styles(t *testing.T) {
	tests := []struct {
		style Style
		emoji string
	}{
		{StyleSuccess, "✅"},
		{StyleError, "❌"},
		{StyleInfo, "ℹ️"},
		{StyleWarn, "⚠️"},
	}
	for _, tt := range tests {
		m, _ := New().Show("msg", tt.style, time.Second)
		assert.Contains(t, m.View(30), tt.emoji)
	}
}
