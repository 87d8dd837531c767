package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat_Fields(t *testing.T) {
	now := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)
	got := format(now, LevelInfo, CatEmit, "marker sent", "marker", "Books", "kind", "plain")
	require.Equal(t, "2025-12-06T10:45:00 [INFO] [emit] marker sent marker=Books kind=plain\n", got)
}

func TestFormat_OddFieldCount(t *testing.T) {
	now := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)
	got := format(now, LevelWarn, CatInput, "odd", "orphan")
	require.True(t, strings.HasSuffix(got, "odd orphan=<missing>\n"), got)
}

func TestWrite_RespectsLevelAndEnabled(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	SetMinLevel(LevelWarn)
	Debug(CatChord, "hidden")
	Warn(CatChord, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [chord] shown")

	SetEnabled(false)
	Error(CatChord, "muted")
	require.NotContains(t, buf.String(), "muted")
}

func TestErrorErr_AppendsError(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	ErrorErr(CatDB, "insert failed", errors.New("disk full"), "session", "abc")
	ErrorErr(CatDB, "no error", nil)

	out := buf.String()
	require.Contains(t, out, "insert failed session=abc error=disk full")
	require.Contains(t, out, "no error error=<nil>")
}

func TestWrite_NoLoggerIsNoop(t *testing.T) {
	Reset()
	require.NotPanics(t, func() {
		Info(CatUI, "nobody listening")
	})
	require.Nil(t, NewListener(context.Background()))
}

func TestInit_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	t.Cleanup(Reset)

	Info(CatConfig, "loaded", "path", "config.yaml")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] loaded path=config.yaml")
}

func TestNewListener_ReceivesEntries(t *testing.T) {
	InitWriter(&bytes.Buffer{})
	t.Cleanup(Reset)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatHistory, "undo", "marker", "Books")

	msg := listener.Listen()()
	entry, ok := msg.(Entry)
	require.True(t, ok)
	require.Contains(t, entry.Payload, "[history] undo marker=Books")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelInfo, ParseLevel("INFO"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel(" error "))
	require.Equal(t, LevelDebug, ParseLevel("verbose"))
}
