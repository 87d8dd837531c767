package disambiguator

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datasync/keymarker/internal/history"
	"github.com/datasync/keymarker/internal/log"
)

func TestTranscript_Lines(t *testing.T) {
	var out, info bytes.Buffer
	tr := NewTranscript(&out, &info)

	tr.Write(Notice{Kind: NoticeCommitted, Marker: "Singing", Annotation: "keys: si"})
	tr.Write(Notice{Kind: NoticeCommitted, Marker: "Plain"})
	tr.Write(Notice{Kind: NoticeUndo, Marker: "UNDO_Singing", Target: "Singing", UndoCount: 1, HistoryLen: 3})
	tr.Write(Notice{Kind: NoticeSequence, Keys: "s"})
	tr.Write(Notice{Kind: NoticeUndoExhausted, Message: "No markers to undo!"})

	require.Equal(t,
		"Sent marker: Singing (keys: si)\n"+
			"Sent marker: Plain\n"+
			"UNDOING: Singing (sent UNDO_Singing)\n"+
			"Undo count: 1/3\n",
		out.String())
	require.Equal(t, "No markers to undo!\n", info.String())
}

func TestTranscript_History(t *testing.T) {
	var out, info bytes.Buffer
	tr := NewTranscript(&out, &info)

	tr.Write(Notice{Kind: NoticeHistory})
	require.Equal(t, "No marker history available\n", info.String())

	info.Reset()
	tr.Write(Notice{Kind: NoticeHistory, History: []history.ViewEntry{
		{Entry: history.Entry{Marker: "Books"}, Position: 2, Undone: true},
		{Entry: history.Entry{Marker: "Test"}, Position: 1},
	}})
	require.Equal(t,
		"\n--- Recent Marker History ---\n"+
			"2: Books (UNDONE)\n"+
			"1: Test\n"+
			"-----------------------------\n\n",
		info.String())
	require.Empty(t, out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestTranscript_LogsWriteFailure(t *testing.T) {
	var logs bytes.Buffer
	log.InitWriter(&logs)
	t.Cleanup(log.Reset)

	NewTranscript(failingWriter{}, failingWriter{}).Write(Notice{Kind: NoticeCommitted, Marker: "Books"})

	require.Contains(t, logs.String(), "Transcript write failed notice=committed error=closed pipe")
}

func TestTranscript_FollowsTheLoop(t *testing.T) {
	var out bytes.Buffer
	tr := NewTranscript(&out, &out)
	h := newHarness(t, WithObserver(tr.Write))

	h.press("im")
	h.question()
	h.prompter.answers <- "kids laughed"
	h.awaitLoop()
	h.press("un")

	require.Equal(t,
		"Sent marker: InterestingMoment_kids laughed (note: kids laughed)\n"+
			"UNDOING: InterestingMoment_kids laughed (sent UNDO_InterestingMoment_kids laughed)\n"+
			"Undo count: 1/1\n",
		out.String())
}
