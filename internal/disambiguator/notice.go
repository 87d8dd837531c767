package disambiguator

import (
	"time"

	"github.com/datasync/keymarker/internal/history"
)

// NoticeKind tags a Notice.
type NoticeKind int

const (
	// NoticeCommitted follows every emitted marker that was recorded in the
	// ledger, including labeled prompt markers.
	NoticeCommitted NoticeKind = iota
	// NoticeUndo follows an emitted undo marker.
	NoticeUndo
	// NoticeUndoExhausted reports an undo with nothing left to undo.
	NoticeUndoExhausted
	// NoticeHistory carries the history view.
	NoticeHistory
	// NoticePromptOpened reports that the gate is held for a label.
	NoticePromptOpened
	// NoticePromptClosed reports that the label prompt finished.
	NoticePromptClosed
	// NoticeSequence reports the in-progress key sequence after it changes.
	NoticeSequence
	// NoticeStopped is published once when the loop exits.
	NoticeStopped
)

var noticeNames = map[NoticeKind]string{
	NoticeCommitted:     "committed",
	NoticeUndo:          "undo",
	NoticeUndoExhausted: "undo_exhausted",
	NoticeHistory:       "history",
	NoticePromptOpened:  "prompt_opened",
	NoticePromptClosed:  "prompt_closed",
	NoticeSequence:      "sequence",
	NoticeStopped:       "stopped",
}

func (k NoticeKind) String() string {
	if name, ok := noticeNames[k]; ok {
		return name
	}
	return "unknown"
}

// Notice is a user-visible status update from the loop. Fields not relevant
// to Kind are left zero.
type Notice struct {
	Kind       NoticeKind
	At         time.Time
	Marker     string
	Annotation string
	// Keys is the pending key sequence for NoticeSequence.
	Keys string
	// Question and Prompt are set for NoticePromptOpened.
	Question string
	Prompt   string
	// Label is the trimmed answer for NoticePromptClosed; empty when the
	// operator submitted nothing.
	Label string
	// Target, UndoCount and HistoryLen are set for NoticeUndo: the undone
	// marker and the cursor position out of the ledger length.
	Target     string
	UndoCount  int
	HistoryLen int
	Message    string
	History    []history.ViewEntry
}
