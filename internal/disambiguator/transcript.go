package disambiguator

import (
	"fmt"
	"io"

	"github.com/datasync/keymarker/internal/log"
)

// Transcript writes notices as the classic console lines. Emitted and undone
// markers go to out; undo reports and the history view go to info.
//
// Attach it with WithObserver so lines come out in loop order and none are
// lost to a slow subscriber.
type Transcript struct {
	out  io.Writer
	info io.Writer
}

// NewTranscript creates a Transcript. info may equal out.
func NewTranscript(out, info io.Writer) *Transcript {
	return &Transcript{out: out, info: info}
}

// Write renders one notice. Kinds without console text are skipped.
func (t *Transcript) Write(n Notice) {
	var err error
	switch n.Kind {
	case NoticeCommitted:
		if n.Annotation != "" {
			_, err = fmt.Fprintf(t.out, "Sent marker: %s (%s)\n", n.Marker, n.Annotation)
		} else {
			_, err = fmt.Fprintf(t.out, "Sent marker: %s\n", n.Marker)
		}
	case NoticeUndo:
		_, err = fmt.Fprintf(t.out, "UNDOING: %s (sent %s)\nUndo count: %d/%d\n",
			n.Target, n.Marker, n.UndoCount, n.HistoryLen)
	case NoticeUndoExhausted:
		_, err = fmt.Fprintln(t.info, n.Message)
	case NoticeHistory:
		err = t.writeHistory(n)
	}
	if err != nil {
		log.ErrorErr(log.CatEmit, "Transcript write failed", err, "notice", n.Kind.String())
	}
}

func (t *Transcript) writeHistory(n Notice) error {
	if len(n.History) == 0 {
		_, err := fmt.Fprintln(t.info, "No marker history available")
		return err
	}
	if _, err := fmt.Fprint(t.info, "\n--- Recent Marker History ---\n"); err != nil {
		return err
	}
	for _, e := range n.History {
		status := ""
		if e.Undone {
			status = " (UNDONE)"
		}
		if _, err := fmt.Fprintf(t.info, "%d: %s%s\n", e.Position, e.Marker, status); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(t.info, "-----------------------------\n\n")
	return err
}
