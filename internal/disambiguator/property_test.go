package disambiguator

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/datasync/keymarker/internal/chord"
	"github.com/datasync/keymarker/internal/clock"
	"github.com/datasync/keymarker/internal/history"
	"github.com/datasync/keymarker/internal/input"
)

// plainKeys are single keys that commit immediately in the default table.
var plainKeys = map[rune]string{
	'x': "Test",
	't': "ClassStarted",
	'd': "Dancing",
	'r': "RepeatAfterMe",
	'p': "GetPrizes",
}

func TestCommitUndoMatchesModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clk := clock.NewManual(epoch)
		sched := &fakeScheduler{}
		out := &recorder{}
		d := New(DefaultConfig(), chord.MustNew(chord.Defaults()), out, newChanPrompter(),
			WithClock(clk), WithScheduler(sched))
		defer d.shutdown()

		var (
			model    []string
			cursor   int
			expected []string
		)

		ops := rapid.SliceOfN(rapid.SampledFrom([]rune{'x', 't', 'd', 'r', 'p', 'u'}), 1, 60).Draw(t, "ops")
		for _, key := range ops {
			clk.Advance(2 * time.Second)
			d.handleKey(input.Char(key))

			if key != 'u' {
				name := plainKeys[key]
				expected = append(expected, name)
				model = append(model, name)
				if len(model) > history.DefaultCapacity {
					model = model[1:]
				}
				cursor = 0
				continue
			}

			clk.Advance(DefaultDebounceWindow)
			if !sched.fire() {
				t.Fatalf("undo key did not arm the debounce timer")
			}
			ev := <-d.loop
			d.handleLoopEvent(ev)
			if cursor < len(model) {
				expected = append(expected, chord.UndoMarker+"_"+model[len(model)-1-cursor])
				cursor++
			}
		}

		got := out.all()
		if len(got) != len(expected) {
			t.Fatalf("emitted %d markers, want %d: %v vs %v", len(got), len(expected), got, expected)
		}
		for i := range got {
			if got[i] != expected[i] {
				t.Fatalf("marker %d = %q, want %q", i, got[i], expected[i])
			}
		}
		if d.Ledger().Len() != len(model) {
			t.Fatalf("ledger holds %d, want %d", d.Ledger().Len(), len(model))
		}
		if d.Ledger().UndoCursor() != cursor {
			t.Fatalf("undo cursor %d, want %d", d.Ledger().UndoCursor(), cursor)
		}
	})
}
