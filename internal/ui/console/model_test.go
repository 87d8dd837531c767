package console

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/datasync/keymarker/internal/clock"
	"github.com/datasync/keymarker/internal/disambiguator"
	"github.com/datasync/keymarker/internal/emitter"
	"github.com/datasync/keymarker/internal/flags"
	"github.com/datasync/keymarker/internal/history"
	"github.com/datasync/keymarker/internal/input"
	"github.com/datasync/keymarker/internal/labels"
	"github.com/datasync/keymarker/internal/pubsub"
	"github.com/datasync/keymarker/internal/ui/toaster"
)

var testPrompts = map[string]string{
	"activity": "Enter activity name: ",
	"note":     "What was interesting? ",
}

func newTestModel(t *testing.T, store *labels.Store) Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := New(ctx, Options{
		Bridge:  NewBridge(),
		Notices: pubsub.NewBroker[disambiguator.Notice](),
		Feed:    pubsub.NewBroker[emitter.Marker](),
		Labels:  store,
		Flags:   flags.New(nil),
		Prompts: testPrompts,
		Clock:   clock.NewManual(time.Date(2026, 5, 1, 10, 0, 30, 0, time.UTC)),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func notice(n disambiguator.Notice) pubsub.Event[disambiguator.Notice] {
	return pubsub.Event[disambiguator.Notice]{Type: pubsub.NoticeEvent, Payload: n}
}

func drainKeys(b *Bridge) []input.KeyEvent {
	var out []input.KeyEvent
	for {
		select {
		case ev := <-b.Keys():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestKeyEvents(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected []input.KeyEvent
	}{
		{"esc quits", tea.KeyMsg{Type: tea.KeyEsc}, []input.KeyEvent{input.Key(input.SpecialQuit)}},
		{"f1 history", tea.KeyMsg{Type: tea.KeyF1}, []input.KeyEvent{input.Key(input.SpecialHistory)}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, []input.KeyEvent{input.Key(input.SpecialBackspace)}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []input.KeyEvent{input.Key(input.SpecialEnter)}},
		{"uppercase letter kept as typed", runes("B"), []input.KeyEvent{input.Char('B')}},
		{"pasted runes", runes("si"), []input.KeyEvent{input.Char('s'), input.Char('i')}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []input.KeyEvent{input.Char(' ')}},
		{"arrow is other", tea.KeyMsg{Type: tea.KeyUp}, []input.KeyEvent{input.Key(input.SpecialOther)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, keyEvents(tt.msg))
		})
	}
}

func TestUpdate_ForwardsKeys(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, runes("x"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	require.Equal(t, []input.KeyEvent{input.Char('x'), input.Key(input.SpecialQuit)}, drainKeys(m.bridge))
}

func TestUpdate_PromptSubmit(t *testing.T) {
	m := newTestModel(t, nil)
	req := promptRequest{question: "Enter activity name: ", reply: make(chan string, 1)}

	m, cmd := update(t, m, promptMsg(req))
	require.NotNil(t, cmd)
	require.True(t, m.Prompting())
	require.Equal(t, "activity", m.promptKind)
	require.Contains(t, m.View(), "Enter activity name:")

	m, _ = update(t, m, runes("Reading"))
	require.Empty(t, drainKeys(m.bridge), "keys typed into the prompt are not forwarded")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.Prompting())
	require.Equal(t, "Reading", <-req.reply)
	require.Empty(t, drainKeys(m.bridge))
}

func TestUpdate_PromptCancelAnswersEmpty(t *testing.T) {
	m := newTestModel(t, nil)
	req := promptRequest{question: "What was interesting? ", reply: make(chan string, 1)}

	m, _ = update(t, m, promptMsg(req))
	m, _ = update(t, m, runes("half typed"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	require.False(t, m.Prompting())
	require.Equal(t, "", <-req.reply)
	require.Empty(t, drainKeys(m.bridge), "esc in a prompt does not quit")
}

func TestUpdate_PromptSuggestions(t *testing.T) {
	store := labels.NewStore(time.Hour, 4)
	store.Remember("activity", "Reading")
	m := newTestModel(t, store)

	m, _ = update(t, m, promptMsg(promptRequest{question: "Enter activity name: ", reply: make(chan string, 1)}))
	require.True(t, m.input.ShowSuggestions)

	m.answer("")
	m, _ = update(t, m, promptMsg(promptRequest{question: "What was interesting? ", reply: make(chan string, 1)}))
	require.False(t, m.input.ShowSuggestions, "no labels remembered for note")
}

func TestUpdate_PromptClosedRemembersLabel(t *testing.T) {
	store := labels.NewStore(time.Hour, 4)
	m := newTestModel(t, store)

	_, cmd := update(t, m, notice(disambiguator.Notice{
		Kind:   disambiguator.NoticePromptClosed,
		Marker: "NewActivity",
		Prompt: "activity",
		Label:  "Reading",
	}))

	require.NotNil(t, cmd, "keeps listening")
	require.Equal(t, []string{"Reading"}, store.Recent("activity"))
}

func TestUpdate_FeedAndPending(t *testing.T) {
	m := newTestModel(t, nil)
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	m, _ = update(t, m, pubsub.Event[emitter.Marker]{Type: pubsub.EmittedEvent, Payload: emitter.Marker{Name: "Books", At: at}})
	m, _ = update(t, m, pubsub.Event[emitter.Marker]{Type: pubsub.EmittedEvent, Payload: emitter.Marker{Name: "UNDO_Books", At: at}})
	m, _ = update(t, m, notice(disambiguator.Notice{Kind: disambiguator.NoticeSequence, Keys: "s"}))

	require.Equal(t, []string{"Books", "UNDO_Books"}, m.Markers())
	view := m.View()
	require.Contains(t, view, "10:00:00  Books")
	require.Contains(t, view, "UNDO_Books")
	require.Contains(t, view, " s ")
}

func TestUpdate_FeedIsBounded(t *testing.T) {
	m := newTestModel(t, nil)
	m.feedSize = 2

	for _, name := range []string{"A", "B", "C"} {
		m, _ = update(t, m, pubsub.Event[emitter.Marker]{Payload: emitter.Marker{Name: name}})
	}
	require.Equal(t, []string{"B", "C"}, m.Markers())
}

func TestUpdate_UndoExhaustedToast(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, notice(disambiguator.Notice{
		Kind:    disambiguator.NoticeUndoExhausted,
		Message: "No markers to undo",
	}))

	require.NotNil(t, cmd)
	require.True(t, m.toaster.Visible())
	require.Contains(t, m.View(), "No markers to undo")
}

func TestUpdate_ToastDismiss(t *testing.T) {
	m := newTestModel(t, nil)
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show("Undid Books (1 of 1)", toaster.StyleInfo, time.Millisecond)

	m, _ = update(t, m, cmd())
	require.False(t, m.toaster.Visible())
}

func TestUpdate_HistoryView(t *testing.T) {
	m := newTestModel(t, nil)
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	m, _ = update(t, m, notice(disambiguator.Notice{
		Kind: disambiguator.NoticeHistory,
		History: []history.ViewEntry{
			{Entry: history.Entry{Marker: "Dancing", At: at, Annotation: "key: d"}, Position: 2, Undone: true},
			{Entry: history.Entry{Marker: "Books", At: at, Annotation: "key: b"}, Position: 1},
		},
	}))

	view := m.View()
	require.Contains(t, view, "History (F1)")
	require.Contains(t, view, "Dancing")
	require.Contains(t, view, "(undone)")
	require.Contains(t, view, "30s ago")

	m, _ = update(t, m, notice(disambiguator.Notice{Kind: disambiguator.NoticeCommitted, Marker: "Test"}))
	require.NotContains(t, m.View(), "History (F1)")
}

func TestUpdate_StoppedQuits(t *testing.T) {
	m := newTestModel(t, nil)
	req := promptRequest{question: "Q? ", reply: make(chan string, 1)}
	m, _ = update(t, m, promptMsg(req))

	m, cmd := update(t, m, notice(disambiguator.Notice{Kind: disambiguator.NoticeStopped}))

	require.True(t, m.Stopped())
	require.Equal(t, "", <-req.reply)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Empty(t, m.View())
}

func TestUpdate_InterruptClosesBridge(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.IsType(t, tea.QuitMsg{}, cmd())
	_, ok := <-m.bridge.Keys()
	require.False(t, ok)
	require.NoError(t, m.bridge.Err())
}
