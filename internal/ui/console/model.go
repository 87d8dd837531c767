package console

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/datasync/keymarker/internal/clock"
	"github.com/datasync/keymarker/internal/disambiguator"
	"github.com/datasync/keymarker/internal/emitter"
	"github.com/datasync/keymarker/internal/flags"
	"github.com/datasync/keymarker/internal/history"
	"github.com/datasync/keymarker/internal/input"
	"github.com/datasync/keymarker/internal/keys"
	"github.com/datasync/keymarker/internal/labels"
	"github.com/datasync/keymarker/internal/log"
	"github.com/datasync/keymarker/internal/pubsub"
	"github.com/datasync/keymarker/internal/ui/toaster"
)

const defaultFeedLines = 200

// Options wires a Model to the running session. Bridge, Notices and Feed
// are required; the rest are optional.
type Options struct {
	Bridge  *Bridge
	Notices *pubsub.Broker[disambiguator.Notice]
	Feed    *pubsub.Broker[emitter.Marker]
	Labels  *labels.Store
	Flags   *flags.Registry
	// Prompts maps prompt kind to question, used to find a prompt's kind
	// for label suggestions.
	Prompts  map[string]string
	FeedSize int
	Debug    bool // show the live log pane
	Clock    clock.Clock
}

// promptMsg carries a RequestLine call into Update.
type promptMsg promptRequest

// feedLine is one emitted marker in the feed pane.
type feedLine struct {
	name string
	at   time.Time
}

// Model is the console's Bubble Tea model.
type Model struct {
	ctx    context.Context
	bridge *Bridge
	labels *labels.Store
	flags  *flags.Registry
	clock  clock.Clock
	kinds  map[string]string // question -> prompt kind

	notices *pubsub.ContinuousListener[disambiguator.Notice]
	feed    *pubsub.ContinuousListener[emitter.Marker]
	logs    *log.Listener

	input   textinput.Model
	help    help.Model
	toaster toaster.Model

	prompt     *promptRequest
	promptKind string

	lines    []feedLine
	feedSize int
	logLines []string
	pending  string
	history  []history.ViewEntry
	showHist bool

	width    int
	height   int
	stopped  bool
	quitting bool
}

// New creates the model and subscribes to its brokers for the lifetime of
// ctx.
func New(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.KeyMap.AcceptSuggestion = keys.Prompt.Accept
	ti.KeyMap.NextSuggestion = keys.Prompt.NextSug
	ti.KeyMap.PrevSuggestion = keys.Prompt.PrevSug

	kinds := make(map[string]string, len(opts.Prompts))
	for kind, question := range opts.Prompts {
		kinds[question] = kind
	}

	size := opts.FeedSize
	if size <= 0 {
		size = defaultFeedLines
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	m := Model{
		ctx:      ctx,
		bridge:   opts.Bridge,
		labels:   opts.Labels,
		flags:    opts.Flags,
		clock:    clk,
		kinds:    kinds,
		notices:  pubsub.NewContinuousListener(ctx, opts.Notices),
		feed:     pubsub.NewContinuousListener(ctx, opts.Feed),
		input:    ti,
		help:     help.New(),
		toaster:  toaster.New(),
		feedSize: size,
	}
	if opts.Debug {
		m.logs = log.NewListener(ctx)
	}
	return m
}

// Init starts every listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.notices.Listen(), m.feed.Listen(), m.listenPrompts()}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

func (m Model) listenPrompts() tea.Cmd {
	ctx, requests := m.ctx, m.bridge.requests
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case req := <-requests:
			return promptMsg(req)
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case promptMsg:
		return m.openPrompt(promptRequest(msg))

	case pubsub.Event[disambiguator.Notice]:
		return m.handleNotice(msg.Payload)

	case pubsub.Event[emitter.Marker]:
		m.appendFeed(msg.Payload)
		return m, m.feed.Listen()

	case pubsub.Event[string]:
		m.logLines = appendBounded(m.logLines, strings.TrimRight(msg.Payload, "\n"), m.feedSize)
		return m, m.logs.Listen()

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Console.Interrupt) {
		log.Info(log.CatUI, "Interrupted")
		m.answer("")
		m.bridge.Close(nil)
		m.quitting = true
		return m, tea.Quit
	}

	if m.prompt != nil {
		switch {
		case key.Matches(msg, keys.Prompt.Submit):
			m.answer(m.input.Value())
			return m, nil
		case key.Matches(msg, keys.Prompt.Cancel):
			m.answer("")
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	for _, ev := range keyEvents(msg) {
		m.bridge.send(ev)
	}
	return m, nil
}

// keyEvents translates a terminal key into key events. A paste may carry
// several runes.
func keyEvents(msg tea.KeyMsg) []input.KeyEvent {
	switch {
	case key.Matches(msg, keys.Console.Quit):
		return []input.KeyEvent{input.Key(input.SpecialQuit)}
	case key.Matches(msg, keys.Console.History):
		return []input.KeyEvent{input.Key(input.SpecialHistory)}
	case key.Matches(msg, keys.Console.Backspace):
		return []input.KeyEvent{input.Key(input.SpecialBackspace)}
	case key.Matches(msg, keys.Console.Enter):
		return []input.KeyEvent{input.Key(input.SpecialEnter)}
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		runes := msg.Runes
		if msg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		out := make([]input.KeyEvent, 0, len(runes))
		for _, r := range runes {
			out = append(out, input.Char(r))
		}
		return out
	}
	return []input.KeyEvent{input.Key(input.SpecialOther)}
}

func (m Model) openPrompt(req promptRequest) (tea.Model, tea.Cmd) {
	m.prompt = &req
	m.promptKind = m.kinds[req.question]
	m.showHist = false

	m.input.Reset()
	m.input.Prompt = req.question
	m.input.ShowSuggestions = false
	if m.labels != nil && m.flags.Enabled(flags.FlagLabelSuggestions) {
		if recent := m.labels.Recent(m.promptKind); len(recent) > 0 {
			m.input.SetSuggestions(recent)
			m.input.ShowSuggestions = true
		}
	}
	log.Debug(log.CatUI, "Prompt shown", "kind", m.promptKind)
	return m, tea.Batch(m.input.Focus(), m.listenPrompts())
}

// answer replies to the open prompt, if any.
func (m *Model) answer(line string) {
	if m.prompt == nil {
		return
	}
	m.prompt.reply <- line
	m.prompt = nil
	m.input.Blur()
	m.input.Reset()
}

func (m Model) handleNotice(n disambiguator.Notice) (tea.Model, tea.Cmd) {
	next := m.notices.Listen()

	switch n.Kind {
	case disambiguator.NoticeCommitted:
		m.showHist = false
	case disambiguator.NoticeSequence:
		m.pending = n.Keys
	case disambiguator.NoticeHistory:
		m.history = n.History
		m.showHist = true
	case disambiguator.NoticeUndo:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(n.Message, toaster.StyleInfo, toaster.DefaultDuration)
		return m, tea.Batch(next, cmd)
	case disambiguator.NoticeUndoExhausted:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(n.Message, toaster.StyleWarn, toaster.DefaultDuration)
		return m, tea.Batch(next, cmd)
	case disambiguator.NoticePromptClosed:
		if n.Label != "" && m.labels != nil {
			m.labels.Remember(n.Prompt, n.Label)
		}
	case disambiguator.NoticeStopped:
		m.stopped = true
		m.quitting = true
		m.answer("")
		return m, tea.Quit
	}
	return m, next
}

func (m *Model) appendFeed(mk emitter.Marker) {
	m.lines = appendBounded(m.lines, feedLine{name: mk.Name, at: mk.At}, m.feedSize)
}

func appendBounded[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		s = s[len(s)-limit:]
	}
	return s
}

// Prompting reports whether a label prompt is open.
func (m Model) Prompting() bool {
	return m.prompt != nil
}

// Markers returns the names in the feed, oldest first.
func (m Model) Markers() []string {
	out := make([]string, len(m.lines))
	for i, l := range m.lines {
		out[i] = l.name
	}
	return out
}

// Stopped reports whether the disambiguator announced that it stopped.
func (m Model) Stopped() bool {
	return m.stopped
}
