package disambiguator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/datasync/keymarker/internal/chord"
	"github.com/datasync/keymarker/internal/clock"
	"github.com/datasync/keymarker/internal/debounce"
	"github.com/datasync/keymarker/internal/emitter"
	"github.com/datasync/keymarker/internal/history"
	"github.com/datasync/keymarker/internal/input"
	"github.com/datasync/keymarker/internal/log"
	"github.com/datasync/keymarker/internal/pubsub"
)

const (
	// DefaultSequenceTimeout is how long a partial sequence stays usable.
	DefaultSequenceTimeout = time.Second
	// DefaultDebounceWindow is how long a prefix key waits for a second key.
	DefaultDebounceWindow = 300 * time.Millisecond

	// loopQueueCapacity bounds timer fires and prompt results waiting for the
	// loop. At most one of each is outstanding, so this never fills.
	loopQueueCapacity = 8
)

// ErrStopped is returned by Run when it is called on a stopped disambiguator.
var ErrStopped = errors.New("disambiguator stopped")

// KeySource delivers key events. Keys is closed when the source ends; Err
// then reports why, or nil for a clean end.
type KeySource interface {
	Keys() <-chan input.KeyEvent
	Err() error
}

// Prompter asks the operator a question and returns one line of text.
// RequestLine must return promptly once ctx is done.
type Prompter interface {
	RequestLine(ctx context.Context, question string) (string, error)
}

// Scheduler runs one delayed action at a time. Arm replaces any earlier
// action; Cancel suppresses one that has not started.
type Scheduler interface {
	Arm(delay time.Duration, action func())
	Cancel()
}

// State is the coarse loop state.
type State int

const (
	StateIdle State = iota
	StatePending
	StateAwaitingLabel
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateAwaitingLabel:
		return "awaiting_label"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config holds the timing and prompt settings.
type Config struct {
	SequenceTimeout time.Duration
	DebounceWindow  time.Duration
	HistoryCapacity int
	// Prompts maps a prompt kind to the question shown to the operator.
	Prompts map[string]string
}

// DefaultConfig returns the stock timings and prompt questions.
func DefaultConfig() Config {
	return Config{
		SequenceTimeout: DefaultSequenceTimeout,
		DebounceWindow:  DefaultDebounceWindow,
		HistoryCapacity: history.DefaultCapacity,
		Prompts:         chord.DefaultPrompts(),
	}
}

// Option configures a Disambiguator.
type Option func(*Disambiguator)

// WithClock sets the time source used for staleness and timestamps.
func WithClock(c clock.Clock) Option {
	return func(d *Disambiguator) {
		d.clock = c
	}
}

// WithScheduler replaces the debounce timer.
func WithScheduler(s Scheduler) Option {
	return func(d *Disambiguator) {
		d.timer = s
	}
}

// WithNotices publishes status notices on broker.
func WithNotices(broker *pubsub.Broker[Notice]) Option {
	return func(d *Disambiguator) {
		d.notices = broker
	}
}

// WithObserver calls fn with every notice, synchronously on the loop
// goroutine and in order. fn must not block.
func WithObserver(fn func(Notice)) Option {
	return func(d *Disambiguator) {
		d.observers = append(d.observers, fn)
	}
}

// loopEvent is anything posted back onto the loop from another goroutine.
type loopEvent interface {
	isLoopEvent()
}

// timerFired is posted by the debounce timer for the pending key with id.
type timerFired struct {
	id uint64
}

// labelReady is posted when the prompt with id returns.
type labelReady struct {
	id   uint64
	spec chord.MarkerSpec
	text string
	err  error
}

func (timerFired) isLoopEvent() {}
func (labelReady) isLoopEvent() {}

// pendingKey is a prefix key waiting out the debounce window.
type pendingKey struct {
	id   uint64
	key  byte
	spec chord.MarkerSpec
}

// Disambiguator owns the key sequence, the pending decision, the gate and
// the ledger. All of them are touched only by the loop goroutine.
type Disambiguator struct {
	cfg      Config
	table    *chord.Table
	emitter  emitter.Emitter
	prompter Prompter
	clock    clock.Clock
	timer    Scheduler
	notices  *pubsub.Broker[Notice]

	observers []func(Notice)

	seq      *input.Sequence
	ledger   *history.Ledger
	gate     Gate
	state    State
	pending  *pendingKey
	lastKeys string

	nextPendingID uint64
	promptID      uint64
	promptCancel  context.CancelFunc
	promptWG      sync.WaitGroup

	runCtx  context.Context
	loop    chan loopEvent
	stopped chan struct{}
	stop    sync.Once
}

// New creates a disambiguator. Zero timings in cfg fall back to defaults.
func New(cfg Config, table *chord.Table, em emitter.Emitter, prompter Prompter, opts ...Option) *Disambiguator {
	defaults := DefaultConfig()
	if cfg.SequenceTimeout <= 0 {
		cfg.SequenceTimeout = defaults.SequenceTimeout
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = defaults.DebounceWindow
	}
	if cfg.Prompts == nil {
		cfg.Prompts = defaults.Prompts
	}

	d := &Disambiguator{
		cfg:      cfg,
		table:    table,
		emitter:  em,
		prompter: prompter,
		clock:    clock.RealClock{},
		timer:    debounce.New(),
		seq:      input.NewSequence(),
		ledger:   history.NewLedger(cfg.HistoryCapacity),
		runCtx:   context.Background(),
		loop:     make(chan loopEvent, loopQueueCapacity),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes events from src until a quit key, the end of src, or ctx
// cancellation. A quit key or a clean end returns nil and first commits a
// prefix key still waiting out its debounce window; a failed source returns
// its error.
func (d *Disambiguator) Run(ctx context.Context, src KeySource) error {
	if d.state == StateStopped {
		return ErrStopped
	}
	d.runCtx = ctx
	defer d.shutdown()

	keys := src.Keys()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-keys:
			if !ok {
				if err := src.Err(); err != nil {
					log.ErrorErr(log.CatInput, "Key source failed", err)
					return fmt.Errorf("key source: %w", err)
				}
				log.Info(log.CatInput, "Key source ended")
				d.flushPending()
				return nil
			}
			d.handleKey(ev)
			if d.state == StateStopped {
				return nil
			}

		case ev := <-d.loop:
			d.handleLoopEvent(ev)
		}
	}
}

// State returns the loop state. Only meaningful on the loop goroutine or
// after Run returns.
func (d *Disambiguator) State() State {
	return d.state
}

// Ledger exposes the history ledger. Same restrictions as State.
func (d *Disambiguator) Ledger() *history.Ledger {
	return d.ledger
}

// Gated reports whether a label prompt currently holds the gate.
func (d *Disambiguator) Gated() bool {
	return d.gate.Held()
}

func (d *Disambiguator) handleKey(ev input.KeyEvent) {
	if d.state == StateStopped {
		return
	}
	if d.gate.Held() {
		log.Debug(log.CatInput, "Ignoring key while prompt is open", "key", ev.String())
		return
	}
	if ev.Is(input.SpecialQuit) {
		log.Info(log.CatInput, "Quit requested", "action", ev.Action.String())
		d.flushPending()
		d.state = StateStopped
		return
	}
	if ev.Action == input.Release {
		return
	}
	if ev.Is(input.SpecialHistory) {
		d.showHistory()
		return
	}

	ch, ok := ev.Letter()
	if !ok {
		return
	}
	now := d.clock.Now()

	if !d.seq.IsEmpty() && d.seq.IsStale(now, d.cfg.SequenceTimeout) {
		log.Debug(log.CatChord, "Sequence timed out", "keys", d.seq.String())
		d.seq.Reset()
	}
	d.clearPending()
	d.seq.Append(ch, now)

	if d.seq.Len() >= input.MaxChordLength {
		keys := d.seq.Tail(input.MaxChordLength)
		if spec, ok := d.table.Chord(keys); ok {
			log.Debug(log.CatChord, "Chord matched", "keys", keys, "marker", spec.Name)
			d.commit(spec, "keys: "+keys, now)
			return
		}
		if d.seq.Len() > input.MaxChordLength {
			d.seq.Reseed(ch, now)
		}
	}

	if d.seq.Len() == 1 {
		if spec, ok := d.table.Single(ch); ok {
			if d.table.IsPrefix(ch) {
				d.armPending(ch, spec)
			} else {
				d.commit(spec, "key: "+string(ch), now)
				return
			}
		}
	}
	d.publishSequence(now)
}

func (d *Disambiguator) handleLoopEvent(ev loopEvent) {
	if d.state == StateStopped {
		return
	}
	switch ev := ev.(type) {
	case timerFired:
		d.handleTimerFired(ev)
	case labelReady:
		d.handleLabel(ev)
	}
}

// armPending schedules the single-key commit for a key that also starts a
// chord.
func (d *Disambiguator) armPending(ch byte, spec chord.MarkerSpec) {
	d.nextPendingID++
	id := d.nextPendingID
	d.pending = &pendingKey{id: id, key: ch, spec: spec}
	d.state = StatePending
	log.Debug(log.CatChord, "Prefix key pending", "key", string(ch), "window", d.cfg.DebounceWindow.String())
	d.timer.Arm(d.cfg.DebounceWindow, func() {
		d.post(timerFired{id: id})
	})
}

func (d *Disambiguator) clearPending() {
	if d.pending == nil {
		return
	}
	d.timer.Cancel()
	d.pending = nil
	if d.state == StatePending {
		d.state = StateIdle
	}
}

func (d *Disambiguator) handleTimerFired(ev timerFired) {
	p := d.pending
	if p == nil || p.id != ev.id {
		log.Debug(log.CatChord, "Dropping stale debounce fire")
		return
	}
	d.pending = nil
	d.state = StateIdle
	if d.gate.Held() || d.seq.String() != string(p.key) {
		d.publishSequence(d.clock.Now())
		return
	}
	d.commit(p.spec, "key: "+string(p.key), d.clock.Now())
}

// flushPending commits the pending prefix key without waiting for its
// window. A prompt binding records only its bare marker since no prompt can
// open on the way out.
func (d *Disambiguator) flushPending() {
	p := d.pending
	if p == nil {
		return
	}
	d.clearPending()
	if d.gate.Held() || d.seq.String() != string(p.key) {
		return
	}
	now := d.clock.Now()
	log.Debug(log.CatChord, "Committing pending key before stop", "key", string(p.key))
	d.seq.Reset()
	if p.spec.Kind == chord.KindUndo {
		d.undo(now)
	} else {
		d.record(p.spec.Name, "key: "+string(p.key), now)
	}
	d.publishSequence(now)
}

// commit runs a matched spec and resets the sequence.
func (d *Disambiguator) commit(spec chord.MarkerSpec, annotation string, now time.Time) {
	d.clearPending()
	d.seq.Reset()

	switch spec.Kind {
	case chord.KindUndo:
		d.undo(now)
	case chord.KindPrompt:
		if !spec.Deferred {
			d.record(spec.Name, annotation, now)
		}
		d.openPrompt(spec)
	default:
		d.record(spec.Name, annotation, now)
	}
	d.publishSequence(now)
}

// record emits marker and appends it to the ledger.
func (d *Disambiguator) record(marker, annotation string, now time.Time) {
	d.emitter.Emit(marker, now)
	d.ledger.Append(history.Entry{Marker: marker, At: now, Annotation: annotation})
	d.ledger.ResetUndoCursor()
	log.Info(log.CatHistory, "Marker committed", "marker", marker, "detail", annotation)
	d.notify(Notice{Kind: NoticeCommitted, At: now, Marker: marker, Annotation: annotation})
}

func (d *Disambiguator) undo(now time.Time) {
	if d.ledger.Len() == 0 {
		d.undoExhausted(now, "No markers to undo!")
		return
	}
	entry, ok := d.ledger.UndoNext()
	if !ok {
		d.undoExhausted(now, "Already undone all available markers!")
		return
	}
	marker := chord.UndoMarker + "_" + entry.Marker
	d.emitter.Emit(marker, now)
	log.Info(log.CatHistory, "Undo emitted", "marker", marker, "undone", d.ledger.UndoCursor())
	d.notify(Notice{
		Kind:       NoticeUndo,
		At:         now,
		Marker:     marker,
		Target:     entry.Marker,
		UndoCount:  d.ledger.UndoCursor(),
		HistoryLen: d.ledger.Len(),
		Message:    fmt.Sprintf("Undid %s (%d of %d)", entry.Marker, d.ledger.UndoCursor(), d.ledger.Len()),
	})
}

func (d *Disambiguator) undoExhausted(now time.Time, msg string) {
	log.Info(log.CatHistory, msg)
	d.notify(Notice{Kind: NoticeUndoExhausted, At: now, Message: msg})
}

func (d *Disambiguator) showHistory() {
	view := d.ledger.View()
	log.Debug(log.CatHistory, "History view", "entries", len(view), "undone", d.ledger.UndoCursor())
	d.notify(Notice{Kind: NoticeHistory, At: d.clock.Now(), History: view})
}

// openPrompt holds the gate and asks for a label on a separate goroutine.
func (d *Disambiguator) openPrompt(spec chord.MarkerSpec) {
	question := d.cfg.Prompts[spec.Prompt]
	if question == "" {
		question = spec.Name + ": "
	}

	d.gate.Hold()
	d.state = StateAwaitingLabel
	d.promptID++
	id := d.promptID

	ctx, cancel := context.WithCancel(d.runCtx)
	d.promptCancel = cancel

	log.Debug(log.CatPrompt, "Prompt opened", "marker", spec.Name, "prompt", spec.Prompt)
	d.notify(Notice{
		Kind:     NoticePromptOpened,
		At:       d.clock.Now(),
		Marker:   spec.Name,
		Prompt:   spec.Prompt,
		Question: question,
	})

	d.promptWG.Add(1)
	go func() {
		defer d.promptWG.Done()
		text, err := d.prompter.RequestLine(ctx, question)
		d.post(labelReady{id: id, spec: spec, text: text, err: err})
	}()
}

func (d *Disambiguator) handleLabel(ev labelReady) {
	if ev.id != d.promptID || !d.gate.Held() {
		return
	}
	if d.promptCancel != nil {
		d.promptCancel()
		d.promptCancel = nil
	}

	now := d.clock.Now()
	label := strings.TrimSpace(ev.text)
	if ev.err != nil {
		log.ErrorErr(log.CatPrompt, "Prompt failed", ev.err, "marker", ev.spec.Name)
		label = ""
	}
	switch {
	case label != "":
		d.record(ev.spec.Name+"_"+label, ev.spec.Prompt+": "+label, now)
	case ev.spec.Deferred:
		d.record(ev.spec.Name, "no "+ev.spec.Prompt+" provided", now)
	default:
		log.Debug(log.CatPrompt, "Prompt returned no label", "marker", ev.spec.Name)
	}

	d.gate.Release()
	d.state = StateIdle
	d.seq.Reset()
	d.notify(Notice{Kind: NoticePromptClosed, At: now, Marker: ev.spec.Name, Prompt: ev.spec.Prompt, Label: label})
	d.publishSequence(now)
}

// post hands ev to the loop unless the loop has stopped.
func (d *Disambiguator) post(ev loopEvent) {
	select {
	case d.loop <- ev:
	case <-d.stopped:
	}
}

func (d *Disambiguator) publishSequence(now time.Time) {
	keys := d.seq.String()
	if keys == d.lastKeys {
		return
	}
	d.lastKeys = keys
	d.notify(Notice{Kind: NoticeSequence, At: now, Keys: keys})
}

func (d *Disambiguator) notify(n Notice) {
	for _, fn := range d.observers {
		fn(n)
	}
	if d.notices == nil {
		return
	}
	d.notices.Publish(pubsub.NoticeEvent, n)
}

// shutdown cancels the timer and any open prompt, then waits for the prompt
// goroutine to return. Any pending key left here (ctx cancelled or source
// failed) is dropped.
func (d *Disambiguator) shutdown() {
	d.stop.Do(func() {
		d.state = StateStopped
		d.timer.Cancel()
		d.pending = nil
		close(d.stopped)
		if d.promptCancel != nil {
			d.promptCancel()
			d.promptCancel = nil
		}
		d.promptWG.Wait()
		d.gate.Release()
		log.Info(log.CatInput, "Disambiguator stopped", "history", d.ledger.Len())
		d.notify(Notice{Kind: NoticeStopped, At: d.clock.Now()})
	})
}
