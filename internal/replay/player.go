package replay

import (
	"context"
	"sync"
	"time"

	"github.com/datasync/keymarker/internal/input"
	"github.com/datasync/keymarker/internal/log"
)

// Player is the key source and prompter for a script.
type Player struct {
	script   *Script
	stream   *input.Stream
	trailing time.Duration

	mu        sync.Mutex
	answers   []string
	questions []string
}

// Option configures a Player.
type Option func(*Player)

// WithTrailingWait keeps the source open for d after the last step so a
// prompt opened by the final keys can still be answered.
func WithTrailingWait(d time.Duration) Option {
	return func(p *Player) {
		p.trailing = d
	}
}

// NewPlayer creates a player for s.
func NewPlayer(s *Script, opts ...Option) *Player {
	p := &Player{
		script:  s,
		stream:  input.NewStream(len(s.Steps) + 1),
		answers: append([]string(nil), s.Answers...),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start plays the script on a new goroutine. The key source ends after
// the last step and the trailing wait, or when ctx is done.
func (p *Player) Start(ctx context.Context) {
	go p.play(ctx)
}

func (p *Player) play(ctx context.Context) {
	defer p.stream.Close(nil)

	for i, step := range p.script.Steps {
		if step.Wait > 0 {
			if !sleep(ctx, step.Wait) {
				return
			}
			continue
		}
		for _, ev := range step.events() {
			log.Debug(log.CatInput, "Replaying key", "step", i+1, "key", ev.String())
			if !p.stream.Send(ev) {
				return
			}
		}
	}
	sleep(ctx, p.trailing)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Keys implements disambiguator.KeySource.
func (p *Player) Keys() <-chan input.KeyEvent {
	return p.stream.Keys()
}

// Err implements disambiguator.KeySource.
func (p *Player) Err() error {
	return p.stream.Err()
}

// Stop ends the key source early.
func (p *Player) Stop() {
	p.stream.Close(nil)
}

// RequestLine implements disambiguator.Prompter. It returns the next
// scripted answer, or "" once they run out.
func (p *Player) RequestLine(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.questions = append(p.questions, question)
	if len(p.answers) == 0 {
		log.Debug(log.CatPrompt, "No scripted answer left", "question", question)
		return "", nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

// Questions returns every question asked so far.
func (p *Player) Questions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.questions...)
}
