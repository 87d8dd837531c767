// Package console is the interactive terminal front end. Its Bridge is both
// the key source and the label prompter of a disambiguator, and its Model
// renders the marker feed, notices and prompts.
package console

import (
	"context"

	"github.com/datasync/keymarker/internal/input"
	"github.com/datasync/keymarker/internal/log"
)

// keyBuffer bounds keys typed faster than the loop drains them.
const keyBuffer = 64

// promptRequest is one outstanding RequestLine call.
type promptRequest struct {
	question string
	reply    chan string
}

// Bridge connects the Bubble Tea model to a disambiguator running on
// another goroutine.
type Bridge struct {
	stream   *input.Stream
	requests chan promptRequest
}

// NewBridge creates an open bridge.
func NewBridge() *Bridge {
	return &Bridge{
		stream:   input.NewStream(keyBuffer),
		requests: make(chan promptRequest),
	}
}

// Keys implements disambiguator.KeySource.
func (b *Bridge) Keys() <-chan input.KeyEvent {
	return b.stream.Keys()
}

// Err implements disambiguator.KeySource.
func (b *Bridge) Err() error {
	return b.stream.Err()
}

// Close ends the key source. err is reported by Err; nil is a clean end.
func (b *Bridge) Close(err error) {
	b.stream.Close(err)
}

// RequestLine implements disambiguator.Prompter. It hands the question to
// the model and waits for the operator's line or ctx.
func (b *Bridge) RequestLine(ctx context.Context, question string) (string, error) {
	req := promptRequest{question: question, reply: make(chan string, 1)}
	select {
	case b.requests <- req:
	case <-b.stream.Done():
		return "", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case line := <-req.reply:
		return line, nil
	case <-b.stream.Done():
		return "", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// send forwards a key without blocking the UI.
func (b *Bridge) send(ev input.KeyEvent) {
	if !b.stream.TrySend(ev) {
		log.Warn(log.CatUI, "Dropped key", "key", ev.String())
	}
}
