// Package emitter delivers committed markers to downstream tagging channels.
//
// Emission is fire-and-forget: an Emitter never reports failure to the
// caller. Implementations that can fail log the error and move on.
package emitter

import (
	"time"

	"github.com/datasync/keymarker/internal/log"
	"github.com/datasync/keymarker/internal/pubsub"
)

// Emitter accepts one marker with the time it was committed.
type Emitter interface {
	Emit(marker string, at time.Time)
}

// Func adapts a function to Emitter.
type Func func(marker string, at time.Time)

// Emit calls f.
func (f Func) Emit(marker string, at time.Time) { f(marker, at) }

// Marker is an emitted marker as seen by feed subscribers.
type Marker struct {
	Name string
	At   time.Time
}

// Multi fans each marker out to every emitter in order.
type Multi []Emitter

// Emit forwards to each non-nil emitter.
func (m Multi) Emit(marker string, at time.Time) {
	for _, e := range m {
		if e != nil {
			e.Emit(marker, at)
		}
	}
}

// Feed publishes each marker on a broker so the console can show it.
type Feed struct {
	broker *pubsub.Broker[Marker]
}

// NewFeed creates a Feed publishing on broker.
func NewFeed(broker *pubsub.Broker[Marker]) *Feed {
	return &Feed{broker: broker}
}

// Emit publishes the marker with its commit time.
func (f *Feed) Emit(marker string, at time.Time) {
	f.broker.PublishAt(pubsub.EmittedEvent, Marker{Name: marker, At: at}, at)
}

// Logged wraps an emitter with a debug log line per marker.
type Logged struct {
	next Emitter
}

// WithLogging wraps next.
func WithLogging(next Emitter) *Logged {
	return &Logged{next: next}
}

// Emit logs and forwards.
func (l *Logged) Emit(marker string, at time.Time) {
	log.Debug(log.CatEmit, "Emitting marker", "marker", marker, "at", at.Format(time.RFC3339Nano))
	l.next.Emit(marker, at)
}
