// Package sessions records every emitted marker against a persistent
// recording session.
package sessions

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/datasync/keymarker/internal/clock"
	"github.com/datasync/keymarker/internal/log"
	"github.com/datasync/keymarker/internal/sessions/domain"
)

// DefaultQueueSize bounds markers waiting to be written.
const DefaultQueueSize = 256

// Recorder is an emitter that stores markers on a background writer so a
// slow disk never delays the key loop.
type Recorder struct {
	sessions domain.SessionRepository
	markers  domain.MarkerRepository
	clock    clock.Clock
	session  *domain.Session

	mu     sync.Mutex
	seq    int
	closed bool
	queue  chan *domain.Marker
	wg     sync.WaitGroup

	dropped atomic.Uint64
	failed  atomic.Uint64
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderClock sets the clock used for session start and end times.
func WithRecorderClock(c clock.Clock) RecorderOption {
	return func(r *Recorder) {
		r.clock = c
	}
}

// WithQueueSize sets how many markers may wait for the writer.
func WithQueueSize(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.queue = make(chan *domain.Marker, n)
		}
	}
}

// StartRecorder creates a new session for host and starts the writer.
func StartRecorder(ctx context.Context, sessions domain.SessionRepository, markers domain.MarkerRepository, host string, opts ...RecorderOption) (*Recorder, error) {
	r := &Recorder{
		sessions: sessions,
		markers:  markers,
		clock:    clock.RealClock{},
		queue:    make(chan *domain.Marker, DefaultQueueSize),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.session = domain.NewSession(uuid.NewString(), host, r.clock.Now())
	if err := sessions.Save(ctx, r.session); err != nil {
		return nil, fmt.Errorf("start recording session: %w", err)
	}
	log.Info(log.CatDB, "Recording session started", "guid", r.session.GUID(), "host", host)

	r.wg.Add(1)
	go r.write()
	return r, nil
}

// Session returns the session being recorded.
func (r *Recorder) Session() *domain.Session {
	return r.session
}

// Emit queues marker for storage. Markers arriving after Close or while the
// queue is full are dropped and logged.
func (r *Recorder) Emit(marker string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.dropped.Add(1)
		return
	}
	r.seq++
	m := domain.NewMarker(r.session.ID(), r.seq, marker, at)
	select {
	case r.queue <- m:
	default:
		r.dropped.Add(1)
		log.Warn(log.CatDB, "Recorder queue full, dropping marker", "marker", marker)
	}
}

// Dropped returns how many markers were not queued.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Failed returns how many queued markers could not be written.
func (r *Recorder) Failed() uint64 {
	return r.failed.Load()
}

func (r *Recorder) write() {
	defer r.wg.Done()
	for m := range r.queue {
		if err := r.markers.Append(context.Background(), m); err != nil {
			r.failed.Add(1)
			log.ErrorErr(log.CatDB, "Failed to record marker", err, "marker", m.Name())
		}
	}
}

// Close flushes queued markers and ends the session in state.
// Calling Close again is a no-op.
func (r *Recorder) Close(ctx context.Context, state domain.SessionState) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()

	if err := r.session.End(state, r.clock.Now()); err != nil {
		return err
	}
	if err := r.sessions.Save(ctx, r.session); err != nil {
		return fmt.Errorf("end recording session: %w", err)
	}
	log.Info(log.CatDB, "Recording session ended",
		"guid", r.session.GUID(), "state", state.String(), "markers", r.seq,
		"dropped", r.dropped.Load(), "failed", r.failed.Load())
	return nil
}
