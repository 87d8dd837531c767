package input

import "sync"

// Stream is a channel-backed key source. Producers Send or TrySend events;
// the consumer reads Keys until it is closed, then checks Err.
type Stream struct {
	mu     sync.RWMutex
	once   sync.Once
	ch     chan KeyEvent
	done   chan struct{}
	closed bool
	err    error
}

// NewStream creates a stream buffering up to size events.
func NewStream(size int) *Stream {
	return &Stream{
		ch:   make(chan KeyEvent, size),
		done: make(chan struct{}),
	}
}

// Keys returns the event channel. It is closed by Close.
func (s *Stream) Keys() <-chan KeyEvent {
	return s.ch
}

// Send blocks until ev is buffered or the stream is closed.
// It reports whether ev was accepted.
func (s *Stream) Send(ev KeyEvent) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	case <-s.done:
		return false
	}
}

// TrySend buffers ev without blocking. It reports false when the stream is
// closed or the buffer is full.
func (s *Stream) TrySend(ev KeyEvent) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// Close ends the stream. A non-nil err is reported by Err as the reason the
// source failed. Only the first Close has any effect. Blocked senders are
// released before the event channel is closed.
func (s *Stream) Close(err error) {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		s.err = err
		close(s.ch)
	})
}

// Done is closed once the stream is closed.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the error passed to Close.
func (s *Stream) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
