// Package debounce provides a single-shot, cancelable delayed action.
package debounce

import (
	"sync"
	"time"
)

// Timer runs at most one armed action. Arming replaces any earlier arm, and
// Cancel suppresses an action that has not started. A fire and a concurrent
// Cancel resolve to exactly one outcome: either the action runs in full or
// it never starts.
type Timer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	armed bool
}

// New creates an idle timer. The zero value is also ready to use.
func New() *Timer {
	return &Timer{}
}

// Arm schedules action to run once after delay, cancelling any pending arm.
func (t *Timer) Arm(delay time.Duration, action func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	t.armed = true
	gen := t.gen
	t.timer = time.AfterFunc(delay, func() { t.fire(gen, action) })
}

// Cancel suppresses the pending action, if any. Safe to call at any time.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Armed reports whether an action is pending.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

func (t *Timer) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	// Bumping the generation invalidates a callback already past Stop.
	t.gen++
	t.armed = false
}

func (t *Timer) fire(gen uint64, action func()) {
	t.mu.Lock()
	if !t.armed || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.armed = false
	t.timer = nil
	t.mu.Unlock()

	action()
}
