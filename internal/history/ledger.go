// Package history keeps the bounded record of committed markers that undo
// and the history view work from.
package history

import "time"

// DefaultCapacity is how many markers the ledger keeps.
const DefaultCapacity = 10

// Entry is one committed marker.
type Entry struct {
	Marker     string
	At         time.Time
	Annotation string
}

// ViewEntry is an entry as shown in the history view.
// Position counts from 1 for the oldest retained entry.
type ViewEntry struct {
	Entry
	Position int
	Undone   bool
}

// Ledger is a fixed-capacity ring of entries plus an undo cursor: the number
// of most recent entries currently considered undone. Undo never removes an
// entry. A Ledger is owned by a single goroutine.
type Ledger struct {
	ring   []Entry
	head   int // index of the oldest entry
	count  int
	cursor int
}

// NewLedger creates an empty ledger. Capacities below 1 use DefaultCapacity.
func NewLedger(capacity int) *Ledger {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Ledger{ring: make([]Entry, capacity)}
}

// Append records e, evicting the oldest entry when full.
func (l *Ledger) Append(e Entry) {
	capacity := len(l.ring)
	if l.count < capacity {
		l.ring[(l.head+l.count)%capacity] = e
		l.count++
		return
	}
	l.ring[l.head] = e
	l.head = (l.head + 1) % capacity
}

// UndoNext marks the newest not-yet-undone entry as undone and returns it.
// It returns false once every retained entry is undone.
func (l *Ledger) UndoNext() (Entry, bool) {
	if l.cursor >= l.count {
		return Entry{}, false
	}
	e := l.at(l.count - 1 - l.cursor)
	l.cursor++
	return e, true
}

// ResetUndoCursor clears all undone marks.
func (l *Ledger) ResetUndoCursor() {
	l.cursor = 0
}

// UndoCursor returns how many of the most recent entries are undone.
func (l *Ledger) UndoCursor() int {
	return l.cursor
}

// Len returns the number of retained entries.
func (l *Ledger) Len() int {
	return l.count
}

// Capacity returns the maximum number of retained entries.
func (l *Ledger) Capacity() int {
	return len(l.ring)
}

// Last returns the newest entry.
func (l *Ledger) Last() (Entry, bool) {
	if l.count == 0 {
		return Entry{}, false
	}
	return l.at(l.count - 1), true
}

// View returns the entries newest first, tagging the undone ones.
func (l *Ledger) View() []ViewEntry {
	out := make([]ViewEntry, 0, l.count)
	for i := 0; i < l.count; i++ {
		idx := l.count - 1 - i
		out = append(out, ViewEntry{
			Entry:    l.at(idx),
			Position: idx + 1,
			Undone:   i < l.cursor,
		})
	}
	return out
}

// at returns the i-th oldest entry.
func (l *Ledger) at(i int) Entry {
	return l.ring[(l.head+i)%len(l.ring)]
}
