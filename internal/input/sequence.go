package input

import "time"

// MaxChordLength is the longest key sequence any binding may use.
const MaxChordLength = 2

// Sequence is the in-progress key sequence plus the time it last changed.
// The zero value is an empty sequence that is always stale.
type Sequence struct {
	keys       []byte
	lastUpdate time.Time
}

// NewSequence creates an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{keys: make([]byte, 0, MaxChordLength+1)}
}

// Append adds a letter and records now as the last update.
// Appending past MaxChordLength+1 keeps only the newest letter so the
// sequence never grows without bound; the disambiguator normally resets
// before that happens.
func (s *Sequence) Append(ch byte, now time.Time) {
	if len(s.keys) > MaxChordLength {
		s.keys = s.keys[:0]
	}
	s.keys = append(s.keys, ch)
	s.lastUpdate = now
}

// Reset empties the sequence. The last update time is kept so a reseed on
// the same keystroke can restore it explicitly.
func (s *Sequence) Reset() {
	s.keys = s.keys[:0]
}

// Reseed replaces the contents with a single letter.
func (s *Sequence) Reseed(ch byte, now time.Time) {
	s.keys = append(s.keys[:0], ch)
	s.lastUpdate = now
}

// IsStale reports whether more than timeout has passed since the last update.
func (s *Sequence) IsStale(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.lastUpdate) > timeout
}

// Len returns the number of buffered letters.
func (s *Sequence) Len() int {
	return len(s.keys)
}

// IsEmpty reports whether no letters are buffered.
func (s *Sequence) IsEmpty() bool {
	return len(s.keys) == 0
}

// LastUpdate returns the time of the last Append or Reseed.
func (s *Sequence) LastUpdate() time.Time {
	return s.lastUpdate
}

// Tail returns up to the last n letters as a string.
func (s *Sequence) Tail(n int) string {
	if n >= len(s.keys) {
		return string(s.keys)
	}
	return string(s.keys[len(s.keys)-n:])
}

// String returns the buffered letters.
func (s *Sequence) String() string {
	return string(s.keys)
}
