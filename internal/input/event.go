package input

import (
	"fmt"
	"unicode"
)

// Special names a non-character key.
type Special uint8

const (
	// SpecialNone marks a character event.
	SpecialNone Special = iota
	// SpecialQuit ends the input loop.
	SpecialQuit
	// SpecialHistory asks for the ledger view.
	SpecialHistory
	// SpecialBackspace is received but never participates in sequences.
	SpecialBackspace
	// SpecialEnter is received but never participates in sequences.
	SpecialEnter
	// SpecialOther covers any other named key (arrows, function keys, ...).
	SpecialOther
)

var specialNames = map[Special]string{
	SpecialNone:      "none",
	SpecialQuit:      "quit",
	SpecialHistory:   "history",
	SpecialBackspace: "backspace",
	SpecialEnter:     "enter",
	SpecialOther:     "other",
}

// String returns the lowercase name of the special key.
func (s Special) String() string {
	if name, ok := specialNames[s]; ok {
		return name
	}
	return fmt.Sprintf("special(%d)", s)
}

// ParseSpecial maps a name like "quit" or "history" to its Special.
func ParseSpecial(name string) (Special, bool) {
	for s, n := range specialNames {
		if n == name && s != SpecialNone {
			return s, true
		}
	}
	return SpecialNone, false
}

// Action distinguishes key presses from releases.
type Action uint8

const (
	Press Action = iota
	Release
)

func (a Action) String() string {
	if a == Release {
		return "release"
	}
	return "press"
}

// KeyEvent is one key transition produced by a key source. Exactly one of
// Rune and Special is meaningful: Special is SpecialNone for character keys.
type KeyEvent struct {
	Rune    rune
	Special Special
	Action  Action
}

// Char creates a character key press.
func Char(r rune) KeyEvent {
	return KeyEvent{Rune: r, Action: Press}
}

// Key creates a special key press.
func Key(s Special) KeyEvent {
	return KeyEvent{Special: s, Action: Press}
}

// Released returns a copy of e as a release event.
func (e KeyEvent) Released() KeyEvent {
	e.Action = Release
	return e
}

// IsSpecial reports whether e is a named special key.
func (e KeyEvent) IsSpecial() bool {
	return e.Special != SpecialNone
}

// Is reports whether e is the given special key.
func (e KeyEvent) Is(s Special) bool {
	return e.Special == s
}

// Letter returns the lowercased letter for a character event and whether e
// may participate in a sequence at all. Uppercase ASCII is folded; digits,
// symbols and non-ASCII runes are rejected.
func (e KeyEvent) Letter() (byte, bool) {
	if e.IsSpecial() || e.Rune > unicode.MaxASCII {
		return 0, false
	}
	r := unicode.ToLower(e.Rune)
	if r < 'a' || r > 'z' {
		return 0, false
	}
	return byte(r), true
}

// String returns a readable form such as "a", "quit" or "release:f".
func (e KeyEvent) String() string {
	var s string
	if e.IsSpecial() {
		s = e.Special.String()
	} else {
		s = string(e.Rune)
	}
	if e.Action == Release {
		return "release:" + s
	}
	return s
}
