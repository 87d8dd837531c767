// Package chord holds the static table that maps one- and two-letter key
// sequences to marker specs. The table is built once at startup and is
// read-only afterwards.
package chord

import (
	"errors"
	"fmt"
	"sort"

	"github.com/datasync/keymarker/internal/input"
)

// Kind tags what committing a binding does.
type Kind uint8

const (
	// KindPlain emits the marker and records it.
	KindPlain Kind = iota
	// KindPrompt asks the operator for a label and emits "<name>_<label>"
	// when one is given. The bare marker is emitted before the question,
	// or, for a Deferred spec, only when the label comes back empty.
	KindPrompt
	// KindUndo runs the undo command instead of emitting a marker.
	KindUndo
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindPrompt:
		return "prompt"
	case KindUndo:
		return "undo"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// MarkerSpec describes the marker a binding commits.
type MarkerSpec struct {
	Name   string
	Kind   Kind
	Prompt string // prompt kind, set only for KindPrompt
	// Deferred holds the bare marker back until the label is known.
	Deferred bool
}

// Binding ties a key sequence to a spec.
type Binding struct {
	Keys string
	Spec MarkerSpec
}

// IsChord reports whether the binding needs two keys.
func (b Binding) IsChord() bool {
	return len(b.Keys) == input.MaxChordLength
}

var (
	// ErrInvalidKeys is returned for key strings that are not one or two
	// lowercase ASCII letters.
	ErrInvalidKeys = errors.New("keys must be one or two lowercase letters")
	// ErrDuplicateBinding is returned when two bindings share a key string.
	ErrDuplicateBinding = errors.New("duplicate binding")
	// ErrInvalidSpec is returned for specs missing a name or prompt kind.
	ErrInvalidSpec = errors.New("invalid marker spec")
)

// Table is the immutable single-key and two-key mapping.
type Table struct {
	single   map[byte]MarkerSpec
	chords   map[string]MarkerSpec
	prefixes map[byte]bool
	bindings []Binding
}

// New validates bindings and builds a table.
func New(bindings []Binding) (*Table, error) {
	t := &Table{
		single:   make(map[byte]MarkerSpec),
		chords:   make(map[string]MarkerSpec),
		prefixes: make(map[byte]bool),
		bindings: make([]Binding, 0, len(bindings)),
	}

	seen := make(map[string]bool, len(bindings))
	for i, b := range bindings {
		if err := validate(b); err != nil {
			return nil, fmt.Errorf("binding %d (%q): %w", i, b.Keys, err)
		}
		if seen[b.Keys] {
			return nil, fmt.Errorf("binding %d (%q): %w", i, b.Keys, ErrDuplicateBinding)
		}
		seen[b.Keys] = true

		if b.IsChord() {
			t.chords[b.Keys] = b.Spec
			t.prefixes[b.Keys[0]] = true
		} else {
			t.single[b.Keys[0]] = b.Spec
		}
		t.bindings = append(t.bindings, b)
	}

	sort.SliceStable(t.bindings, func(i, j int) bool {
		return len(t.bindings[i].Keys) < len(t.bindings[j].Keys)
	})

	return t, nil
}

// MustNew is New for bindings known to be valid, such as Defaults.
func MustNew(bindings []Binding) *Table {
	t, err := New(bindings)
	if err != nil {
		panic(err)
	}
	return t
}

func validate(b Binding) error {
	if len(b.Keys) < 1 || len(b.Keys) > input.MaxChordLength {
		return ErrInvalidKeys
	}
	for i := 0; i < len(b.Keys); i++ {
		if b.Keys[i] < 'a' || b.Keys[i] > 'z' {
			return ErrInvalidKeys
		}
	}

	switch b.Spec.Kind {
	case KindPlain:
		if b.Spec.Name == "" {
			return fmt.Errorf("%w: marker name is required", ErrInvalidSpec)
		}
	case KindPrompt:
		if b.Spec.Name == "" {
			return fmt.Errorf("%w: marker name is required", ErrInvalidSpec)
		}
		if b.Spec.Prompt == "" {
			return fmt.Errorf("%w: prompt kind is required", ErrInvalidSpec)
		}
	case KindUndo:
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidSpec, b.Spec.Kind)
	}
	if b.Spec.Deferred && b.Spec.Kind != KindPrompt {
		return fmt.Errorf("%w: only prompt markers can be deferred", ErrInvalidSpec)
	}
	return nil
}

// Lookup resolves a buffered sequence: the last two letters against the
// chord mapping first, then the lone letter against the single-key mapping
// when exactly one letter is buffered.
func (t *Table) Lookup(seq string) (MarkerSpec, bool) {
	if len(seq) >= input.MaxChordLength {
		return t.Chord(seq[len(seq)-input.MaxChordLength:])
	}
	if len(seq) == 1 {
		return t.Single(seq[0])
	}
	return MarkerSpec{}, false
}

// Chord looks up a two-letter key string.
func (t *Table) Chord(keys string) (MarkerSpec, bool) {
	spec, ok := t.chords[keys]
	return spec, ok
}

// Single looks up a one-letter binding.
func (t *Table) Single(ch byte) (MarkerSpec, bool) {
	spec, ok := t.single[ch]
	return spec, ok
}

// IsPrefix reports whether ch is the first letter of any chord.
func (t *Table) IsPrefix(ch byte) bool {
	return t.prefixes[ch]
}

// Bindings returns every binding, single keys before chords, each group in
// configuration order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// PromptKinds returns the distinct prompt kinds the table references.
func (t *Table) PromptKinds() []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, b := range t.bindings {
		if b.Spec.Kind == KindPrompt && !seen[b.Spec.Prompt] {
			seen[b.Spec.Prompt] = true
			kinds = append(kinds, b.Spec.Prompt)
		}
	}
	return kinds
}
