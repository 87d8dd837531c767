// Package replay plays a scripted key sequence through a disambiguator
// without a terminal. A script is YAML:
//
//	steps:
//	  - key: x          # each character is pressed in order
//	  - wait: 400ms
//	  - key: a
//	  - wait: 50ms      # let the prompt answer land
//	  - special: quit   # quit, history, backspace, enter, other
//	answers:
//	  - Reading         # returned to prompts in order
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/datasync/keymarker/internal/input"
)

// ErrInvalidStep is wrapped by every step validation error.
var ErrInvalidStep = errors.New("invalid step")

// Step is one scripted action. Exactly one of Key, Special or Wait is set.
type Step struct {
	Key     string        `yaml:"key,omitempty"`
	Special string        `yaml:"special,omitempty"`
	Wait    time.Duration `yaml:"wait,omitempty"`
	// Release follows each press with its release.
	Release bool `yaml:"release,omitempty"`
}

// Script is a parsed replay script.
type Script struct {
	Steps   []Step   `yaml:"steps"`
	Answers []string `yaml:"answers,omitempty"`
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the operator's script
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a script. Unknown fields are rejected.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func (st Step) validate() error {
	set := 0
	if st.Key != "" {
		set++
	}
	if st.Special != "" {
		set++
		if _, ok := input.ParseSpecial(st.Special); !ok {
			return fmt.Errorf("%w: unknown special key %q", ErrInvalidStep, st.Special)
		}
	}
	if st.Wait != 0 {
		set++
		if st.Wait < 0 {
			return fmt.Errorf("%w: negative wait %s", ErrInvalidStep, st.Wait)
		}
	}
	if set != 1 {
		return fmt.Errorf("%w: exactly one of key, special or wait must be set", ErrInvalidStep)
	}
	return nil
}

// events expands a key or special step into key events.
func (st Step) events() []input.KeyEvent {
	var presses []input.KeyEvent
	if st.Special != "" {
		s, _ := input.ParseSpecial(st.Special)
		presses = append(presses, input.Key(s))
	}
	for _, r := range st.Key {
		presses = append(presses, input.Char(r))
	}
	if !st.Release {
		return presses
	}
	out := make([]input.KeyEvent, 0, 2*len(presses))
	for _, ev := range presses {
		out = append(out, ev, ev.Released())
	}
	return out
}
