// Package config provides configuration types, defaults, validation and
// persistence for keymarker.
package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/datasync/keymarker/internal/chord"
	"github.com/datasync/keymarker/internal/disambiguator"
	"github.com/datasync/keymarker/internal/history"
	"github.com/datasync/keymarker/internal/labels"
	"github.com/datasync/keymarker/internal/paths"
	"github.com/datasync/keymarker/internal/tracing"
)

// CommandUndo is the only supported binding command.
const CommandUndo = "undo"

// BindingConfig maps one or two keys to a marker, a prompt marker, or the
// undo command. Exactly one of Marker or Command must be set. Defer needs
// Prompt.
type BindingConfig struct {
	Keys    string `mapstructure:"keys" yaml:"keys"`
	Marker  string `mapstructure:"marker" yaml:"marker,omitempty"`
	Prompt  string `mapstructure:"prompt" yaml:"prompt,omitempty"`
	Defer   bool   `mapstructure:"defer" yaml:"defer,omitempty"`
	Command string `mapstructure:"command" yaml:"command,omitempty"`
}

// RecorderConfig controls the marker database.
type RecorderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // default ~/.keymarker/markers.db
}

// LabelsConfig controls prompt label suggestions.
type LabelsConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
	Max int           `mapstructure:"max"`
}

// UIConfig holds console display options.
type UIConfig struct {
	LogLines int `mapstructure:"log_lines"` // lines kept in the emitted-marker pane
}

// Config holds all keymarker settings.
type Config struct {
	SequenceTimeout time.Duration     `mapstructure:"sequence_timeout"`
	DebounceWindow  time.Duration     `mapstructure:"debounce_window"`
	HistoryCapacity int               `mapstructure:"history_capacity"`
	Bindings        []BindingConfig   `mapstructure:"bindings"`
	Prompts         map[string]string `mapstructure:"prompts"`
	Recorder        RecorderConfig    `mapstructure:"recorder"`
	Tracing         tracing.Config    `mapstructure:"tracing"`
	Labels          LabelsConfig      `mapstructure:"labels"`
	UI              UIConfig          `mapstructure:"ui"`
	Flags           map[string]bool   `mapstructure:"flags"`
}

// Defaults returns the stock configuration. Bindings are left empty, which
// selects the built-in table.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = paths.TracesFile()
	return Config{
		SequenceTimeout: disambiguator.DefaultSequenceTimeout,
		DebounceWindow:  disambiguator.DefaultDebounceWindow,
		HistoryCapacity: history.DefaultCapacity,
		Prompts:         chord.DefaultPrompts(),
		Recorder: RecorderConfig{
			Enabled: true,
			Path:    paths.DatabaseFile(),
		},
		Tracing: tr,
		Labels: LabelsConfig{
			TTL: labels.DefaultTTL,
			Max: labels.DefaultMax,
		},
		UI: UIConfig{
			LogLines: 200,
		},
	}
}

// DefaultBindings returns the built-in table as config entries.
func DefaultBindings() []BindingConfig {
	defaults := chord.Defaults()
	out := make([]BindingConfig, 0, len(defaults))
	for _, b := range defaults {
		out = append(out, fromChordBinding(b))
	}
	return out
}

func fromChordBinding(b chord.Binding) BindingConfig {
	switch b.Spec.Kind {
	case chord.KindUndo:
		return BindingConfig{Keys: b.Keys, Command: CommandUndo}
	case chord.KindPrompt:
		return BindingConfig{Keys: b.Keys, Marker: b.Spec.Name, Prompt: b.Spec.Prompt, Defer: b.Spec.Deferred}
	default:
		return BindingConfig{Keys: b.Keys, Marker: b.Spec.Name}
	}
}

// ToChordBinding converts a config entry to a table binding.
func (b BindingConfig) ToChordBinding() (chord.Binding, error) {
	switch {
	case b.Defer && b.Prompt == "":
		return chord.Binding{}, fmt.Errorf("binding %q: defer requires a prompt", b.Keys)
	case b.Command != "" && b.Marker != "":
		return chord.Binding{}, fmt.Errorf("binding %q: marker and command are mutually exclusive", b.Keys)
	case b.Command == CommandUndo:
		return chord.Binding{Keys: b.Keys, Spec: chord.MarkerSpec{Name: chord.UndoMarker, Kind: chord.KindUndo}}, nil
	case b.Command != "":
		return chord.Binding{}, fmt.Errorf("binding %q: unknown command %q (must be %q)", b.Keys, b.Command, CommandUndo)
	case b.Prompt != "":
		return chord.Binding{Keys: b.Keys, Spec: chord.MarkerSpec{
			Name:     b.Marker,
			Kind:     chord.KindPrompt,
			Prompt:   b.Prompt,
			Deferred: b.Defer,
		}}, nil
	default:
		return chord.Binding{Keys: b.Keys, Spec: chord.MarkerSpec{Name: b.Marker, Kind: chord.KindPlain}}, nil
	}
}

// ChordBindings returns the configured bindings, or the built-in table when
// none are configured.
func (c Config) ChordBindings() ([]chord.Binding, error) {
	if len(c.Bindings) == 0 {
		return chord.Defaults(), nil
	}
	out := make([]chord.Binding, 0, len(c.Bindings))
	for _, b := range c.Bindings {
		cb, err := b.ToChordBinding()
		if err != nil {
			return nil, err
		}
		out = append(out, cb)
	}
	return out, nil
}

// Table builds the validated chord table.
func (c Config) Table() (*chord.Table, error) {
	bindings, err := c.ChordBindings()
	if err != nil {
		return nil, err
	}
	return chord.New(bindings)
}

// PromptQuestions merges configured prompts over the built-in questions.
func (c Config) PromptQuestions() map[string]string {
	out := chord.DefaultPrompts()
	for kind, q := range c.Prompts {
		if q != "" {
			out[kind] = q
		}
	}
	return out
}

// Disambiguator returns the loop settings.
func (c Config) Disambiguator() disambiguator.Config {
	return disambiguator.Config{
		SequenceTimeout: c.SequenceTimeout,
		DebounceWindow:  c.DebounceWindow,
		HistoryCapacity: c.HistoryCapacity,
		Prompts:         c.PromptQuestions(),
	}
}

// RecorderPath returns the expanded database path.
func (c Config) RecorderPath() string {
	if c.Recorder.Path == "" {
		return paths.DatabaseFile()
	}
	return paths.Expand(c.Recorder.Path)
}

// TracingConfig returns tracing settings with the file path expanded.
func (c Config) TracingConfig() tracing.Config {
	tr := c.Tracing
	if tr.FilePath == "" {
		tr.FilePath = paths.TracesFile()
	}
	tr.FilePath = paths.Expand(tr.FilePath)
	return tr
}

// Validate checks timings, bindings, prompts and tracing.
func (c Config) Validate() error {
	if c.SequenceTimeout <= 0 {
		return fmt.Errorf("sequence_timeout must be positive, got %s", c.SequenceTimeout)
	}
	if c.DebounceWindow <= 0 {
		return fmt.Errorf("debounce_window must be positive, got %s", c.DebounceWindow)
	}
	if c.DebounceWindow >= c.SequenceTimeout {
		return fmt.Errorf("debounce_window (%s) must be shorter than sequence_timeout (%s)", c.DebounceWindow, c.SequenceTimeout)
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("history_capacity must be at least 1, got %d", c.HistoryCapacity)
	}
	if c.Labels.Max < 0 {
		return fmt.Errorf("labels.max must not be negative, got %d", c.Labels.Max)
	}

	table, err := c.Table()
	if err != nil {
		return fmt.Errorf("invalid bindings: %w", err)
	}
	questions := c.PromptQuestions()
	for _, kind := range table.PromptKinds() {
		if _, ok := questions[kind]; !ok {
			return fmt.Errorf("prompt %q is used by a binding but has no question in prompts", kind)
		}
	}

	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks the tracing section.
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}

	switch tr.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
	}

	if tr.Enabled && tr.Exporter == tracing.ExporterOTLP && tr.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// PromptKinds returns the configured prompt kinds, sorted.
func (c Config) PromptKinds() []string {
	questions := c.PromptQuestions()
	kinds := make([]string, 0, len(questions))
	for k := range questions {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
