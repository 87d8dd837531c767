package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatBindings writes the chord table as indented JSON
func (f *Formatter) FormatBindings(bindings BindingsDTO) error {
	return f.encode(bindings)
}

// FormatTimeline writes a recorded session as indented JSON
func (f *Formatter) FormatTimeline(timeline TimelineDTO) error {
	return f.encode(timeline)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
