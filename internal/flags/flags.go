// Package flags provides feature toggles for optional console behavior.
// A Registry is read-only after construction.
package flags

import (
	"maps"
	"sort"

	"github.com/datasync/keymarker/internal/log"
)

const (
	// FlagLabelSuggestions offers recently used labels as completions in
	// the prompt.
	FlagLabelSuggestions = "label-suggestions"

	// FlagShowPending shows the in-progress key sequence in the status bar.
	FlagShowPending = "show-pending"
)

// Defaults returns the value each known flag takes when not configured.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagLabelSuggestions: true,
		FlagShowPending:      true,
	}
}

// Registry holds resolved flag values.
type Registry struct {
	flags map[string]bool
}

// New overlays configured values on Defaults. Unknown configured names are
// kept but logged.
func New(configured map[string]bool) *Registry {
	resolved := Defaults()
	for name, value := range configured {
		if _, known := resolved[name]; !known {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
		resolved[name] = value
	}
	r := &Registry{flags: resolved}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(resolved), "enabled", r.EnabledNames())
	return r
}

// Enabled reports whether name is on. Unknown names and a nil registry
// report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of every resolved flag.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// EnabledNames returns the enabled flags, sorted.
func (r *Registry) EnabledNames() []string {
	if r == nil {
		return nil
	}
	var names []string
	for name, on := range r.flags {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
