// Package flags provides feature flag support.
// Flags are read-only after initialization and provide safe defaults for unknown flags.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/htx/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagAutosave persists debounced export snapshots while answering a task
	// and restores them as prior values on the next run.
	FlagAutosave = "autosave"

	// FlagHotReload re-renders the task when its markup file changes.
	FlagHotReload = "hot-reload"
)

// Known lists every flag name htx reads.
func Known() []string {
	return []string{FlagAutosave, FlagHotReload}
}

// Registry holds feature flag state loaded from configuration.
// Flags are read-only after initialization.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// If flags is nil, an empty registry is created (all flags disabled).
func New(flags map[string]bool) *Registry {
	if flags == nil {
		flags = make(map[string]bool)
	}
	r := &Registry{flags: maps.Clone(flags)}
	for name := range flags {
		if !slices.Contains(Known(), name) {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags and on a nil registry.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unset flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// With returns a copy of the registry with name forced to value. Command line
// switches use it to override the config file.
func (r *Registry) With(name string, value bool) *Registry {
	next := r.All()
	next[name] = value
	return &Registry{flags: next}
}

// All returns a copy of all flags (for debugging/logging).
// Returns an empty map if the registry is nil.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
