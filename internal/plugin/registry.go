package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrRegistrySealed is returned by Register once execution has started.
var ErrRegistrySealed = errors.New("plugin registry is sealed")

type entry struct {
	plugin Plugin
	info   Info
	index  int
}

// Registry holds plugins in registration order. It is append-only: once
// sealed (the pipeline seals it on first use) no further plugins are accepted.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	sealed  bool
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a plugin to the registry.
// Returns an error if a plugin with the same name and version already exists.
func (r *Registry) Register(plugin Plugin) error {
	if plugin == nil {
		return fmt.Errorf("cannot register nil plugin")
	}

	info := plugin.Info()
	if err := info.Validate(); err != nil {
		return fmt.Errorf("invalid plugin info: %w", err)
	}
	if len(Capabilities(plugin)) == 0 {
		return fmt.Errorf("plugin %s implements neither Enhancer nor Validator", info)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("register %s: %w", info, ErrRegistrySealed)
	}
	for _, e := range r.entries {
		if e.info.Name == info.Name && e.info.Version == info.Version {
			return fmt.Errorf("plugin %s already registered", info)
		}
	}

	r.entries = append(r.entries, entry{plugin: plugin, info: info, index: len(r.entries)})
	return nil
}

// MustRegister registers plugins and panics on error. Intended for wiring code.
func (r *Registry) MustRegister(plugins ...Plugin) *Registry {
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Seal stops further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether the registry accepts registrations.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Snapshot returns the plugins ordered by priority, highest first. Plugins
// with equal priority keep their registration order.
func (r *Registry) Snapshot() []Plugin {
	r.mu.RLock()
	sorted := make([]entry, len(r.entries))
	copy(sorted, r.entries)
	r.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].info.Priority != sorted[j].info.Priority {
			return sorted[i].info.Priority > sorted[j].info.Priority
		}
		return sorted[i].index < sorted[j].index
	})

	out := make([]Plugin, len(sorted))
	for i, e := range sorted {
		out[i] = e.plugin
	}
	return out
}

// Enhancers returns the enhancers in execution order.
func (r *Registry) Enhancers() []Enhancer {
	var out []Enhancer
	for _, p := range r.Snapshot() {
		if e, ok := p.(Enhancer); ok {
			out = append(out, e)
		}
	}
	return out
}

// Validators returns the validators in execution order.
func (r *Registry) Validators() []Validator {
	var out []Validator
	for _, p := range r.Snapshot() {
		if v, ok := p.(Validator); ok {
			out = append(out, v)
		}
	}
	return out
}

// Get retrieves a specific plugin by name and version.
// Returns an error if the plugin is not found.
func (r *Registry) Get(name, version string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.info.Name == name && e.info.Version == version {
			return e.plugin, nil
		}
	}
	return nil, fmt.Errorf("plugin %s@%s not found", name, version)
}

// Has checks if a plugin with the given name exists (any version).
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.info.Name == name {
			return true
		}
	}
	return false
}

// Count returns the total number of registered plugins (all versions).
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
