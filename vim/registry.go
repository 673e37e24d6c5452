package vim

import (
	"sort"
	"sync"
)

// Registry maps well-known names to host entry points.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]any)}
}

// DefaultRegistry is the process-wide registry used by Init.
var DefaultRegistry = NewRegistry()

// Register stores fn under name, replacing any earlier entry.
func (r *Registry) Register(name string, fn any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = fn
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.entries[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register stores fn in DefaultRegistry.
func Register(name string, fn any) {
	DefaultRegistry.Register(name, fn)
}

// ResolveHandlers looks up all seven handler names once. Every name
// that is absent, nil or registered with the wrong function type is
// reported in the returned *ConfigError.
func ResolveHandlers(r *Registry) (Handlers, error) {
	var (
		h   Handlers
		cfg ConfigError
	)
	resolve(r, NameBufferChanged, &h.OnBufferChanged, &cfg)
	resolve(r, NameAutocommand, &h.OnAutocommand, &cfg)
	resolve(r, NameDirectoryChanged, &h.OnDirectoryChanged, &cfg)
	resolve(r, NameMessage, &h.OnMessage, &cfg)
	resolve(r, NameQuit, &h.OnQuit, &cfg)
	resolve(r, NameWindowMovement, &h.OnWindowMovement, &cfg)
	resolve(r, NameWindowSplit, &h.OnWindowSplit, &cfg)

	if len(cfg.Missing) > 0 || len(cfg.Mistyped) > 0 {
		return Handlers{}, &cfg
	}
	// typed nil funcs pass the assertion above
	if err := h.Validate(); err != nil {
		return Handlers{}, err
	}
	return h, nil
}

func resolve[F any](r *Registry, name string, dst *F, cfg *ConfigError) {
	v, ok := r.Lookup(name)
	if !ok || v == nil {
		cfg.Missing = append(cfg.Missing, name)
		return
	}
	fn, ok := v.(F)
	if !ok {
		cfg.Mistyped = append(cfg.Mistyped, name)
		return
	}
	*dst = fn
}
