package config

import "sync"

// Registry manages at most one shared Manager. The get-or-create and patch
// operations run under an internal mutex, closing the first-construction
// race between concurrent callers.
//
// Hidden global state is avoided by requiring callers to go through an
// explicit Registry handle; Default returns the process-wide one for
// applications that want singleton semantics.
type Registry struct {
	mu       sync.Mutex
	instance *Manager
}

// NewRegistry returns an empty registry. Independent registries share no
// state with each other or with Default.
func NewRegistry() *Registry { return &Registry{} }

// GetOrCreate returns the shared Manager.
//
// On the first call it constructs one via New from the supplied mapping (or
// an empty mapping when nil) and the supplied options. On every later call
// the options are ignored entirely and, when the supplied mapping is
// non-empty, its entries are merged into the live instance by unconditional
// overwrite. This is a patch, not a reconstruction: no re-validation, no
// re-finalization.
//
// Note the deliberate asymmetry, preserved from the observed behavior: at
// construction time the environment overwrites the caller-supplied mapping,
// while at patch time the caller-supplied mapping wins regardless of the
// environment.
func (r *Registry) GetOrCreate(base map[string]string, opts ...Option) (*Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.instance == nil {
		m, err := New(base, opts...)
		if err != nil {
			return nil, err
		}
		r.instance = m
		return m, nil
	}

	if len(base) > 0 {
		r.instance.patch(base)
	}
	return r.instance, nil
}

// Get returns the shared Manager, or nil before the first GetOrCreate.
func (r *Registry) Get() *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.instance
}

// Reset drops the shared Manager so the next GetOrCreate performs a fresh
// construction inheriting nothing from the previous instance.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instance = nil
}

// defaultRegistry is the process-wide registry behind Default.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }
