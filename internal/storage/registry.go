package storage

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned by Open for a name nothing registered
var ErrUnknownBackend = errors.New("unknown storage backend")

// Registry manages available storage backends
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Factory
}

// NewRegistry creates a new backend registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Factory),
	}
}

// Register adds a new backend factory to the registry
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[name]; exists {
		return fmt.Errorf("backend %s already registered", name)
	}

	r.backends[name] = factory
	return nil
}

// Open instantiates the named backend over path. The caller owns the returned
// KV and must Close it.
func (r *Registry) Open(name, path string) (KV, error) {
	r.mu.RLock()
	factory, exists := r.backends[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}

	kv, err := factory(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", name, err)
	}
	return kv, nil
}

// List returns all registered backend names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global registry instance
var defaultRegistry = NewRegistry()

// Register adds a backend to the global registry
func Register(name string, factory Factory) error {
	return defaultRegistry.Register(name, factory)
}

// Open opens a backend from the global registry. The caller closes it.
func Open(name, path string) (KV, error) {
	return defaultRegistry.Open(name, path)
}

// ListBackends returns all registered backend names from the global registry
func ListBackends() []string {
	return defaultRegistry.List()
}
