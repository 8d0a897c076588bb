package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/blit/driver"
)

// Factory creates a new backend instance.
type Factory func() Backend

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first supported wins).
	backendPriority = []string{NameShaders, NameClientArrays, NameImmediate}
)

// Register registers a backend factory with the given name.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a backend instance by name.
// Returns nil if the backend is not registered.
func Get(name string) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// Select returns the named backend if it supports f, or the best supported
// backend when name is empty.
func Select(name string, f driver.Features) (Backend, error) {
	if name == "" {
		if b := Default(f); b != nil {
			return b, nil
		}
		return nil, fmt.Errorf("%w: no tier supports features %v", ErrBackendNotAvailable, f)
	}
	b := Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q not registered", ErrBackendNotAvailable, name)
	}
	if !b.Supports(f) {
		return nil, fmt.Errorf("%w: %q needs features missing from %v", ErrBackendNotAvailable, name, f)
	}
	return b, nil
}

// Default returns the best backend that supports f.
// Priority order: gl3 > gl2 > gl1, then any other registered backend.
// Returns nil if no registered backend supports f.
func Default(f driver.Features) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil && b.Supports(f) {
				return b
			}
		}
	}

	// Fallback: first supported in name order.
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if b := backends[name](); b != nil && b.Supports(f) {
			return b
		}
	}

	return nil
}

// MustDefault returns the default backend for f or panics.
func MustDefault(f driver.Features) Backend {
	b := Default(f)
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}
