package backend

import (
	"fmt"
	"sync"
)

// Registry maps backend identifiers to adapter implementations. It is the
// single dispatch point for both sync cycles and mutations.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds or replaces the adapter for the given backend ID.
func (r *Registry) Register(backendID string, b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[backendID] = b
}

// Get returns the adapter registered for the given backend ID.
func (r *Registry) Get(backendID string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[backendID]
	if !ok {
		return nil, fmt.Errorf("backend %q not registered", backendID)
	}
	return b, nil
}

// IDs returns the registered backend identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.backends))
	for id := range r.backends {
		ids = append(ids, id)
	}
	return ids
}
