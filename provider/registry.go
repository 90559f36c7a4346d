package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/voxlate/errors"
)

// Registry manages named provider factories for one pipeline stage.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	stage     string
	factories map[string]Factory[T]
}

// NewRegistry creates a new empty Registry for the named stage.
func NewRegistry[T Provider](stage string) *Registry[T] {
	return &Registry[T]{
		stage:     stage,
		factories: make(map[string]Factory[T]),
	}
}

// RegisterFactory registers a named factory for creating providers.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create instantiates a provider using the named factory and options.
// Unknown names fail with INVALID_INPUT listing the registered backends.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, errors.InvalidInput(r.stage+".provider",
			fmt.Sprintf("%s provider %q is not registered (available: %s)", r.stage, name, strings.Join(r.List(), ", ")))
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return factory(cfg)
}

// List returns sorted names of all registered factories.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
