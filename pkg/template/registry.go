package template

import (
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Factory builds a Template from its definition.
type Factory func(def Definition) (Template, error)

// Registry maps template names to factories.
type Registry interface {
	// Register adds a factory for the given template name.
	// Returns an error if the name is already registered.
	Register(name string, factory Factory) error

	// Build creates the template a definition refers to.
	Build(def Definition) (Template, error)

	// Has reports whether name is registered.
	Has(name string) bool

	// Names returns every registered name, sorted.
	Names() []string
}

// DefaultRegistry is the standard Registry implementation. It is
// safe for concurrent use.
type DefaultRegistry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a DefaultRegistry with every built-in
// template pre-registered.
func NewRegistry() *DefaultRegistry {
	r := NewEmptyRegistry()
	registerBuiltins(r.factories)
	return r
}

// NewEmptyRegistry creates a DefaultRegistry without templates.
func NewEmptyRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for the given template name.
// Returns an error if the name is already registered.
func (r *DefaultRegistry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("template already registered: %s", name)
	}

	r.factories[name] = factory
	return nil
}

// Build validates def and creates the template it refers to.
func (r *DefaultRegistry) Build(def Definition) (Template, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	factory, exists := r.factories[def.Template]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown template: %s", def.Template)
	}

	t, err := factory(def)
	if err != nil {
		return nil, fmt.Errorf("build template %s: %w", def.Template, err)
	}
	return t, nil
}

// Has returns true if the given template name is registered.
func (r *DefaultRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[name]
	return exists
}

// Names returns the registered template names in lexical order.
func (r *DefaultRegistry) Names() []string {
	r.mu.RLock()
	names := maps.Keys(r.factories)
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}
