package providers

import (
	"fmt"
	"sort"
)

// Registry is an immutable, name-ordered set of adapters.
type Registry struct {
	adapters []Adapter
	byName   map[string]Adapter
}

// NewRegistry builds a registry from adapters. Names must be unique.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{
		adapters: make([]Adapter, 0, len(adapters)),
		byName:   make(map[string]Adapter, len(adapters)),
	}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		if _, dup := r.byName[a.Name()]; dup {
			return nil, &ConfigError{Provider: a.Name(), Field: "name", Message: "duplicate provider name"}
		}
		r.byName[a.Name()] = a
		r.adapters = append(r.adapters, a)
	}
	sort.Slice(r.adapters, func(i, j int) bool {
		return r.adapters[i].Name() < r.adapters[j].Name()
	})
	return r, nil
}

// All returns every adapter ordered by name.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}

// Names returns every provider name in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.adapters))
	for i, a := range r.adapters {
		out[i] = a.Name()
	}
	return out
}

// Get returns the adapter with the given name.
func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not registered", name)
	}
	return a, nil
}

// Configured returns the adapters that report credentials present.
func (r *Registry) Configured() []Adapter {
	var out []Adapter
	for _, a := range r.adapters {
		if a.Configured() {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.adapters)
}
