package calib

import (
	"fmt"
	"maps"
	"slices"
)

// Registry maps component names to their latest trained Model.
// It is not safe for concurrent use.
type Registry struct {
	models map[string]*Model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Model)}
}

// Put stores m under name, discarding any previous model.
func (r *Registry) Put(name string, m *Model) error {
	if name == "" {
		return ErrEmptyName
	}
	if m == nil {
		return fmt.Errorf("%w: nil model", ErrInvalidParameter)
	}
	r.models[name] = m
	return nil
}

// Get returns the model stored under name.
func (r *Registry) Get(name string) (*Model, error) {
	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: model %q", ErrNotFound, name)
	}
	return m, nil
}

// Has reports whether a model is stored under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.models[name]
	return ok
}

// Rename moves the model stored under from to to, unchanged. Renaming onto
// an existing entry fails with ErrDuplicateName; renaming to the same name
// is a no-op.
func (r *Registry) Rename(from, to string) error {
	m, ok := r.models[from]
	if !ok {
		return fmt.Errorf("%w: model %q", ErrNotFound, from)
	}
	if to == "" {
		return ErrEmptyName
	}
	if from == to {
		return nil
	}
	if _, taken := r.models[to]; taken {
		return fmt.Errorf("%w: model %q", ErrDuplicateName, to)
	}

	r.models[to] = m
	delete(r.models, from)
	return nil
}

// Remove deletes the model stored under name.
func (r *Registry) Remove(name string) error {
	if _, ok := r.models[name]; !ok {
		return fmt.Errorf("%w: model %q", ErrNotFound, name)
	}
	delete(r.models, name)
	return nil
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.models))
}

// Len returns the number of registered models.
func (r *Registry) Len() int { return len(r.models) }

// ModelSet is a read-only view of a Registry. It reflects later changes to
// the registry it was taken from.
type ModelSet struct {
	r *Registry
}

// Has reports whether a model is stored under name.
func (v ModelSet) Has(name string) bool { return v.r.Has(name) }

// Len returns the number of models.
func (v ModelSet) Len() int { return v.r.Len() }

// Names returns the model names in lexical order.
func (v ModelSet) Names() []string { return v.r.Names() }
