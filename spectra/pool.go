package spectra

import (
	"fmt"
	"maps"
	"slices"
)

// Pool is an insertion-ordered set of spectra with per-spectrum reference
// values. A Pool is not safe for concurrent use.
type Pool struct {
	order   []string
	spectra map[string]*Spectrum
	refs    map[string]map[string]float64
}

// NewPool returns a pool holding specs in the given order.
func NewPool(specs ...*Spectrum) (*Pool, error) {
	p := &Pool{
		spectra: make(map[string]*Spectrum, len(specs)),
		refs:    make(map[string]map[string]float64, len(specs)),
	}
	for _, s := range specs {
		if err := p.Add(s); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add appends s to the pool. A nil spectrum is rejected with
// ErrEmptySpectrum.
func (p *Pool) Add(s *Spectrum) error {
	if s == nil {
		return fmt.Errorf("%w: nil spectrum", ErrEmptySpectrum)
	}
	if _, ok := p.spectra[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSpectrum, s.Name())
	}
	p.order = append(p.order, s.Name())
	p.spectra[s.Name()] = s
	p.refs[s.Name()] = make(map[string]float64)
	return nil
}

// Len returns the number of spectra.
func (p *Pool) Len() int { return len(p.order) }

// Names returns the spectrum names in insertion order.
func (p *Pool) Names() []string { return slices.Clone(p.order) }

// SortedNames returns the spectrum names in lexical order.
func (p *Pool) SortedNames() []string { return slices.Sorted(slices.Values(p.order)) }

// Get returns the named spectrum.
func (p *Pool) Get(name string) (*Spectrum, bool) {
	s, ok := p.spectra[name]
	return s, ok
}

// Each calls fn for every spectrum in insertion order until fn returns false.
func (p *Pool) Each(fn func(*Spectrum) bool) {
	for _, name := range p.order {
		if !fn(p.spectra[name]) {
			return
		}
	}
}

// SetReference stores the reference value of component for the named
// spectrum. A nil value clears it.
func (p *Pool) SetReference(name, component string, value *float64) error {
	refs, ok := p.refs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSpectrum, name)
	}
	if component == "" {
		return ErrEmptyName
	}

	if value == nil {
		delete(refs, component)
		return nil
	}
	refs[component] = *value
	return nil
}

// Reference returns the reference value of component for the named spectrum.
func (p *Pool) Reference(name, component string) (float64, bool) {
	v, ok := p.refs[name][component]
	return v, ok
}

// References returns a copy of all reference values of the named spectrum.
func (p *Pool) References(name string) map[string]float64 {
	return maps.Clone(p.refs[name])
}

// Labeled returns how many spectra carry a reference value for component.
func (p *Pool) Labeled(component string) int {
	n := 0
	for _, refs := range p.refs {
		if _, ok := refs[component]; ok {
			n++
		}
	}
	return n
}

// RenameComponent moves every reference value recorded under from to to.
// Values already stored under to are overwritten.
func (p *Pool) RenameComponent(from, to string) {
	if from == to {
		return
	}
	for _, refs := range p.refs {
		if v, ok := refs[from]; ok {
			refs[to] = v
			delete(refs, from)
		}
	}
}

// RemoveComponent drops every reference value recorded under component.
func (p *Pool) RemoveComponent(component string) {
	for _, refs := range p.refs {
		delete(refs, component)
	}
}
