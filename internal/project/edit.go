package project

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

// The methods below edit a project file without loading spectra. They
// follow the same rules as the corresponding calib.Session methods.

func (f *File) index(name string) int {
	return slices.IndexFunc(f.Components, func(c spectra.Component) bool { return c.Name == name })
}

// AddComponent appends c.
func (f *File) AddComponent(c spectra.Component) error {
	if c.Name == "" {
		return calib.ErrEmptyName
	}
	if f.index(c.Name) >= 0 {
		return fmt.Errorf("%w: component %q", calib.ErrDuplicateName, c.Name)
	}
	f.Components = append(f.Components, c)
	return nil
}

// RenameComponent renames a component and moves its reference values.
func (f *File) RenameComponent(from, to string) error {
	i := f.index(from)
	if i < 0 {
		return fmt.Errorf("%w: component %q", calib.ErrNotFound, from)
	}
	if to == "" {
		return calib.ErrEmptyName
	}
	if from == to {
		return nil
	}
	if f.index(to) >= 0 {
		return fmt.Errorf("%w: component %q", calib.ErrDuplicateName, to)
	}

	f.Components[i].Name = to
	for _, refs := range f.References {
		if v, ok := refs[from]; ok {
			refs[to] = v
			delete(refs, from)
		}
	}
	return nil
}

// RemoveComponent deletes a component and its reference values.
func (f *File) RemoveComponent(name string) error {
	i := f.index(name)
	if i < 0 {
		return fmt.Errorf("%w: component %q", calib.ErrNotFound, name)
	}
	f.Components = slices.Delete(f.Components, i, i+1)
	for spectrum, refs := range f.References {
		delete(refs, name)
		if len(refs) == 0 {
			delete(f.References, spectrum)
		}
	}
	return nil
}

// SetReference sets, or with a nil value clears, one reference value.
func (f *File) SetReference(spectrum, component string, value *float64) error {
	if spectrum == "" {
		return calib.ErrEmptyName
	}
	if f.index(component) < 0 {
		return fmt.Errorf("%w: component %q", calib.ErrNotFound, component)
	}

	if value == nil {
		delete(f.References[spectrum], component)
		if len(f.References[spectrum]) == 0 {
			delete(f.References, spectrum)
		}
		return nil
	}

	if f.References == nil {
		f.References = make(map[string]map[string]*float64)
	}
	if f.References[spectrum] == nil {
		f.References[spectrum] = make(map[string]*float64)
	}
	f.References[spectrum][component] = ptr(*value)
	return nil
}

// Reference returns one reference value.
func (f *File) Reference(spectrum, component string) (float64, bool) {
	v := f.References[spectrum][component]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Labeled counts the spectra with a reference value for component.
func (f *File) Labeled(component string) int {
	n := 0
	for _, refs := range f.References {
		if refs[component] != nil {
			n++
		}
	}
	return n
}
