// Package project reads and writes the YAML project file that keeps the
// component list and the reference values of a calibration between runs.
//
//	components:
//	  - name: Moisture
//	    abbrev: H2O
//	    unit: "%"
//	references:
//	  sample01.csv:
//	    Moisture: 10.5
//	    Protein:        # blank or ~ means not measured
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

// File is the on-disk project. A nil reference value is a placeholder for a
// measurement that has not been made; it never reaches a session.
type File struct {
	Components []spectra.Component            `yaml:"components"`
	References map[string]map[string]*float64 `yaml:"references,omitempty"`
}

// Unmatched is a reference value that could not be applied to a session.
type Unmatched struct {
	Spectrum  string
	Component string
}

// Decode parses a project from r. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("project: decode: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads the project at path. A missing file yields an error matching
// os.ErrNotExist.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Save writes f to path, replacing the file in one rename.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("project: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".project-*.yaml")
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	return nil
}

func (f *File) validate() error {
	seen := make(map[string]bool, len(f.Components))
	for i, c := range f.Components {
		if c.Name == "" {
			return fmt.Errorf("project: component %d: %w", i, calib.ErrEmptyName)
		}
		if seen[c.Name] {
			return fmt.Errorf("project: component %q: %w", c.Name, calib.ErrDuplicateName)
		}
		seen[c.Name] = true
	}
	return nil
}

// Apply adds the components of f to s and sets every reference value whose
// spectrum is in the session pool and whose component is defined. Values
// that cannot be placed are returned, sorted by spectrum then component.
func (f *File) Apply(s *calib.Session) ([]Unmatched, error) {
	for _, c := range f.Components {
		if _, err := s.Component(c.Name); err == nil {
			if err := s.UpdateComponent(c.Name, c.Abbrev, c.Unit); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := s.AddComponent(c.Name, c.Abbrev, c.Unit); err != nil {
			return nil, err
		}
	}

	var unmatched []Unmatched
	for _, name := range sortedKeys(f.References) {
		refs := f.References[name]
		for _, comp := range sortedKeys(refs) {
			v := refs[comp]
			if v == nil {
				continue
			}
			err := s.SetReference(name, comp, ptr(*v))
			switch {
			case errors.Is(err, calib.ErrNotFound):
				unmatched = append(unmatched, Unmatched{Spectrum: name, Component: comp})
			case err != nil:
				return nil, err
			}
		}
	}
	return unmatched, nil
}

// FromSession snapshots the components and reference values of s.
func FromSession(s *calib.Session) *File {
	f := &File{Components: s.Components()}

	known := make(map[string]bool, len(f.Components))
	for _, c := range f.Components {
		known[c.Name] = true
	}

	pool := s.Pool()
	for _, name := range pool.Names() {
		for comp, v := range pool.References(name) {
			if !known[comp] {
				continue
			}
			if f.References == nil {
				f.References = make(map[string]map[string]*float64)
			}
			if f.References[name] == nil {
				f.References[name] = make(map[string]*float64)
			}
			f.References[name][comp] = ptr(v)
		}
	}
	return f
}

func ptr(v float64) *float64 { return &v }

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
