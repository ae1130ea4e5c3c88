package calib

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/cwbudde/algo-chemometrics/preprocess"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

// Result is the outcome of Session.Train.
type Result struct {
	Component string
	Model     *Model
	Metrics   Metrics
	Samples   int
	Excluded  []Exclusion
}

// Session is one calibration workflow: a spectra pool, the list of
// components reference values are kept for, and the latest model per
// component. A Session is not safe for concurrent use.
type Session struct {
	pool       *spectra.Pool
	components []spectra.Component
	models     *Registry
}

// NewSession returns a session with an empty pool.
func NewSession() *Session {
	pool, _ := spectra.NewPool()
	return &Session{
		pool:   pool,
		models: NewRegistry(),
	}
}

// Pool returns the current spectra pool.
func (s *Session) Pool() *spectra.Pool { return s.pool }

// Models returns a read-only view of the trained models. Use Model to fetch
// one; models change only through Train and the component operations.
func (s *Session) Models() ModelSet { return ModelSet{r: s.models} }

// LoadPool replaces the spectra pool wholesale. Components and trained
// models are kept; reference values belong to the old pool and are dropped
// with it.
func (s *Session) LoadPool(pool *spectra.Pool) {
	if pool == nil {
		pool, _ = spectra.NewPool()
	}
	s.pool = pool
}

// Components returns a copy of the component list in creation order.
func (s *Session) Components() []spectra.Component {
	return slices.Clone(s.components)
}

// Component returns the named component.
func (s *Session) Component(name string) (spectra.Component, error) {
	i := s.index(name)
	if i < 0 {
		return spectra.Component{}, fmt.Errorf("%w: component %q", ErrNotFound, name)
	}
	return s.components[i], nil
}

func (s *Session) index(name string) int {
	return slices.IndexFunc(s.components, func(c spectra.Component) bool { return c.Name == name })
}

// AddComponent appends a component. An empty name is replaced by the first
// free "NewComponentN".
func (s *Session) AddComponent(name, abbrev, unit string) (spectra.Component, error) {
	if name == "" {
		for n := len(s.components) + 1; ; n++ {
			name = "NewComponent" + strconv.Itoa(n)
			if s.index(name) < 0 {
				break
			}
		}
	}
	if s.index(name) >= 0 {
		return spectra.Component{}, fmt.Errorf("%w: component %q", ErrDuplicateName, name)
	}

	c := spectra.Component{Name: name, Abbrev: abbrev, Unit: unit}
	s.components = append(s.components, c)
	return c, nil
}

// UpdateComponent changes the display fields of a component.
func (s *Session) UpdateComponent(name, abbrev, unit string) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("%w: component %q", ErrNotFound, name)
	}
	s.components[i].Abbrev = abbrev
	s.components[i].Unit = unit
	return nil
}

// RenameComponent renames a component everywhere: the component list, the
// reference values of every spectrum and the model registry. All checks run
// before anything is modified, so a failed rename leaves the session as it
// was.
func (s *Session) RenameComponent(from, to string) error {
	i := s.index(from)
	if i < 0 {
		return fmt.Errorf("%w: component %q", ErrNotFound, from)
	}
	if to == "" {
		return ErrEmptyName
	}
	if from == to {
		return nil
	}
	if s.index(to) >= 0 || s.models.Has(to) {
		return fmt.Errorf("%w: component %q", ErrDuplicateName, to)
	}

	s.components[i].Name = to
	s.pool.RenameComponent(from, to)
	if s.models.Has(from) {
		// Cannot fail: from exists and to is free.
		_ = s.models.Rename(from, to)
	}
	return nil
}

// RemoveComponent deletes a component together with its reference values
// and model.
func (s *Session) RemoveComponent(name string) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("%w: component %q", ErrNotFound, name)
	}

	s.components = slices.Delete(s.components, i, i+1)
	s.pool.RemoveComponent(name)
	if s.models.Has(name) {
		_ = s.models.Remove(name)
	}
	return nil
}

// SetReference sets (or, with a nil value, clears) the reference value of
// component for one spectrum.
func (s *Session) SetReference(spectrum, component string, value *float64) error {
	if s.index(component) < 0 {
		return fmt.Errorf("%w: component %q", ErrNotFound, component)
	}
	if err := s.pool.SetReference(spectrum, component, value); err != nil {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return nil
}

// Model returns the latest model of a component.
func (s *Session) Model(component string) (*Model, error) {
	return s.models.Get(component)
}

// Train assembles the dataset of component, trains a model and stores it in
// the registry, replacing any earlier model of that component.
func (s *Session) Train(component string, latent int, order preprocess.Derivative, opts ...TrainOption) (*Result, error) {
	if s.index(component) < 0 {
		return nil, fmt.Errorf("%w: component %q", ErrNotFound, component)
	}

	ds, err := Assemble(s.pool, component, order)
	if err != nil {
		return nil, err
	}

	m, metrics, err := Train(ds, latent, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.models.Put(component, m); err != nil {
		return nil, err
	}

	return &Result{
		Component: component,
		Model:     m,
		Metrics:   metrics,
		Samples:   ds.Len(),
		Excluded:  ds.Excluded,
	}, nil
}
