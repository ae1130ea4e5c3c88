package calib

import (
	"fmt"

	"github.com/cwbudde/algo-chemometrics/preprocess"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

// MinSamples is the smallest number of labelled spectra Assemble accepts.
const MinSamples = 5

// Exclusion records a labelled spectrum left out of a dataset.
type Exclusion struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Dataset is the feature matrix and target vector for one component,
// in pool order.
type Dataset struct {
	Component  string
	Derivative preprocess.Derivative
	Names      []string
	Features   [][]float64
	Targets    []float64
	Excluded   []Exclusion
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Targets) }

// NFeatures returns the common feature length.
func (d *Dataset) NFeatures() int {
	if len(d.Features) == 0 {
		return 0
	}
	return len(d.Features[0])
}

// Assemble collects every spectrum of pool that has a reference value for
// component, applies the derivative order to it and pairs it with that value.
//
// Spectra whose length differs from the most common length among the
// labelled spectra are listed in Excluded rather than truncated or padded.
// Fewer than MinSamples remaining spectra yield ErrInsufficientData before
// any preprocessing takes place.
func Assemble(pool *spectra.Pool, component string, order preprocess.Derivative) (*Dataset, error) {
	if component == "" {
		return nil, ErrEmptyName
	}
	if !order.Valid() {
		return nil, fmt.Errorf("%w: derivative %d", ErrInvalidParameter, int(order))
	}

	type candidate struct {
		spectrum *spectra.Spectrum
		ref      float64
	}

	var candidates []candidate
	counts := make(map[int]int)
	var lengths []int

	if pool != nil {
		pool.Each(func(s *spectra.Spectrum) bool {
			ref, ok := pool.Reference(s.Name(), component)
			if !ok {
				return true
			}
			candidates = append(candidates, candidate{spectrum: s, ref: ref})
			if counts[s.Len()] == 0 {
				lengths = append(lengths, s.Len())
			}
			counts[s.Len()]++
			return true
		})
	}

	modal := 0
	for _, l := range lengths {
		if counts[l] > counts[modal] {
			modal = l
		}
	}

	ds := &Dataset{Component: component, Derivative: order}
	kept := candidates[:0:0]
	for _, c := range candidates {
		if c.spectrum.Len() != modal {
			ds.Excluded = append(ds.Excluded, Exclusion{
				Name:   c.spectrum.Name(),
				Reason: fmt.Sprintf("length %d differs from common length %d", c.spectrum.Len(), modal),
			})
			continue
		}
		kept = append(kept, c)
	}

	if len(kept) < MinSamples {
		return nil, fmt.Errorf("%w: need at least %d reference values for %q, have %d",
			ErrInsufficientData, MinSamples, component, len(kept))
	}

	ds.Names = make([]string, 0, len(kept))
	ds.Features = make([][]float64, 0, len(kept))
	ds.Targets = make([]float64, 0, len(kept))

	for _, c := range kept {
		features, err := preprocess.Process(c.spectrum.Intensity(), order)
		if err != nil {
			return nil, fmt.Errorf("calib: spectrum %s: %w", c.spectrum.Name(), err)
		}
		ds.Names = append(ds.Names, c.spectrum.Name())
		ds.Features = append(ds.Features, features)
		ds.Targets = append(ds.Targets, c.ref)
	}

	return ds, nil
}
