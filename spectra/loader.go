package spectra

import "context"

// Loader reads every spectrum found in a directory.
//
// Implementations report files they cannot read in LoadResult.Skipped
// instead of failing the whole load. An error is returned only when the
// directory itself cannot be read.
type Loader interface {
	Load(ctx context.Context, dir string) (*LoadResult, error)
}

// Skipped describes a file a Loader could not turn into a Spectrum.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// LoadResult is the outcome of one Loader call.
type LoadResult struct {
	Spectra []*Spectrum
	Skipped []Skipped
}

// Pool builds a fresh pool from the accepted spectra.
func (r *LoadResult) Pool() (*Pool, error) {
	return NewPool(r.Spectra...)
}
