package spectra

import "fmt"

// Spectrum is one measured spectrum: a wavenumber axis and the intensities
// recorded at those wavenumbers. It is immutable after New.
type Spectrum struct {
	name string
	x    []float64
	y    []float64
}

// New validates and copies x and y into a Spectrum.
func New(name string, x, y []float64) (*Spectrum, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %s has %d wavenumbers and %d intensities", ErrLengthMismatch, name, len(x), len(y))
	}
	if len(y) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySpectrum, name)
	}

	return &Spectrum{
		name: name,
		x:    append([]float64(nil), x...),
		y:    append([]float64(nil), y...),
	}, nil
}

// Name returns the spectrum key, usually its file name.
func (s *Spectrum) Name() string { return s.name }

// Len returns the number of samples.
func (s *Spectrum) Len() int { return len(s.y) }

// Wavenumbers returns the x axis. The slice must not be modified.
func (s *Spectrum) Wavenumbers() []float64 { return s.x }

// Intensity returns the y values. The slice must not be modified.
func (s *Spectrum) Intensity() []float64 { return s.y }
