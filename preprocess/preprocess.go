package preprocess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cwbudde/algo-chemometrics/dsp/filter/savgol"
)

const (
	// WindowLength is the Savitzky-Golay window used for derivatives.
	WindowLength = 11
	// PolyOrder is the order of the local polynomial fit.
	PolyOrder = 2
)

var (
	// ErrInvalidInputLength is returned when a derivative is requested for an
	// input shorter than WindowLength.
	ErrInvalidInputLength = errors.New("preprocess: input shorter than derivative window")
	// ErrInvalidDerivative is returned for derivative orders other than 0, 1 or 2.
	ErrInvalidDerivative = errors.New("preprocess: derivative order must be 0, 1 or 2")
)

// Derivative selects the transform applied by Process.
type Derivative int

const (
	// None leaves the intensities untouched.
	None Derivative = iota
	// First is the first Savitzky-Golay derivative.
	First
	// Second is the second Savitzky-Golay derivative.
	Second
)

// Valid reports whether d is one of None, First or Second.
func (d Derivative) Valid() bool {
	return d >= None && d <= Second
}

func (d Derivative) String() string {
	switch d {
	case None:
		return "none"
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return "Derivative(" + strconv.Itoa(int(d)) + ")"
	}
}

// Title returns the caption used when displaying spectra processed with d.
func (d Derivative) Title() string {
	switch d {
	case First:
		return "1st Derivative"
	case Second:
		return "2nd Derivative"
	default:
		return "Original Spectra"
	}
}

// ParseDerivative accepts "0", "1", "2", "none", "first", "second", "1st"
// and "2nd" (case-insensitive).
func ParseDerivative(s string) (Derivative, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "none", "raw", "original":
		return None, nil
	case "1", "first", "1st":
		return First, nil
	case "2", "second", "2nd":
		return Second, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrInvalidDerivative, s)
	}
}

// MarshalText encodes d by name.
func (d Derivative) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDerivative, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts every spelling ParseDerivative does.
func (d *Derivative) UnmarshalText(text []byte) error {
	v, err := ParseDerivative(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

var filters = sync.OnceValues(func() ([]*savgol.Filter, error) {
	out := make([]*savgol.Filter, 3)
	for _, d := range []Derivative{First, Second} {
		f, err := savgol.Design(WindowLength, PolyOrder, int(d))
		if err != nil {
			return nil, err
		}
		out[d] = f
	}
	return out, nil
})

// Process returns intensity transformed by the derivative order d.
//
// For None the input slice itself is returned; it is never modified.
// First and Second return a new slice of the same length and fail with
// ErrInvalidInputLength for inputs shorter than WindowLength.
func Process(intensity []float64, d Derivative) ([]float64, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDerivative, int(d))
	}

	if d == None {
		return intensity, nil
	}

	if len(intensity) < WindowLength {
		return nil, fmt.Errorf("%w: %d < %d", ErrInvalidInputLength, len(intensity), WindowLength)
	}

	fs, err := filters()
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	return fs[d].Apply(intensity)
}

// ProcessWindow is Process with a caller-chosen Savitzky-Golay window and
// polynomial order. Filters for the default window are shared with Process;
// any other combination is designed per call.
func ProcessWindow(intensity []float64, d Derivative, window, polyOrder int) ([]float64, error) {
	if window == WindowLength && polyOrder == PolyOrder {
		return Process(intensity, d)
	}

	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDerivative, int(d))
	}

	if d == None {
		return intensity, nil
	}

	f, err := savgol.Design(window, polyOrder, int(d))
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	if len(intensity) < window {
		return nil, fmt.Errorf("%w: %d < %d", ErrInvalidInputLength, len(intensity), window)
	}

	return f.Apply(intensity)
}
