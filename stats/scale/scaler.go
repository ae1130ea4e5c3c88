package scale

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNotFitted is returned when Transform is called before Fit.
	ErrNotFitted = errors.New("scale: scaler not fitted")
	// ErrEmpty is returned when fitting on a matrix without rows.
	ErrEmpty = errors.New("scale: empty matrix")
	// ErrFeatureMismatch is returned when the column count differs from the fitted one.
	ErrFeatureMismatch = errors.New("scale: feature count mismatch")
)

// zeroScale is the standard deviation below which a column is treated as
// constant and left unscaled (ten machine epsilons).
const zeroScale = 10 * 0x1p-52

// StandardScaler removes the column mean and divides by the column's
// population standard deviation. Constant columns keep a scale of 1.
type StandardScaler struct {
	mean  []float64
	scale []float64
	inv   []float64
}

// NewStandardScaler returns an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit learns the column statistics of x.
func (s *StandardScaler) Fit(x mat.Matrix) error {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return ErrEmpty
	}

	s.mean = make([]float64, cols)
	s.scale = make([]float64, cols)
	s.inv = make([]float64, cols)

	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std < zeroScale || math.IsNaN(std) {
			std = 1
		}
		s.mean[j] = mean
		s.scale[j] = std
		s.inv[j] = 1 / std
	}

	return nil
}

// Transform returns (x - mean) / scale as a new matrix.
func (s *StandardScaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	if err := s.check(x); err != nil {
		return nil, err
	}

	out := mat.DenseCopyOf(x)
	rows, _ := out.Dims()
	for i := range rows {
		row := out.RawRowView(i)
		for j := range row {
			row[j] -= s.mean[j]
		}
		vecmath.MulBlockInPlace(row, s.inv)
	}

	return out, nil
}

// FitTransform fits on x and returns x transformed.
func (s *StandardScaler) FitTransform(x mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

// InverseTransform maps scaled values back to the original units.
func (s *StandardScaler) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	if err := s.check(x); err != nil {
		return nil, err
	}

	out := mat.DenseCopyOf(x)
	rows, _ := out.Dims()
	for i := range rows {
		row := out.RawRowView(i)
		vecmath.MulBlockInPlace(row, s.scale)
		for j := range row {
			row[j] += s.mean[j]
		}
	}

	return out, nil
}

// Fitted reports whether Fit has been called successfully.
func (s *StandardScaler) Fitted() bool { return s.mean != nil }

// NFeatures returns the number of columns seen by Fit.
func (s *StandardScaler) NFeatures() int { return len(s.mean) }

// Mean returns a copy of the fitted column means.
func (s *StandardScaler) Mean() []float64 { return slices.Clone(s.mean) }

// Scale returns a copy of the fitted column scales.
func (s *StandardScaler) Scale() []float64 { return slices.Clone(s.scale) }

func (s *StandardScaler) check(x mat.Matrix) error {
	if !s.Fitted() {
		return ErrNotFitted
	}
	if _, cols := x.Dims(); cols != len(s.mean) {
		return fmt.Errorf("%w: got %d, want %d", ErrFeatureMismatch, cols, len(s.mean))
	}
	return nil
}
