package scale

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-chemometrics/internal/testutil"
)

func TestFitStatistics(t *testing.T) {
	x := mat.NewDense(4, 3, []float64{
		1, 10, 5,
		2, 20, 5,
		3, 30, 5,
		4, 40, 5,
	})

	s := NewStandardScaler()
	if s.Fitted() {
		t.Fatal("new scaler reports fitted")
	}
	if err := s.Fit(x); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	std := math.Sqrt(1.25)
	testutil.RequireSliceNearlyEqual(t, s.Mean(), []float64{2.5, 25, 5}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, s.Scale(), []float64{std, 10 * std, 1}, 1e-12)

	if s.NFeatures() != 3 {
		t.Fatalf("NFeatures() = %d, want 3", s.NFeatures())
	}
}

func TestTransformStandardizes(t *testing.T) {
	rows, cols := 12, 5
	data := testutil.DeterministicNoise(3, 4, rows*cols)
	for i := range data {
		data[i] += float64(i % cols)
	}
	x := mat.NewDense(rows, cols, data)

	z, err := NewStandardScaler().FitTransform(x)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, z)
		mean, sumSq := 0.0, 0.0
		for _, v := range col {
			mean += v
		}
		mean /= float64(rows)
		for _, v := range col {
			sumSq += (v - mean) * (v - mean)
		}

		if math.Abs(mean) > 1e-12 {
			t.Fatalf("column %d mean = %v, want 0", j, mean)
		}
		if v := sumSq / float64(rows); math.Abs(v-1) > 1e-12 {
			t.Fatalf("column %d variance = %v, want 1", j, v)
		}
	}

	if data[0] != x.At(0, 0) {
		t.Fatal("Transform modified its input")
	}
}

func TestTransformUsesFittedStatistics(t *testing.T) {
	train := mat.NewDense(2, 1, []float64{0, 2})
	test := mat.NewDense(2, 1, []float64{4, -1})

	s := NewStandardScaler()
	if err := s.Fit(train); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	z, err := s.Transform(test)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, mat.Col(nil, 0, z), []float64{3, -2}, 1e-12)
}

func TestInverseTransformRoundTrip(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, -4, 2, 0, 7, 3})

	s := NewStandardScaler()
	z, err := s.FitTransform(x)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	back, err := s.InverseTransform(z)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}

	if !mat.EqualApprox(back, x, 1e-12) {
		t.Fatalf("round trip = %v, want %v", mat.Formatted(back), mat.Formatted(x))
	}
}

func TestScalerErrors(t *testing.T) {
	s := NewStandardScaler()

	if _, err := s.Transform(mat.NewDense(1, 1, nil)); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("Transform() before Fit error = %v, want %v", err, ErrNotFitted)
	}

	if err := s.Fit(&mat.Dense{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Fit(empty) error = %v, want %v", err, ErrEmpty)
	}

	if err := s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if _, err := s.Transform(mat.NewDense(1, 3, nil)); !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("Transform() error = %v, want %v", err, ErrFeatureMismatch)
	}
	if _, err := s.InverseTransform(mat.NewDense(1, 3, nil)); !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("InverseTransform() error = %v, want %v", err, ErrFeatureMismatch)
	}
}
