package savgol

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-chemometrics/internal/testutil"
)

const eps = 1e-12

func scaled(num []float64, den float64) []float64 {
	out := make([]float64, len(num))
	for i, v := range num {
		out[i] = v / den
	}
	return out
}

func TestDesignCentreCoefficients(t *testing.T) {
	tests := []struct {
		name  string
		deriv int
		want  []float64
	}{
		{
			name:  "smooth",
			deriv: 0,
			want:  scaled([]float64{-36, 9, 44, 69, 84, 89, 84, 69, 44, 9, -36}, 429),
		},
		{
			name:  "first derivative",
			deriv: 1,
			want:  scaled([]float64{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5}, 110),
		},
		{
			name:  "second derivative",
			deriv: 2,
			want:  scaled([]float64{15, 6, -1, -6, -9, -10, -9, -6, -1, 6, 15}, 429),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Design(11, 2, tt.deriv)
			if err != nil {
				t.Fatalf("Design() error = %v", err)
			}

			testutil.RequireSliceNearlyEqual(t, f.Coefficients(), tt.want, eps)
		})
	}
}

func TestDesignFiveTap(t *testing.T) {
	f, err := Design(5, 2, 0)
	if err != nil {
		t.Fatalf("Design() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, f.Coefficients(), scaled([]float64{-3, 12, 17, 12, -3}, 35), eps)
}

func TestDesignRowMoments(t *testing.T) {
	for _, deriv := range []int{0, 1, 2} {
		f, err := Design(11, 2, deriv)
		if err != nil {
			t.Fatalf("Design(deriv=%d) error = %v", deriv, err)
		}

		want := 0.0
		if deriv == 0 {
			want = 1
		}

		for pos := range f.Window() {
			row, err := f.EdgeWeights(pos)
			if err != nil {
				t.Fatalf("EdgeWeights(%d) error = %v", pos, err)
			}

			sum := 0.0
			for _, w := range row {
				sum += w
			}

			if math.Abs(sum-want) > 1e-12 {
				t.Fatalf("deriv %d pos %d: row sum = %v, want %v", deriv, pos, sum, want)
			}
		}
	}
}

func TestDesignErrors(t *testing.T) {
	tests := []struct {
		name      string
		window    int
		polyOrder int
		deriv     int
		want      error
	}{
		{name: "even window", window: 10, polyOrder: 2, deriv: 0, want: ErrInvalidWindow},
		{name: "tiny window", window: 1, polyOrder: 0, deriv: 0, want: ErrInvalidWindow},
		{name: "order too high", window: 5, polyOrder: 5, deriv: 0, want: ErrInvalidPolyOrder},
		{name: "negative order", window: 5, polyOrder: -1, deriv: 0, want: ErrInvalidPolyOrder},
		{name: "deriv above order", window: 11, polyOrder: 2, deriv: 3, want: ErrInvalidDerivative},
		{name: "negative deriv", window: 11, polyOrder: 2, deriv: -1, want: ErrInvalidDerivative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Design(tt.window, tt.polyOrder, tt.deriv); !errors.Is(err, tt.want) {
				t.Fatalf("Design() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApplyRamp(t *testing.T) {
	x := testutil.Ramp(0.5, 3, 40)

	tests := []struct {
		deriv int
		want  []float64
	}{
		{deriv: 0, want: x},
		{deriv: 1, want: testutil.Ramp(0, 0.5, 40)},
		{deriv: 2, want: make([]float64, 40)},
	}

	for _, tt := range tests {
		f, err := Design(11, 2, tt.deriv)
		if err != nil {
			t.Fatalf("Design() error = %v", err)
		}

		got, err := f.Apply(x)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-10)
	}
}

func TestApplyQuadraticIsExactAtEdges(t *testing.T) {
	const n = 50
	x := testutil.Polynomial([]float64{0, 0, 1}, n)

	d1, err := mustDesign(t, 11, 2, 1).Apply(x)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, d1, testutil.Ramp(2, 0, n), 1e-9)

	d2, err := mustDesign(t, 11, 2, 2).Apply(x)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, d2, testutil.Ramp(0, 2, n), 1e-9)
}

func TestApplyLongWindowUsesFFTPath(t *testing.T) {
	const n = 300
	x := testutil.Polynomial([]float64{0.3, 0, 0, 1e-6}, n)

	got, err := mustDesign(t, 129, 3, 1).Apply(x)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := testutil.Polynomial([]float64{0, 0, 3e-6}, n)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestApplyWithDelta(t *testing.T) {
	x := testutil.DeterministicNoise(9, 1, 60)

	perSample, err := mustDesign(t, 11, 2, 1).Apply(x)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	f := mustDesign(t, 11, 2, 1, WithDelta(0.5))
	if f.Delta() != 0.5 {
		t.Fatalf("Delta() = %v, want 0.5", f.Delta())
	}

	halfStep, err := f.Apply(x)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	for i := range perSample {
		if math.Abs(halfStep[i]-2*perSample[i]) > 1e-12 {
			t.Fatalf("index %d: got %v, want %v", i, halfStep[i], 2*perSample[i])
		}
	}
}

func TestWithDeltaIgnoresInvalid(t *testing.T) {
	for _, d := range []float64{0, -1, math.Inf(1)} {
		if got := mustDesign(t, 5, 2, 1, WithDelta(d)).Delta(); got != 1 {
			t.Fatalf("WithDelta(%v): Delta() = %v, want 1", d, got)
		}
	}
}

func TestApplyExactWindowLength(t *testing.T) {
	x := testutil.Polynomial([]float64{1, -2, 0.25}, 11)

	got, err := mustDesign(t, 11, 2, 0).Apply(x)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, x, 1e-10)
}

func TestApplyInputTooShort(t *testing.T) {
	_, err := mustDesign(t, 11, 2, 1).Apply(make([]float64, 10))
	if !errors.Is(err, ErrInputTooShort) {
		t.Fatalf("Apply() error = %v, want %v", err, ErrInputTooShort)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	x := testutil.DeterministicNoise(4, 1, 32)
	orig := append([]float64(nil), x...)

	if _, err := mustDesign(t, 7, 2, 2).Apply(x); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, x, orig, 0)
}

func TestApplyDeterministic(t *testing.T) {
	x := testutil.DeterministicNoise(8, 1, 100)
	f := mustDesign(t, 11, 2, 1)

	a, _ := f.Apply(x)
	b, _ := f.Apply(x)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestEdgeWeights(t *testing.T) {
	f := mustDesign(t, 11, 2, 0)

	centre, err := f.EdgeWeights(5)
	if err != nil {
		t.Fatalf("EdgeWeights(5) error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, centre, f.Coefficients(), 0)

	for _, pos := range []int{-1, 11} {
		if _, err := f.EdgeWeights(pos); !errors.Is(err, ErrInvalidPosition) {
			t.Fatalf("EdgeWeights(%d) error = %v, want %v", pos, err, ErrInvalidPosition)
		}
	}
}

func TestAccessors(t *testing.T) {
	f := mustDesign(t, 9, 3, 2)
	if f.Window() != 9 || f.PolyOrder() != 3 || f.Deriv() != 2 {
		t.Fatalf("accessors = (%d, %d, %d), want (9, 3, 2)", f.Window(), f.PolyOrder(), f.Deriv())
	}
}

func mustDesign(t *testing.T, window, polyOrder, deriv int, opts ...Option) *Filter {
	t.Helper()
	f, err := Design(window, polyOrder, deriv, opts...)
	if err != nil {
		t.Fatalf("Design(%d, %d, %d) error = %v", window, polyOrder, deriv, err)
	}
	return f
}
