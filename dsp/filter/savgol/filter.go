package savgol

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-chemometrics/dsp/conv"
)

// Filter holds the Savitzky-Golay weights for one (window, polyOrder, deriv)
// combination. It is immutable and safe for concurrent use.
type Filter struct {
	window    int
	polyOrder int
	deriv     int
	delta     float64

	// rows[p] evaluates the fit at window position p (p == window/2 is the centre).
	rows [][]float64
}

// Design computes the weights of a Savitzky-Golay filter.
//
// The fit uses the abscissa u = t/half with t in [-half, half] so that the
// normal equations stay well conditioned for long windows; the derivative is
// rescaled back to per-sample (or per-delta) units.
func Design(window, polyOrder, deriv int, opts ...Option) (*Filter, error) {
	if err := validateDesign(window, polyOrder, deriv); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	half := window / 2
	cols := polyOrder + 1

	vander := mat.NewDense(window, cols, nil)
	for i := range window {
		u := float64(i-half) / float64(half)
		p := 1.0
		for k := range cols {
			vander.Set(i, k, p)
			p *= u
		}
	}

	var normal mat.SymDense
	normal.SymOuterK(1, vander.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&normal); !ok {
		return nil, fmt.Errorf("%w: window %d, polyOrder %d", ErrIllConditioned, window, polyOrder)
	}

	scale := 1 / math.Pow(float64(half)*cfg.delta, float64(deriv))

	rows := make([][]float64, window)
	g := mat.NewVecDense(cols, nil)
	var c, w mat.VecDense

	for pos := range window {
		u0 := float64(pos-half) / float64(half)
		for k := range cols {
			g.SetVec(k, derivativeTerm(k, deriv, u0)*scale)
		}

		if err := chol.SolveVecTo(&c, g); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIllConditioned, err)
		}

		w.MulVec(vander, &c)
		rows[pos] = mat.Col(nil, 0, &w)
	}

	return &Filter{
		window:    window,
		polyOrder: polyOrder,
		deriv:     deriv,
		delta:     cfg.delta,
		rows:      rows,
	}, nil
}

// derivativeTerm returns d^deriv/du^deriv of u^k evaluated at u0.
func derivativeTerm(k, deriv int, u0 float64) float64 {
	if k < deriv {
		return 0
	}
	f := 1.0
	for j := k - deriv + 1; j <= k; j++ {
		f *= float64(j)
	}
	return f * math.Pow(u0, float64(k-deriv))
}

// Apply filters x and returns a new slice of the same length.
// x is never modified.
func (f *Filter) Apply(x []float64) ([]float64, error) {
	n := len(x)
	if n < f.window {
		return nil, fmt.Errorf("%w: %d < %d", ErrInputTooShort, n, f.window)
	}

	half := f.window / 2

	interior, err := conv.CorrelateValid(x, f.rows[half])
	if err != nil {
		return nil, fmt.Errorf("savgol: %w", err)
	}

	out := make([]float64, n)
	copy(out[half:], interior)

	head := x[:f.window]
	tail := x[n-f.window:]
	for i := range half {
		out[i] = floats.Dot(f.rows[i], head)
		out[n-half+i] = floats.Dot(f.rows[half+1+i], tail)
	}

	return out, nil
}

// Window returns the window length.
func (f *Filter) Window() int { return f.window }

// PolyOrder returns the polynomial order.
func (f *Filter) PolyOrder() int { return f.polyOrder }

// Deriv returns the derivative order.
func (f *Filter) Deriv() int { return f.deriv }

// Delta returns the sample spacing used for derivative scaling.
func (f *Filter) Delta() float64 { return f.delta }

// Coefficients returns a copy of the centre weights in correlation order:
// the output at sample i is sum_j c[j] * x[i-window/2+j].
func (f *Filter) Coefficients() []float64 {
	return append([]float64(nil), f.rows[f.window/2]...)
}

// EdgeWeights returns a copy of the weights evaluating the fitted polynomial
// at window position pos (0 is the first sample of the window).
func (f *Filter) EdgeWeights(pos int) ([]float64, error) {
	if pos < 0 || pos >= f.window {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, pos)
	}
	return append([]float64(nil), f.rows[pos]...), nil
}
