package pls

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrDimensionMismatch is returned when X and Y row counts differ or a
	// matrix passed to Predict has the wrong number of columns.
	ErrDimensionMismatch = errors.New("pls: dimension mismatch")
	// ErrInvalidComponents is returned when the component count is outside
	// [1, min(samples, features)].
	ErrInvalidComponents = errors.New("pls: invalid number of components")
	// ErrTooFewSamples is returned when fewer than two rows are given.
	ErrTooFewSamples = errors.New("pls: at least two samples required")
	// ErrNumerical is returned when the decomposition produces degenerate
	// or non-finite values.
	ErrNumerical = errors.New("pls: numerical failure")
)

// Regression is a fitted PLS model. It is immutable and safe for concurrent
// use.
type Regression struct {
	requested int

	xMean, xStd []float64
	yMean, yStd []float64

	xWeights  *mat.Dense // p×k
	xLoadings *mat.Dense // p×k
	yWeights  *mat.Dense // q×k
	yLoadings *mat.Dense // q×k
	rotations *mat.Dense // p×k
	coef      *mat.Dense // p×q

	nIter []int
}

// Fit fits a PLS regression with nComponents latent components.
//
// x is n×p, y is n×q. Fewer components than requested are kept when the Y
// residual becomes constant; Components reports the effective count.
func Fit(x, y mat.Matrix, nComponents int, opts ...Option) (*Regression, error) {
	n, p := x.Dims()
	ny, q := y.Dims()

	if n != ny {
		return nil, fmt.Errorf("%w: X has %d rows, Y has %d", ErrDimensionMismatch, n, ny)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSamples, n)
	}
	if q == 0 || p == 0 {
		return nil, fmt.Errorf("%w: empty block", ErrDimensionMismatch)
	}
	if nComponents < 1 || nComponents > min(n, p) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidComponents, nComponents, min(n, p))
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	xk := mat.DenseCopyOf(x)
	yk := mat.DenseCopyOf(y)

	r := &Regression{requested: nComponents}
	r.xMean, r.xStd = centerScale(xk, cfg.scale)
	r.yMean, r.yStd = centerScale(yk, cfg.scale)

	var xws, xls, yws, yls [][]float64

	xScores := make([]float64, n)
	xScoresVec := mat.NewVecDense(n, xScores)
	xLoad := mat.NewVecDense(p, nil)
	yLoad := mat.NewVecDense(q, nil)

	for k := range nComponents {
		zeroNegligibleColumns(yk)

		xw, yw, nIter, err := firstSingularVectors(xk, yk, cfg)
		if errors.Is(err, errConstantResidual) {
			break
		}
		if err != nil {
			return nil, err
		}

		flipSign(xw, yw)

		xScoresVec.MulVec(xk, mat.NewVecDense(p, xw))
		ss := floats.Dot(xScores, xScores)
		if ss == 0 || !isFinite(ss) || !allFinite(xw) || !allFinite(yw) {
			return nil, fmt.Errorf("%w: degenerate scores at component %d", ErrNumerical, k+1)
		}

		xLoad.MulVec(xk.T(), xScoresVec)
		xLoad.ScaleVec(1/ss, xLoad)
		deflate(xk, xScores, xLoad.RawVector().Data)

		yLoad.MulVec(yk.T(), xScoresVec)
		yLoad.ScaleVec(1/ss, yLoad)
		deflate(yk, xScores, yLoad.RawVector().Data)

		xws = append(xws, xw)
		yws = append(yws, yw)
		xls = append(xls, slices.Clone(xLoad.RawVector().Data))
		yls = append(yls, slices.Clone(yLoad.RawVector().Data))
		r.nIter = append(r.nIter, nIter)
	}

	if len(xws) == 0 {
		return nil, fmt.Errorf("%w: Y is constant", ErrNumerical)
	}

	r.xWeights = columns(xws)
	r.xLoadings = columns(xls)
	r.yWeights = columns(yws)
	r.yLoadings = columns(yls)

	// rotations = W (PᵀW)⁺
	var ptw mat.Dense
	ptw.Mul(r.xLoadings.T(), r.xWeights)
	inv, err := pinv(&ptw)
	if err != nil {
		return nil, err
	}
	r.rotations = mat.NewDense(p, len(xws), nil)
	r.rotations.Mul(r.xWeights, inv)

	// coef = rotations Qᵀ, rescaled to raw units.
	r.coef = mat.NewDense(p, q, nil)
	r.coef.Mul(r.rotations, r.yLoadings.T())
	for i := range p {
		row := r.coef.RawRowView(i)
		for j := range q {
			row[j] = row[j] * r.yStd[j] / r.xStd[i]
		}
		if !allFinite(row) {
			return nil, fmt.Errorf("%w: non-finite coefficients", ErrNumerical)
		}
	}

	return r, nil
}

// centerScale subtracts column means in place and, when scale is set,
// divides by the column sample standard deviation. Zero deviations become 1.
func centerScale(m *mat.Dense, scale bool) (mean, std []float64) {
	rows, cols := m.Dims()
	mean = make([]float64, cols)
	std = make([]float64, cols)

	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, m)
		mu, sd := stat.MeanStdDev(col, nil)
		mean[j] = mu
		std[j] = 1
		if scale && sd != 0 && !math.IsNaN(sd) {
			std[j] = sd
		}
	}

	for i := range rows {
		row := m.RawRowView(i)
		for j := range cols {
			row[j] = (row[j] - mean[j]) / std[j]
		}
	}

	return mean, std
}

// columns stacks vectors as the columns of a new matrix.
func columns(vs [][]float64) *mat.Dense {
	out := mat.NewDense(len(vs[0]), len(vs), nil)
	for k, v := range vs {
		out.SetCol(k, v)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(vs []float64) bool {
	for _, v := range vs {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Predict returns (x - mean) · Coef + Intercept as an n×q matrix.
func (r *Regression) Predict(x mat.Matrix) (*mat.Dense, error) {
	n, p := x.Dims()
	if p != len(r.xMean) {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, p, len(r.xMean))
	}

	centred := mat.DenseCopyOf(x)
	for i := range n {
		floats.Sub(centred.RawRowView(i), r.xMean)
	}

	out := mat.NewDense(n, len(r.yMean), nil)
	out.Mul(centred, r.coef)
	for i := range n {
		floats.Add(out.RawRowView(i), r.yMean)
	}

	return out, nil
}

// Transform projects x onto the latent space and returns the n×k scores.
func (r *Regression) Transform(x mat.Matrix) (*mat.Dense, error) {
	n, p := x.Dims()
	if p != len(r.xMean) {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, p, len(r.xMean))
	}

	scaled := mat.DenseCopyOf(x)
	for i := range n {
		row := scaled.RawRowView(i)
		floats.Sub(row, r.xMean)
		floats.Div(row, r.xStd)
	}

	out := mat.NewDense(n, r.Components(), nil)
	out.Mul(scaled, r.rotations)
	return out, nil
}

// Components returns the number of latent components actually extracted.
func (r *Regression) Components() int {
	_, k := r.xWeights.Dims()
	return k
}

// Requested returns the component count passed to Fit.
func (r *Regression) Requested() int { return r.requested }

// NFeatures returns the number of X columns.
func (r *Regression) NFeatures() int { return len(r.xMean) }

// NTargets returns the number of Y columns.
func (r *Regression) NTargets() int { return len(r.yMean) }

// Coef returns a copy of the p×q coefficient matrix in raw units.
func (r *Regression) Coef() *mat.Dense { return mat.DenseCopyOf(r.coef) }

// Intercept returns a copy of the per-target intercept (the Y means).
func (r *Regression) Intercept() []float64 { return slices.Clone(r.yMean) }

// XWeights returns a copy of the p×k X weight matrix.
func (r *Regression) XWeights() *mat.Dense { return mat.DenseCopyOf(r.xWeights) }

// XLoadings returns a copy of the p×k X loading matrix.
func (r *Regression) XLoadings() *mat.Dense { return mat.DenseCopyOf(r.xLoadings) }

// YWeights returns a copy of the q×k Y weight matrix.
func (r *Regression) YWeights() *mat.Dense { return mat.DenseCopyOf(r.yWeights) }

// YLoadings returns a copy of the q×k Y loading matrix.
func (r *Regression) YLoadings() *mat.Dense { return mat.DenseCopyOf(r.yLoadings) }

// Rotations returns a copy of the p×k matrix mapping scaled X to scores.
func (r *Regression) Rotations() *mat.Dense { return mat.DenseCopyOf(r.rotations) }

// Iterations returns the power-method iteration count of every component.
func (r *Regression) Iterations() []int { return slices.Clone(r.nIter) }
