package pls

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const eps = 0x1p-52

// errConstantResidual stops the component loop when Y is fully explained.
var errConstantResidual = errors.New("pls: Y residual is constant")

// firstSingularVectors runs the NIPALS power method on the current residuals
// and returns the X and Y weights of the next component.
func firstSingularVectors(xk, yk *mat.Dense, cfg config) (xw, yw []float64, nIter int, err error) {
	n, p := xk.Dims()
	_, q := yk.Dims()

	yScore := make([]float64, n)
	found := false
	for j := range q {
		mat.Col(yScore, j, yk)
		if anyAbove(yScore, eps) {
			found = true
			break
		}
	}
	if !found {
		return nil, nil, 0, errConstantResidual
	}

	xw = make([]float64, p)
	yw = make([]float64, q)
	xScore := make([]float64, n)
	xwOld := make([]float64, p)
	for i := range xwOld {
		xwOld[i] = 100
	}

	xwVec := mat.NewVecDense(p, xw)
	ywVec := mat.NewVecDense(q, yw)
	xScoreVec := mat.NewVecDense(n, xScore)
	yScoreVec := mat.NewVecDense(n, yScore)

	for nIter = 1; nIter <= cfg.maxIter; nIter++ {
		xwVec.MulVec(xk.T(), yScoreVec)
		xwVec.ScaleVec(1/floats.Dot(yScore, yScore), xwVec)
		xwVec.ScaleVec(1/(math.Sqrt(floats.Dot(xw, xw))+eps), xwVec)

		xScoreVec.MulVec(xk, xwVec)

		ywVec.MulVec(yk.T(), xScoreVec)
		ywVec.ScaleVec(1/floats.Dot(xScore, xScore), ywVec)

		yScoreVec.MulVec(yk, ywVec)
		yScoreVec.ScaleVec(1/(floats.Dot(yw, yw)+eps), yScoreVec)

		var diff float64
		for i := range xw {
			d := xw[i] - xwOld[i]
			diff += d * d
		}
		if q == 1 || diff < cfg.tol {
			break
		}
		copy(xwOld, xw)
	}

	return xw, yw, min(nIter, cfg.maxIter), nil
}

// flipSign makes the largest absolute entry of u positive and applies the
// same sign to v.
func flipSign(u, v []float64) {
	idx := 0
	for i, x := range u {
		if math.Abs(x) > math.Abs(u[idx]) {
			idx = i
		}
	}
	if u[idx] < 0 {
		floats.Scale(-1, u)
		floats.Scale(-1, v)
	}
}

func anyAbove(x []float64, limit float64) bool {
	for _, v := range x {
		if math.Abs(v) > limit {
			return true
		}
	}
	return false
}

// zeroNegligibleColumns clears Y columns whose every entry is below 10*eps.
func zeroNegligibleColumns(yk *mat.Dense) {
	n, q := yk.Dims()
	for j := range q {
		negligible := true
		for i := range n {
			if math.Abs(yk.At(i, j)) >= 10*eps {
				negligible = false
				break
			}
		}
		if negligible {
			for i := range n {
				yk.Set(i, j, 0)
			}
		}
	}
}

// deflate subtracts outer(scores, loadings) from m in place.
func deflate(m *mat.Dense, scores, loadings []float64) {
	rows, cols := m.Dims()
	for i := range rows {
		row := m.RawRowView(i)
		for j := range cols {
			row[j] -= scores[i] * loadings[j]
		}
	}
}

// pinv returns the Moore-Penrose pseudo-inverse of a, discarding singular
// values below max(m, n) * eps * sMax.
func pinv(a *mat.Dense) (*mat.Dense, error) {
	m, n := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrNumerical
	}

	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	out := mat.NewDense(n, m, nil)
	if len(s) == 0 {
		return out, nil
	}

	cutoff := float64(max(m, n)) * eps * s[0]
	for k, sv := range s {
		if sv <= cutoff {
			continue
		}
		for i := range n {
			vik := v.At(i, k) / sv
			for j := range m {
				out.Set(i, j, out.At(i, j)+vik*u.At(j, k))
			}
		}
	}

	return out, nil
}
