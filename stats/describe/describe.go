// Package describe summarises a single spectrum: location, spread and shape
// of its intensity values together with the positions of the extremes.
package describe

import "math"

// Summary holds descriptive statistics of one intensity vector.
type Summary struct {
	Length   int     `json:"length"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"` // population standard deviation
	RMS      float64 `json:"rms"`
	Min      float64 `json:"min"`
	MinPos   int     `json:"min_pos"`
	Max      float64 `json:"max"`
	MaxPos   int     `json:"max_pos"`
	Range    float64 `json:"range"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess
}

// Of computes the summary in a single pass using Welford's online algorithm
// for the higher moments. An empty input yields the zero Summary.
func Of(y []float64) Summary {
	var acc Accumulator
	acc.Add(y...)
	return acc.Summary()
}

// Mean returns the arithmetic mean of y using Kahan summation, or 0 for an
// empty slice.
func Mean(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum, c float64
	for _, v := range y {
		t := v - c
		s := sum + t
		c = (s - sum) - t
		sum = s
	}
	return sum / float64(len(y))
}

// Accumulator gathers a Summary incrementally. Feeding a vector in several
// calls gives bit-identical results to Of on the concatenation. The zero
// value is ready to use.
type Accumulator struct {
	n      int
	mean   float64
	m2     float64
	m3     float64
	m4     float64
	sumSq  float64
	min    float64
	minPos int
	max    float64
	maxPos int
}

// Add feeds further values.
func (a *Accumulator) Add(y ...float64) {
	for _, x := range y {
		if a.n == 0 || x < a.min {
			a.min, a.minPos = x, a.n
		}
		if a.n == 0 || x > a.max {
			a.max, a.maxPos = x, a.n
		}

		prev := float64(a.n)
		a.n++
		ni := float64(a.n)
		delta := x - a.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * prev

		// m4 before m3 before m2.
		a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
		a.m3 += term1*deltaN*(prev-1) - 3*deltaN*a.m2
		a.m2 += term1
		a.mean += deltaN

		a.sumSq += x * x
	}
}

// Len returns the number of values seen so far.
func (a *Accumulator) Len() int { return a.n }

// Summary returns the statistics of everything added so far.
func (a *Accumulator) Summary() Summary {
	if a.n == 0 {
		return Summary{}
	}

	nf := float64(a.n)
	variance := a.m2 / nf

	s := Summary{
		Length: a.n,
		Mean:   a.mean,
		Std:    math.Sqrt(variance),
		RMS:    math.Sqrt(a.sumSq / nf),
		Min:    a.min,
		MinPos: a.minPos,
		Max:    a.max,
		MaxPos: a.maxPos,
		Range:  a.max - a.min,
	}
	if variance > 0 {
		s.Skewness = (a.m3 / nf) / (variance * math.Sqrt(variance))
		s.Kurtosis = (a.m4/nf)/(variance*variance) - 3
	}
	return s
}

// Reset clears the accumulator.
func (a *Accumulator) Reset() { *a = Accumulator{} }
