package core

import "math"

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite reports whether every element of values is finite.
// It returns the index of the first offending element, or -1.
func AllFinite(values []float64) (bool, int) {
	for i, v := range values {
		if !IsFinite(v) {
			return false, i
		}
	}
	return true, -1
}

// Sum returns the compensated (Kahan) sum of values.
func Sum(values []float64) float64 {
	var sum, c float64
	for _, x := range values {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum
}
