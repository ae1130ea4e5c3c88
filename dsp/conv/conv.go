package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-chemometrics/dsp/core"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput    = errors.New("conv: empty input")
	ErrEmptyKernel   = errors.New("conv: empty kernel")
	ErrKernelTooLong = errors.New("conv: kernel longer than input")
)

// directThreshold is the longest kernel evaluated in the time domain.
const directThreshold = 64

// CorrelateValid slides kernel over x and returns the dot product at every
// position where kernel lies fully inside x:
//
//	out[i] = sum_j kernel[j] * x[i+j],  i = 0 .. len(x)-len(kernel)
//
// The kernel is not reversed. Kernels of up to 64 taps are evaluated
// directly, longer ones by FFT overlap-save.
func CorrelateValid(x, kernel []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if len(kernel) > len(x) {
		return nil, ErrKernelTooLong
	}

	out := make([]float64, len(x)-len(kernel)+1)
	if len(kernel) <= directThreshold {
		correlateValidDirect(out, x, kernel)
		return out, nil
	}

	ols, err := newOverlapSave(kernel)
	if err != nil {
		return nil, err
	}
	if err := ols.correlate(out, x); err != nil {
		return nil, err
	}

	return out, nil
}

// correlateValidDirect evaluates each output as an element-wise product
// followed by a compensated sum.
func correlateValidDirect(dst, x, kernel []float64) {
	m := len(kernel)
	prod := make([]float64, m)

	for i := range dst {
		vecmath.MulBlock(prod, x[i:i+m], kernel)
		dst[i] = core.Sum(prod)
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
