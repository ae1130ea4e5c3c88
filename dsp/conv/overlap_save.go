package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// overlapSave evaluates valid correlation in the frequency domain. Each
// FFT block of fftSize input samples yields step = fftSize-kernelLen+1
// valid outputs; the first kernelLen-1 samples of every circular
// convolution are wrapped and discarded.
type overlapSave struct {
	kernelFFT []complex128
	kernelLen int
	fftSize   int
	step      int
	plan      *algofft.Plan[complex128]
	block     []complex128
}

func newOverlapSave(kernel []float64) (*overlapSave, error) {
	m := len(kernel)
	fftSize := nextPowerOf2(max(4*m, 256))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	// Correlation is convolution with the reversed kernel.
	kernelFFT := make([]complex128, fftSize)
	for i, v := range kernel {
		kernelFFT[m-1-i] = complex(v, 0)
	}
	if err := plan.Forward(kernelFFT, kernelFFT); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return &overlapSave{
		kernelFFT: kernelFFT,
		kernelLen: m,
		fftSize:   fftSize,
		step:      fftSize - m + 1,
		plan:      plan,
		block:     make([]complex128, fftSize),
	}, nil
}

// correlate writes len(x)-kernelLen+1 valid outputs to dst.
func (s *overlapSave) correlate(dst, x []float64) error {
	for start := 0; start < len(dst); start += s.step {
		clear(s.block)
		end := min(start+s.fftSize, len(x))
		for i, v := range x[start:end] {
			s.block[i] = complex(v, 0)
		}

		if err := s.plan.Forward(s.block, s.block); err != nil {
			return fmt.Errorf("conv: forward FFT failed: %w", err)
		}
		for i := range s.block {
			s.block[i] *= s.kernelFFT[i]
		}
		if err := s.plan.Inverse(s.block, s.block); err != nil {
			return fmt.Errorf("conv: inverse FFT failed: %w", err)
		}

		n := min(s.step, len(dst)-start)
		for i := range n {
			dst[start+i] = real(s.block[i+s.kernelLen-1])
		}
	}

	return nil
}
