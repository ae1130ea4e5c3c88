// Package conv provides the valid correlation kernel used by the smoothing
// and differentiation filters.
//
// Two strategies are available:
//
//   - Direct: O(N*M) time-domain evaluation, best for short kernels
//   - Overlap-save (OLS): FFT-based block correlation for long kernels
//
// # Usage
//
//	valid, err := conv.CorrelateValid(signal, kernel) // len(signal)-len(kernel)+1
//
// # Algorithm Selection
//
// Kernels of up to 64 taps are evaluated directly; longer kernels go through
// overlap-save. Both paths agree to within floating-point rounding.
package conv
