// Package savgol implements Savitzky-Golay smoothing and differentiation
// filters.
//
// A Savitzky-Golay filter fits a polynomial of order polyOrder by least
// squares to every window of window samples and replaces the sample with the
// value (or a derivative) of that polynomial. Because the fit is linear in the
// samples, the whole operation reduces to a correlation with a fixed weight
// vector, computed once by Design.
//
// Samples closer than window/2 to either end have no symmetric window. They
// are evaluated on the polynomial fitted to the first (or last) full window,
// at the position of the sample inside that window. This matches the "interp"
// edge mode found in common scientific libraries and keeps the output the
// same length as the input.
//
// Derivatives are expressed per sample unless WithDelta sets the spacing.
//
// Usage:
//
//	f, err := savgol.Design(11, 2, 1)
//	if err != nil { ... }
//	d1, err := f.Apply(spectrum)
package savgol
