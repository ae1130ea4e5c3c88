// Package preprocess applies the derivative transforms used before
// calibration.
//
// Derivatives are Savitzky-Golay derivatives with a fixed window of 11
// samples and a quadratic fit. They are expressed per sample index, not per
// unit of wavenumber, so models trained on them stay comparable regardless
// of the instrument's axis spacing.
package preprocess
