// Package pls implements Partial Least Squares regression (PLS2, with PLS1
// as the single-target case) using the NIPALS power method.
//
// Fit centres both blocks and, unless disabled with WithScale(false),
// scales every column to unit sample variance. Each latent component is
// found by alternating projections between the X and Y residuals, its sign is
// fixed so that the largest absolute X weight is positive, and both blocks
// are deflated in regression mode. The final coefficients map raw X columns
// straight to raw Y columns:
//
//	Ŷ = (X - mean(X)) · Coef + Intercept
//
// Coefficients agree with scikit-learn's PLSRegression (default options) up
// to floating-point rounding.
package pls
