// Package metrics computes regression quality measures.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLengthMismatch is returned when truth and prediction differ in length.
	ErrLengthMismatch = errors.New("metrics: length mismatch")
	// ErrEmpty is returned for empty inputs.
	ErrEmpty = errors.New("metrics: empty input")
	// ErrTooFewSamples is returned by R2 for fewer than two samples.
	ErrTooFewSamples = errors.New("metrics: R2 needs at least two samples")
)

func validate(yTrue, yPred []float64) error {
	if len(yTrue) != len(yPred) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return ErrEmpty
	}
	return nil
}

// MSE returns the mean squared error.
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := validate(yTrue, yPred); err != nil {
		return 0, err
	}

	var sum float64
	for i, t := range yTrue {
		d := t - yPred[i]
		sum += d * d
	}
	return sum / float64(len(yTrue)), nil
}

// RMSE returns the root mean squared error, in the units of y.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// R2 returns the coefficient of determination 1 - SSres/SStot.
//
// When yTrue is constant SStot is zero; R2 is then 1 for a perfect
// prediction and 0 otherwise, so the result is always finite for finite
// inputs. Values below zero mean the model is worse than predicting the mean.
func R2(yTrue, yPred []float64) (float64, error) {
	if err := validate(yTrue, yPred); err != nil {
		return 0, err
	}
	if len(yTrue) < 2 {
		return 0, ErrTooFewSamples
	}

	mean := stat.Mean(yTrue, nil)

	var ssRes, ssTot float64
	for i, t := range yTrue {
		r := t - yPred[i]
		d := t - mean
		ssRes += r * r
		ssTot += d * d
	}

	switch {
	case ssTot != 0:
		return 1 - ssRes/ssTot, nil
	case ssRes == 0:
		return 1, nil
	default:
		return 0, nil
	}
}
