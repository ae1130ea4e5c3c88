package savgol

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWindow is returned for even or too small window lengths.
	ErrInvalidWindow = errors.New("savgol: window must be odd and >= 3")
	// ErrInvalidPolyOrder is returned when the polynomial order is negative
	// or not smaller than the window.
	ErrInvalidPolyOrder = errors.New("savgol: polynomial order must be in [0, window)")
	// ErrInvalidDerivative is returned when deriv is negative or exceeds polyOrder.
	ErrInvalidDerivative = errors.New("savgol: derivative must be in [0, polyOrder]")
	// ErrInputTooShort is returned by Apply when the input is shorter than the window.
	ErrInputTooShort = errors.New("savgol: input shorter than window")
	// ErrInvalidPosition is returned by EdgeWeights for positions outside the window.
	ErrInvalidPosition = errors.New("savgol: position outside window")
	// ErrIllConditioned is returned when the normal equations cannot be factorized.
	ErrIllConditioned = errors.New("savgol: ill-conditioned design")
)

func validateDesign(window, polyOrder, deriv int) error {
	if window < 3 || window%2 == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	if polyOrder < 0 || polyOrder >= window {
		return fmt.Errorf("%w: %d (window %d)", ErrInvalidPolyOrder, polyOrder, window)
	}
	if deriv < 0 || deriv > polyOrder {
		return fmt.Errorf("%w: %d (polyOrder %d)", ErrInvalidDerivative, deriv, polyOrder)
	}
	return nil
}
