package calib

import (
	"errors"

	"github.com/cwbudde/algo-chemometrics/preprocess"
)

var (
	// ErrInvalidInputLength is returned when a spectrum is shorter than the
	// derivative window. It is the same value as preprocess.ErrInvalidInputLength.
	ErrInvalidInputLength = preprocess.ErrInvalidInputLength
	// ErrInsufficientData is returned when fewer than MinSamples spectra
	// carry a reference value for the requested component.
	ErrInsufficientData = errors.New("calib: insufficient data")
	// ErrInvalidParameter is returned for latent counts or split settings
	// that the dataset cannot support.
	ErrInvalidParameter = errors.New("calib: invalid parameter")
	// ErrTrainingFailed wraps numerical failures of the fit.
	ErrTrainingFailed = errors.New("calib: training failed")
	// ErrNotFound is returned for unknown components, models or spectra.
	ErrNotFound = errors.New("calib: not found")
	// ErrDuplicateName is returned when a rename or add would collide with
	// an existing name.
	ErrDuplicateName = errors.New("calib: duplicate name")
	// ErrEmptyName is returned for empty component names.
	ErrEmptyName = errors.New("calib: empty name")
)
