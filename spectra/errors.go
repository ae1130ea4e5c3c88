package spectra

import "errors"

var (
	// ErrLengthMismatch is returned when the wavenumber and intensity axes differ in length.
	ErrLengthMismatch = errors.New("spectra: wavenumber and intensity lengths differ")
	// ErrEmptySpectrum is returned for spectra without samples.
	ErrEmptySpectrum = errors.New("spectra: empty spectrum")
	// ErrEmptyName is returned for spectra or components without a name.
	ErrEmptyName = errors.New("spectra: empty name")
	// ErrDuplicateSpectrum is returned when a pool already holds a spectrum with the same name.
	ErrDuplicateSpectrum = errors.New("spectra: duplicate spectrum")
	// ErrUnknownSpectrum is returned for lookups of spectra not in the pool.
	ErrUnknownSpectrum = errors.New("spectra: unknown spectrum")
	// ErrInvalidReference is returned when reference text is not a number.
	ErrInvalidReference = errors.New("spectra: invalid reference value")
)
