// Package spectra holds loaded spectra and the laboratory reference values
// attached to them.
//
// A Pool keeps spectra in load order together with, per spectrum, an optional
// reference value for every chemical component. Reference values are keyed by
// component name; renaming or removing a component rewrites every spectrum in
// one call.
package spectra
