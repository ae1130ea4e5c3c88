// Package calib builds PLS calibration models from labelled spectra.
//
// The flow is Assemble (pick the spectra that carry a reference value for one
// component and preprocess them), Train (seeded split, standard scaling on
// the training rows, PLS fit, held-out R² and RMSE) and a Registry that keeps
// the latest model per component name. Session ties the spectra pool, the
// component list and the registry together so renames and removals cascade
// through all three at once.
//
// Nothing in this package logs or synchronizes; hosts serialize access to a
// Session and report errors themselves.
package calib
