// Package csvdir loads spectra stored as two-column text files.
//
// Each file holds one spectrum: wavenumber in the first column, intensity in
// the second. Columns may be separated by commas, semicolons or tabs. Lines
// starting with '#' are comments and a single non-numeric header row is
// allowed. Files are parsed concurrently; files that cannot be parsed are
// reported in LoadResult.Skipped.
package csvdir
