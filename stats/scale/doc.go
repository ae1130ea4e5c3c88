// Package scale standardizes feature matrices column by column.
//
// StandardScaler learns a per-column mean and population standard deviation
// on one matrix and applies the same affine transform to others, so a test
// set is scaled with statistics taken from the training set only.
package scale
