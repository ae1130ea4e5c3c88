package calib

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-chemometrics/internal/testutil"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

func ptr(v float64) *float64 { return &v }

// labelledPool builds a pool of synthetic spectra of the given length and
// attaches refs[i] under component to spectrum i. A nil entry leaves the
// spectrum unlabelled.
func labelledPool(t *testing.T, component string, length int, refs []*float64) *spectra.Pool {
	t.Helper()

	intensities, _ := testutil.SyntheticSpectra(int64(len(refs)), len(refs), length)
	axis := testutil.Ramp(-2, 4000, length)

	pool, err := spectra.NewPool()
	require.NoError(t, err)

	for i, y := range intensities {
		s, err := spectra.New(fmt.Sprintf("s%02d.spa", i), axis, y)
		require.NoError(t, err)
		require.NoError(t, pool.Add(s))
		require.NoError(t, pool.SetReference(s.Name(), component, refs[i]))
	}

	return pool
}

// concentrationPool builds count spectra whose reference values are the
// concentrations driving their main band.
func concentrationPool(t *testing.T, component string, count, length int) *spectra.Pool {
	t.Helper()

	intensities, conc := testutil.SyntheticSpectra(99, count, length)
	axis := testutil.Ramp(-2, 4000, length)

	pool, err := spectra.NewPool()
	require.NoError(t, err)

	for i, y := range intensities {
		s, err := spectra.New(fmt.Sprintf("c%03d.spa", i), axis, y)
		require.NoError(t, err)
		require.NoError(t, pool.Add(s))
		require.NoError(t, pool.SetReference(s.Name(), component, ptr(conc[i])))
	}

	return pool
}

func moistureRefs() []*float64 {
	return []*float64{ptr(10.0), ptr(12.5), ptr(9.8), ptr(11.1), ptr(10.7)}
}
