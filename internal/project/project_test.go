package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

const sample = `components:
  - name: Moisture
    abbrev: H2O
    unit: "%"
  - name: Protein
references:
  a.csv:
    Moisture: 10.5
    Protein: 3.25
  b.csv:
    Moisture: 12
  ghost.csv:
    Moisture: 1
  c.csv:
    Fat: 2
`

func sessionWith(t *testing.T, names ...string) *calib.Session {
	t.Helper()
	pool, err := spectra.NewPool()
	require.NoError(t, err)
	for _, n := range names {
		s, err := spectra.New(n, []float64{1, 2, 3}, []float64{0.1, 0.2, 0.3})
		require.NoError(t, err)
		require.NoError(t, pool.Add(s))
	}
	sess := calib.NewSession()
	sess.LoadPool(pool)
	return sess
}

func TestDecodeAndApply(t *testing.T) {
	f, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, f.Components, 2)
	assert.Equal(t, "Moisture (%)", f.Components[0].Label())

	sess := sessionWith(t, "a.csv", "b.csv", "c.csv")
	unmatched, err := f.Apply(sess)
	require.NoError(t, err)

	assert.Equal(t, []Unmatched{
		{Spectrum: "c.csv", Component: "Fat"},
		{Spectrum: "ghost.csv", Component: "Moisture"},
	}, unmatched)

	v, ok := sess.Pool().Reference("a.csv", "Protein")
	require.True(t, ok)
	assert.InDelta(t, 3.25, v, 0)
	assert.Equal(t, 2, sess.Pool().Labeled("Moisture"))
}

func TestApplyUpdatesExistingComponent(t *testing.T) {
	sess := sessionWith(t, "a.csv")
	_, err := sess.AddComponent("Moisture", "", "")
	require.NoError(t, err)

	f := &File{Components: []spectra.Component{{Name: "Moisture", Abbrev: "M", Unit: "wt%"}}}
	_, err = f.Apply(sess)
	require.NoError(t, err)

	c, err := sess.Component("Moisture")
	require.NoError(t, err)
	assert.Equal(t, "wt%", c.Unit)
	assert.Len(t, sess.Components(), 1)
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]struct {
		input string
		want  error
	}{
		"empty name":  {"components:\n  - abbrev: X\n", calib.ErrEmptyName},
		"duplicate":   {"components:\n  - name: A\n  - name: A\n", calib.ErrDuplicateName},
		"unknown key": {"colour: red\n", nil},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	f, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Components)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	sess := sessionWith(t, "a.csv", "b.csv")
	_, err := sess.AddComponent("Moisture", "H2O", "%")
	require.NoError(t, err)
	v := 11.5
	require.NoError(t, sess.SetReference("b.csv", "Moisture", &v))

	path := filepath.Join(t.TempDir(), "calibrate.project.yaml")
	require.NoError(t, Save(path, FromSession(sess)))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sess.Components(), got.Components)
	assert.Equal(t, map[string]map[string]*float64{"b.csv": {"Moisture": ptr(11.5)}}, got.References)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is cleaned up")
}

func TestBlankReferencesAreNotMeasured(t *testing.T) {
	const input = `components:
  - name: Moisture
references:
  a.csv:
    Moisture:
  b.csv:
    Moisture: ~
  c.csv:
    Moisture: 0
`
	f, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, f.Labeled("Moisture"))
	_, ok := f.Reference("a.csv", "Moisture")
	assert.False(t, ok)

	sess := sessionWith(t, "a.csv", "b.csv", "c.csv")
	unmatched, err := f.Apply(sess)
	require.NoError(t, err)
	assert.Empty(t, unmatched)

	for _, name := range []string{"a.csv", "b.csv"} {
		_, ok := sess.Pool().Reference(name, "Moisture")
		assert.False(t, ok, name)
	}
	v, ok := sess.Pool().Reference("c.csv", "Moisture")
	require.True(t, ok, "an explicit zero is a measurement")
	assert.Zero(t, v)
	assert.Equal(t, 1, sess.Pool().Labeled("Moisture"))

	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, Save(path, f))
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Labeled("Moisture"))
	_, ok = again.Reference("b.csv", "Moisture")
	assert.False(t, ok)

	snap := FromSession(sess)
	assert.Equal(t, map[string]map[string]*float64{"c.csv": {"Moisture": ptr(0)}}, snap.References)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
