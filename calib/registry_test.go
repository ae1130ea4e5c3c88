package calib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-chemometrics/preprocess"
)

func trainedModel(t *testing.T) *Model {
	t.Helper()
	pool := labelledPool(t, "Moisture", 40, moistureRefs())
	ds, err := Assemble(pool, "Moisture", preprocess.None)
	require.NoError(t, err)
	m, _, err := Train(ds, 2)
	require.NoError(t, err)
	return m
}

func TestRegistryPutGet(t *testing.T) {
	r := NewRegistry()
	m := trainedModel(t)

	_, err := r.Get("Moisture")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Put("Moisture", m))
	got, err := r.Get("Moisture")
	require.NoError(t, err)
	assert.Same(t, m, got)
	assert.True(t, r.Has("Moisture"))
	assert.Equal(t, 1, r.Len())

	assert.ErrorIs(t, r.Put("", m), ErrEmptyName)
	assert.ErrorIs(t, r.Put("Fat", nil), ErrInvalidParameter)
}

func TestRegistryRename(t *testing.T) {
	r := NewRegistry()
	m := trainedModel(t)
	before := m.Metrics()
	require.NoError(t, r.Put("Moisture", m))

	require.NoError(t, r.Rename("Moisture", "Water"))

	_, err := r.Get("Moisture")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := r.Get("Water")
	require.NoError(t, err)
	assert.Same(t, m, got)
	assert.Equal(t, before, got.Metrics())
	assert.Equal(t, []string{"Water"}, r.Names())
}

func TestRegistryRenameErrors(t *testing.T) {
	r := NewRegistry()
	m := trainedModel(t)
	require.NoError(t, r.Put("Moisture", m))
	require.NoError(t, r.Put("Fat", m))

	assert.ErrorIs(t, r.Rename("Protein", "Ash"), ErrNotFound)
	assert.ErrorIs(t, r.Rename("Moisture", ""), ErrEmptyName)
	assert.ErrorIs(t, r.Rename("Moisture", "Fat"), ErrDuplicateName)
	assert.NoError(t, r.Rename("Moisture", "Moisture"))

	assert.Equal(t, []string{"Fat", "Moisture"}, r.Names())
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Put("Moisture", trainedModel(t)))

	require.NoError(t, r.Remove("Moisture"))
	assert.False(t, r.Has("Moisture"))
	assert.ErrorIs(t, r.Remove("Moisture"), ErrNotFound)
	assert.Zero(t, r.Len())
}
