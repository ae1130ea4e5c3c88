package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-chemometrics/preprocess"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calibrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.Int("latent", DefaultLatent, "")
	fs.String("derivative", DefaultDerivative, "")
	fs.String("spectra-dir", ".", "")
	fs.Float64("test-fraction", 0.3, "")
	return fs
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".", cfg.SpectraDir)
	assert.Equal(t, DefaultPattern, cfg.Pattern)
	assert.Equal(t, DefaultLatent, cfg.Latent)
	assert.Equal(t, DefaultDerivative, cfg.Derivative)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.InDelta(t, 0.3, cfg.TestFraction, 0)
	assert.Equal(t, OutputTable, cfg.Output)
	assert.Empty(t, cfg.History)
	assert.Empty(t, cfg.File)
	require.NoError(t, cfg.Validate())
}

func TestLoadLayering(t *testing.T) {
	path := writeFile(t, "latent: 3\nderivative: 2\nspectra_dir: /data/nir\noutput: json\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, 3, cfg.Latent)
	assert.Equal(t, "2", cfg.Derivative)
	assert.Equal(t, "/data/nir", cfg.SpectraDir)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, DefaultPattern, cfg.Pattern)

	t.Setenv("CALIBRATE_LATENT", "4")
	t.Setenv("CALIBRATE_TEST_FRACTION", "0.25")
	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Latent)
	assert.InDelta(t, 0.25, cfg.TestFraction, 0)

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--latent", "6"}))
	cfg, err = Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Latent)
	assert.Equal(t, "/data/nir", cfg.SpectraDir, "unchanged flags keep lower layers")

	d, err := cfg.DerivativeOrder()
	require.NoError(t, err)
	assert.Equal(t, preprocess.Second, d)
}

func TestLoadKebabFlags(t *testing.T) {
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--spectra-dir", "spectra", "--test-fraction", "0.5"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "spectra", cfg.SpectraDir)
	assert.InDelta(t, 0.5, cfg.TestFraction, 0)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"latent zero", func(c *Config) { c.Latent = 0 }},
		{"derivative", func(c *Config) { c.Derivative = "third" }},
		{"fraction zero", func(c *Config) { c.TestFraction = 0 }},
		{"fraction one", func(c *Config) { c.TestFraction = 1 }},
		{"workers", func(c *Config) { c.Workers = -1 }},
		{"pattern", func(c *Config) { c.Pattern = "[" }},
		{"empty pattern", func(c *Config) { c.Pattern = "" }},
		{"output", func(c *Config) { c.Output = "xml" }},
		{"train rate", func(c *Config) { c.TrainRate = -1 }},
		{"seed", func(c *Config) { c.Seed = 1<<32 + 42 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	l := cfg.NewLogger(&buf)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, Logger(ctx))
	assert.NotNil(t, Logger(context.Background()))
}
