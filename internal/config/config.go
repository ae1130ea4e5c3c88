// Package config loads the calibrate host configuration.
//
// Values are layered, lowest to highest precedence: built-in defaults, the
// YAML config file, CALIBRATE_* environment variables and explicitly set
// command-line flags.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/internal/split"
	"github.com/cwbudde/algo-chemometrics/preprocess"
)

// Defaults.
const (
	DefaultFile       = "calibrate.yaml"
	DefaultPattern    = "*.csv"
	DefaultProject    = "calibrate.project.yaml"
	DefaultLatent     = 10
	DefaultDerivative = "none"
	DefaultLogLevel   = "info"
	DefaultOutput     = OutputTable
	DefaultAddr       = "127.0.0.1:8080"

	envPrefix = "CALIBRATE_"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid value")

// Config holds the resolved settings.
type Config struct {
	SpectraDir   string  `koanf:"spectra_dir"`
	Pattern      string  `koanf:"pattern"`
	Workers      int     `koanf:"workers"`
	Project      string  `koanf:"project"`
	History      string  `koanf:"history"`
	Latent       int     `koanf:"latent"`
	Derivative   string  `koanf:"derivative"`
	Seed         uint64  `koanf:"seed"`
	TestFraction float64 `koanf:"test_fraction"`
	LogLevel     string  `koanf:"log_level"`
	Output       string  `koanf:"output"`
	Addr         string  `koanf:"addr"`
	TrainRate    float64 `koanf:"train_rate"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"spectra_dir":   ".",
		"pattern":       DefaultPattern,
		"workers":       0,
		"project":       DefaultProject,
		"history":       "",
		"latent":        DefaultLatent,
		"derivative":    DefaultDerivative,
		"seed":          split.DefaultSeed,
		"test_fraction": calib.DefaultTestFraction,
		"log_level":     DefaultLogLevel,
		"output":        DefaultOutput,
		"addr":          DefaultAddr,
		"train_rate":    0.0,
	}
}

// Default returns the built-in configuration, ignoring files, environment
// and flags.
func Default() *Config {
	k := koanf.New(".")
	var cfg Config
	// The defaults map always loads and decodes.
	_ = k.Load(confmap.Provider(defaults(), "."), nil)
	_ = k.Unmarshal("", &cfg)
	return &cfg
}

// Load resolves the configuration. cfgFile names an explicit config file;
// when empty, DefaultFile is read from the working directory if present.
// Only flags marked as changed override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// CALIBRATE_TEST_FRACTION -> test_fraction
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	return &cfg, nil
}

// Validate checks every setting and reports the first invalid one.
func (c *Config) Validate() error {
	if c.Latent < 1 {
		return fmt.Errorf("%w: latent must be >= 1, got %d", ErrInvalid, c.Latent)
	}
	if _, err := preprocess.ParseDerivative(c.Derivative); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !(c.TestFraction > 0 && c.TestFraction < 1) {
		return fmt.Errorf("%w: test_fraction must be in (0, 1), got %v", ErrInvalid, c.TestFraction)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalid, c.Workers)
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil || c.Pattern == "" {
		return fmt.Errorf("%w: pattern %q", ErrInvalid, c.Pattern)
	}
	if err := split.CheckSeed(c.Seed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.TrainRate < 0 {
		return fmt.Errorf("%w: train_rate must be >= 0, got %v", ErrInvalid, c.TrainRate)
	}
	if c.Output != OutputTable && c.Output != OutputJSON {
		return fmt.Errorf("%w: output must be %s or %s, got %q", ErrInvalid, OutputTable, OutputJSON, c.Output)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// DerivativeOrder returns the parsed derivative setting.
func (c *Config) DerivativeOrder() (preprocess.Derivative, error) {
	return preprocess.ParseDerivative(c.Derivative)
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type loggerKey struct{}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger returns the logger stored in ctx, or a logger that discards
// everything.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
