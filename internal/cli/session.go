package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/internal/config"
	"github.com/cwbudde/algo-chemometrics/internal/project"
	"github.com/cwbudde/algo-chemometrics/spectra/csvdir"
)

func newLoader(cfg *config.Config) *csvdir.Loader {
	return csvdir.New(csvdir.WithPattern(cfg.Pattern), csvdir.WithConcurrency(cfg.Workers))
}

// loadSession reads the spectra directory into a fresh session and applies
// the project file to it. A missing project file leaves the session without
// components.
func loadSession(ctx context.Context, cfg *config.Config) (*calib.Session, error) {
	logger := config.Logger(ctx)

	res, err := newLoader(cfg).Load(ctx, cfg.SpectraDir)
	if err != nil {
		return nil, err
	}
	for _, sk := range res.Skipped {
		logger.Warn("skipped spectrum", "file", sk.Name, "reason", sk.Reason)
	}
	pool, err := res.Pool()
	if err != nil {
		return nil, err
	}

	sess := calib.NewSession()
	sess.LoadPool(pool)
	logger.Info("spectra loaded", "dir", cfg.SpectraDir, "spectra", pool.Len(), "skipped", len(res.Skipped))

	proj, err := project.Load(cfg.Project)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("no project file", "path", cfg.Project)
		return sess, nil
	}
	if err != nil {
		return nil, err
	}

	unmatched, err := proj.Apply(sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Project, err)
	}
	for _, u := range unmatched {
		logger.Debug("reference value not applied", "spectrum", u.Spectrum, "component", u.Component)
	}
	if len(unmatched) > 0 {
		logger.Warn("reference values without a loaded spectrum", "count", len(unmatched))
	}
	return sess, nil
}
