package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/internal/config"
	"github.com/cwbudde/algo-chemometrics/internal/runlog"
	"github.com/cwbudde/algo-chemometrics/internal/split"
	"github.com/cwbudde/algo-chemometrics/preprocess"
)

type trainRow struct {
	Component  string                `json:"component"`
	Derivative preprocess.Derivative `json:"derivative"`
	Latent     int                   `json:"latent"`
	Effective  int                   `json:"effective_components,omitempty"`
	Samples    int                   `json:"samples,omitempty"`
	Excluded   []calib.Exclusion     `json:"excluded,omitempty"`
	Metrics    *calib.Metrics        `json:"metrics,omitempty"`
	RunID      string                `json:"run_id,omitempty"`
	Error      string                `json:"error,omitempty"`
}

func newTrainCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "train [component]",
		Short: "Train a PLS model for one component (or all)",
		Long: `Load the spectra directory and the project file, then train a PLS model
for the named component, or for every project component with --all.
R² and RMSE are computed on a seeded 30% hold-out split.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("give either a component or --all, not both")
			}
			if !all && len(args) != 1 {
				return errors.New("requires a component name or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, args, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "train every component in the project")
	cmd.Flags().Int("latent", config.DefaultLatent, "number of PLS latent components")
	cmd.Flags().String("derivative", config.DefaultDerivative, "preprocessing (none|first|second)")
	cmd.Flags().Uint64("seed", split.DefaultSeed, "train/test split seed (0..4294967295)")
	cmd.Flags().Float64("test-fraction", calib.DefaultTestFraction, "share of samples held out")

	return cmd
}

func runTrain(cmd *cobra.Command, args []string, all bool) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	logger := config.Logger(ctx)

	order, err := cfg.DerivativeOrder()
	if err != nil {
		return err
	}

	sess, err := loadSession(ctx, cfg)
	if err != nil {
		return err
	}

	targets := args
	if all {
		for _, c := range sess.Components() {
			targets = append(targets, c.Name)
		}
		if len(targets) == 0 {
			return fmt.Errorf("%s defines no components", cfg.Project)
		}
	}

	var history *runlog.Store
	if cfg.History != "" {
		history, err = runlog.Open(ctx, cfg.History)
		if err != nil {
			return err
		}
		defer history.Close()
	}

	rows := make([]trainRow, 0, len(targets))
	failed := 0
	var firstErr error

	for _, name := range targets {
		row := trainRow{Component: name, Derivative: order, Latent: cfg.Latent}

		res, err := sess.Train(name, cfg.Latent, order,
			calib.WithSeed(cfg.Seed), calib.WithTestFraction(cfg.TestFraction))
		if err != nil {
			logger.Warn("training failed", "component", name, "error", err)
			row.Error = err.Error()
			rows = append(rows, row)
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		row.Effective = res.Model.Components()
		row.Samples = res.Samples
		row.Excluded = res.Excluded
		row.Metrics = &res.Metrics
		for _, ex := range res.Excluded {
			logger.Warn("spectrum excluded", "component", name, "spectrum", ex.Name, "reason", ex.Reason)
		}

		if history != nil {
			run, err := recordRun(ctx, history, res)
			if err != nil {
				return err
			}
			row.RunID = run.ID
		}
		rows = append(rows, row)
	}

	if cfg.Output == config.OutputJSON {
		if err := renderJSON(cmd.OutOrStdout(), rows); err != nil {
			return err
		}
	} else {
		renderTrainTable(cmd, rows)
	}

	switch {
	case failed == 0:
		return nil
	case !all:
		return firstErr
	default:
		return fmt.Errorf("%d of %d components failed to train", failed, len(rows))
	}
}

func recordRun(ctx context.Context, h *runlog.Store, res *calib.Result) (runlog.Run, error) {
	run, err := h.Record(ctx, runlog.FromResult(res))
	if err != nil {
		return runlog.Run{}, err
	}
	config.Logger(ctx).Debug("run recorded", "id", run.ID, "component", run.Component)
	return run, nil
}

func renderTrainTable(cmd *cobra.Command, rows []trainRow) {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		if r.Metrics == nil {
			out = append(out, table.Row{r.Component, r.Derivative.Title(), r.Latent, "", "", "", "", r.Error})
			continue
		}
		note := ""
		if len(r.Excluded) > 0 {
			note = strconv.Itoa(len(r.Excluded)) + " excluded"
		}
		if r.Effective < r.Latent {
			if note != "" {
				note += ", "
			}
			note += "stopped at " + strconv.Itoa(r.Effective) + " components"
		}
		out = append(out, table.Row{
			r.Component,
			r.Derivative.Title(),
			r.Latent,
			r.Samples,
			fmt.Sprintf("%d/%d", r.Metrics.TrainSamples, r.Metrics.TestSamples),
			fmt.Sprintf("%.4f", r.Metrics.R2),
			fmt.Sprintf("%.4f", r.Metrics.RMSE),
			note,
		})
	}
	renderTable(cmd.OutOrStdout(),
		table.Row{"Component", "Preprocessing", "Latent", "Samples", "Train/Test", "R²", "RMSE", "Note"}, out)
}
