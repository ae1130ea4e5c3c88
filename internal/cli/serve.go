package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/internal/config"
	"github.com/cwbudde/algo-chemometrics/internal/runlog"
	"github.com/cwbudde/algo-chemometrics/internal/server"
	"github.com/cwbudde/algo-chemometrics/internal/telemetry"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calibration session over HTTP",
		Long: `Load the spectra directory and project file into one session and serve it
over HTTP. Training requests are handled one at a time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

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

			metrics := telemetry.New()
			metrics.Spectra.Set(float64(sess.Pool().Len()))

			opts := []server.Option{
				server.WithSession(sess),
				server.WithLoader(newLoader(cfg), cfg.SpectraDir),
				server.WithMetrics(metrics),
				server.WithLogger(logger),
				server.WithTrainDefaults(cfg.Latent, order,
					calib.WithSeed(cfg.Seed), calib.WithTestFraction(cfg.TestFraction)),
				server.WithTrainLimit(rate.Limit(cfg.TrainRate), 1),
			}
			if cfg.History != "" {
				history, err := runlog.Open(ctx, cfg.History)
				if err != nil {
					return err
				}
				defer history.Close()
				opts = append(opts, server.WithHistory(history))
			}

			return server.New(opts...).ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	cmd.Flags().Int("latent", config.DefaultLatent, "default number of PLS latent components")
	cmd.Flags().String("derivative", config.DefaultDerivative, "default preprocessing (none|first|second)")
	cmd.Flags().Float64("train-rate", 0, "training requests allowed per second (0 = unlimited)")
	return cmd
}
