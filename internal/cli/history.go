package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-chemometrics/internal/config"
	"github.com/cwbudde/algo-chemometrics/internal/runlog"
)

func newHistoryCommand() *cobra.Command {
	var (
		component string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded training runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)
			if cfg.History == "" {
				return errors.New("no history database configured (use --history)")
			}

			store, err := runlog.Open(ctx, cfg.History)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(ctx, runlog.Filter{Component: component, Limit: limit})
			if err != nil {
				return err
			}

			if cfg.Output == config.OutputJSON {
				if runs == nil {
					runs = []runlog.Run{}
				}
				return renderJSON(cmd.OutOrStdout(), runs)
			}

			rows := make([]table.Row, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, table.Row{
					r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					r.Component,
					r.Derivative.Title(),
					fmt.Sprintf("%d/%d", r.Effective, r.Latent),
					r.Samples,
					fmt.Sprintf("%.4f", r.R2),
					fmt.Sprintf("%.4f", r.RMSE),
					r.ID[:8],
				})
			}
			renderTable(cmd.OutOrStdout(),
				table.Row{"Time", "Component", "Preprocessing", "Latent", "Samples", "R²", "RMSE", "Run"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&component, "component", "", "only runs of this component")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs (0 = all)")
	return cmd
}
