package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-chemometrics/internal/config"
	"github.com/cwbudde/algo-chemometrics/stats/describe"
)

type spectrumRow struct {
	Name       string             `json:"name"`
	From       float64            `json:"from"`
	To         float64            `json:"to"`
	Peak       float64            `json:"peak"`
	Intensity  describe.Summary   `json:"intensity"`
	References map[string]float64 `json:"references"`
}

func newSpectraCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spectra",
		Short: "List the loaded spectra with intensity statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			sess, err := loadSession(ctx, cfg)
			if err != nil {
				return err
			}
			pool := sess.Pool()

			rows := make([]spectrumRow, 0, pool.Len())
			for _, name := range pool.SortedNames() {
				sp, _ := pool.Get(name)
				x := sp.Wavenumbers()
				sum := describe.Of(sp.Intensity())
				refs := pool.References(name)
				if refs == nil {
					refs = map[string]float64{}
				}
				rows = append(rows, spectrumRow{
					Name:       name,
					From:       x[0],
					To:         x[len(x)-1],
					Peak:       x[sum.MaxPos],
					Intensity:  sum,
					References: refs,
				})
			}

			if cfg.Output == config.OutputJSON {
				return renderJSON(cmd.OutOrStdout(), rows)
			}

			out := make([]table.Row, 0, len(rows))
			for _, r := range rows {
				s := r.Intensity
				out = append(out, table.Row{
					r.Name,
					s.Length,
					fmt.Sprintf("%g..%g", r.From, r.To),
					fmt.Sprintf("%.4g", s.Min),
					fmt.Sprintf("%.4g @ %g", s.Max, r.Peak),
					fmt.Sprintf("%.4g", s.Mean),
					len(r.References),
				})
			}
			renderTable(cmd.OutOrStdout(),
				table.Row{"Spectrum", "Points", "Range", "Min", "Max", "Mean", "Refs"}, out)
			return nil
		},
	}
}
