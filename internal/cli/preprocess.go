package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-chemometrics/internal/config"
	"github.com/cwbudde/algo-chemometrics/preprocess"
	"github.com/cwbudde/algo-chemometrics/spectra/csvdir"
)

type processed struct {
	Name        string                `json:"name"`
	Derivative  preprocess.Derivative `json:"derivative"`
	Window      int                   `json:"window"`
	PolyOrder   int                   `json:"poly_order"`
	Wavenumbers []float64             `json:"wavenumbers"`
	Values      []float64             `json:"values"`
}

func newPreprocessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preprocess FILE",
		Short: "Print a spectrum after the derivative transform",
		Long: `Read one two-column spectrum file and print wavenumbers with the
Savitzky-Golay derivative as CSV or JSON.

Calibration always uses window 11 with a quadratic fit; --window and
--poly-order let you inspect other filters. Windows longer than 64 samples
are applied by FFT.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())
			order, err := cfg.DerivativeOrder()
			if err != nil {
				return err
			}

			window, _ := cmd.Flags().GetInt("window")
			polyOrder, _ := cmd.Flags().GetInt("poly-order")

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sp, err := csvdir.Parse(filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			values, err := preprocess.ProcessWindow(sp.Intensity(), order, window, polyOrder)
			if err != nil {
				return fmt.Errorf("%s: %w", sp.Name(), err)
			}

			if cfg.Output == config.OutputJSON {
				return renderJSON(cmd.OutOrStdout(), processed{
					Name:        sp.Name(),
					Derivative:  order,
					Window:      window,
					PolyOrder:   polyOrder,
					Wavenumbers: sp.Wavenumbers(),
					Values:      values,
				})
			}

			w := csv.NewWriter(cmd.OutOrStdout())
			_ = w.Write([]string{"wavenumber", order.Title()})
			x := sp.Wavenumbers()
			for i, v := range values {
				_ = w.Write([]string{
					strconv.FormatFloat(x[i], 'g', -1, 64),
					strconv.FormatFloat(v, 'g', -1, 64),
				})
			}
			w.Flush()
			return w.Error()
		},
	}

	cmd.Flags().String("derivative", config.DefaultDerivative, "preprocessing (none|first|second)")
	cmd.Flags().Int("window", preprocess.WindowLength, "Savitzky-Golay window length (odd)")
	cmd.Flags().Int("poly-order", preprocess.PolyOrder, "Savitzky-Golay polynomial order")
	return cmd
}
