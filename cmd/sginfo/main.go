// Command sginfo prints Savitzky-Golay filter weights.
//
// Usage:
//
//	sginfo [flags] [deriv ...]
//
// Without arguments it prints the centre weights for derivative orders 0, 1
// and 2 side by side.
//
// Examples:
//
//	sginfo
//	sginfo --window 7 --order 3 1
//	sginfo --edges 2
//	sginfo --delta 1.929 1 2
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	flag "github.com/spf13/pflag"

	"github.com/cwbudde/algo-chemometrics/dsp/filter/savgol"
	"github.com/cwbudde/algo-chemometrics/preprocess"
)

func main() {
	window := flag.IntP("window", "w", preprocess.WindowLength, "window length (odd)")
	order := flag.IntP("order", "p", preprocess.PolyOrder, "polynomial order")
	delta := flag.Float64("delta", 1, "sample spacing used to scale derivatives")
	edges := flag.Bool("edges", false, "print the weights for every window position")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sginfo [flags] [deriv ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints Savitzky-Golay filter weights.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints derivative orders 0, 1 and 2.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	derivs := []int{0, 1, 2}
	if flag.NArg() > 0 {
		derivs = derivs[:0]
		for _, arg := range flag.Args() {
			d, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: derivative order %q is not an integer\n", arg)
				os.Exit(2)
			}
			derivs = append(derivs, d)
		}
	}

	filters := make([]*savgol.Filter, 0, len(derivs))
	for _, d := range derivs {
		f, err := savgol.Design(*window, *order, d, savgol.WithDelta(*delta))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		filters = append(filters, f)
	}

	if *edges {
		for _, f := range filters {
			if err := printEdges(f); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}
	printCentre(filters)
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

// printCentre lists the centre weights of each filter, one column per filter,
// followed by the sum and first moment of every column.
func printCentre(filters []*savgol.Filter) {
	f0 := filters[0]
	half := f0.Window() / 2

	t := newTable(fmt.Sprintf("window %d, polynomial order %d", f0.Window(), f0.PolyOrder()))

	header := table.Row{"Offset"}
	for _, f := range filters {
		header = append(header, fmt.Sprintf("deriv %d", f.Deriv()))
	}
	t.AppendHeader(header)

	coeffs := make([][]float64, len(filters))
	for i, f := range filters {
		coeffs[i] = f.Coefficients()
	}

	sums := make([]float64, len(filters))
	moments := make([]float64, len(filters))
	for j := range f0.Window() {
		row := table.Row{j - half}
		for i := range filters {
			c := coeffs[i][j]
			sums[i] += c
			moments[i] += float64(j-half) * c
			row = append(row, fmt.Sprintf("%+.6f", c))
		}
		t.AppendRow(row)
	}

	sumRow := table.Row{"Σ c"}
	momentRow := table.Row{"Σ k·c"}
	for i := range filters {
		sumRow = append(sumRow, fmt.Sprintf("%+.6f", sums[i]))
		momentRow = append(momentRow, fmt.Sprintf("%+.6f", moments[i]))
	}
	t.AppendFooter(sumRow)
	t.AppendFooter(momentRow)

	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	t.Render()
}

// printEdges prints the weight matrix used at the signal boundaries: row p
// evaluates the polynomial fitted to the first window at position p.
func printEdges(f *savgol.Filter) error {
	t := newTable(fmt.Sprintf("window %d, polynomial order %d, deriv %d", f.Window(), f.PolyOrder(), f.Deriv()))

	header := table.Row{"Pos"}
	for j := range f.Window() {
		header = append(header, j)
	}
	t.AppendHeader(header)

	for p := range f.Window() {
		w, err := f.EdgeWeights(p)
		if err != nil {
			return err
		}
		row := table.Row{p}
		for _, c := range w {
			row = append(row, fmt.Sprintf("%+.4f", c))
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}
