package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-chemometrics/internal/config"
	"github.com/cwbudde/algo-chemometrics/internal/project"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

type componentRow struct {
	spectra.Component
	Labeled int `json:"labeled"`
}

// loadProject reads the project file; a missing file yields an empty
// project when allowMissing is set.
func loadProject(cfg *config.Config, allowMissing bool) (*project.File, error) {
	f, err := project.Load(cfg.Project)
	if allowMissing && errors.Is(err, os.ErrNotExist) {
		return &project.File{}, nil
	}
	return f, err
}

// editProject loads the project, applies fn and saves the result.
func editProject(cmd *cobra.Command, allowMissing bool, fn func(*project.File) error) error {
	cfg := getConfig(cmd.Context())
	f, err := loadProject(cfg, allowMissing)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return project.Save(cfg.Project, f)
}

func newComponentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "components",
		Aliases: []string{"comp"},
		Short:   "List and edit the components of the project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())
			f, err := loadProject(cfg, true)
			if err != nil {
				return err
			}

			rows := make([]componentRow, 0, len(f.Components))
			for _, c := range f.Components {
				rows = append(rows, componentRow{Component: c, Labeled: f.Labeled(c.Name)})
			}

			if cfg.Output == config.OutputJSON {
				return renderJSON(cmd.OutOrStdout(), rows)
			}
			out := make([]table.Row, 0, len(rows))
			for _, r := range rows {
				out = append(out, table.Row{r.Name, r.Abbrev, r.Unit, r.Labeled})
			}
			renderTable(cmd.OutOrStdout(), table.Row{"Name", "Abbrev", "Unit", "Labeled"}, out)
			return nil
		},
	}

	cmd.AddCommand(newComponentsAddCommand(), newComponentsRenameCommand(), newComponentsRemoveCommand())
	return cmd
}

func newComponentsAddCommand() *cobra.Command {
	var abbrev, unit string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProject(cmd, true, func(f *project.File) error {
				return f.AddComponent(spectra.Component{Name: args[0], Abbrev: abbrev, Unit: unit})
			})
		},
	}
	cmd.Flags().StringVar(&abbrev, "abbrev", "", "display abbreviation")
	cmd.Flags().StringVar(&unit, "unit", "", "display unit")
	return cmd
}

func newComponentsRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a component and its reference values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProject(cmd, false, func(f *project.File) error {
				return f.RenameComponent(args[0], args[1])
			})
		},
	}
}

func newComponentsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove a component and its reference values",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProject(cmd, false, func(f *project.File) error {
				return f.RemoveComponent(args[0])
			})
		},
	}
}

func newRefCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ref SPECTRUM COMPONENT [VALUE]",
		Short: "Show or set a reference value",
		Long: `Without VALUE, print the reference value of SPECTRUM for COMPONENT.
With VALUE, store it; an empty VALUE ("") clears it.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				f, err := loadProject(getConfig(cmd.Context()), false)
				if err != nil {
					return err
				}
				var v *float64
				if got, ok := f.Reference(args[0], args[1]); ok {
					v = &got
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), spectra.FormatReference(v))
				return err
			}

			value, err := spectra.ParseReference(args[2])
			if err != nil {
				return err
			}
			return editProject(cmd, false, func(f *project.File) error {
				return f.SetReference(args[0], args[1], value)
			})
		},
	}
}
