// ABOUTME: CLI command for rendering chart panels as PNG files.
// ABOUTME: Draws the profile's panels unless --panel narrows the set.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/roster/internal/chart"
)

var (
	chartFilters filterFlags
	chartDir     string
	chartPanels  []string
)

var chartCmd = &cobra.Command{
	Use:   "chart <file|@snapshot>",
	Short: "Render chart panels as PNG",
	Long: `Render the filtered roster's charts as PNG files.

PANELS:

  age_distribution   Students per age (bar)
  height_vs_weight   Height against weight, grouped by blood type (scatter)
  bmi_category       Students per BMI category (bar, listado profile)
  neighborhood       Students per neighborhood (bar, listado profile)

Panels with nothing to plot are skipped.

EXAMPLES:

  roster chart estudiantes.csv -d charts
  roster chart estudiantes.csv --panel height_vs_weight --rh O+`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, v, err := chartFilters.view(cmd, args[0])
		if err != nil {
			return err
		}

		panels := rep.Profile.Panels()
		if len(chartPanels) > 0 {
			panels = panels[:0:0]
			for _, name := range chartPanels {
				p, err := chart.ParsePanel(name)
				if err != nil {
					return err
				}
				panels = append(panels, p)
			}
		}

		written, err := chart.RenderAll(chartDir, panels, v.Table.Students)
		if err != nil {
			return fmt.Errorf("failed to render charts: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, path := range written {
			fmt.Fprintln(out, color.GreenString("✓ %s", path))
		}
		if skipped := len(panels) - len(written); skipped > 0 {
			fmt.Fprintln(out, color.YellowString("! %d panel(s) skipped: no data", skipped))
		}
		return nil
	},
}

func init() {
	chartFilters.register(chartCmd)
	chartCmd.Flags().StringVarP(&chartDir, "dir", "d", ".", "output directory")
	chartCmd.Flags().StringSliceVar(&chartPanels, "panel", nil, "panels to draw (default: profile panels)")
	rootCmd.AddCommand(chartCmd)
}
