// ABOUTME: CLI command for ranking students by a numeric column.
// ABOUTME: Prints the top rows and optionally writes them as the top-5 CSV download.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/roster/internal/export"
	"github.com/harperreed/roster/internal/filter"
)

var (
	topFilters filterFlags
	topCount   int
	topOutput  string
	topSave    bool
)

var topCmd = &cobra.Command{
	Use:   "top <height|weight|bmi|age> <file|@snapshot>",
	Short: "Rank students by height, weight, BMI or age",
	Long: `Rank the filtered students by a column, descending. Students with no value
sort last and ties keep their roster order.

OUTPUT:

  --output, -o   Write the ranked rows as CSV to this path
  --save         Write to the standard download name in the current
                 directory (top5_estatura.csv, top5_peso.csv)

EXAMPLES:

  roster top height estudiantes.csv
  roster top weight estudiantes.csv -n 10
  roster top height estudiantes.csv --save`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"height", "weight", "bmi", "age"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := filter.ParseSortKey(args[0])
		if err != nil {
			return err
		}
		_, v, err := topFilters.view(cmd, args[1])
		if err != nil {
			return err
		}

		top := v.Top(key, topCount)
		out := cmd.OutOrStdout()
		if top.Len() == 0 {
			fmt.Fprintln(out, "No students match the filters.")
		} else {
			printTable(out, top, false)
		}

		path := topOutput
		if path == "" && topSave {
			path = export.Top5Filename(key)
		}
		if path == "" {
			return nil
		}

		f, err := os.Create(path) //nolint:gosec // output path is chosen by the user
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := export.WriteCSV(f, top, export.CSVOptions{}); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintln(out, color.GreenString("✓ Wrote %d rows to %s", top.Len(), path))
		return nil
	},
}

func init() {
	topFilters.register(topCmd)
	topCmd.Flags().IntVarP(&topCount, "count", "n", 5, "number of students")
	topCmd.Flags().StringVarP(&topOutput, "output", "o", "", "write CSV to file")
	topCmd.Flags().BoolVar(&topSave, "save", false, "write CSV under the standard download name")
	rootCmd.AddCommand(topCmd)
}
