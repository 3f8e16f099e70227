// ABOUTME: CLI commands for viewing a derived roster: show and summary.
// ABOUTME: Both accept the shared filter flags and a file or @snapshot source.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/models"
)

var (
	showFilters filterFlags
	showAll     bool
	showLimit   int

	summaryFilters filterFlags
)

var showCmd = &cobra.Command{
	Use:     "show <file|@snapshot>",
	Aliases: []string{"ls"},
	Short:   "Show the derived roster with KPIs",
	Long: `Show the filtered roster as a table followed by the KPI line.

By default only the name, age, height, weight and BMI columns are shown.
Use --all to show every column in table order.

EXAMPLES:

  roster show estudiantes.csv
  roster show estudiantes.csv --rh O+,A+ --age-min 14 --age-max 16
  roster show @latest --barrio Norte --all`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, v, err := showFilters.view(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if v.Table.Len() == 0 {
			fmt.Fprintln(out, "No students match the filters.")
			printKPIs(out, v.KPIs)
			return nil
		}

		t := v.Table
		if showLimit > 0 && showLimit < t.Len() {
			t = t.WithStudents(t.Students[:showLimit])
		}
		printTable(out, t, showAll)
		printKPIs(out, v.KPIs)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <file|@snapshot>",
	Short: "Show KPIs, descriptive statistics and distributions",
	Long: `Summarise the filtered roster: KPIs, descriptive statistics of height,
weight and BMI, and the age and BMI category distributions.

EXAMPLES:

  roster summary estudiantes.csv
  roster summary estudiantes.csv --profile listado`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, v, err := summaryFilters.view(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		color.New(color.Bold, color.FgCyan).Fprintln(out, rep.Profile.Title)
		fmt.Fprintf(out, "%s\n\n", color.New(color.Faint).Sprint(v.Criteria.Summary()))

		printKPIs(out, v.KPIs)
		fmt.Fprintln(out)
		printStats(out, v.Describe())
		fmt.Fprintln(out)
		printBuckets(out, "Edades", filter.AgeHistogram(v.Table.Students))
		printBuckets(out, "Clasificación IMC", filter.BMIHistogram(v.Table.Students))
		printBuckets(out, "Barrios", filter.CategoryHistogram(v.Table.Students, models.FieldNeighborhood))
		return nil
	},
}

func init() {
	showFilters.register(showCmd)
	showCmd.Flags().BoolVarP(&showAll, "all", "a", false, "show every column")
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "max rows to print (0 for all)")

	summaryFilters.register(summaryCmd)

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(summaryCmd)
}
