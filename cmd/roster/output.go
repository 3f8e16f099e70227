// ABOUTME: Terminal rendering helpers: roster tables, KPI lines and statistics.
// ABOUTME: Tables use tablewriter; headings and KPIs are colored with fatih/color.
package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/harperreed/roster/internal/export"
	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/roster"
)

// compactColumns are shown by default; --all shows every table column.
var compactColumns = []string{
	models.ColumnFullName,
	models.ColumnAge,
	models.ColumnHeightCM,
	models.ColumnWeightKG,
	models.ColumnBMI,
	models.ColumnBMICategory,
}

func printTable(w io.Writer, t *roster.Table, all bool) {
	columns := t.Columns
	if !all {
		columns = pickColumns(t, compactColumns)
	}

	table := tablewriter.NewWriter(w)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Name
	}
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)

	for _, s := range t.Students {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = export.FormatCell(t.Value(s, c))
		}
		table.Append(row)
	}
	table.Render()
}

func pickColumns(t *roster.Table, names []string) []roster.Column {
	out := make([]roster.Column, 0, len(names))
	for _, name := range names {
		for _, c := range t.Columns {
			if c.Name == name {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func printKPIs(w io.Writer, k filter.KPIs) {
	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s %d  %s %s  %s %s  %s %s  %s %s\n",
		bold.Sprint("Estudiantes:"), k.Count,
		bold.Sprint("Edad media:"), filter.FormatMetric(k.MeanAge),
		bold.Sprint("Estatura media (cm):"), filter.FormatMetric(k.MeanHeightCM),
		bold.Sprint("Peso medio (kg):"), filter.FormatMetric(k.MeanWeightKG),
		bold.Sprint("IMC medio:"), filter.FormatMetric(k.MeanBMI))
}

func printStats(w io.Writer, stats []filter.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"})
	table.SetAutoFormatHeaders(false)
	for _, st := range stats {
		table.Append([]string{
			st.Column,
			strconv.Itoa(st.Count),
			filter.FormatMetric(st.Mean),
			filter.FormatMetric(st.Std),
			filter.FormatMetric(st.Min),
			filter.FormatMetric(st.P25),
			filter.FormatMetric(st.Median),
			filter.FormatMetric(st.P75),
			filter.FormatMetric(st.Max),
		})
	}
	table.Render()
}

func printBuckets(w io.Writer, title string, buckets []filter.Bucket) {
	color.New(color.Bold).Fprintln(w, title)
	if len(buckets) == 0 {
		fmt.Fprintln(w, "  (no data)")
		return
	}
	faint := color.New(color.Faint)
	for _, b := range buckets {
		fmt.Fprintf(w, "  %-16s %s\n", b.Label, faint.Sprint(b.Count))
	}
}
