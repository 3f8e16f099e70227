// ABOUTME: Document exports of a roster view: JSON, YAML and Markdown.
// ABOUTME: Each document carries the filter summary and KPIs beside the rows.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/roster"
)

// Document is the structured export of a filtered roster.
type Document struct {
	Version    string           `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Tool       string           `json:"tool" yaml:"tool"`
	Filter     string           `json:"filter" yaml:"filter"`
	KPIs       filter.KPIs      `json:"kpis" yaml:"kpis"`
	Columns    []string         `json:"columns" yaml:"columns"`
	Rows       []map[string]any `json:"rows" yaml:"rows"`
}

// NewDocument builds a Document from a view of t and the criteria that produced it.
func NewDocument(t *roster.Table, c filter.Criteria, now time.Time) *Document {
	doc := &Document{
		Version:    "1.0",
		ExportedAt: now,
		Tool:       "roster",
		Filter:     c.Summary(),
		KPIs:       filter.ComputeKPIs(t.Students),
		Columns:    t.Header(),
		Rows:       make([]map[string]any, 0, t.Len()),
	}
	for _, s := range t.Students {
		row := make(map[string]any, len(t.Columns))
		for _, col := range t.Columns {
			row[col.Name] = t.Value(s, col)
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("%w: encode JSON: %w", ErrExport, err)
	}
	return nil
}

// WriteYAML writes doc as YAML. Times are rendered as RFC 3339 text.
func WriteYAML(w io.Writer, doc *Document) error {
	out := struct {
		Version    string           `yaml:"version"`
		ExportedAt string           `yaml:"exported_at"`
		Tool       string           `yaml:"tool"`
		Filter     string           `yaml:"filter"`
		KPIs       yamlKPIs         `yaml:"kpis"`
		Columns    []string         `yaml:"columns"`
		Rows       []map[string]any `yaml:"rows"`
	}{
		Version:    doc.Version,
		ExportedAt: doc.ExportedAt.Format(time.RFC3339),
		Tool:       doc.Tool,
		Filter:     doc.Filter,
		KPIs: yamlKPIs{
			Count:        doc.KPIs.Count,
			MeanAge:      doc.KPIs.MeanAge,
			MeanHeightCM: doc.KPIs.MeanHeightCM,
			MeanWeightKG: doc.KPIs.MeanWeightKG,
			MeanBMI:      doc.KPIs.MeanBMI,
		},
		Columns: doc.Columns,
		Rows:    doc.Rows,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("%w: encode YAML: %w", ErrExport, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: encode YAML: %w", ErrExport, err)
	}
	return nil
}

type yamlKPIs struct {
	Count        int      `yaml:"count"`
	MeanAge      *float64 `yaml:"mean_age"`
	MeanHeightCM *float64 `yaml:"mean_height_cm"`
	MeanWeightKG *float64 `yaml:"mean_weight_kg"`
	MeanBMI      *float64 `yaml:"mean_bmi"`
}

// WriteMarkdown writes doc as a Markdown report with a KPI list and a row table.
func WriteMarkdown(w io.Writer, doc *Document) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Roster Export - %s\n\n", doc.ExportedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", doc.ExportedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Filter: %s\n\n", doc.Filter))

	sb.WriteString("## Indicators\n\n")
	sb.WriteString(fmt.Sprintf("- Students: %d\n", doc.KPIs.Count))
	sb.WriteString(fmt.Sprintf("- Mean age: %s\n", filter.FormatMetric(doc.KPIs.MeanAge)))
	sb.WriteString(fmt.Sprintf("- Mean height (cm): %s\n", filter.FormatMetric(doc.KPIs.MeanHeightCM)))
	sb.WriteString(fmt.Sprintf("- Mean weight (kg): %s\n", filter.FormatMetric(doc.KPIs.MeanWeightKG)))
	sb.WriteString(fmt.Sprintf("- Mean BMI: %s\n\n", filter.FormatMetric(doc.KPIs.MeanBMI)))

	sb.WriteString("## Students\n\n")
	sb.WriteString("| " + strings.Join(doc.Columns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("------|", len(doc.Columns)) + "\n")
	cells := make([]string, len(doc.Columns))
	for _, row := range doc.Rows {
		for i, name := range doc.Columns {
			cells[i] = markdownEscape(FormatCell(row[name]))
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("%w: write markdown: %w", ErrExport, err)
	}
	return nil
}

func markdownEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
