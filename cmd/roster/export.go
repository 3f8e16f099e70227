// ABOUTME: CLI command for exporting the filtered roster.
// ABOUTME: Supports CSV, XLSX, Markdown, JSON and YAML.
package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/roster/internal/export"
)

var (
	exportFilters   filterFlags
	exportOutput    string
	exportBOM       bool
	exportDelimiter string
)

var exportCmd = &cobra.Command{
	Use:   "export <format> <file|@snapshot>",
	Short: "Export the filtered roster",
	Long: `Export the filtered, derived roster in various formats.

FORMATS:

  csv        Comma-separated table in column order
  xlsx       Spreadsheet with a single "Estudiantes" sheet
  markdown   Markdown table with KPIs
  json       Full JSON document (filter, KPIs, columns, rows)
  yaml       YAML version of the JSON document

OPTIONS:

  --output, -o   Write to file instead of stdout. xlsx always writes a file,
                 defaulting to the profile's spreadsheet name
                 (estudiantes_modificado.xlsx or
                 ListadoDeEstudiantes_modificado.xlsx).
  --bom          Prefix CSV with a UTF-8 byte order mark
  --delimiter    CSV field separator (default ",")

EXAMPLES:

  roster export csv estudiantes.csv -o filtrado.csv
  roster export xlsx estudiantes.csv --rh O+
  roster export json estudiantes.csv > roster.json`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"csv", "xlsx", "markdown", "json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		rep, v, err := exportFilters.view(cmd, args[1])
		if err != nil {
			return err
		}

		output := exportOutput
		var buf bytes.Buffer
		switch format {
		case "csv":
			opts := export.CSVOptions{BOM: exportBOM}
			if exportDelimiter != "" {
				opts.Delimiter = []rune(exportDelimiter)[0]
			}
			err = export.WriteCSV(&buf, v.Table, opts)
		case "xlsx":
			err = export.WriteXLSX(&buf, v.Table)
			if output == "" {
				output = rep.Profile.SpreadsheetFilename
			}
		case "markdown", "json", "yaml":
			doc := export.NewDocument(v.Table, v.Criteria, time.Now())
			switch format {
			case "markdown":
				err = export.WriteMarkdown(&buf, doc)
			case "json":
				err = export.WriteJSON(&buf, doc)
			default:
				err = export.WriteYAML(&buf, doc)
			}
		default:
			return fmt.Errorf("unknown format: %s (use csv, xlsx, markdown, json, or yaml)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if output == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(output, buf.Bytes(), 0600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Exported %d rows to %s", v.Table.Len(), output))
		return nil
	},
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportBOM, "bom", false, "prefix CSV with a UTF-8 BOM")
	exportCmd.Flags().StringVar(&exportDelimiter, "delimiter", "", "CSV field separator")
	rootCmd.AddCommand(exportCmd)
}
