// ABOUTME: Spreadsheet export of a roster view as a single-sheet workbook.
// ABOUTME: Header row is bold and frozen; numeric cells stay numeric.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/harperreed/roster/internal/roster"
)

// WriteXLSX writes t to w as a workbook with one sheet named SheetName.
func WriteXLSX(w io.Writer, t *roster.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("%w: create sheet: %w", ErrExport, err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("%w: remove default sheet: %w", ErrExport, err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("%w: create header style: %w", ErrExport, err)
	}

	for col, name := range t.Header() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return fmt.Errorf("%w: set header %s: %w", ErrExport, cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("%w: style header %s: %w", ErrExport, cell, err)
		}
	}

	for i, s := range t.Students {
		row := i + 2
		for col, c := range t.Columns {
			v := t.Value(s, c)
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExport, err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("%w: set cell %s: %w", ErrExport, cell, err)
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("%w: freeze header: %w", ErrExport, err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%w: write workbook: %w", ErrExport, err)
	}
	return nil
}
