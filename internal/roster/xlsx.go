// ABOUTME: Spreadsheet loader reading the first sheet of an .xlsx workbook.
// ABOUTME: Rows go through the same column planning as the CSV loader.
package roster

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the first sheet of a workbook into a Table. The first row
// is the header.
func LoadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrLoad, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrLoad)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %w", ErrLoad, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrLoad)
	}

	return fromRecords(rows[0], rows[1:]), nil
}
