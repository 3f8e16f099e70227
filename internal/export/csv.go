// ABOUTME: Delimited-text export of a roster view in table column order.
// ABOUTME: Numbers use the shortest round-trip form; absent cells are empty.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/harperreed/roster/internal/roster"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions tunes delimited-text output.
type CSVOptions struct {
	// BOM prefixes the output with a UTF-8 byte order mark for spreadsheet apps.
	BOM bool
	// Delimiter defaults to ','.
	Delimiter rune
}

// WriteCSV writes the header and every row of t to w.
func WriteCSV(w io.Writer, t *roster.Table, opts CSVOptions) error {
	if opts.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("%w: write BOM: %w", ErrExport, err)
		}
	}

	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("%w: write header: %w", ErrExport, err)
	}
	record := make([]string, len(t.Columns))
	for _, s := range t.Students {
		for i, c := range t.Columns {
			record[i] = FormatCell(t.Value(s, c))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("%w: write row %d: %w", ErrExport, s.Row, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrExport, err)
	}
	return nil
}
