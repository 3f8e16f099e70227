// ABOUTME: Shared export definitions: error sentinel, filenames, MIME types.
// ABOUTME: Cell formatting used by every text-based writer lives here too.
package export

import (
	"errors"
	"strconv"

	"github.com/harperreed/roster/internal/filter"
)

// ErrExport marks failures to serialise a roster view.
var ErrExport = errors.New("export roster")

// Download filenames.
const (
	Top5HeightFilename = "top5_estatura.csv"
	Top5WeightFilename = "top5_peso.csv"

	SpreadsheetFilename        = "estudiantes_modificado.xlsx"
	ListadoSpreadsheetFilename = "ListadoDeEstudiantes_modificado.xlsx"
)

// MIME types of the exported files.
const (
	CSVMIME         = "text/csv; charset=utf-8"
	SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SheetName is the single sheet of a spreadsheet export.
const SheetName = "Estudiantes"

// Top5Filename returns the download name for a top-5 slice by key.
func Top5Filename(key filter.SortKey) string {
	switch key {
	case filter.KeyHeight:
		return Top5HeightFilename
	case filter.KeyWeight:
		return Top5WeightFilename
	}
	return "top5_" + string(key) + ".csv"
}

// FormatCell renders a table cell as text. Absent cells are empty.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	}
	return ""
}
