// ABOUTME: CSV loader producing a roster table with every expected column present.
// ABOUTME: Drops unnamed and derived headers; passes other unknown columns through.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/harperreed/roster/internal/models"
)

// ErrLoad marks failures to read or decode the input roster.
var ErrLoad = errors.New("load roster")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var unnamedHeader = regexp.MustCompile(`(?i)^unnamed:\s*\d+`)

// Options configures how the source is decoded.
type Options struct {
	// Delimiter separates fields. Zero means sniff between ',' and ';'.
	Delimiter rune
}

// LoadFile opens path and loads it as a roster. Files ending in .xlsx are
// read as spreadsheets, anything else as delimited text.
func LoadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the user on purpose
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(f)
	}
	return Load(f, opts)
}

// Load reads delimited text with a header row into a Table.
func Load(r io.Reader, opts Options) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read input: %w", ErrLoad, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrLoad)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = sniffDelimiter(data)
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", ErrLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode header: %w", ErrLoad, err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decode row %d: %w", ErrLoad, len(records)+1, err)
		}
		records = append(records, record)
	}

	return fromRecords(header, records), nil
}

// fromRecords builds a table from a header row and its data rows.
func fromRecords(header []string, records [][]string) *Table {
	layout := planColumns(header)
	students := make([]*models.Student, len(records))
	for i, record := range records {
		students[i] = layout.student(i, record)
	}
	return &Table{Columns: layout.columns, Students: students}
}

// sniffDelimiter picks ';' when the header line uses it and no commas.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.IndexByte(line, ';') >= 0 && bytes.IndexByte(line, ',') < 0 {
		return ';'
	}
	return ','
}

// sourceBinding maps one source cell position to a destination.
type sourceBinding struct {
	index int
	kind  ColumnKind
	field models.Field
	extra int
}

type columnLayout struct {
	columns  []Column
	bindings []sourceBinding
	extras   int
}

func planColumns(header []string) columnLayout {
	var l columnLayout
	bound := make(map[models.Field]bool)

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" || unnamedHeader.MatchString(name) || models.IsDerivedColumn(name) {
			continue
		}
		if f, ok := models.FieldForHeader(name); ok && !bound[f] {
			bound[f] = true
			l.columns = append(l.columns, Column{Name: name, Kind: KindField, Field: f})
			l.bindings = append(l.bindings, sourceBinding{index: i, kind: KindField, field: f})
			continue
		}
		l.columns = append(l.columns, Column{Name: name, Kind: KindExtra, Extra: l.extras})
		l.bindings = append(l.bindings, sourceBinding{index: i, kind: KindExtra, extra: l.extras})
		l.extras++
	}

	for _, f := range models.ExpectedFields {
		if !bound[f] {
			l.columns = append(l.columns, Column{Name: models.FieldHeaders[f], Kind: KindField, Field: f})
		}
	}
	return l
}

func (l columnLayout) student(row int, record []string) *models.Student {
	s := models.NewStudent(row)
	s.Extra = make([]*string, l.extras)
	for _, b := range l.bindings {
		if b.index >= len(record) || record[b.index] == "" {
			continue
		}
		v := record[b.index]
		if b.kind == KindField {
			s.Raw[b.field] = &v
		} else {
			s.Extra[b.extra] = &v
		}
	}
	return s
}
