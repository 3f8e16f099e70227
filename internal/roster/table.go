// ABOUTME: In-memory roster table: ordered columns over a slice of students.
// ABOUTME: Resolves each column of a student to a typed cell value for export.
package roster

import (
	"github.com/harperreed/roster/internal/models"
)

// ColumnKind says where a column's values come from.
type ColumnKind int

const (
	// KindField is one of the expected roster fields.
	KindField ColumnKind = iota
	// KindExtra is a pass-through column not in the expected set.
	KindExtra
	// KindDerived is a computed column.
	KindDerived
)

// Column describes one column of the table.
type Column struct {
	Name  string
	Kind  ColumnKind
	Field models.Field // set for KindField
	Extra int          // index into Student.Extra for KindExtra
}

// Table is an ordered set of columns over student rows.
type Table struct {
	Columns  []Column
	Students []*models.Student

	// Derived is true once the deriver has populated computed fields.
	Derived bool
}

// Header returns the column names in table order.
func (t *Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Students)
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// FieldColumn returns the column bound to field f.
func (t *Table) FieldColumn(f models.Field) (Column, bool) {
	for _, c := range t.Columns {
		if c.Kind == KindField && c.Field == f {
			return c, true
		}
	}
	return Column{}, false
}

// Value returns the cell of s in column c: nil when absent, otherwise a
// string, float64 or int.
func (t *Table) Value(s *models.Student, c Column) any {
	switch c.Kind {
	case KindField:
		v := s.Raw[c.Field]
		if t.Derived && c.Field.IsCategorical() {
			v = s.Category(c.Field)
		}
		if v == nil {
			return nil
		}
		return *v
	case KindExtra:
		if c.Extra < len(s.Extra) && s.Extra[c.Extra] != nil {
			return *s.Extra[c.Extra]
		}
		return nil
	case KindDerived:
		return derivedValue(s, c.Name)
	}
	return nil
}

func derivedValue(s *models.Student, name string) any {
	switch name {
	case models.ColumnFullName:
		return s.FullName
	case models.ColumnHeightCM:
		return floatOrNil(s.HeightCM)
	case models.ColumnWeightKG:
		return floatOrNil(s.WeightKG)
	case models.ColumnAge:
		if s.AgeYears == nil {
			return nil
		}
		return *s.AgeYears
	case models.ColumnBMI:
		return floatOrNil(s.BMI)
	case models.ColumnBMICategory:
		return string(s.BMICategory)
	}
	return nil
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// WithStudents returns a table sharing t's columns over a different row set.
func (t *Table) WithStudents(students []*models.Student) *Table {
	return &Table{Columns: t.Columns, Students: students, Derived: t.Derived}
}
