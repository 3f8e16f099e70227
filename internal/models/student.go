// ABOUTME: Student record model: raw roster columns plus derived fields.
// ABOUTME: Absent values are nil pointers rather than placeholder strings.
package models

// Student is one row of the roster.
type Student struct {
	// Row is the zero-based position in the base table.
	Row int

	// Raw holds the loaded text of each expected field; nil means absent.
	Raw map[Field]*string

	// Extra holds pass-through columns, aligned with the table's extra columns.
	Extra []*string

	// Derived fields, populated once by the deriver.
	FullName     string
	HeightCM     *float64
	WeightKG     *float64
	AgeYears     *int
	BMI          *float64
	BMICategory  BMICategory
	BloodType    *string
	HairColor    *string
	Neighborhood *string
}

// NewStudent creates a Student at the given row with an empty raw map.
func NewStudent(row int) *Student {
	return &Student{
		Row:         row,
		Raw:         make(map[Field]*string, len(ExpectedFields)),
		BMICategory: BMIUnknown,
	}
}

// RawText returns the raw text of f, or "" when absent.
func (s *Student) RawText(f Field) string {
	if v := s.Raw[f]; v != nil {
		return *v
	}
	return ""
}

// WithRaw sets the raw text of f.
func (s *Student) WithRaw(f Field, value string) *Student {
	s.Raw[f] = &value
	return s
}

// Category returns the normalised value of a categorical field.
func (s *Student) Category(f Field) *string {
	switch f {
	case FieldBloodType:
		return s.BloodType
	case FieldHairColor:
		return s.HairColor
	case FieldNeighborhood:
		return s.Neighborhood
	}
	return nil
}

// Clone returns a shallow copy sharing the raw map and extra cells.
func (s *Student) Clone() *Student {
	c := *s
	return &c
}
