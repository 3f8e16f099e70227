// ABOUTME: Deriver applies every field derivation to a loaded roster table.
// ABOUTME: Returns a new table; the loaded rows and their raw values are untouched.
package derive

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/roster"
)

// Deriver computes the derived columns of a roster.
type Deriver struct {
	// Now supplies "today" for age calculation. Defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// ParseFailures counts unparseable values per field in one derivation pass.
type ParseFailures map[models.Field]int

// Total returns the number of failures across all fields.
func (p ParseFailures) Total() int {
	n := 0
	for _, c := range p {
		n += c
	}
	return n
}

// NewDeriver creates a Deriver using the wall clock.
func NewDeriver(logger *zap.Logger) *Deriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deriver{Now: time.Now, Logger: logger}
}

func (d *Deriver) today() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Deriver) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Derive returns a copy of t with derived fields populated and derived
// columns appended.
func (d *Deriver) Derive(t *roster.Table) (*roster.Table, ParseFailures) {
	today := d.today()
	failures := make(ParseFailures)

	students := make([]*models.Student, len(t.Students))
	for i, s := range t.Students {
		derived, errs := DeriveStudent(s, today)
		for f, err := range errs {
			failures[f]++
			d.logger().Debug("field parse failed",
				zap.Int("row", s.Row),
				zap.String("field", string(f)),
				zap.Error(err))
		}
		students[i] = derived
	}

	columns := make([]roster.Column, 0, len(t.Columns)+len(models.DerivedColumns))
	for _, c := range t.Columns {
		if c.Kind != roster.KindDerived {
			columns = append(columns, c)
		}
	}
	for _, name := range models.DerivedColumns {
		columns = append(columns, roster.Column{Name: name, Kind: roster.KindDerived})
	}

	if n := failures.Total(); n > 0 {
		d.logger().Info("derived roster with unparseable values",
			zap.Int("rows", len(students)),
			zap.Int("parse_failures", n))
	}

	return &roster.Table{Columns: columns, Students: students, Derived: true}, failures
}

// DeriveStudent computes the derived fields of one row. Parse failures are
// reported per field but never stop the row.
func DeriveStudent(s *models.Student, today time.Time) (*models.Student, map[models.Field]error) {
	out := s.Clone()
	errs := make(map[models.Field]error)

	record := func(f models.Field, err error) bool {
		if err == nil {
			return true
		}
		if !errors.Is(err, errEmpty) {
			errs[f] = err
		}
		return false
	}

	out.FullName = FullName(s.Raw[models.FieldFirstName], s.Raw[models.FieldLastName])

	out.HeightCM = nil
	if v, err := parseHeightCM(s.RawText(models.FieldHeight)); record(models.FieldHeight, err) {
		out.HeightCM = &v
	}

	out.WeightKG = nil
	if v, err := parseDecimal(s.RawText(models.FieldWeight)); record(models.FieldWeight, err) {
		out.WeightKG = &v
	}

	out.AgeYears = nil
	if v, err := computeAge(s.RawText(models.FieldBirthDate), today); record(models.FieldBirthDate, err) {
		out.AgeYears = &v
	}

	out.BMI = ComputeBMI(out.WeightKG, out.HeightCM)
	out.BMICategory = ClassifyBMI(out.BMI)

	out.BloodType = NormalizeText(s.Raw[models.FieldBloodType])
	out.HairColor = NormalizeText(s.Raw[models.FieldHairColor])
	out.Neighborhood = NormalizeText(s.Raw[models.FieldNeighborhood])

	return out, errs
}
