// ABOUTME: Filter criteria over a derived roster: category sets and numeric ranges.
// ABOUTME: Apply returns a subset of the same rows, never copies or modified values.
package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harperreed/roster/internal/derive"
	"github.com/harperreed/roster/internal/models"
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// Domains bounding the range selectors.
var (
	AgeDomain    = Range{Min: 0, Max: 120}
	HeightDomain = Range{Min: 0, Max: 250}
)

// Contains reports whether v lies within r.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Covers reports whether r spans all of domain.
func (r Range) Covers(domain Range) bool {
	return r.Min <= domain.Min && r.Max >= domain.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%g-%g", r.Min, r.Max)
}

// Criteria selects rows of a roster.
type Criteria struct {
	BloodTypes    []string `json:"blood_types,omitempty"`
	HairColors    []string `json:"hair_colors,omitempty"`
	Neighborhoods []string `json:"neighborhoods,omitempty"`

	Age    Range `json:"age"`
	Height Range `json:"height"`
}

// NewCriteria returns criteria with no category restriction and full ranges.
func NewCriteria() Criteria {
	return Criteria{Age: AgeDomain, Height: HeightDomain}
}

// Selection returns the allowed values for a categorical field.
func (c Criteria) Selection(f models.Field) []string {
	switch f {
	case models.FieldBloodType:
		return c.BloodTypes
	case models.FieldHairColor:
		return c.HairColors
	case models.FieldNeighborhood:
		return c.Neighborhoods
	}
	return nil
}

// WithSelection returns a copy of c with the allowed values of f replaced.
// Values are normalised like the column they filter; blanks are dropped, so a
// selection of only blanks restricts nothing.
func (c Criteria) WithSelection(f models.Field, values []string) Criteria {
	values = normalizeSelection(values)
	switch f {
	case models.FieldBloodType:
		c.BloodTypes = values
	case models.FieldHairColor:
		c.HairColors = values
	case models.FieldNeighborhood:
		c.Neighborhoods = values
	}
	return c
}

func normalizeSelection(values []string) []string {
	var out []string
	for _, v := range values {
		if n := derive.NormalizeText(&v); n != nil {
			out = append(out, *n)
		}
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(Criteria)
		if c.Age.Max > AgeDomain.Max {
			sl.ReportError(c.Age.Max, "age.max", "Max", "lte", fmt.Sprint(AgeDomain.Max))
		}
		if c.Height.Max > HeightDomain.Max {
			sl.ReportError(c.Height.Max, "height.max", "Max", "lte", fmt.Sprint(HeightDomain.Max))
		}
	}, Criteria{})
	return v
}

// Validate checks that ranges are ordered and inside their domains.
func (c Criteria) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid criteria: %w", err)
	}
	return nil
}

// Match reports whether a single student satisfies c.
func (c Criteria) Match(s *models.Student) bool {
	for _, f := range models.CategoricalFields {
		if !inSelection(c.Selection(f), s.Category(f)) {
			return false
		}
	}
	var age *float64
	if s.AgeYears != nil {
		v := float64(*s.AgeYears)
		age = &v
	}
	return inRange(c.Age, AgeDomain, age) && inRange(c.Height, HeightDomain, s.HeightCM)
}

func inSelection(allowed []string, value *string) bool {
	if len(allowed) == 0 {
		return true
	}
	if value == nil {
		return false
	}
	for _, a := range allowed {
		if a == *value {
			return true
		}
	}
	return false
}

// inRange lets absent values through only when the range spans its domain.
func inRange(r, domain Range, v *float64) bool {
	if v == nil {
		return r.Covers(domain)
	}
	return r.Contains(*v)
}

// Apply returns the students matching c, in their original order.
func Apply(students []*models.Student, c Criteria) []*models.Student {
	out := make([]*models.Student, 0, len(students))
	for _, s := range students {
		if c.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Options returns the distinct present values of a categorical field, in
// first-seen order.
func Options(students []*models.Student, f models.Field) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range students {
		v := s.Category(f)
		if v == nil || seen[*v] {
			continue
		}
		seen[*v] = true
		out = append(out, *v)
	}
	return out
}

// DefaultRanges returns age and height ranges spanning the present values,
// widened to whole units and clamped to the domains.
func DefaultRanges(students []*models.Student) (age, height Range) {
	age, height = AgeDomain, HeightDomain

	var ages, heights []float64
	for _, s := range students {
		if s.AgeYears != nil {
			ages = append(ages, float64(*s.AgeYears))
		}
		if s.HeightCM != nil {
			heights = append(heights, *s.HeightCM)
		}
	}
	if r, ok := span(ages, AgeDomain); ok {
		age = r
	}
	if r, ok := span(heights, HeightDomain); ok {
		height = r
	}
	return age, height
}

func span(values []float64, domain Range) (Range, bool) {
	if len(values) == 0 {
		return Range{}, false
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	r := Range{
		Min: math.Min(domain.Max, math.Max(domain.Min, math.Floor(lo))),
		Max: math.Max(domain.Min, math.Min(domain.Max, math.Ceil(hi))),
	}
	r.Max = math.Max(r.Max, r.Min)
	return r, true
}

// Summary renders c as a short human-readable summary.
func (c Criteria) Summary() string {
	var parts []string
	for _, f := range models.CategoricalFields {
		if sel := c.Selection(f); len(sel) > 0 {
			parts = append(parts, fmt.Sprintf("%s in [%s]", models.FieldHeaders[f], strings.Join(sel, ", ")))
		}
	}
	if !c.Age.Covers(AgeDomain) {
		parts = append(parts, "age "+c.Age.String())
	}
	if !c.Height.Covers(HeightDomain) {
		parts = append(parts, "height "+c.Height.String())
	}
	if len(parts) == 0 {
		return "all students"
	}
	return strings.Join(parts, "; ")
}
