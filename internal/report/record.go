// ABOUTME: JSON record of one student as served by the HTTP API and MCP tools.
// ABOUTME: Absent values encode as null.
package report

import (
	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/models"
)

// Record is the wire form of a derived student row.
type Record struct {
	Row          int      `json:"row"`
	Code         *string  `json:"code"`
	FullName     string   `json:"full_name"`
	AgeYears     *int     `json:"age_years"`
	HeightCM     *float64 `json:"height_cm"`
	WeightKG     *float64 `json:"weight_kg"`
	BMI          *float64 `json:"bmi"`
	BMICategory  string   `json:"bmi_category"`
	BloodType    *string  `json:"blood_type"`
	HairColor    *string  `json:"hair_color"`
	ShoeSize     *string  `json:"shoe_size"`
	Neighborhood *string  `json:"neighborhood"`
}

// NewRecord converts a derived student.
func NewRecord(s *models.Student) Record {
	return Record{
		Row:          s.Row,
		Code:         s.Raw[models.FieldCode],
		FullName:     s.FullName,
		AgeYears:     s.AgeYears,
		HeightCM:     s.HeightCM,
		WeightKG:     s.WeightKG,
		BMI:          s.BMI,
		BMICategory:  string(s.BMICategory),
		BloodType:    s.BloodType,
		HairColor:    s.HairColor,
		ShoeSize:     s.Raw[models.FieldShoeSize],
		Neighborhood: s.Neighborhood,
	}
}

// Records converts students in order.
func Records(students []*models.Student) []Record {
	out := make([]Record, len(students))
	for i, s := range students {
		out[i] = NewRecord(s)
	}
	return out
}

// FilterOptions lists the selectable values and default ranges of a report.
type FilterOptions struct {
	BloodTypes    []string     `json:"blood_types"`
	HairColors    []string     `json:"hair_colors"`
	Neighborhoods []string     `json:"neighborhoods"`
	AgeRange      filter.Range `json:"age_range"`
	HeightRange   filter.Range `json:"height_range"`
}

// FilterOptions returns the option lists and data-driven slider ranges.
func (r *Report) FilterOptions() FilterOptions {
	age, height := filter.DefaultRanges(r.Table.Students)
	return FilterOptions{
		BloodTypes:    nonNil(r.Options(models.FieldBloodType)),
		HairColors:    nonNil(r.Options(models.FieldHairColor)),
		Neighborhoods: nonNil(r.Options(models.FieldNeighborhood)),
		AgeRange:      age,
		HeightRange:   height,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
