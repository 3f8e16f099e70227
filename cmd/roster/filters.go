// ABOUTME: Filter flags shared by every reporting command.
// ABOUTME: Flags override the profile's default criteria only when set.
package main

import (
	"github.com/spf13/cobra"

	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/report"
)

type filterFlags struct {
	bloodTypes    []string
	hairColors    []string
	neighborhoods []string
	ageMin        float64
	ageMax        float64
	heightMin     float64
	heightMax     float64
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.bloodTypes, "rh", nil, "allowed blood types (repeatable)")
	fs.StringSliceVar(&f.hairColors, "hair", nil, "allowed hair colors (repeatable)")
	fs.StringSliceVar(&f.neighborhoods, "barrio", nil, "allowed neighborhoods (repeatable)")
	fs.Float64Var(&f.ageMin, "age-min", filter.AgeDomain.Min, "minimum age in years")
	fs.Float64Var(&f.ageMax, "age-max", filter.AgeDomain.Max, "maximum age in years")
	fs.Float64Var(&f.heightMin, "height-min", filter.HeightDomain.Min, "minimum height in cm")
	fs.Float64Var(&f.heightMax, "height-max", filter.HeightDomain.Max, "maximum height in cm")
}

// criteria applies the flags set on cmd to the report's default criteria.
func (f *filterFlags) criteria(cmd *cobra.Command, rep *report.Report) (filter.Criteria, error) {
	c := rep.DefaultCriteria()
	fs := cmd.Flags()

	if fs.Changed("rh") {
		c = c.WithSelection(models.FieldBloodType, f.bloodTypes)
	}
	if fs.Changed("hair") {
		c = c.WithSelection(models.FieldHairColor, f.hairColors)
	}
	if fs.Changed("barrio") {
		c = c.WithSelection(models.FieldNeighborhood, f.neighborhoods)
	}
	if fs.Changed("age-min") {
		c.Age.Min = f.ageMin
	}
	if fs.Changed("age-max") {
		c.Age.Max = f.ageMax
	}
	if fs.Changed("height-min") {
		c.Height.Min = f.heightMin
	}
	if fs.Changed("height-max") {
		c.Height.Max = f.heightMax
	}
	return c, c.Validate()
}

// view loads source and applies the filter flags.
func (f *filterFlags) view(cmd *cobra.Command, source string) (*report.Report, *report.View, error) {
	rep, err := loadReport(source)
	if err != nil {
		return nil, nil, err
	}
	c, err := f.criteria(cmd, rep)
	if err != nil {
		return nil, nil, err
	}
	v, err := rep.View(c)
	if err != nil {
		return nil, nil, err
	}
	return rep, v, nil
}
