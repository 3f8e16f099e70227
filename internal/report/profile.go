// ABOUTME: Report profiles capture the few places the two roster variants differ.
// ABOUTME: Default filter selection, extra chart panels and download filenames.
package report

import (
	"fmt"
	"sort"

	"github.com/harperreed/roster/internal/chart"
	"github.com/harperreed/roster/internal/export"
)

// Selection is the initial state of the category filters.
type Selection string

const (
	// SelectNone starts with empty selections, which restrict nothing.
	SelectNone Selection = "none"
	// SelectAll starts with every present option selected.
	SelectAll Selection = "all"
)

// Profile configures one report variant.
type Profile struct {
	Name                string
	Title               string
	DefaultSelection    Selection
	ExtraCharts         []chart.Panel
	SpreadsheetFilename string
}

// DefaultProfile is used when no profile is configured.
const DefaultProfile = "grupo001"

var profiles = map[string]Profile{
	"grupo001": {
		Name:                "grupo001",
		Title:               "Estudiantes Grupo 001",
		DefaultSelection:    SelectNone,
		SpreadsheetFilename: export.SpreadsheetFilename,
	},
	"listado": {
		Name:                "listado",
		Title:               "Listado de Estudiantes",
		DefaultSelection:    SelectAll,
		ExtraCharts:         []chart.Panel{chart.PanelBMICategory, chart.PanelNeighborhood},
		SpreadsheetFilename: export.ListadoSpreadsheetFilename,
	},
}

// LookupProfile returns the built-in profile with the given name. An empty
// name selects DefaultProfile.
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile: %s (available: %v)", name, ProfileNames())
	}
	return p, nil
}

// ProfileNames lists the built-in profiles alphabetically.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Panels returns the base chart panels followed by the profile extras.
func (p Profile) Panels() []chart.Panel {
	out := make([]chart.Panel, 0, len(chart.BasePanels)+len(p.ExtraCharts))
	out = append(out, chart.BasePanels...)
	return append(out, p.ExtraCharts...)
}
