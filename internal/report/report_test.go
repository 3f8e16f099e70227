// ABOUTME: Tests for profiles and the load, derive, filter pipeline.
// ABOUTME: Uses a fixed clock so ages are stable.
package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/roster/internal/chart"
	"github.com/harperreed/roster/internal/derive"
	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/roster"
)

const sampleCSV = `Código,Nombre_Estudiante,Apellido_Estudiante,Fecha_Nacimiento,Estatura,Peso,RH,Color_Cabello,Talla_Zapato,Barrio_Residencia
001,Ana,Pérez,15/03/2010,1.62,55,o+,castaño,37,centro
002,Luis,Gómez,01/12/2009,175,70,a+,negro,42,Norte
003,Eva,Ríos,,1.50,40,,negro,35,norte
`

func build(t *testing.T, profile string) *Report {
	t.Helper()
	p, err := LookupProfile(profile)
	require.NoError(t, err)
	r, err := Read(strings.NewReader(sampleCSV), Options{
		Profile: p,
		Deriver: &derive.Deriver{Now: func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }},
	})
	require.NoError(t, err)
	return r
}

func TestLookupProfile(t *testing.T) {
	p, err := LookupProfile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, p.Name)
	assert.Equal(t, SelectNone, p.DefaultSelection)
	assert.Equal(t, "estudiantes_modificado.xlsx", p.SpreadsheetFilename)

	p, err = LookupProfile("listado")
	require.NoError(t, err)
	assert.Equal(t, SelectAll, p.DefaultSelection)
	assert.Equal(t, "ListadoDeEstudiantes_modificado.xlsx", p.SpreadsheetFilename)
	assert.Equal(t, []chart.Panel{
		chart.PanelAgeDistribution, chart.PanelHeightVsWeight,
		chart.PanelBMICategory, chart.PanelNeighborhood,
	}, p.Panels())

	_, err = LookupProfile("nope")
	assert.Error(t, err)
	assert.Equal(t, []string{"grupo001", "listado"}, ProfileNames())
}

func TestReadDerives(t *testing.T) {
	r := build(t, "grupo001")
	require.True(t, r.Table.Derived)
	require.Equal(t, 3, r.Table.Len())
	assert.Equal(t, 0, r.Failures.Total())
	assert.Equal(t, "Ana Pérez", r.Table.Students[0].FullName)
	assert.Equal(t, []string{"Centro", "Norte"}, r.Options(models.FieldNeighborhood))
}

func TestDefaultCriteriaGrupo(t *testing.T) {
	r := build(t, "grupo001")
	c := r.DefaultCriteria()
	assert.Empty(t, c.BloodTypes)
	assert.Equal(t, filter.AgeDomain, c.Age)

	v, err := r.View(c)
	require.NoError(t, err)
	assert.Equal(t, 3, v.KPIs.Count, "no preselection keeps every row")
}

func TestDefaultCriteriaListado(t *testing.T) {
	r := build(t, "listado")
	c := r.DefaultCriteria()
	assert.Equal(t, []string{"O+", "A+"}, c.BloodTypes)

	v, err := r.View(c)
	require.NoError(t, err)
	assert.Equal(t, 2, v.KPIs.Count, "rows without a blood type are not in the preselected set")
}

func TestViewFiltersAndKPIs(t *testing.T) {
	r := build(t, "grupo001")
	c := filter.NewCriteria().WithSelection(models.FieldHairColor, []string{"Negro"})

	v, err := r.View(c)
	require.NoError(t, err)
	require.Equal(t, 2, v.Table.Len())
	assert.Equal(t, r.Table.Columns, v.Table.Columns)
	require.NotNil(t, v.KPIs.MeanWeightKG)
	assert.Equal(t, 55.0, *v.KPIs.MeanWeightKG)

	top := v.Top(filter.KeyHeight, 5)
	require.Equal(t, 2, top.Len())
	assert.Equal(t, "Luis Gómez", top.Students[0].FullName)

	stats := v.Describe()
	require.Len(t, stats, 3)
	assert.Equal(t, 2, stats[0].Count)
}

func TestViewRejectsInvalidCriteria(t *testing.T) {
	r := build(t, "grupo001")
	c := filter.NewCriteria()
	c.Height = filter.Range{Min: 200, Max: 100}
	_, err := r.View(c)
	assert.Error(t, err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.ErrorIs(t, err, roster.ErrLoad)
}

func TestRecordsAndFilterOptions(t *testing.T) {
	r := build(t, "grupo001")

	recs := Records(r.Table.Students)
	require.Len(t, recs, 3)
	assert.Equal(t, "Ana Pérez", recs[0].FullName)
	require.NotNil(t, recs[0].Code)
	assert.Equal(t, "001", *recs[0].Code)
	assert.Equal(t, "Normal", recs[0].BMICategory)
	assert.Nil(t, recs[2].AgeYears)
	assert.Nil(t, recs[2].BloodType)

	opts := r.FilterOptions()
	assert.Equal(t, []string{"O+", "A+"}, opts.BloodTypes)
	assert.Equal(t, []string{"Castaño", "Negro"}, opts.HairColors)
	assert.Equal(t, filter.Range{Min: 14, Max: 14}, opts.AgeRange)
	assert.Equal(t, filter.Range{Min: 150, Max: 175}, opts.HeightRange)
}
