// ABOUTME: PNG chart panels for a filtered roster, rendered with go-chart.
// ABOUTME: Panels without plottable data report ErrNoData and are skipped by RenderAll.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/models"
)

// ErrNoData means a panel has nothing to plot.
var ErrNoData = errors.New("no data to chart")

// Panel names one chart.
type Panel string

const (
	PanelAgeDistribution Panel = "age_distribution"
	PanelHeightVsWeight  Panel = "height_vs_weight"
	PanelBMICategory     Panel = "bmi_category"
	PanelNeighborhood    Panel = "neighborhood"
)

// BasePanels are drawn for every profile.
var BasePanels = []Panel{PanelAgeDistribution, PanelHeightVsWeight}

// AllPanels lists every known panel.
var AllPanels = []Panel{PanelAgeDistribution, PanelHeightVsWeight, PanelBMICategory, PanelNeighborhood}

// ParsePanel validates a panel name.
func ParsePanel(s string) (Panel, error) {
	for _, p := range AllPanels {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown chart: %s", s)
}

// Filename is the PNG file name of the panel.
func (p Panel) Filename() string {
	return string(p) + ".png"
}

const (
	width  = 800
	height = 500
)

// Render draws panel p for students as PNG into w.
func Render(w io.Writer, p Panel, students []*models.Student) error {
	switch p {
	case PanelAgeDistribution:
		return renderBars(w, "Distribución de edades", filter.AgeHistogram(students))
	case PanelHeightVsWeight:
		return renderScatter(w, students)
	case PanelBMICategory:
		buckets := filter.BMIHistogram(students)
		for i := range buckets {
			buckets[i].Label = models.BMICategory(buckets[i].Label).Label()
		}
		return renderBars(w, "Clasificación IMC", buckets)
	case PanelNeighborhood:
		return renderBars(w, "Estudiantes por barrio", filter.CategoryHistogram(students, models.FieldNeighborhood))
	}
	return fmt.Errorf("unknown chart: %s", p)
}

// RenderAll writes each panel to dir and returns the paths written. Panels
// with no data are skipped.
func RenderAll(dir string, panels []Panel, students []*models.Student) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	var written []string
	for _, p := range panels {
		path := filepath.Join(dir, p.Filename())
		if err := renderFile(path, p, students); err != nil {
			if errors.Is(err, ErrNoData) {
				continue
			}
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func renderFile(path string, p Panel, students []*models.Student) error {
	f, err := os.Create(path) //nolint:gosec // path is built from a fixed panel name
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Render(f, p, students); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func renderBars(w io.Writer, title string, buckets []filter.Bucket) error {
	if len(buckets) == 0 {
		return fmt.Errorf("%s: %w", title, ErrNoData)
	}

	bars := make([]gochart.Value, len(buckets))
	top := 0.0
	for i, b := range buckets {
		bars[i] = gochart.Value{Label: b.Label, Value: float64(b.Count)}
		top = math.Max(top, float64(b.Count))
	}

	const barWidth, barSpacing = 40, 12
	bc := gochart.BarChart{
		Title:      title,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      max(width, len(bars)*(barWidth+barSpacing)+120),
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top + 1},
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", title, err)
	}
	return nil
}

const noBloodType = "Sin RH"

func renderScatter(w io.Writer, students []*models.Student) error {
	type points struct{ xs, ys []float64 }
	groups := make(map[string]*points)
	var order []string

	xr := gochart.ContinuousRange{Min: math.Inf(1), Max: math.Inf(-1)}
	yr := gochart.ContinuousRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, s := range students {
		if s.HeightCM == nil || s.WeightKG == nil {
			continue
		}
		name := noBloodType
		if s.BloodType != nil {
			name = *s.BloodType
		}
		g, ok := groups[name]
		if !ok {
			g = &points{}
			groups[name] = g
			order = append(order, name)
		}
		g.xs = append(g.xs, *s.HeightCM)
		g.ys = append(g.ys, *s.WeightKG)
		xr.Min, xr.Max = math.Min(xr.Min, *s.HeightCM), math.Max(xr.Max, *s.HeightCM)
		yr.Min, yr.Max = math.Min(yr.Min, *s.WeightKG), math.Max(yr.Max, *s.WeightKG)
	}
	if len(order) == 0 {
		return fmt.Errorf("height vs weight: %w", ErrNoData)
	}

	series := make([]gochart.Series, 0, len(order))
	for i, name := range order {
		col := gochart.GetDefaultColor(i)
		series = append(series, gochart.ContinuousSeries{
			Name:    name,
			XValues: groups[name].xs,
			YValues: groups[name].ys,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    4,
				DotColor:    col,
			},
		})
	}

	ch := gochart.Chart{
		Title:      "Estatura vs Peso",
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: models.ColumnHeightCM, Range: pad(xr)},
		YAxis:      gochart.YAxis{Name: models.ColumnWeightKG, Range: pad(yr)},
		Series:     series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render height vs weight: %w", err)
	}
	return nil
}

// pad widens r by 5 units on each side so single points stay plottable.
func pad(r gochart.ContinuousRange) *gochart.ContinuousRange {
	return &gochart.ContinuousRange{Min: math.Floor(r.Min) - 5, Max: math.Ceil(r.Max) + 5}
}
