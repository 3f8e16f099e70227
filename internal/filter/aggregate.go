// ABOUTME: Aggregates over a filtered roster: KPIs, top-k, describe stats, histograms.
// ABOUTME: Means ignore absent values and are nil when nothing is present.
package filter

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/harperreed/roster/internal/models"
)

// SortKey names a numeric column rows can be ranked by.
type SortKey string

const (
	KeyHeight SortKey = "height"
	KeyWeight SortKey = "weight"
	KeyBMI    SortKey = "bmi"
	KeyAge    SortKey = "age"
)

// AllSortKeys lists the rankable columns.
var AllSortKeys = []SortKey{KeyHeight, KeyWeight, KeyBMI, KeyAge}

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range AllSortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key: %s (use height, weight, bmi, or age)", s)
}

// Value returns the key's value for s, or nil when absent.
func (k SortKey) Value(s *models.Student) *float64 {
	switch k {
	case KeyHeight:
		return s.HeightCM
	case KeyWeight:
		return s.WeightKG
	case KeyBMI:
		return s.BMI
	case KeyAge:
		if s.AgeYears == nil {
			return nil
		}
		v := float64(*s.AgeYears)
		return &v
	}
	return nil
}

// TopK returns at most k students sorted by key descending. Absent values
// sort last and ties keep their original order.
func TopK(students []*models.Student, key SortKey, k int) []*models.Student {
	sorted := make([]*models.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := key.Value(sorted[i]), key.Value(sorted[j])
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a > *b
	})
	if k < 0 {
		k = 0
	}
	if k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted
}

// KPIs are the headline metrics of a filtered view.
type KPIs struct {
	Count        int      `json:"count"`
	MeanAge      *float64 `json:"mean_age"`
	MeanHeightCM *float64 `json:"mean_height_cm"`
	MeanWeightKG *float64 `json:"mean_weight_kg"`
	MeanBMI      *float64 `json:"mean_bmi"`
}

// ComputeKPIs counts students and averages age, height, weight and BMI.
func ComputeKPIs(students []*models.Student) KPIs {
	return KPIs{
		Count:        len(students),
		MeanAge:      mean(values(students, KeyAge)),
		MeanHeightCM: mean(values(students, KeyHeight)),
		MeanWeightKG: mean(values(students, KeyWeight)),
		MeanBMI:      mean(values(students, KeyBMI)),
	}
}

func values(students []*models.Student, key SortKey) []float64 {
	out := make([]float64, 0, len(students))
	for _, s := range students {
		if v := key.Value(s); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func mean(vs []float64) *float64 {
	if len(vs) == 0 {
		return nil
	}
	m := round2(rawMean(vs))
	return &m
}

func rawMean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// FormatMetric renders an optional metric, "N/A" when absent.
func FormatMetric(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// Stats is a descriptive summary of one numeric column.
type Stats struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	P25    *float64 `json:"p25"`
	Median *float64 `json:"p50"`
	P75    *float64 `json:"p75"`
	Max    *float64 `json:"max"`
}

// Describe summarises height, weight and BMI of the given students.
func Describe(students []*models.Student) []Stats {
	return []Stats{
		describeColumn(models.ColumnHeightCM, values(students, KeyHeight)),
		describeColumn(models.ColumnWeightKG, values(students, KeyWeight)),
		describeColumn(models.ColumnBMI, values(students, KeyBMI)),
	}
}

func describeColumn(name string, vs []float64) Stats {
	st := Stats{Column: name, Count: len(vs)}
	if len(vs) == 0 {
		return st
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)

	st.Mean = mean(sorted)
	st.Min = roundPtr(sorted[0])
	st.P25 = roundPtr(quantile(sorted, 0.25))
	st.Median = roundPtr(quantile(sorted, 0.5))
	st.P75 = roundPtr(quantile(sorted, 0.75))
	st.Max = roundPtr(sorted[len(sorted)-1])

	if len(sorted) > 1 {
		m := rawMean(sorted)
		ss := 0.0
		for _, v := range sorted {
			ss += (v - m) * (v - m)
		}
		st.Std = roundPtr(math.Sqrt(ss / float64(len(sorted)-1)))
	}
	return st
}

// quantile interpolates linearly between closest ranks of sorted data.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Bucket is one bar of a histogram.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AgeHistogram counts students per age, ascending. Absent ages are skipped.
func AgeHistogram(students []*models.Student) []Bucket {
	counts := make(map[int]int)
	for _, s := range students {
		if s.AgeYears != nil {
			counts[*s.AgeYears]++
		}
	}
	ages := make([]int, 0, len(counts))
	for a := range counts {
		ages = append(ages, a)
	}
	sort.Ints(ages)

	out := make([]Bucket, 0, len(ages))
	for _, a := range ages {
		out = append(out, Bucket{Label: strconv.Itoa(a), Count: counts[a]})
	}
	return out
}

// BMIHistogram counts students per BMI category in band order, omitting
// empty categories.
func BMIHistogram(students []*models.Student) []Bucket {
	counts := make(map[models.BMICategory]int)
	for _, s := range students {
		counts[s.BMICategory]++
	}
	var out []Bucket
	for _, c := range models.AllBMICategories {
		if n := counts[c]; n > 0 {
			out = append(out, Bucket{Label: string(c), Count: n})
		}
	}
	return out
}

// CategoryHistogram counts students per value of a categorical field,
// sorted by label. Absent values are skipped.
func CategoryHistogram(students []*models.Student, f models.Field) []Bucket {
	counts := make(map[string]int)
	for _, s := range students {
		if v := s.Category(f); v != nil {
			counts[*v]++
		}
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	out := make([]Bucket, 0, len(labels))
	for _, l := range labels {
		out = append(out, Bucket{Label: l, Count: counts[l]})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundPtr(v float64) *float64 {
	r := round2(v)
	return &r
}
