// ABOUTME: Tests for field derivations and the table deriver.
// ABOUTME: Pins unit parsing, age on a fixed day, BMI rounding and band edges.
package derive

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/roster"
)

func ptr[T any](v T) *T { return &v }

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"1.75", ptr(1.75)},
		{"1,75", ptr(1.75)},
		{"  70 ", ptr(70.0)},
		{"-2", ptr(-2.0)},
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"1,2,3", nil},
		{"NaN", nil},
		{"Inf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDecimal(tt.input)
			assertFloatPtr(t, got, tt.want)
		})
	}
}

func TestParseHeightCM(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"1.75", ptr(175.0)},
		{"175", ptr(175.0)},
		{"1,75", ptr(175.0)},
		{"3", ptr(300.0)},
		{"3.01", ptr(3.01)},
		{"1.7", ptr(170.0)},
		{"162.456", ptr(162.46)},
		{"", nil},
		{"abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertFloatPtr(t, ParseHeightCM(tt.input), tt.want)
		})
	}
}

func TestParseWeightKG(t *testing.T) {
	assertFloatPtr(t, ParseWeightKG("55,5"), ptr(55.5))
	assertFloatPtr(t, ParseWeightKG("x"), nil)
}

func TestComputeAge(t *testing.T) {
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		today time.Time
		want  *int
	}{
		{"birthday not reached", "15/03/2000", today, ptr(23)},
		{"birthday today", "01/01/2000", today, ptr(24)},
		{"birthday passed", "15/03/2000", time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), ptr(24)},
		{"day before birthday", "15/03/2000", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), ptr(23)},
		{"single digit parts", "5/3/2010", today, ptr(13)},
		{"dashes", "15-03-2000", today, ptr(23)},
		{"iso", "2000-03-15", today, ptr(23)},
		{"with time", "15/03/2000 00:00:00", today, ptr(23)},
		{"empty", "", today, nil},
		{"garbage", "yesterday", today, nil},
		{"month first rejected", "03/15/2000", today, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAge(tt.input, tt.today)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ComputeAge(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ComputeAge(%q) = %d, want %d", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestParseBirthDate(t *testing.T) {
	got, ok := ParseBirthDate(" 07.09.2011 ")
	if !ok {
		t.Fatal("ParseBirthDate rejected a dotted date")
	}
	if want := time.Date(2011, 9, 7, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseBirthDate = %v, want %v", got, want)
	}

	if _, ok := ParseBirthDate("31/02/2010"); ok {
		t.Error("ParseBirthDate accepted 31 February")
	}
	if _, ok := ParseBirthDate(""); ok {
		t.Error("ParseBirthDate accepted empty input")
	}
}

func TestComputeBMI(t *testing.T) {
	tests := []struct {
		name   string
		weight *float64
		height *float64
		want   *float64
	}{
		{"normal", ptr(70.0), ptr(175.0), ptr(22.86)},
		{"absent weight", nil, ptr(175.0), nil},
		{"absent height", ptr(70.0), nil, nil},
		{"zero height", ptr(70.0), ptr(0.0), nil},
		{"zero weight", ptr(0.0), ptr(160.0), ptr(0.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFloatPtr(t, ComputeBMI(tt.weight, tt.height), tt.want)
		})
	}
}

func TestClassifyBMI(t *testing.T) {
	tests := []struct {
		bmi  *float64
		want models.BMICategory
	}{
		{ptr(18.4), models.BMIUnderweight},
		{ptr(18.5), models.BMINormal},
		{ptr(24.999), models.BMINormal},
		{ptr(25.0), models.BMIOverweight},
		{ptr(29.99), models.BMIOverweight},
		{ptr(30.0), models.BMIObesity},
		{ptr(45.0), models.BMIObesity},
		{nil, models.BMIUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyBMI(tt.bmi); got != tt.want {
			t.Errorf("ClassifyBMI(%v) = %s, want %s", deref(tt.bmi), got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input *string
		want  *string
	}{
		{ptr("  castaño oscuro "), ptr("Castaño Oscuro")},
		{ptr("o+"), ptr("O+")},
		{ptr("NORTE"), ptr("Norte")},
		{ptr("   "), nil},
		{nil, nil},
	}

	for _, tt := range tests {
		got := NormalizeText(tt.input)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("NormalizeText(%v) = %v, want %v", strOrNil(tt.input), strOrNil(got), strOrNil(tt.want))
		}
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		first, last *string
		want        string
	}{
		{ptr(" Ana "), ptr("Pérez"), "Ana Pérez"},
		{ptr("Ana"), nil, "Ana "},
		{nil, ptr("Pérez"), " Pérez"},
		{nil, nil, " "},
	}

	for _, tt := range tests {
		if got := FullName(tt.first, tt.last); got != tt.want {
			t.Errorf("FullName(%v, %v) = %q, want %q", strOrNil(tt.first), strOrNil(tt.last), got, tt.want)
		}
	}
}

func TestDeriverDerive(t *testing.T) {
	input := `Código,Nombre_Estudiante,Apellido_Estudiante,Fecha_Nacimiento,Estatura,Peso,RH
001,Ana,Pérez,15/03/2000,"1,75",70, o+
002,,Gómez,not a date,abc,,a-
`
	base, err := roster.Load(strings.NewReader(input), roster.Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	d := &Deriver{Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }}
	table, failures := d.Derive(base)

	if !table.Derived {
		t.Error("expected derived table")
	}
	for _, name := range models.DerivedColumns {
		if !table.HasColumn(name) {
			t.Errorf("missing derived column %s", name)
		}
	}

	ana := table.Students[0]
	if ana.FullName != "Ana Pérez" {
		t.Errorf("FullName = %q", ana.FullName)
	}
	assertFloatPtr(t, ana.HeightCM, ptr(175.0))
	assertFloatPtr(t, ana.BMI, ptr(22.86))
	if ana.AgeYears == nil || *ana.AgeYears != 23 {
		t.Errorf("AgeYears = %v, want 23", ana.AgeYears)
	}
	if ana.BMICategory != models.BMINormal {
		t.Errorf("BMICategory = %s, want Normal", ana.BMICategory)
	}
	if ana.BloodType == nil || *ana.BloodType != "O+" {
		t.Errorf("BloodType = %v, want O+", strOrNil(ana.BloodType))
	}

	second := table.Students[1]
	if second.FullName != " Gómez" {
		t.Errorf("FullName = %q, want %q", second.FullName, " Gómez")
	}
	if second.HeightCM != nil || second.AgeYears != nil || second.BMI != nil {
		t.Error("unparseable values should be absent")
	}
	if second.BMICategory != models.BMIUnknown {
		t.Errorf("BMICategory = %s, want Unknown", second.BMICategory)
	}

	if failures[models.FieldHeight] != 1 || failures[models.FieldBirthDate] != 1 {
		t.Errorf("failures = %v, want one height and one birth date", failures)
	}
	if failures[models.FieldWeight] != 0 {
		t.Error("empty weight is absent, not a parse failure")
	}

	// The loaded table is never modified.
	if base.Derived || base.Students[0].HeightCM != nil {
		t.Error("Derive mutated its input")
	}
	if got := base.Students[0].RawText(models.FieldBloodType); got != " o+" {
		t.Errorf("raw blood type changed to %q", got)
	}
}

func TestDeriverIsDeterministic(t *testing.T) {
	base, err := roster.Load(strings.NewReader("Estatura,Peso,Fecha_Nacimiento\n1.60,50,01/02/2003\n"), roster.Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	d := &Deriver{Now: func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }}

	first, _ := d.Derive(base)
	second, _ := d.Derive(base)

	a, b := first.Students[0], second.Students[0]
	if *a.BMI != *b.BMI || *a.AgeYears != *b.AgeYears || a.BMICategory != b.BMICategory {
		t.Error("derivation is not deterministic")
	}
}

func TestNewDeriverDefaults(t *testing.T) {
	d := NewDeriver(nil)
	if d.Now == nil || d.Logger == nil {
		t.Fatal("expected clock and logger to be set")
	}
	var zero Deriver
	table, _ := zero.Derive(&roster.Table{})
	if table.Len() != 0 {
		t.Error("expected empty table")
	}
}

func assertFloatPtr(t *testing.T, got, want *float64) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("got %v, want %v", deref(got), deref(want))
	}
	if got != nil && *got != *want {
		t.Errorf("got %v, want %v", *got, *want)
	}
}

func deref(v *float64) any {
	if v == nil {
		return "absent"
	}
	return *v
}

func strOrNil(s *string) any {
	if s == nil {
		return "absent"
	}
	return *s
}
