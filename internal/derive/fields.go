// ABOUTME: Pure field derivations: decimals, height, weight, age, BMI, text casing.
// ABOUTME: Unparseable input yields an absent value, never an error to the caller.
package derive

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/harperreed/roster/internal/models"
)

// ErrParse marks a field value that could not be parsed.
var ErrParse = errors.New("parse field")

// errEmpty marks absent input; it is not counted as a parse failure.
var errEmpty = errors.New("empty")

// Heights at or below this many units are taken to be metres.
const metresThreshold = 3.0

var birthDateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"02/01/06",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseDecimal(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, errEmpty
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrParse, text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrParse, text)
	}
	return v, nil
}

// ParseDecimal parses a number written with '.' or ',' as the decimal separator.
func ParseDecimal(text string) *float64 {
	v, err := parseDecimal(text)
	if err != nil {
		return nil
	}
	return &v
}

func parseHeightCM(text string) (float64, error) {
	v, err := parseDecimal(text)
	if err != nil {
		return 0, err
	}
	if v <= metresThreshold {
		v *= 100
	}
	return round2(v), nil
}

// ParseHeightCM parses a height given in metres or centimetres into centimetres.
func ParseHeightCM(text string) *float64 {
	v, err := parseHeightCM(text)
	if err != nil {
		return nil
	}
	return &v
}

// ParseWeightKG parses a weight in kilograms; no unit conversion is applied.
func ParseWeightKG(text string) *float64 {
	return ParseDecimal(text)
}

func parseBirthDate(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, errEmpty
	}
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a day-first date", ErrParse, text)
}

// ParseBirthDate parses a day-first date; ok is false when absent or unparseable.
func ParseBirthDate(text string) (time.Time, bool) {
	t, err := parseBirthDate(text)
	return t, err == nil
}

func computeAge(birthDate string, today time.Time) (int, error) {
	bd, err := parseBirthDate(birthDate)
	if err != nil {
		return 0, err
	}
	return ageOn(bd, today), nil
}

func ageOn(bd, today time.Time) int {
	age := today.Year() - bd.Year()
	if today.Month() < bd.Month() || (today.Month() == bd.Month() && today.Day() < bd.Day()) {
		age--
	}
	return age
}

// ComputeAge returns the age in whole years on the given day.
func ComputeAge(birthDate string, today time.Time) *int {
	age, err := computeAge(birthDate, today)
	if err != nil {
		return nil
	}
	return &age
}

// ComputeBMI returns weight / (height in metres)^2 rounded to 2 decimals.
func ComputeBMI(weightKG, heightCM *float64) *float64 {
	if weightKG == nil || heightCM == nil || *heightCM == 0 {
		return nil
	}
	m := *heightCM / 100
	bmi := round2(*weightKG / (m * m))
	return &bmi
}

// ClassifyBMI buckets a BMI into its category.
func ClassifyBMI(bmi *float64) models.BMICategory {
	if bmi == nil {
		return models.BMIUnknown
	}
	switch v := *bmi; {
	case v < models.BMIUnderweightBelow:
		return models.BMIUnderweight
	case v < models.BMINormalBelow:
		return models.BMINormal
	case v < models.BMIOverweightBelow:
		return models.BMIOverweight
	default:
		return models.BMIObesity
	}
}

// NormalizeText trims and title-cases a categorical value. Blank input is absent.
func NormalizeText(text *string) *string {
	if text == nil {
		return nil
	}
	s := strings.TrimSpace(*text)
	if s == "" {
		return nil
	}
	s = cases.Title(language.Und).String(s)
	return &s
}

// FullName joins the trimmed first and last name with a single space.
func FullName(first, last *string) string {
	return trimmed(first) + " " + trimmed(last)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
