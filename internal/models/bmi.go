// ABOUTME: BMICategory enum with its threshold bands and display labels.
// ABOUTME: Bands are half-open; a boundary value belongs to the higher band.
package models

// BMICategory is the bucket a body-mass index falls into.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObesity     BMICategory = "Obesity"
	BMIUnknown     BMICategory = "Unknown"
)

// Upper bounds (exclusive) of the lower three bands.
const (
	BMIUnderweightBelow = 18.5
	BMINormalBelow      = 25.0
	BMIOverweightBelow  = 30.0
)

// AllBMICategories lists categories in ascending band order, Unknown last.
var AllBMICategories = []BMICategory{
	BMIUnderweight, BMINormal, BMIOverweight, BMIObesity, BMIUnknown,
}

var bmiLabels = map[BMICategory]string{
	BMIUnderweight: "Bajo peso",
	BMINormal:      "Normal",
	BMIOverweight:  "Sobrepeso",
	BMIObesity:     "Obesidad",
	BMIUnknown:     "Desconocido",
}

// Label returns the Spanish label used on chart panels.
func (c BMICategory) Label() string {
	if l, ok := bmiLabels[c]; ok {
		return l
	}
	return string(c)
}

// IsValidBMICategory checks if a string is a known category.
func IsValidBMICategory(s string) bool {
	for _, c := range AllBMICategories {
		if string(c) == s {
			return true
		}
	}
	return false
}
