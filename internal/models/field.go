// ABOUTME: Field enum for the expected roster columns and their header aliases.
// ABOUTME: Also names the derived columns appended after field derivation.
package models

import "strings"

// Field identifies one of the expected columns of a student roster.
type Field string

const (
	FieldCode         Field = "code"
	FieldFirstName    Field = "first_name"
	FieldLastName     Field = "last_name"
	FieldBirthDate    Field = "birth_date"
	FieldHeight       Field = "height_raw"
	FieldWeight       Field = "weight_raw"
	FieldBloodType    Field = "blood_type"
	FieldHairColor    Field = "hair_color"
	FieldShoeSize     Field = "shoe_size"
	FieldNeighborhood Field = "neighborhood"
)

// ExpectedFields lists every column that must exist after loading, in the
// order missing columns are appended.
var ExpectedFields = []Field{
	FieldCode, FieldFirstName, FieldLastName, FieldBirthDate,
	FieldHeight, FieldWeight, FieldBloodType, FieldHairColor,
	FieldShoeSize, FieldNeighborhood,
}

// CategoricalFields are the text columns that are title-cased and offered as filters.
var CategoricalFields = []Field{FieldBloodType, FieldHairColor, FieldNeighborhood}

// FieldHeaders maps each field to the header used when the source file lacks it.
var FieldHeaders = map[Field]string{
	FieldCode:         "Código",
	FieldFirstName:    "Nombre_Estudiante",
	FieldLastName:     "Apellido_Estudiante",
	FieldBirthDate:    "Fecha_Nacimiento",
	FieldHeight:       "Estatura",
	FieldWeight:       "Peso",
	FieldBloodType:    "RH",
	FieldHairColor:    "Color_Cabello",
	FieldShoeSize:     "Talla_Zapato",
	FieldNeighborhood: "Barrio_Residencia",
}

var fieldAliases = map[Field][]string{
	FieldCode:         {"Código", "Codigo", "code"},
	FieldFirstName:    {"Nombre_Estudiante", "first_name"},
	FieldLastName:     {"Apellido_Estudiante", "last_name"},
	FieldBirthDate:    {"Fecha_Nacimiento", "birth_date"},
	FieldHeight:       {"Estatura", "height_raw", "height"},
	FieldWeight:       {"Peso", "weight_raw", "weight"},
	FieldBloodType:    {"RH", "blood_type"},
	FieldHairColor:    {"Color_Cabello", "hair_color"},
	FieldShoeSize:     {"Talla_Zapato", "shoe_size"},
	FieldNeighborhood: {"Barrio_Residencia", "neighborhood"},
}

// FieldForHeader returns the field a header names, matching aliases case-insensitively.
func FieldForHeader(header string) (Field, bool) {
	h := strings.TrimSpace(header)
	for _, f := range ExpectedFields {
		for _, alias := range fieldAliases[f] {
			if strings.EqualFold(h, alias) {
				return f, true
			}
		}
	}
	return "", false
}

// IsCategorical reports whether f is one of the normalised categorical fields.
func (f Field) IsCategorical() bool {
	for _, c := range CategoricalFields {
		if c == f {
			return true
		}
	}
	return false
}

// Derived column headers.
const (
	ColumnFullName    = "Integrante"
	ColumnHeightCM    = "Estatura_cm"
	ColumnWeightKG    = "Peso_kg"
	ColumnAge         = "Edad"
	ColumnBMI         = "IMC"
	ColumnBMICategory = "Clasificacion_IMC"
)

// DerivedColumns lists the computed columns in the order they are appended.
var DerivedColumns = []string{
	ColumnFullName, ColumnHeightCM, ColumnWeightKG,
	ColumnAge, ColumnBMI, ColumnBMICategory,
}

// IsDerivedColumn reports whether header names a computed column.
func IsDerivedColumn(header string) bool {
	h := strings.TrimSpace(header)
	for _, c := range DerivedColumns {
		if strings.EqualFold(h, c) {
			return true
		}
	}
	return false
}
