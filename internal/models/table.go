package models

import "strconv"

// Category names a statistical category of the workbook.
type Category string

const (
	CategoryProduction      Category = "production"
	CategorySlaughterCount  Category = "slaughter_count"
	CategorySlaughterWeight Category = "slaughter_weight"
	CategoryAverageWeight   Category = "average_weight"
)

// Value is a nullable observation. The zero Value is null.
type Value struct {
	Float float64
	Valid bool
}

// Null returns a missing observation.
func Null() Value {
	return Value{}
}

// Of wraps a number as a present observation.
func Of(f float64) Value {
	return Value{Float: f, Valid: true}
}

// String renders the value for CSV output; null renders as an empty string.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// Row is one month of a CategoryTable.
type Row struct {
	Month  Month
	Values map[string]Value
}

// Observation is a single non-null (month, subcategory, value) triple.
type Observation struct {
	Month       Month
	Subcategory string
	Value       float64
}

// Series is anything that can be flattened into observations, in month order.
type Series interface {
	Observations() []Observation
}

// CategoryTable is the normalized, monthly output for one category.
//
// Rows are ordered by strictly increasing month. Subcategories lists the
// column keys in header order; every row carries an entry for each of them.
type CategoryTable struct {
	Category      Category
	Subcategories []string
	Rows          []Row

	// UnnormalizedHeaders lists header cells that did not match the expected
	// footnote pattern and were kept verbatim.
	UnnormalizedHeaders []string
}

// HasSubcategory reports whether key is one of the table's columns.
func (t *CategoryTable) HasSubcategory(key string) bool {
	for _, s := range t.Subcategories {
		if s == key {
			return true
		}
	}
	return false
}

// Observations flattens the table, skipping nulls.
func (t *CategoryTable) Observations() []Observation {
	var out []Observation
	for _, row := range t.Rows {
		for _, sub := range t.Subcategories {
			v := row.Values[sub]
			if !v.Valid {
				continue
			}
			out = append(out, Observation{Month: row.Month, Subcategory: sub, Value: v.Float})
		}
	}
	return out
}
