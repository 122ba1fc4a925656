package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"null", Null(), ""},
		{"integer", Of(1800), "1800"},
		{"fraction", Of(2.6985), "2.6985"},
		{"zero is not null", Of(0), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func sampleTable() *CategoryTable {
	jan := NewMonth(1990, time.January)
	feb := NewMonth(1990, time.February)
	return &CategoryTable{
		Category:      CategoryProduction,
		Subcategories: []string{"beef", "veal"},
		Rows: []Row{
			{Month: jan, Values: map[string]Value{"beef": Of(1800), "veal": Null()}},
			{Month: feb, Values: map[string]Value{"beef": Of(1650), "veal": Of(22)}},
		},
	}
}

func TestCategoryTable_HasSubcategory(t *testing.T) {
	table := sampleTable()

	assert.True(t, table.HasSubcategory("beef"))
	assert.False(t, table.HasSubcategory("pork"))
}

func TestCategoryTable_Observations(t *testing.T) {
	obs := sampleTable().Observations()

	assert.Equal(t, []Observation{
		{Month: NewMonth(1990, time.January), Subcategory: "beef", Value: 1800},
		{Month: NewMonth(1990, time.February), Subcategory: "beef", Value: 1650},
		{Month: NewMonth(1990, time.February), Subcategory: "veal", Value: 22},
	}, obs)
}

func TestRawSheet_Cell(t *testing.T) {
	sheet := &RawSheet{Name: "s", Rows: [][]string{{"a", "b", "c"}, {"d"}}}

	assert.Equal(t, "b", sheet.Cell(0, 1))
	assert.Equal(t, "", sheet.Cell(1, 2), "ragged row")
	assert.Equal(t, "", sheet.Cell(5, 0))
	assert.Equal(t, "", sheet.Cell(0, -1))
	assert.Equal(t, 3, sheet.Width())
}
