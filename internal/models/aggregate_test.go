package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPopulationSeries(t *testing.T) {
	p := NewPopulationSeries()
	p.Set(2017, 325719178)
	p.Set(2016, 1)
	p.Set(2016, 323127513)
	p.Set(2018, 0)

	assert.Equal(t, 3, p.Len())

	v, ok := p.Get(2018)
	assert.True(t, ok)
	assert.Zero(t, v)
	_, ok = p.Get(1999)
	assert.False(t, ok)

	assert.Equal(t, []YearPopulation{
		{Year: 2016, Population: 323127513},
		{Year: 2017, Population: 325719178},
	}, p.Published())
}

func TestYearlyAggregate_Series(t *testing.T) {
	agg := &YearlyAggregate{
		Subcategories: []string{"cattle", "hogs"},
		Rows: []YearlyRow{
			{Year: 2000, Subcategory: "cattle", Months: 12, Value: 1},
			{Year: 2000, Subcategory: "hogs", Months: 12, Value: 2},
			{Year: 2001, Subcategory: "cattle", Months: 12, Value: 3},
		},
	}

	cattle := agg.Series("cattle")
	assert.Len(t, cattle, 2)
	assert.Equal(t, 2001, cattle[1].Year)
	assert.Empty(t, agg.Series("veal"))
}

func TestMergedSeries_Observations(t *testing.T) {
	m := &MergedSeries{Rows: []MergedRow{
		{Month: NewMonth(1990, time.January), Subcategory: "hogs", AverageWeight: 185, Count: 7500, Weight: 1387.5},
	}}

	assert.Equal(t, []Observation{
		{Month: NewMonth(1990, time.January), Subcategory: "hogs", Value: 1387.5},
	}, m.Observations())
}
