package models

import "sort"

// MergedRow is one (month, subcategory) pair present in both joined tables.
type MergedRow struct {
	Month         Month
	Subcategory   string
	AverageWeight float64
	Count         float64
	Weight        float64
}

// MergedSeries is the inner join of an average-weight and a count table.
type MergedSeries struct {
	Rows []MergedRow
}

// Observations exposes the derived weight of each merged row.
func (m *MergedSeries) Observations() []Observation {
	out := make([]Observation, 0, len(m.Rows))
	for _, r := range m.Rows {
		out = append(out, Observation{Month: r.Month, Subcategory: r.Subcategory, Value: r.Weight})
	}
	return out
}

// YearlyRow is the sum of one subcategory over one calendar year.
type YearlyRow struct {
	Year        int
	Subcategory string
	// Months is the number of monthly observations that went into Value.
	Months int
	Value  float64
}

// YearlyAggregate holds yearly rows ordered by year, then subcategory order
// of first appearance.
type YearlyAggregate struct {
	Subcategories []string
	Rows          []YearlyRow
}

// Series returns the rows of one subcategory in year order.
func (y *YearlyAggregate) Series(subcategory string) []YearlyRow {
	var out []YearlyRow
	for _, r := range y.Rows {
		if r.Subcategory == subcategory {
			out = append(out, r)
		}
	}
	return out
}

// PopulationSeries maps a year to the US resident population.
//
// A value of 0 means the year is unknown. Set overwrites, so the latest
// writer for a year wins.
type PopulationSeries struct {
	values map[int]int64
}

// NewPopulationSeries creates an empty series.
func NewPopulationSeries() *PopulationSeries {
	return &PopulationSeries{values: make(map[int]int64)}
}

// Set records the population of a year, replacing any earlier entry.
func (p *PopulationSeries) Set(year int, population int64) {
	p.values[year] = population
}

// Get returns the recorded value of a year and whether an entry exists.
func (p *PopulationSeries) Get(year int) (int64, bool) {
	v, ok := p.values[year]
	return v, ok
}

// Len returns the number of recorded years, unknown ones included.
func (p *PopulationSeries) Len() int {
	return len(p.values)
}

// YearPopulation is one entry of a published population series.
type YearPopulation struct {
	Year       int
	Population int64
}

// Published returns the known years in ascending order. Years recorded as
// zero are left out.
func (p *PopulationSeries) Published() []YearPopulation {
	out := make([]YearPopulation, 0, len(p.values))
	for year, pop := range p.values {
		if pop == 0 {
			continue
		}
		out = append(out, YearPopulation{Year: year, Population: pop})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
