package joiner

import (
	"fmt"
	"sort"

	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/parsererror"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// RollupOptions configures the yearly rollup.
type RollupOptions struct {
	// MonthsPresent lists years with partial coverage and how many months
	// they actually report. Their sums are scaled by 12/n. The count is
	// configuration: it is never inferred from the data.
	MonthsPresent map[int]int
}

type yearKey struct {
	year        int
	subcategory string
}

// Rollup sums observations within (calendar year, subcategory). Nulls never
// reach this point: series only expose present observations.
func Rollup(series models.Series, opts RollupOptions) (*models.YearlyAggregate, error) {
	for year, n := range opts.MonthsPresent {
		if n < 1 || n > 12 {
			return nil, &parsererror.ConfigurationError{
				Item:   fmt.Sprintf("months present for %d", year),
				Reason: fmt.Sprintf("must be between 1 and 12, got %d", n),
			}
		}
	}

	groups := make(map[yearKey][]float64)
	var order []yearKey
	var subcategories []string
	seenSub := make(map[string]bool)

	for _, obs := range series.Observations() {
		key := yearKey{year: obs.Month.Year, subcategory: obs.Subcategory}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], obs.Value)
		if !seenSub[obs.Subcategory] {
			seenSub[obs.Subcategory] = true
			subcategories = append(subcategories, obs.Subcategory)
		}
	}

	subIndex := make(map[string]int, len(subcategories))
	for i, s := range subcategories {
		subIndex[s] = i
	}
	sortKeys(order, subIndex)

	agg := &models.YearlyAggregate{Subcategories: subcategories}
	for _, key := range order {
		values := groups[key]
		sum, err := stats.Sum(values)
		if err != nil {
			return nil, fmt.Errorf("sum %d/%s: %w", key.year, key.subcategory, err)
		}
		if n, ok := opts.MonthsPresent[key.year]; ok {
			sum = Annualize(sum, n)
		}
		agg.Rows = append(agg.Rows, models.YearlyRow{
			Year:        key.year,
			Subcategory: key.subcategory,
			Months:      len(values),
			Value:       sum,
		})
	}
	return agg, nil
}

// Annualize scales a partial-year sum to twelve months: sum * 12 / monthsPresent.
func Annualize(sum float64, monthsPresent int) float64 {
	return decimal.NewFromFloat(sum).
		Mul(decimal.NewFromInt(12)).
		Div(decimal.NewFromInt(int64(monthsPresent))).
		InexactFloat64()
}

func sortKeys(keys []yearKey, subIndex map[string]int) {
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return subIndex[keys[i].subcategory] < subIndex[keys[j].subcategory]
	})
}

// Convert divides every yearly value by divisor, e.g. 1000 to move from
// thousand units to million units.
func Convert(agg *models.YearlyAggregate, divisor float64) (*models.YearlyAggregate, error) {
	if divisor == 0 {
		return nil, &parsererror.ConfigurationError{Item: "divisor", Reason: "must not be zero"}
	}
	d := decimal.NewFromFloat(divisor)

	out := &models.YearlyAggregate{
		Subcategories: append([]string(nil), agg.Subcategories...),
		Rows:          make([]models.YearlyRow, len(agg.Rows)),
	}
	for i, row := range agg.Rows {
		row.Value = decimal.NewFromFloat(row.Value).Div(d).InexactFloat64()
		out.Rows[i] = row
	}
	return out, nil
}
