// Package joiner combines normalized tables into derived series and rolls
// monthly data up to years.
package joiner

import (
	"fmt"

	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Merge inner-joins an average-weight table with a count table on
// (month, subcategory) and derives weight = average * count * unitScale.
//
// Only pairs present and non-null on both sides survive. Rows come out in
// month order, then in the subcategory order of the average-weight table.
func Merge(avgWeight, count *models.CategoryTable, unitScale float64) (*models.MergedSeries, error) {
	if unitScale <= 0 {
		return nil, &parsererror.ConfigurationError{
			Item:   "unit scale",
			Reason: fmt.Sprintf("must be positive, got %v", unitScale),
		}
	}
	scale := decimal.NewFromFloat(unitScale)

	counts := make(map[models.Month]map[string]models.Value, len(count.Rows))
	for _, row := range count.Rows {
		counts[row.Month] = row.Values
	}

	merged := &models.MergedSeries{}
	for _, row := range avgWeight.Rows {
		countRow, ok := counts[row.Month]
		if !ok {
			continue
		}
		for _, sub := range avgWeight.Subcategories {
			avg := row.Values[sub]
			n, ok := countRow[sub]
			if !ok || !avg.Valid || !n.Valid {
				continue
			}
			weight, _ := decimal.NewFromFloat(avg.Float).
				Mul(decimal.NewFromFloat(n.Float)).
				Mul(scale).
				Float64()
			merged.Rows = append(merged.Rows, models.MergedRow{
				Month:         row.Month,
				Subcategory:   sub,
				AverageWeight: avg.Float,
				Count:         n.Float,
				Weight:        weight,
			})
		}
	}
	return merged, nil
}
