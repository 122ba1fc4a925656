package joiner

import (
	"fmt"

	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/parsererror"

	"github.com/shopspring/decimal"
)

// PerCapita divides every yearly value by the population of its year after
// multiplying it by unitScale, e.g. 1e6 to turn million pounds into pounds
// per person. Years without a published population are dropped.
func PerCapita(agg *models.YearlyAggregate, population *models.PopulationSeries, unitScale float64) (*models.YearlyAggregate, error) {
	if unitScale <= 0 {
		return nil, &parsererror.ConfigurationError{
			Item:   "per capita unit scale",
			Reason: fmt.Sprintf("must be positive, got %v", unitScale),
		}
	}
	scale := decimal.NewFromFloat(unitScale)

	known := make(map[int]decimal.Decimal)
	for _, p := range population.Published() {
		known[p.Year] = decimal.NewFromInt(p.Population)
	}

	out := &models.YearlyAggregate{Subcategories: append([]string(nil), agg.Subcategories...)}
	for _, row := range agg.Rows {
		pop, ok := known[row.Year]
		if !ok {
			continue
		}
		row.Value = decimal.NewFromFloat(row.Value).Mul(scale).Div(pop).InexactFloat64()
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
