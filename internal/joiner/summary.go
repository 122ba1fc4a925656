package joiner

import (
	"fjacquet/meat-stats/internal/models"

	"github.com/montanaflynn/stats"
)

// Summary describes one subcategory of a table.
type Summary struct {
	Subcategory string
	Count       int
	Nulls       int
	Min         float64
	Max         float64
	Mean        float64
	First       models.Month
	Last        models.Month
}

// Summarize computes a Summary per subcategory, in table column order.
// Subcategories without any observation report only their null count.
func Summarize(table *models.CategoryTable) []Summary {
	out := make([]Summary, 0, len(table.Subcategories))
	for _, sub := range table.Subcategories {
		s := Summary{Subcategory: sub}
		var values stats.Float64Data
		for _, row := range table.Rows {
			v := row.Values[sub]
			if !v.Valid {
				s.Nulls++
				continue
			}
			if len(values) == 0 {
				s.First = row.Month
			}
			s.Last = row.Month
			values = append(values, v.Float)
		}
		s.Count = len(values)
		if s.Count > 0 {
			s.Min, _ = values.Min()
			s.Max, _ = values.Max()
			s.Mean, _ = values.Mean()
		}
		out = append(out, s)
	}
	return out
}
