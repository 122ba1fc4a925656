package normalizer

import "fjacquet/meat-stats/internal/models"

// ForwardFill replaces nulls with the last preceding value of the same
// subcategory, at most limit consecutive rows after it. Longer gaps keep
// their remaining nulls, and nulls before the first value are never filled.
// The table is modified in place; the number of filled cells is returned.
func ForwardFill(table *models.CategoryTable, limit int) int {
	if limit <= 0 {
		return 0
	}

	filled := 0
	for _, sub := range table.Subcategories {
		var last models.Value
		run := 0
		for i := range table.Rows {
			v := table.Rows[i].Values[sub]
			if v.Valid {
				last = v
				run = 0
				continue
			}
			run++
			if last.Valid && run <= limit {
				table.Rows[i].Values[sub] = last
				filled++
			}
		}
	}
	return filled
}
