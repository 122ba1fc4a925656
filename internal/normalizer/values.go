package normalizer

import (
	"math"
	"strconv"
	"strings"

	"fjacquet/meat-stats/internal/models"
)

// parseValue reads a numeric cell. Anything that is not a finite number,
// e.g. "", "NA", "(D)" or "nan", is a missing observation.
func parseValue(cell string) models.Value {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return models.Null()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return models.Null()
	}
	return models.Of(f)
}

// nonEmptyCells counts the cells of a row that carry any text.
func nonEmptyCells(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}
