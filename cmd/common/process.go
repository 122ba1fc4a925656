// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"strings"

	"fjacquet/meat-stats/internal/config"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/joiner"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/workbook"
)

// AllCategories lists every category of the workbook in processing order.
func AllCategories() []models.Category {
	return []models.Category{
		models.CategoryProduction,
		models.CategorySlaughterCount,
		models.CategorySlaughterWeight,
		models.CategoryAverageWeight,
	}
}

// ParseCategories validates category names given on the command line. No
// names means all categories.
func ParseCategories(names []string) ([]models.Category, error) {
	if len(names) == 0 {
		return AllCategories(), nil
	}

	out := make([]models.Category, 0, len(names))
	for _, name := range names {
		category, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, nil
}

// ParseCategory validates one category name. Dashes are accepted in place
// of underscores.
func ParseCategory(name string) (models.Category, error) {
	key := models.Category(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	for _, c := range AllCategories() {
		if c == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (expected one of %s)", name, categoryList())
}

func categoryList() string {
	names := make([]string, 0, len(AllCategories()))
	for _, c := range AllCategories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// CategoryFile names the CSV file of a category, e.g. "production.csv" or
// "production_yearly.csv".
func CategoryFile(category models.Category, suffix string) string {
	if suffix == "" {
		return string(category) + ".csv"
	}
	return string(category) + "_" + suffix + ".csv"
}

// NormalizeWorkbook opens the workbook once and normalizes every requested
// category. The first failure aborts.
func NormalizeWorkbook(c *container.Container, path string, categories []models.Category) (map[models.Category]*models.CategoryTable, error) {
	log := c.GetLogger().WithField(logging.FieldFile, path)

	wb, err := workbook.Open(path, c.GetLogger())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := wb.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	tables := make(map[models.Category]*models.CategoryTable, len(categories))
	for _, category := range categories {
		table, err := c.NormalizeCategory(wb, category)
		if err != nil {
			return nil, err
		}
		tables[category] = table
	}
	log.Info("Normalized workbook", logging.F(logging.FieldCount, len(tables)))
	return tables, nil
}

// Yearly rolls a monthly series up to years with the configured partial-year
// table, then divides by the configured divisor.
func Yearly(cfg *config.Config, series models.Series) (*models.YearlyAggregate, error) {
	monthsPresent, err := cfg.MonthsPresent()
	if err != nil {
		return nil, err
	}
	agg, err := joiner.Rollup(series, joiner.RollupOptions{MonthsPresent: monthsPresent})
	if err != nil {
		return nil, err
	}
	return joiner.Convert(agg, cfg.Rollup.Divisor)
}
