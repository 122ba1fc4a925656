package common

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fjacquet/meat-stats/internal/dateutils"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"
)

// CategoryRecord is one cell of a category table in long format. Value is
// empty for a missing observation.
type CategoryRecord struct {
	Month       string `csv:"month"`
	Subcategory string `csv:"subcategory"`
	Value       string `csv:"value"`
}

// MergedRecord is one row of a merged weight series.
type MergedRecord struct {
	Month         string `csv:"month"`
	Subcategory   string `csv:"subcategory"`
	AverageWeight string `csv:"average_weight"`
	Count         string `csv:"count"`
	Weight        string `csv:"weight"`
}

// YearlyRecord is one row of a yearly aggregate.
type YearlyRecord struct {
	Year        int    `csv:"year"`
	Subcategory string `csv:"subcategory"`
	Months      int    `csv:"months"`
	Value       string `csv:"value"`
}

// PopulationRecord is one published year of a population series.
type PopulationRecord struct {
	Year       int   `csv:"year"`
	Population int64 `csv:"population"`
}

// TableWriter writes the pipeline's tables as tidy CSV files.
type TableWriter struct {
	delimiter rune
	logger    logging.Logger
}

// NewTableWriter creates a writer. A zero delimiter means comma.
func NewTableWriter(delimiter rune, logger logging.Logger) *TableWriter {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &TableWriter{delimiter: delimiter, logger: orDiscard(logger)}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CategoryRecords flattens a table month by month, subcategories in column
// order. Nulls are kept as empty values.
func CategoryRecords(table *models.CategoryTable) []CategoryRecord {
	records := make([]CategoryRecord, 0, len(table.Rows)*len(table.Subcategories))
	for _, row := range table.Rows {
		for _, sub := range table.Subcategories {
			records = append(records, CategoryRecord{
				Month:       row.Month.String(),
				Subcategory: sub,
				Value:       row.Values[sub].String(),
			})
		}
	}
	return records
}

// WriteCategoryTable writes a normalized table.
func (w *TableWriter) WriteCategoryTable(path string, table *models.CategoryTable) error {
	return WriteCSVFile(path, CategoryRecords(table), w.delimiter, w.logger)
}

// WriteMergedSeries writes a merged weight series.
func (w *TableWriter) WriteMergedSeries(path string, series *models.MergedSeries) error {
	records := make([]MergedRecord, 0, len(series.Rows))
	for _, r := range series.Rows {
		records = append(records, MergedRecord{
			Month:         r.Month.String(),
			Subcategory:   r.Subcategory,
			AverageWeight: formatFloat(r.AverageWeight),
			Count:         formatFloat(r.Count),
			Weight:        formatFloat(r.Weight),
		})
	}
	return WriteCSVFile(path, records, w.delimiter, w.logger)
}

// WriteYearlyAggregate writes a yearly aggregate.
func (w *TableWriter) WriteYearlyAggregate(path string, agg *models.YearlyAggregate) error {
	records := make([]YearlyRecord, 0, len(agg.Rows))
	for _, r := range agg.Rows {
		records = append(records, YearlyRecord{
			Year:        r.Year,
			Subcategory: r.Subcategory,
			Months:      r.Months,
			Value:       formatFloat(r.Value),
		})
	}
	return WriteCSVFile(path, records, w.delimiter, w.logger)
}

// WritePopulation writes the published years of a population series.
func (w *TableWriter) WritePopulation(path string, series *models.PopulationSeries) error {
	published := series.Published()
	records := make([]PopulationRecord, 0, len(published))
	for _, p := range published {
		records = append(records, PopulationRecord(p))
	}
	return WriteCSVFile(path, records, w.delimiter, w.logger)
}

// ReadCategoryTable reads a table written by WriteCategoryTable back into
// wide form. Subcategories keep the order of first appearance and months are
// sorted. Cells absent from the file are null.
func (w *TableWriter) ReadCategoryTable(path string, category models.Category) (*models.CategoryTable, error) {
	records, err := ReadCSVFile[CategoryRecord](path, w.delimiter, w.logger)
	if err != nil {
		return nil, err
	}

	table := &models.CategoryTable{Category: category}
	rows := make(map[models.Month]map[string]models.Value)
	seen := make(map[string]bool)

	for i, rec := range records {
		month, err := dateutils.ParseISOMonth(rec.Month)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		value := models.Null()
		if s := strings.TrimSpace(rec.Value); s != "" {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid value %q: %w", path, i+2, rec.Value, err)
			}
			value = models.Of(f)
		}

		if !seen[rec.Subcategory] {
			seen[rec.Subcategory] = true
			table.Subcategories = append(table.Subcategories, rec.Subcategory)
		}
		if rows[month] == nil {
			rows[month] = make(map[string]models.Value)
		}
		rows[month][rec.Subcategory] = value
	}

	for month, values := range rows {
		for _, sub := range table.Subcategories {
			if _, ok := values[sub]; !ok {
				values[sub] = models.Null()
			}
		}
		table.Rows = append(table.Rows, models.Row{Month: month, Values: values})
	}
	sort.Slice(table.Rows, func(i, j int) bool { return table.Rows[i].Month.Before(table.Rows[j].Month) })
	return table, nil
}

// ReadYearlyAggregate reads a file written by WriteYearlyAggregate.
func (w *TableWriter) ReadYearlyAggregate(path string) (*models.YearlyAggregate, error) {
	records, err := ReadCSVFile[YearlyRecord](path, w.delimiter, w.logger)
	if err != nil {
		return nil, err
	}

	agg := &models.YearlyAggregate{}
	seen := make(map[string]bool)
	for i, rec := range records {
		f, err := strconv.ParseFloat(strings.TrimSpace(rec.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid value %q: %w", path, i+2, rec.Value, err)
		}
		if !seen[rec.Subcategory] {
			seen[rec.Subcategory] = true
			agg.Subcategories = append(agg.Subcategories, rec.Subcategory)
		}
		agg.Rows = append(agg.Rows, models.YearlyRow{
			Year:        rec.Year,
			Subcategory: rec.Subcategory,
			Months:      rec.Months,
			Value:       f,
		})
	}
	return agg, nil
}

// ReadPopulation reads a file written by WritePopulation.
func (w *TableWriter) ReadPopulation(path string) (*models.PopulationSeries, error) {
	records, err := ReadCSVFile[PopulationRecord](path, w.delimiter, w.logger)
	if err != nil {
		return nil, err
	}
	series := models.NewPopulationSeries()
	for _, rec := range records {
		series.Set(rec.Year, rec.Population)
	}
	return series, nil
}
