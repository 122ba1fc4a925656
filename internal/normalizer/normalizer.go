// Package normalizer turns a human-formatted USDA worksheet into a tidy
// monthly CategoryTable.
package normalizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"fjacquet/meat-stats/internal/corrections"
	"fjacquet/meat-stats/internal/dateutils"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/parsererror"
)

// DefaultFillLimit is the longest run of missing months bridged by forward fill.
const DefaultFillLimit = 2

// annotationPattern matches footnote, source and run-date rows.
var annotationPattern = regexp.MustCompile(`/ |Source|Date run`)

// Layout locates one category block inside a worksheet.
type Layout struct {
	Category models.Category
	// HeaderRow is the zero-based row holding the category labels; the
	// subcategory labels are on the row below it.
	HeaderRow int
	Anchor    string
	// EndAnchor, when set, bounds the block: columns from it onward are dropped.
	EndAnchor       string
	DropLastColumn  bool
	MinObservations int
}

// Normalizer runs the normalization steps for any category.
type Normalizer struct {
	corrections *corrections.Table
	fillLimit   int
	logger      logging.Logger
}

// New creates a Normalizer. A nil corrections table applies no patches.
func New(table *corrections.Table, fillLimit int, logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Normalizer{corrections: table, fillLimit: fillLimit, logger: logger}
}

// block is the intermediate grid: keys for value columns and body rows whose
// first cell is the month label.
type block struct {
	keys         []string
	unnormalized []string
	rows         [][]string
}

// Normalize produces the CategoryTable of one worksheet block.
func (n *Normalizer) Normalize(sheet *models.RawSheet, layout Layout) (*models.CategoryTable, error) {
	log := n.logger.WithFields(
		logging.F(logging.FieldSheet, sheet.Name),
		logging.F(logging.FieldCategory, string(layout.Category)))

	cols, err := sliceColumns(sheet, layout)
	if err != nil {
		return nil, err
	}

	b, err := promoteHeader(sheet, layout, cols)
	if err != nil {
		return nil, err
	}
	for _, raw := range b.unnormalized {
		log.Warn("Header cell does not match the footnote pattern, keeping raw text",
			logging.F(logging.FieldSubcategory, raw))
	}

	before := len(b.rows)
	b.rows = dropAnnotationRows(b.rows, layout.MinObservations)
	b.rows = keepMonthlyRows(b.rows)
	log.Debug("Filtered body rows",
		logging.F("rows_in", before),
		logging.F(logging.FieldCount, len(b.rows)))

	table, err := parseRows(sheet.Name, layout.Category, b)
	if err != nil {
		return nil, err
	}

	if n.corrections != nil {
		changed, err := n.corrections.Apply(table)
		if err != nil {
			return nil, err
		}
		if changed > 0 {
			log.Info("Applied data corrections", logging.F(logging.FieldCount, changed))
		}
	}

	filled := ForwardFill(table, n.fillLimit)
	log.Info("Normalized worksheet",
		logging.F(logging.FieldCount, len(table.Rows)),
		logging.F("subcategories", len(table.Subcategories)),
		logging.F("filled", filled))

	return table, nil
}

// sliceColumns returns column 0 followed by the columns of the anchored block.
func sliceColumns(sheet *models.RawSheet, layout Layout) ([]int, error) {
	if layout.HeaderRow < 0 || layout.HeaderRow >= len(sheet.Rows) {
		return nil, &parsererror.ConfigurationError{
			Sheet:  sheet.Name,
			Item:   "header row",
			Reason: fmt.Sprintf("row %d is outside the sheet (%d rows)", layout.HeaderRow, len(sheet.Rows)),
		}
	}

	width := sheet.Width()
	start := findColumn(sheet, layout.HeaderRow, layout.Anchor, 0, width)
	if start < 0 {
		return nil, &parsererror.ConfigurationError{
			Sheet:  sheet.Name,
			Item:   fmt.Sprintf("anchor '%s'", layout.Anchor),
			Reason: fmt.Sprintf("not found in header row %d", layout.HeaderRow),
		}
	}

	end := width
	if layout.EndAnchor != "" {
		end = findColumn(sheet, layout.HeaderRow, layout.EndAnchor, start+1, width)
		if end < 0 {
			return nil, &parsererror.ConfigurationError{
				Sheet:  sheet.Name,
				Item:   fmt.Sprintf("end anchor '%s'", layout.EndAnchor),
				Reason: fmt.Sprintf("not found after '%s' in header row %d", layout.Anchor, layout.HeaderRow),
			}
		}
	}

	cols := []int{0}
	for c := start; c < end; c++ {
		if c != 0 {
			cols = append(cols, c)
		}
	}
	return cols, nil
}

// findColumn looks for a header cell equal to label, either verbatim or once
// footnote markers are stripped from both.
func findColumn(sheet *models.RawSheet, row int, label string, from, to int) int {
	want := strings.TrimSpace(label)
	wantKey, _ := NormalizeHeader(want)
	for c := from; c < to; c++ {
		cell := strings.TrimSpace(sheet.Cell(row, c))
		if cell == "" {
			continue
		}
		if cell == want {
			return c
		}
		if key, ok := NormalizeHeader(cell); ok && key == wantKey {
			return c
		}
	}
	return -1
}

// promoteHeader takes the subcategory row below the header row as column
// names and returns the remaining rows as the body.
func promoteHeader(sheet *models.RawSheet, layout Layout, cols []int) (*block, error) {
	subRow := layout.HeaderRow + 1
	if subRow >= len(sheet.Rows) {
		return nil, &parsererror.ConfigurationError{
			Sheet:  sheet.Name,
			Item:   "subcategory row",
			Reason: fmt.Sprintf("row %d is outside the sheet", subRow),
		}
	}

	if layout.DropLastColumn && len(cols) > 1 {
		cols = cols[:len(cols)-1]
	}

	b := &block{}
	valueCols := []int{0}
	seen := make(map[string]bool)
	for _, c := range cols[1:] {
		raw := strings.TrimSpace(sheet.Cell(subRow, c))
		if raw == "" {
			// spacer column
			continue
		}
		key, ok := NormalizeHeader(raw)
		if !ok {
			b.unnormalized = append(b.unnormalized, raw)
		}
		if seen[key] {
			return nil, &parsererror.ConfigurationError{
				Sheet:  sheet.Name,
				Item:   fmt.Sprintf("subcategory '%s'", key),
				Reason: "appears twice in the selected block",
			}
		}
		seen[key] = true
		b.keys = append(b.keys, key)
		valueCols = append(valueCols, c)
	}

	if len(b.keys) == 0 {
		return nil, &parsererror.ConfigurationError{
			Sheet:  sheet.Name,
			Item:   fmt.Sprintf("anchor '%s'", layout.Anchor),
			Reason: "block has no named subcategory columns",
		}
	}

	for r := subRow + 1; r < len(sheet.Rows); r++ {
		row := make([]string, len(valueCols))
		for i, c := range valueCols {
			row[i] = sheet.Cell(r, c)
		}
		b.rows = append(b.rows, row)
	}
	return b, nil
}

// dropAnnotationRows removes footnote, source and run-date rows, and rows
// with fewer than minObservations non-empty cells when that is positive.
func dropAnnotationRows(rows [][]string, minObservations int) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		if annotationPattern.MatchString(row[0]) {
			continue
		}
		if minObservations > 0 && nonEmptyCells(row) < minObservations {
			continue
		}
		out = append(out, row)
	}
	return out
}

// keepMonthlyRows drops yearly and quarterly totals.
func keepMonthlyRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		if dateutils.IsMonthLabel(row[0]) {
			out = append(out, row)
		}
	}
	return out
}

// parseRows builds the table, ordered by month.
func parseRows(sheetName string, category models.Category, b *block) (*models.CategoryTable, error) {
	table := &models.CategoryTable{
		Category:            category,
		Subcategories:       b.keys,
		UnnormalizedHeaders: b.unnormalized,
		Rows:                make([]models.Row, 0, len(b.rows)),
	}

	for _, raw := range b.rows {
		month, err := dateutils.ParseMonth(raw[0])
		if err != nil {
			return nil, &parsererror.ParseError{
				Sheet: sheetName,
				Field: "month",
				Value: raw[0],
				Err:   fmt.Errorf("%w: %w", parsererror.ErrMonthFormat, err),
			}
		}

		values := make(map[string]models.Value, len(b.keys))
		for i, key := range b.keys {
			values[key] = parseValue(raw[i+1])
		}
		table.Rows = append(table.Rows, models.Row{Month: month, Values: values})
	}

	sort.SliceStable(table.Rows, func(i, j int) bool {
		return table.Rows[i].Month.Before(table.Rows[j].Month)
	})
	for i := 1; i < len(table.Rows); i++ {
		if table.Rows[i].Month == table.Rows[i-1].Month {
			return nil, &parsererror.ParseError{
				Sheet: sheetName,
				Field: "month",
				Value: dateutils.FormatMonth(table.Rows[i].Month),
				Err:   parsererror.ErrDuplicateMonth,
			}
		}
	}

	return table, nil
}
