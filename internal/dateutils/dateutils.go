// Package dateutils provides the month label handling used by the worksheet normalizer.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"fjacquet/meat-stats/internal/models"
)

// MonthLayout is the layout of month labels in the statistics workbook, e.g. "Jan-1990".
const MonthLayout = "Jan-2006"

// ISOMonthLayout is the layout months are written with in CSV output, e.g. "1990-01".
const ISOMonthLayout = "2006-01"

// monthLabelPattern finds a three-letter month abbreviation followed by a
// four-digit year anywhere in the label, so a footnoted month such as
// "Feb-1990 p" is still a monthly row and fails parsing instead of vanishing.
// Yearly and quarterly total rows do not match.
var monthLabelPattern = regexp.MustCompile(`[A-Za-z]{3}-\d{4}`)

var whitespace = regexp.MustCompile(`\s+`)

// IsMonthLabel reports whether a cell looks like a monthly row label.
func IsMonthLabel(label string) bool {
	return monthLabelPattern.MatchString(CleanDateString(label))
}

// ParseMonth parses a "Jan-1990" label into a calendar month.
func ParseMonth(label string) (models.Month, error) {
	t, err := time.Parse(MonthLayout, CleanDateString(label))
	if err != nil {
		return models.Month{}, fmt.Errorf("unable to parse month %q: %w", label, err)
	}
	return models.MonthOf(t), nil
}

// FormatMonth renders a month in the workbook's label format.
func FormatMonth(m models.Month) string {
	return m.Time().Format(MonthLayout)
}

// ParseISOMonth parses a "1990-01" month as written by models.Month.String.
func ParseISOMonth(s string) (models.Month, error) {
	t, err := time.Parse(ISOMonthLayout, strings.TrimSpace(s))
	if err != nil {
		return models.Month{}, fmt.Errorf("unable to parse month %q: %w", s, err)
	}
	return models.MonthOf(t), nil
}

// CleanDateString trims a label and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
