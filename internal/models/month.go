package models

import (
	"fmt"
	"time"
)

// Month is a calendar month. The day of month carries no meaning in the
// statistics workbook, so it is not represented at all.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth creates a Month from a year and a month number.
func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf truncates a time value to its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Index returns a monotonically increasing ordinal, useful for ordering and
// for detecting consecutive months.
func (m Month) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	return m.Index() < other.Index()
}

// Time returns the first day of the month at midnight UTC.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
