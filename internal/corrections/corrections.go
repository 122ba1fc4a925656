// Package corrections holds the hand-maintained data patches applied to
// normalized tables. Patches are data, not pipeline logic: each entry names
// the category, the year and the exact subcategories it touches.
package corrections

import (
	"fmt"
	"io"

	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// Operation is the arithmetic a correction applies to each affected cell.
type Operation string

const (
	OpDivide   Operation = "divide"
	OpMultiply Operation = "multiply"
)

// Entry is one auditable correction.
type Entry struct {
	Category      models.Category `yaml:"category"`
	Year          int             `yaml:"year"`
	Subcategories []string        `yaml:"subcategories"`
	Operation     Operation       `yaml:"operation"`
	Factor        float64         `yaml:"factor"`
	Note          string          `yaml:"note,omitempty"`
}

// Func returns the cell transform of the entry.
func (e Entry) Func() (func(float64) float64, error) {
	switch e.Operation {
	case OpDivide:
		if e.Factor == 0 {
			return nil, fmt.Errorf("divide by zero")
		}
		factor := e.Factor
		return func(v float64) float64 { return v / factor }, nil
	case OpMultiply:
		factor := e.Factor
		return func(v float64) float64 { return v * factor }, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", e.Operation)
	}
}

// Table is an ordered list of corrections.
type Table struct {
	Entries []Entry `yaml:"corrections"`
}

// Default returns the corrections known for the USDA workbook. In 1982 the
// source switched reporting frequency and the monthly cells of these series
// carry a whole quarter, so they are divided by 3.
func Default() *Table {
	const note = "1982 monthly cells report a full quarter"
	return &Table{Entries: []Entry{
		{
			Category:      models.CategoryProduction,
			Year:          1982,
			Subcategories: []string{"beef", "veal", "pork", "lamb_and_mutton"},
			Operation:     OpDivide,
			Factor:        3,
			Note:          note,
		},
		{
			Category:      models.CategorySlaughterCount,
			Year:          1982,
			Subcategories: []string{"cattle", "heifers", "hogs", "sheep_and_lambs"},
			Operation:     OpDivide,
			Factor:        3,
			Note:          note,
		},
	}}
}

// Load decodes a YAML corrections document.
func Load(r io.Reader) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode corrections: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks every entry is complete and its operation is usable.
func (t *Table) Validate() error {
	for i, e := range t.Entries {
		item := fmt.Sprintf("correction #%d (%s %d)", i+1, e.Category, e.Year)
		if e.Category == "" {
			return &parsererror.ConfigurationError{Item: item, Reason: "category is required"}
		}
		if len(e.Subcategories) == 0 {
			return &parsererror.ConfigurationError{Item: item, Reason: "at least one subcategory is required"}
		}
		if e.Year <= 0 {
			return &parsererror.ConfigurationError{Item: item, Reason: "year is required"}
		}
		if e.Factor <= 0 {
			return &parsererror.ConfigurationError{Item: item, Reason: fmt.Sprintf("factor must be positive, got %v", e.Factor)}
		}
		if _, err := e.Func(); err != nil {
			return &parsererror.ConfigurationError{Item: item, Reason: err.Error()}
		}
	}
	return nil
}

// For returns the entries that target a category, in table order.
func (t *Table) For(category models.Category) []Entry {
	if t == nil {
		return nil
	}
	var out []Entry
	for _, e := range t.Entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Apply patches the table in place and returns the number of cells changed.
// Null cells stay null. An entry naming a subcategory the table does not
// have is a configuration error, and nothing is modified in that case.
func (t *Table) Apply(table *models.CategoryTable) (int, error) {
	entries := t.For(table.Category)

	funcs := make([]func(float64) float64, len(entries))
	for i, e := range entries {
		for _, sub := range e.Subcategories {
			if !table.HasSubcategory(sub) {
				return 0, &parsererror.ConfigurationError{
					Item:   fmt.Sprintf("correction %s %d", e.Category, e.Year),
					Reason: fmt.Sprintf("subcategory %q not in table", sub),
				}
			}
		}
		fn, err := e.Func()
		if err != nil {
			return 0, &parsererror.ConfigurationError{
				Item:   fmt.Sprintf("correction %s %d", e.Category, e.Year),
				Reason: err.Error(),
			}
		}
		funcs[i] = fn
	}

	changed := 0
	for i, e := range entries {
		for r := range table.Rows {
			row := &table.Rows[r]
			if row.Month.Year != e.Year {
				continue
			}
			for _, sub := range e.Subcategories {
				v := row.Values[sub]
				if !v.Valid {
					continue
				}
				row.Values[sub] = models.Of(funcs[i](v.Float))
				changed++
			}
		}
	}
	return changed, nil
}
