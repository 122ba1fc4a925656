// Package census fetches the US resident population per year from the
// Census Bureau data API.
package census

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"fjacquet/meat-stats/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// QueryShape describes one way of asking the API for a population figure.
// The upstream datasets changed path and field names over time, so a year is
// tried against several shapes in order.
type QueryShape struct {
	Name    string `yaml:"name"`
	Dataset string `yaml:"dataset"`
	// Vintage pins the year segment of the URL. Zero uses the requested year.
	Vintage int      `yaml:"vintage,omitempty"`
	Fields  []string `yaml:"fields"`
	// ValueField must be one of Fields.
	ValueField string `yaml:"value_field"`
	// YearField, when set, names a column that tells which year a row
	// reports. Its first four-digit run is taken as the year.
	YearField string `yaml:"year_field,omitempty"`
	Scope     string `yaml:"scope"`
	FirstYear int    `yaml:"first_year"`
	LastYear  int    `yaml:"last_year"`
}

// Covers reports whether the shape can answer for year.
func (s QueryShape) Covers(year int) bool {
	return year >= s.FirstYear && year <= s.LastYear
}

// URL builds the request URL of the shape for year. The key parameter is left
// out entirely when apiKey is empty.
func (s QueryShape) URL(baseURL string, year int, apiKey string) string {
	vintage := year
	if s.Vintage != 0 {
		vintage = s.Vintage
	}

	u := fmt.Sprintf("%s/%s/%s?get=%s&for=us:%s",
		strings.TrimRight(baseURL, "/"), strconv.Itoa(vintage), strings.Trim(s.Dataset, "/"),
		strings.Join(s.Fields, ","), s.Scope)
	if apiKey != "" {
		u += "&key=" + url.QueryEscape(apiKey)
	}
	return u
}

// Validate checks that the shape can be queried.
func (s QueryShape) Validate() error {
	item := fmt.Sprintf("query shape '%s'", s.Name)
	switch {
	case s.Name == "":
		return &parsererror.ConfigurationError{Item: "query shape", Reason: "name is required"}
	case s.Dataset == "":
		return &parsererror.ConfigurationError{Item: item, Reason: "dataset is required"}
	case len(s.Fields) == 0:
		return &parsererror.ConfigurationError{Item: item, Reason: "at least one field is required"}
	case !contains(s.Fields, s.ValueField):
		return &parsererror.ConfigurationError{Item: item, Reason: fmt.Sprintf("value field '%s' is not requested", s.ValueField)}
	case s.YearField != "" && !contains(s.Fields, s.YearField):
		return &parsererror.ConfigurationError{Item: item, Reason: fmt.Sprintf("year field '%s' is not requested", s.YearField)}
	case s.Scope == "":
		return &parsererror.ConfigurationError{Item: item, Reason: "scope is required"}
	case s.LastYear < s.FirstYear:
		return &parsererror.ConfigurationError{Item: item, Reason: fmt.Sprintf("last year %d before first year %d", s.LastYear, s.FirstYear)}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// DefaultShapes returns the candidate shapes in priority order: the current
// population estimates, the same dataset under its older field name, then the
// intercensal series that report many years per response.
func DefaultShapes() []QueryShape {
	return []QueryShape{
		{
			Name:       "pep-population",
			Dataset:    "pep/population",
			Fields:     []string{"POP"},
			ValueField: "POP",
			Scope:      "*",
			FirstYear:  2015,
			LastYear:   2019,
		},
		{
			Name:       "pep-population-estimate",
			Dataset:    "pep/population",
			Fields:     []string{"POPESTIMATE"},
			ValueField: "POPESTIMATE",
			Scope:      "*",
			FirstYear:  2010,
			LastYear:   2019,
		},
		{
			Name:       "intercensal-2000s",
			Dataset:    "pep/int_population",
			Vintage:    2000,
			Fields:     []string{"POP", "DATE_DESC"},
			ValueField: "POP",
			YearField:  "DATE_DESC",
			Scope:      "*",
			FirstYear:  2000,
			LastYear:   2010,
		},
		{
			Name:       "intercensal-1990s",
			Dataset:    "pep/int_natrespop",
			Vintage:    1990,
			Fields:     []string{"TOT_POP", "YEAR"},
			ValueField: "TOT_POP",
			YearField:  "YEAR",
			Scope:      "*",
			FirstYear:  1990,
			LastYear:   1999,
		},
	}
}

type shapesFile struct {
	Shapes []QueryShape `yaml:"shapes"`
}

// LoadShapes reads a YAML document with a top-level "shapes" list.
func LoadShapes(r io.Reader) ([]QueryShape, error) {
	var file shapesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &parsererror.ConfigurationError{Item: "query shapes", Reason: "file is empty"}
		}
		return nil, fmt.Errorf("failed to parse query shapes: %w", err)
	}
	if len(file.Shapes) == 0 {
		return nil, &parsererror.ConfigurationError{Item: "query shapes", Reason: "no shapes defined"}
	}
	for _, s := range file.Shapes {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return file.Shapes, nil
}
