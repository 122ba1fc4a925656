package parsererror

import (
	"errors"
	"fmt"
)

var (
	// ErrMonthFormat marks a month cell that passed the monthly-row filter
	// but could not be parsed with the month layout.
	ErrMonthFormat = errors.New("month cell does not match Mon-YYYY")

	// ErrDuplicateMonth marks a table that reports the same month twice.
	ErrDuplicateMonth = errors.New("duplicate month")
)

// ParseError represents a row that looked like data but could not be parsed
type ParseError struct {
	Sheet string
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Sheet, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigurationError represents a mismatch between the configured layout of
// a worksheet (or a correction) and what the data actually contains.
type ConfigurationError struct {
	Sheet  string
	Item   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("configuration error for %s: %s", e.Item, e.Reason)
	}
	return fmt.Sprintf("configuration error in sheet '%s' for %s: %s", e.Sheet, e.Item, e.Reason)
}

// HTTPError represents a non-2xx answer from an upstream API.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string // Optional: first bytes of the body for debugging
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("request to '%s' failed with status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("request to '%s' failed with status %d", e.URL, e.StatusCode)
}

// FieldMissingError represents an API response that does not carry the
// requested field, which happens when the upstream dataset changed schema.
type FieldMissingError struct {
	URL   string
	Field string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("field '%s' missing from response of '%s'", e.Field, e.URL)
}
