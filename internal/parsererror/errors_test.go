package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "month format error",
			err: &ParseError{
				Sheet: "RedMeatPoultry_Prod-Full",
				Field: "month",
				Value: "Foo-1990",
				Err:   ErrMonthFormat,
			},
			expected: "RedMeatPoultry_Prod-Full: failed to parse month='Foo-1990': month cell does not match Mon-YYYY",
		},
		{
			name: "parse error with empty value",
			err: &ParseError{
				Sheet: "SlaughterCounts-Full",
				Field: "month",
				Value: "",
				Err:   errors.New("empty"),
			},
			expected: "SlaughterCounts-Full: failed to parse month='': empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	parseErr := &ParseError{Sheet: "s", Field: "month", Value: "Jan-1990", Err: ErrDuplicateMonth}

	assert.Equal(t, ErrDuplicateMonth, parseErr.Unwrap())
	assert.True(t, errors.Is(parseErr, ErrDuplicateMonth))

	wrapped := fmt.Errorf("normalize: %w", parseErr)
	var target *ParseError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "Jan-1990", target.Value)
}

func TestConfigurationError(t *testing.T) {
	withSheet := &ConfigurationError{Sheet: "SlaughterCounts-Full", Item: "anchor 'Federally inspected'", Reason: "not found in header row 1"}
	assert.Equal(t, "configuration error in sheet 'SlaughterCounts-Full' for anchor 'Federally inspected': not found in header row 1", withSheet.Error())

	withoutSheet := &ConfigurationError{Item: "divisor", Reason: "must not be zero"}
	assert.Equal(t, "configuration error for divisor: must not be zero", withoutSheet.Error())
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{URL: "https://api.example/data", StatusCode: 404}
	assert.Equal(t, "request to 'https://api.example/data' failed with status 404", err.Error())

	err.Body = "unknown variable"
	assert.Contains(t, err.Error(), "unknown variable")
}

func TestFieldMissingError(t *testing.T) {
	err := &FieldMissingError{URL: "https://api.example/data", Field: "POP"}
	assert.Equal(t, "field 'POP' missing from response of 'https://api.example/data'", err.Error())
}
