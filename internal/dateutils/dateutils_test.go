package dateutils

import (
	"testing"
	"time"

	"fjacquet/meat-stats/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMonthLabel(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Jan-1990", true},
		{" Dec-2019 ", true},
		{"Foo-1990", true}, // shape only, parsing decides
		{"1982 total", false},
		{"Jan-Mar 1990", false},
		{"Source: USDA", false},
		{"January-1990", true},
		{"Feb-1990 p", true},
		{"Mar-1990 4/", true},
		{"Jan-90", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			assert.Equal(t, tc.want, IsMonthLabel(tc.label))
		})
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("Jan-1990")
	require.NoError(t, err)
	assert.Equal(t, models.NewMonth(1990, time.January), m)

	m, err = ParseMonth("  Sep-2019")
	require.NoError(t, err)
	assert.Equal(t, models.NewMonth(2019, time.September), m)

	_, err = ParseMonth("Foo-1990")
	assert.Error(t, err)

	_, err = ParseMonth("Feb-1990 p")
	assert.Error(t, err)
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "Mar-1982", FormatMonth(models.NewMonth(1982, time.March)))
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "Jan 1990", CleanDateString("  Jan \t 1990 "))
}

func TestParseISOMonth(t *testing.T) {
	m, err := ParseISOMonth("1990-01")
	require.NoError(t, err)
	assert.Equal(t, models.NewMonth(1990, time.January), m)
	assert.Equal(t, "1990-01", m.String())

	_, err = ParseISOMonth("Jan-1990")
	assert.Error(t, err)
}
