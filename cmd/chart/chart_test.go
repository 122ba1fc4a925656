package chart

import (
	"path/filepath"
	"testing"

	"fjacquet/meat-stats/internal/config"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*container.Container, string, func(string) string) {
	t.Helper()
	cfg, err := config.Defaults()
	require.NoError(t, err)
	c, err := container.NewContainerWith(cfg, nil, &store.MockStore{})
	require.NoError(t, err)

	dir := t.TempDir()
	w := c.GetWriter()
	require.NoError(t, w.WriteYearlyAggregate(filepath.Join(dir, "weights_yearly.csv"), &models.YearlyAggregate{
		Subcategories: []string{"cattle", "hogs"},
		Rows: []models.YearlyRow{
			{Year: 2000, Subcategory: "cattle", Months: 12, Value: 26.8},
			{Year: 2000, Subcategory: "hogs", Months: 12, Value: 18.9},
			{Year: 2001, Subcategory: "cattle", Months: 12, Value: 26.1},
			{Year: 2001, Subcategory: "hogs", Months: 12, Value: 19.1},
		},
	}))
	pop := models.NewPopulationSeries()
	pop.Set(2000, 282162411)
	pop.Set(2001, 284968955)
	require.NoError(t, w.WritePopulation(filepath.Join(dir, "population.csv"), pop))

	return c, dir, func(name string) string { return filepath.Join(dir, "charts", name) }
}

func TestCommandMetadata(t *testing.T) {
	assert.Equal(t, "chart", Cmd.Use)
	assert.Equal(t, "1e+09", Cmd.Flags().Lookup("per-capita-scale").DefValue)
}

func TestRun(t *testing.T) {
	c, dir, output := setup(t)
	yearly := filepath.Join(dir, "weights_yearly.csv")
	population := filepath.Join(dir, "population.csv")

	tests := []struct {
		name     string
		opts     Options
		expected string
	}{
		{"yearly", Options{YearlyFile: yearly}, "weights_yearly.png"},
		{"per capita", Options{YearlyFile: yearly, PopulationFile: population, PerCapitaScale: 1e9}, "weights_yearly_per_capita.png"},
		{"population", Options{PopulationFile: population}, "population.png"},
		{"named subset", Options{YearlyFile: yearly, Subcategories: []string{"hogs"}, Name: "hogs.png"}, "hogs.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Run(c, tt.opts, output)
			require.NoError(t, err)
			assert.Equal(t, output(tt.expected), path)
			assert.FileExists(t, path)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	c, dir, output := setup(t)

	_, err := Run(c, Options{}, output)
	assert.Error(t, err)

	_, err = Run(c, Options{YearlyFile: filepath.Join(dir, "missing.csv")}, output)
	assert.Error(t, err)

	_, err = Run(c, Options{YearlyFile: filepath.Join(dir, "weights_yearly.csv"), Subcategories: []string{"veal"}}, output)
	assert.Error(t, err)
}
