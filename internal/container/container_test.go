package container

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/meat-stats/internal/census"
	"fjacquet/meat-stats/internal/config"
	"fjacquet/meat-stats/internal/corrections"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/store"
	"fjacquet/meat-stats/internal/workbook"
	"fjacquet/meat-stats/internal/workbook/workbooktest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaultConfig loads the built-in defaults, isolated from any config file or
// environment of the machine running the tests.
func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CENSUS_API_KEY", "")
	chdir(t, t.TempDir())

	cfg, err := config.InitializeConfigFrom("")
	require.NoError(t, err)
	return cfg
}

func sampleWorkbook(t *testing.T) *workbook.Workbook {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meat_stats_sample.xlsx")
	require.NoError(t, workbooktest.WriteFixture(path, workbooktest.SampleSheets()))

	wb, err := workbook.Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func TestNewContainer(t *testing.T) {
	_, err := NewContainer(nil)
	assert.EqualError(t, err, "configuration cannot be nil")

	cfg := defaultConfig(t)
	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Same(t, cfg, c.GetConfig())
	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetStore())
	assert.NotNil(t, c.GetWriter())
	assert.NotNil(t, c.GetRenderer())
	assert.Equal(t, corrections.Default(), c.GetCorrections())
	assert.NotNil(t, c.NewFetcher())
}

func TestNewContainerWith_UsesStoreFiles(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Normalize.CorrectionsFile = "fixes.yaml"
	cfg.Census.ShapesFile = "shapes.yaml"

	table := &corrections.Table{}
	mock := &store.MockStore{Corrections: table, Shapes: census.DefaultShapes()[:1]}

	c, err := NewContainerWith(cfg, logging.NewMockLogger(), mock)
	require.NoError(t, err)

	assert.Same(t, table, c.GetCorrections())
	assert.Equal(t, []string{"fixes.yaml", "shapes.yaml"}, mock.Requested)
	assert.Len(t, c.shapes, 1)
}

func TestNewContainerWith_StoreErrors(t *testing.T) {
	cfg := defaultConfig(t)
	boom := errors.New("boom")

	_, err := NewContainerWith(cfg, nil, &store.MockStore{LoadCorrectionsError: boom})
	assert.ErrorIs(t, err, boom)

	_, err = NewContainerWith(cfg, nil, &store.MockStore{LoadShapesError: boom})
	assert.ErrorIs(t, err, boom)
}

func TestLayout(t *testing.T) {
	cfg := defaultConfig(t)
	c, err := NewContainerWith(cfg, nil, &store.MockStore{})
	require.NoError(t, err)

	layout, err := c.Layout(models.CategoryAverageWeight)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryAverageWeight, layout.Category)
	assert.Equal(t, "Average dressed weight", layout.Anchor)
	assert.True(t, layout.DropLastColumn)

	_, err = c.Layout(models.Category("offal"))
	assert.Error(t, err)
}

func TestNormalizeCategory_SampleWorkbook(t *testing.T) {
	cfg := defaultConfig(t)
	c, err := NewContainerWith(cfg, nil, &store.MockStore{})
	require.NoError(t, err)
	wb := sampleWorkbook(t)

	tests := []struct {
		category      models.Category
		subcategories []string
		first         map[string]float64
	}{
		{models.CategoryProduction, []string{"beef", "veal", "pork", "lamb_and_mutton"}, map[string]float64{"beef": 1800, "pork": 1300}},
		{models.CategorySlaughterCount, []string{"cattle", "heifers", "hogs", "sheep_and_lambs"}, map[string]float64{"cattle": 2700}},
		{models.CategorySlaughterWeight, []string{"cattle", "hogs"}, map[string]float64{"cattle": 1950}},
		{models.CategoryAverageWeight, []string{"cattle", "hogs"}, map[string]float64{"cattle": 700, "hogs": 185}},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			table, err := c.NormalizeCategory(wb, tt.category)
			require.NoError(t, err)

			assert.Equal(t, tt.subcategories, table.Subcategories)
			require.Len(t, table.Rows, 2)
			assert.Equal(t, models.NewMonth(1990, time.January), table.Rows[0].Month)
			for sub, want := range tt.first {
				assert.Equal(t, models.Of(want), table.Rows[0].Values[sub], sub)
			}
		})
	}
}

func TestNormalizeCategory_MissingSheet(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Categories.Production.Sheet = "Nope"
	c, err := NewContainerWith(cfg, nil, &store.MockStore{})
	require.NoError(t, err)

	_, err = c.NormalizeCategory(sampleWorkbook(t), models.CategoryProduction)
	assert.Error(t, err)
}
