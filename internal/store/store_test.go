package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/meat-stats/internal/census"
	"fjacquet/meat-stats/internal/corrections"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// newTestStore isolates the store from the real home directory.
func newTestStore(t *testing.T, logger logging.Logger) (*Store, string) {
	t.Helper()
	home := t.TempDir()
	s := New(logger)
	s.homeDir = func() (string, error) { return home, nil }
	chdir(t, t.TempDir())
	return s, home
}

const correctionsDoc = `corrections:
  - category: production
    year: 1982
    subcategories: [beef]
    operation: divide
    factor: 3
`

func TestFindConfigFile(t *testing.T) {
	s, home := newTestStore(t, nil)

	abs := filepath.Join(t.TempDir(), "abs.yaml")
	writeFile(t, abs, "x")
	writeFile(t, filepath.Join("config", "nested.yaml"), "x")
	writeFile(t, filepath.Join(home, ".meat-stats", "home.yaml"), "x")
	writeFile(t, "local.yaml", "x")

	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"absolute", abs, abs},
		{"working directory", "local.yaml", "local.yaml"},
		{"config directory", "nested.yaml", filepath.Join("config", "nested.yaml")},
		{"home directory", "home.yaml", filepath.Join(home, ".meat-stats", "home.yaml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := s.FindConfigFile(tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}

	_, err := s.FindConfigFile("missing.yaml")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = s.FindConfigFile(filepath.Join(home, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCorrections_BuiltInWhenNothingConfigured(t *testing.T) {
	logger := logging.NewMockLogger()
	s, _ := newTestStore(t, logger)

	table, err := s.LoadCorrections("")
	require.NoError(t, err)
	assert.Equal(t, corrections.Default(), table)
	assert.True(t, logger.HasEntry("DEBUG", "Using built-in corrections table"))
}

func TestLoadCorrections_DefaultFileIsPickedUp(t *testing.T) {
	s, _ := newTestStore(t, nil)
	writeFile(t, DefaultCorrectionsFile, correctionsDoc)

	table, err := s.LoadCorrections("")
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, []string{"beef"}, table.For(models.CategoryProduction)[0].Subcategories)
}

func TestLoadCorrections_ExplicitFileMustExist(t *testing.T) {
	s, _ := newTestStore(t, nil)

	_, err := s.LoadCorrections("custom.yaml")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCorrections_InvalidFile(t *testing.T) {
	s, _ := newTestStore(t, nil)
	writeFile(t, "bad.yaml", "corrections:\n  - category: production\n    year: 1982\n    subcategories: [beef]\n    operation: add\n")

	_, err := s.LoadCorrections("bad.yaml")
	var cfgErr *parsererror.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestSaveCorrections_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t, nil)
	path := filepath.Join(t.TempDir(), "out", "corrections.yaml")

	require.NoError(t, s.SaveCorrections(path, corrections.Default()))

	loaded, err := s.LoadCorrections(path)
	require.NoError(t, err)
	assert.Equal(t, corrections.Default(), loaded)
}

func TestLoadShapes(t *testing.T) {
	s, home := newTestStore(t, nil)

	shapes, err := s.LoadShapes("")
	require.NoError(t, err)
	assert.Equal(t, census.DefaultShapes(), shapes)

	writeFile(t, filepath.Join(home, ".meat-stats", DefaultShapesFile), `shapes:
  - name: only
    dataset: pep/population
    fields: [POP]
    value_field: POP
    scope: "*"
    first_year: 2015
    last_year: 2019
`)
	shapes, err = s.LoadShapes("")
	require.NoError(t, err)
	require.Len(t, shapes, 1)
	assert.Equal(t, "only", shapes[0].Name)

	_, err = s.LoadShapes("missing.yaml")
	assert.Error(t, err)
}

func TestMockStore(t *testing.T) {
	m := &MockStore{LoadShapesError: errors.New("boom")}

	table, err := m.LoadCorrections("a.yaml")
	require.NoError(t, err)
	assert.Equal(t, corrections.Default(), table)

	_, err = m.LoadShapes("b.yaml")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, m.Requested)

	var _ Loader = m
	var _ Loader = New(nil)
}
