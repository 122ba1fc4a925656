package population

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/meat-stats/internal/census"
	"fjacquet/meat-stats/internal/config"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T, srv *httptest.Server, logger logging.Logger) *container.Container {
	t.Helper()
	cfg, err := config.Defaults()
	require.NoError(t, err)
	cfg.Census.BaseURL = srv.URL
	cfg.Census.DelayMillis = 0

	shapes := []census.QueryShape{{
		Name: "pep", Dataset: "pep/population", Fields: []string{"POP"}, ValueField: "POP",
		Scope: "*", FirstYear: 2015, LastYear: 2019,
	}}
	c, err := container.NewContainerWith(cfg, logger, &store.MockStore{Shapes: shapes})
	require.NoError(t, err)
	return c
}

func TestCommandMetadata(t *testing.T) {
	assert.Equal(t, "population", Cmd.Use)
	for _, name := range []string{"start", "end", "no-progress"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2016/pep/population":
			_, _ = w.Write([]byte(`[["POP","us"],["323127513","1"]]`))
		case "/2017/pep/population":
			_, _ = w.Write([]byte(`[["POP","us"],["325719178","1"]]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	logger := logging.NewMockLogger()
	c := newContainer(t, srv, logger)
	dir := t.TempDir()
	output := func(name string) string { return filepath.Join(dir, name) }

	var progress bytes.Buffer
	fetcher := c.NewFetcher().WithProgress(NewProgressBar(&progress, 3))

	series, err := Run(context.Background(), c, fetcher, 2016, 2018, output)
	require.NoError(t, err)

	assert.Len(t, series.Published(), 2)
	assert.True(t, logger.HasEntry("WARN", "Some years have no population"))
	assert.NotEmpty(t, progress.String())

	data, err := os.ReadFile(output(OutputFile))
	require.NoError(t, err)
	assert.Equal(t, "year,population\n2016,323127513\n2017,325719178\n", string(data))
}

func TestRun_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c := newContainer(t, srv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, c, c.NewFetcher(), 2015, 2019, func(name string) string { return filepath.Join(t.TempDir(), name) })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestYearRange(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c := newContainer(t, srv, nil)

	first, last := YearRange(c, 0, 0)
	assert.Equal(t, 1990, first)
	assert.Equal(t, 2019, last)

	first, last = YearRange(c, 2000, 2005)
	assert.Equal(t, 2000, first)
	assert.Equal(t, 2005, last)
}
