package census

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/parsererror"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the root of the Census Bureau data API.
	DefaultBaseURL = "https://api.census.gov/data"

	maxBodyBytes  = 10 << 20
	maxErrorBytes = 512
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Options configures a Fetcher.
type Options struct {
	BaseURL string
	// APIKey is sent with every request when set. The API serves a limited
	// number of anonymous requests without one.
	APIKey string
	// Delay is the minimum interval between two requests.
	Delay   time.Duration
	Timeout time.Duration
	// Shapes are tried in order for every year. Defaults to DefaultShapes.
	Shapes []QueryShape
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Progress receives one tick per processed year.
type Progress interface {
	Add(n int) error
}

// Fetcher assembles a PopulationSeries year by year.
type Fetcher struct {
	baseURL  string
	apiKey   string
	shapes   []QueryShape
	client   *http.Client
	limiter  *rate.Limiter
	logger   logging.Logger
	progress Progress
}

// NewFetcher creates a fetcher. A zero Delay disables throttling.
func NewFetcher(opts Options, logger logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if len(opts.Shapes) == 0 {
		opts.Shapes = DefaultShapes()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &Fetcher{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		shapes:  opts.Shapes,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
		logger:  logger,
	}
}

// WithProgress reports every processed year to p.
func (f *Fetcher) WithProgress(p Progress) *Fetcher {
	f.progress = p
	return f
}

type record struct {
	year       int
	population int64
}

type response struct {
	records []record
	err     error
}

// Fetch walks the years from firstYear to lastYear in ascending order. For
// every year the covering shapes are tried in order until one reports that
// year. When none does, the year is recorded as 0 unless a multi-year response
// already filled it.
//
// Failures of individual requests are logged and never abort the loop. The
// only returned error is the context's.
func (f *Fetcher) Fetch(ctx context.Context, firstYear, lastYear int) (*models.PopulationSeries, error) {
	series := models.NewPopulationSeries()
	// Multi-year shapes answer many years with the same URL.
	responses := make(map[string]response)

	for year := firstYear; year <= lastYear; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := f.fetchYear(ctx, year, series, responses)
		if err != nil {
			return nil, err
		}
		if !found {
			if _, ok := series.Get(year); !ok {
				series.Set(year, 0)
			}
			f.logger.Warn("No query shape returned a population",
				logging.F(logging.FieldYear, year))
		}

		if f.progress != nil {
			_ = f.progress.Add(1)
		}
	}

	f.logger.Info("Fetched population series",
		logging.F(logging.FieldCount, len(series.Published())))
	return series, nil
}

func (f *Fetcher) fetchYear(ctx context.Context, year int, series *models.PopulationSeries, responses map[string]response) (bool, error) {
	for _, shape := range f.shapes {
		if !shape.Covers(year) {
			continue
		}

		u := shape.URL(f.baseURL, year, f.apiKey)
		resp, cached := responses[u]
		if !cached {
			records, err := f.query(ctx, u, shape, year)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			resp = response{records: records, err: err}
			responses[u] = resp
		}

		log := f.logger.WithFields(
			logging.F(logging.FieldYear, year),
			logging.F(logging.FieldShape, shape.Name),
		)
		if resp.err != nil {
			log.WithError(resp.err).Debug("Query shape failed")
			continue
		}

		reported := false
		for _, r := range resp.records {
			if r.population <= 0 {
				continue
			}
			series.Set(r.year, r.population)
			if r.year == year {
				reported = true
			}
		}
		if reported {
			return true, nil
		}
		log.Debug("Response did not report the requested year")
	}
	return false, nil
}

func (f *Fetcher) query(ctx context.Context, u string, shape QueryShape, year int) ([]record, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to '%s' failed: %w", redact(u), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, &parsererror.HTTPError{
			URL:        redact(u),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response of '%s': %w", redact(u), err)
	}

	f.logger.Debug("Census API responded",
		logging.F(logging.FieldURL, redact(u)),
		logging.F(logging.FieldStatus, resp.StatusCode),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return parseResponse(redact(u), body, shape, year)
}

// parseResponse reads the API's positional table: row 0 names the columns,
// every further row holds one record.
func parseResponse(u string, body []byte, shape QueryShape, year int) ([]record, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed JSON in response of '%s'", u)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("response of '%s' is not a table", u)
	}
	rows := root.Array()
	if len(rows) < 2 {
		return nil, fmt.Errorf("response of '%s' has no data rows", u)
	}

	valueIdx := columnIndex(rows[0], shape.ValueField)
	if valueIdx < 0 {
		return nil, &parsererror.FieldMissingError{URL: u, Field: shape.ValueField}
	}
	yearIdx := -1
	if shape.YearField != "" {
		if yearIdx = columnIndex(rows[0], shape.YearField); yearIdx < 0 {
			return nil, &parsererror.FieldMissingError{URL: u, Field: shape.YearField}
		}
	}

	records := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := row.Array()
		if valueIdx >= len(cells) || yearIdx >= len(cells) {
			return nil, fmt.Errorf("short row in response of '%s': %s", u, row.Raw)
		}

		pop, err := parsePopulation(cells[valueIdx])
		if err != nil {
			return nil, fmt.Errorf("response of '%s': %w", u, err)
		}

		recYear := year
		if yearIdx >= 0 {
			match := yearPattern.FindString(cells[yearIdx].String())
			if match == "" {
				continue
			}
			recYear, _ = strconv.Atoi(match)
		}
		records = append(records, record{year: recYear, population: pop})
	}
	return records, nil
}

func columnIndex(header gjson.Result, name string) int {
	for i, col := range header.Array() {
		if strings.EqualFold(col.String(), name) {
			return i
		}
	}
	return -1
}

// parsePopulation accepts both quoted and bare numbers; the API quotes them.
func parsePopulation(cell gjson.Result) (int64, error) {
	switch cell.Type {
	case gjson.Number:
		return int64(cell.Float()), nil
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(cell.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid population '%s'", cell.Str)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("invalid population %s", cell.Raw)
	}
}

// redact hides the API key before a URL reaches logs or errors.
func redact(u string) string {
	i := strings.Index(u, "key=")
	if i < 0 {
		return u
	}
	end := strings.IndexByte(u[i:], '&')
	if end < 0 {
		return u[:i] + "key=REDACTED"
	}
	return u[:i] + "key=REDACTED" + u[i+end:]
}
