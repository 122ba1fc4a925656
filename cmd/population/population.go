// Package population implements the population command.
package population

import (
	"context"
	"fmt"
	"io"

	"fjacquet/meat-stats/cmd/root"
	"fjacquet/meat-stats/internal/census"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// OutputFile is the name of the population CSV.
const OutputFile = "population.csv"

var (
	startYear  int
	endYear    int
	noProgress bool
)

// Cmd represents the population command
var Cmd = &cobra.Command{
	Use:   "population",
	Short: "Fetch the yearly US population from the Census Bureau API",
	Long: `Population queries the Census Bureau data API once per year, trying the
configured query shapes in order until one reports the year. Years no shape
can answer are left out of population.csv.

Set CENSUS_API_KEY (or census.api_key) to send an API key.`,
	RunE: populationFunc,
}

func init() {
	Cmd.Flags().IntVar(&startYear, "start", 0, "First year (default census.start_year)")
	Cmd.Flags().IntVar(&endYear, "end", 0, "Last year (default census.end_year)")
	Cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not draw a progress bar")
}

func populationFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	first, last := YearRange(c, startYear, endYear)
	if last < first {
		return fmt.Errorf("end year %d is before start year %d", last, first)
	}

	fetcher := c.NewFetcher()
	if !noProgress {
		fetcher.WithProgress(NewProgressBar(cmd.ErrOrStderr(), last-first+1))
	}

	_, err = Run(cmd.Context(), c, fetcher, first, last, root.OutputPath)
	return err
}

// YearRange applies command line overrides to the configured year range.
func YearRange(c *container.Container, start, end int) (int, int) {
	cfg := c.GetConfig()
	if start == 0 {
		start = cfg.Census.StartYear
	}
	if end == 0 {
		end = cfg.Census.EndYear
	}
	return start, end
}

// NewProgressBar draws one tick per year on w.
func NewProgressBar(w io.Writer, years int) *progressbar.ProgressBar {
	return progressbar.NewOptions(years,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Fetching population"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(w) }),
	)
}

// Run fetches the series and writes its published years.
func Run(ctx context.Context, c *container.Container, fetcher *census.Fetcher, first, last int, output func(string) string) (*models.PopulationSeries, error) {
	log := c.GetLogger().WithFields(
		logging.F("start_year", first),
		logging.F("end_year", last))
	log.Info("Fetching population")

	series, err := fetcher.Fetch(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("population fetch interrupted: %w", err)
	}

	published := series.Published()
	if missing := (last - first + 1) - countInRange(published, first, last); missing > 0 {
		log.Warn("Some years have no population", logging.F(logging.FieldCount, missing))
	}

	if err := c.GetWriter().WritePopulation(output(OutputFile), series); err != nil {
		return nil, err
	}
	return series, nil
}

func countInRange(published []models.YearPopulation, first, last int) int {
	n := 0
	for _, p := range published {
		if p.Year >= first && p.Year <= last {
			n++
		}
	}
	return n
}
