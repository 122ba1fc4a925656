// Package batch runs the whole offline pipeline in one go
package batch

import (
	"errors"
	"fmt"

	"fjacquet/meat-stats/cmd/chart"
	"fjacquet/meat-stats/cmd/common"
	"fjacquet/meat-stats/cmd/normalize"
	"fjacquet/meat-stats/cmd/rollup"
	"fjacquet/meat-stats/cmd/root"
	"fjacquet/meat-stats/cmd/weights"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"

	"github.com/spf13/cobra"
)

var skipCharts bool

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Run normalize, weights, rollup and chart on the workbook",
	Long: `Batch processes the whole workbook into the output directory.

Every category is normalized, slaughter weights are derived and rolled up,
production is rolled up, and both yearly aggregates are charted. Once the
workbook is normalized, a failing stage is logged and the remaining stages
still run.

Example:
  meat-stats batch -w meat_stats.xlsx -o out/`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().BoolVar(&skipCharts, "no-charts", false, "Do not render PNG charts")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	path, err := root.WorkbookPath(c.GetConfig())
	if err != nil {
		return err
	}

	files, err := Run(c, path, !skipCharts, root.OutputPath)
	for _, f := range files {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return err
}

// Run executes the pipeline and returns the files it wrote, in order.
func Run(c *container.Container, workbookPath string, charts bool, output func(string) string) ([]string, error) {
	logger := c.GetLogger()
	var files []string

	categories := common.AllCategories()
	tables, err := normalize.Run(c, workbookPath, categories, output)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		files = append(files, output(common.CategoryFile(category, "")))
	}

	var failed []error
	stage := func(name string, fn func() ([]string, error)) {
		written, err := fn()
		if err != nil {
			logger.WithError(err).Error("Batch stage failed", logging.F("stage", name))
			failed = append(failed, fmt.Errorf("%s: %w", name, err))
			return
		}
		files = append(files, written...)
	}

	stage("weights", func() ([]string, error) {
		_, _, err := weights.Derive(c, tables[models.CategoryAverageWeight], tables[models.CategorySlaughterCount], output)
		return []string{output(weights.MonthlyFile), output(weights.YearlyFile)}, err
	})
	stage("rollup", func() ([]string, error) {
		_, err := rollup.Run(c, tables[models.CategoryProduction], output)
		return []string{output(common.CategoryFile(models.CategoryProduction, "yearly"))}, err
	})

	if charts {
		yearlyFiles := []string{
			output(weights.YearlyFile),
			output(common.CategoryFile(models.CategoryProduction, "yearly")),
		}
		for _, input := range yearlyFiles {
			stage("chart", func() ([]string, error) {
				path, err := chart.Run(c, chart.Options{YearlyFile: input}, output)
				return []string{path}, err
			})
		}
	}

	logger.Info("Batch processing completed",
		logging.F(logging.FieldCount, len(files)),
		logging.F("failed_stages", len(failed)))
	return files, errors.Join(failed...)
}
