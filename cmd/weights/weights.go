// Package weights implements the weights command.
package weights

import (
	"fmt"

	"fjacquet/meat-stats/cmd/common"
	"fjacquet/meat-stats/cmd/root"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/joiner"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"

	"github.com/spf13/cobra"
)

// Output file names.
const (
	MonthlyFile = "weights_monthly.csv"
	YearlyFile  = "weights_yearly.csv"
)

// Cmd represents the weights command
var Cmd = &cobra.Command{
	Use:   "weights",
	Short: "Derive total slaughter weight from average weights and head counts",
	Long: `Weights joins the average dressed weight table with the slaughter count table
on month and subcategory, multiplies them (scaled by weights.unit_scale), then
rolls the result up to years and divides by rollup.divisor.`,
	RunE: weightsFunc,
}

func weightsFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	path, err := root.WorkbookPath(c.GetConfig())
	if err != nil {
		return err
	}
	_, _, err = Run(c, path, root.OutputPath)
	return err
}

// Run normalizes the two input categories of the workbook and derives weights
// from them.
func Run(c *container.Container, workbookPath string, output func(string) string) (*models.MergedSeries, *models.YearlyAggregate, error) {
	tables, err := common.NormalizeWorkbook(c, workbookPath,
		[]models.Category{models.CategoryAverageWeight, models.CategorySlaughterCount})
	if err != nil {
		return nil, nil, err
	}
	return Derive(c, tables[models.CategoryAverageWeight], tables[models.CategorySlaughterCount], output)
}

// Derive writes the merged monthly series of already normalized tables and
// its yearly aggregate.
func Derive(c *container.Container, avgWeight, count *models.CategoryTable, output func(string) string) (*models.MergedSeries, *models.YearlyAggregate, error) {
	if avgWeight == nil || count == nil {
		return nil, nil, fmt.Errorf("weights need both the %s and %s tables", models.CategoryAverageWeight, models.CategorySlaughterCount)
	}
	cfg := c.GetConfig()

	merged, err := joiner.Merge(avgWeight, count, cfg.Weights.UnitScale)
	if err != nil {
		return nil, nil, err
	}
	c.GetLogger().Info("Merged average weights with head counts",
		logging.F(logging.FieldCount, len(merged.Rows)))
	if err := c.GetWriter().WriteMergedSeries(output(MonthlyFile), merged); err != nil {
		return nil, nil, err
	}

	yearly, err := common.Yearly(cfg, merged)
	if err != nil {
		return nil, nil, err
	}
	if err := c.GetWriter().WriteYearlyAggregate(output(YearlyFile), yearly); err != nil {
		return nil, nil, err
	}
	return merged, yearly, nil
}
