// Package rollup implements the rollup command.
package rollup

import (
	"fmt"

	"fjacquet/meat-stats/cmd/common"
	"fjacquet/meat-stats/cmd/root"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/models"

	"github.com/spf13/cobra"
)

var (
	categoryName string
	inputFile    string
)

// Cmd represents the rollup command
var Cmd = &cobra.Command{
	Use:   "rollup",
	Short: "Sum a monthly category table into yearly totals",
	Long: `Rollup sums a normalized category per calendar year and subcategory, scales the
years listed in rollup.months_present to twelve months, divides by
rollup.divisor and writes <category>_yearly.csv.

The monthly table is read from the workbook, or from a CSV file written by the
normalize command when --input is given.`,
	RunE: rollupFunc,
}

func init() {
	Cmd.Flags().StringVarP(&categoryName, "category", "c", string(models.CategoryProduction), "Category to roll up")
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Normalized category CSV to read instead of the workbook")
}

func rollupFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	category, err := common.ParseCategory(categoryName)
	if err != nil {
		return err
	}

	var table *models.CategoryTable
	if inputFile != "" {
		table, err = c.GetWriter().ReadCategoryTable(inputFile, category)
	} else {
		var path string
		if path, err = root.WorkbookPath(c.GetConfig()); err != nil {
			return err
		}
		table, err = LoadFromWorkbook(c, path, category)
	}
	if err != nil {
		return err
	}

	_, err = Run(c, table, root.OutputPath)
	return err
}

// LoadFromWorkbook normalizes one category of the workbook.
func LoadFromWorkbook(c *container.Container, path string, category models.Category) (*models.CategoryTable, error) {
	tables, err := common.NormalizeWorkbook(c, path, []models.Category{category})
	if err != nil {
		return nil, err
	}
	return tables[category], nil
}

// Run rolls a table up to years and writes <category>_yearly.csv.
func Run(c *container.Container, table *models.CategoryTable, output func(string) string) (*models.YearlyAggregate, error) {
	yearly, err := common.Yearly(c.GetConfig(), table)
	if err != nil {
		return nil, fmt.Errorf("rollup %s: %w", table.Category, err)
	}
	if err := c.GetWriter().WriteYearlyAggregate(output(common.CategoryFile(table.Category, "yearly")), yearly); err != nil {
		return nil, err
	}
	return yearly, nil
}
