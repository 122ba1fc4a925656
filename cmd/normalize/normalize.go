// Package normalize implements the normalize command.
package normalize

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/meat-stats/cmd/common"
	"fjacquet/meat-stats/cmd/root"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/joiner"
	"fjacquet/meat-stats/internal/models"

	"github.com/spf13/cobra"
)

var (
	categoryNames []string
	showSummary   bool
)

// Cmd represents the normalize command
var Cmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize workbook sheets into tidy monthly CSV files",
	Long: `Normalize reads the configured block of each category sheet, strips footnote
markers from its headers, drops annotation and total rows, applies the data
corrections, forward-fills short gaps and writes one <category>.csv per category.`,
	RunE: normalizeFunc,
}

func init() {
	Cmd.Flags().StringSliceVarP(&categoryNames, "category", "c", nil,
		"Categories to normalize (production, slaughter_count, slaughter_weight, average_weight); default all")
	Cmd.Flags().BoolVar(&showSummary, "summary", false, "Print per-subcategory statistics")
}

func normalizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	categories, err := common.ParseCategories(categoryNames)
	if err != nil {
		return err
	}
	path, err := root.WorkbookPath(c.GetConfig())
	if err != nil {
		return err
	}

	tables, err := Run(c, path, categories, root.OutputPath)
	if err != nil {
		return err
	}
	if showSummary {
		return WriteSummary(cmd.OutOrStdout(), categories, tables)
	}
	return nil
}

// Run normalizes the categories and writes each table to output(file name).
func Run(c *container.Container, workbookPath string, categories []models.Category, output func(string) string) (map[models.Category]*models.CategoryTable, error) {
	tables, err := common.NormalizeWorkbook(c, workbookPath, categories)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		if err := c.GetWriter().WriteCategoryTable(output(common.CategoryFile(category, "")), tables[category]); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// WriteSummary prints one line per subcategory.
func WriteSummary(w io.Writer, categories []models.Category, tables map[models.Category]*models.CategoryTable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSUBCATEGORY\tFIRST\tLAST\tCOUNT\tNULLS\tMIN\tMAX\tMEAN")
	for _, category := range categories {
		for _, s := range joiner.Summarize(tables[category]) {
			if s.Count == 0 {
				fmt.Fprintf(tw, "%s\t%s\t-\t-\t0\t%d\t-\t-\t-\n", category, s.Subcategory, s.Nulls)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
				category, s.Subcategory, s.First, s.Last, s.Count, s.Nulls, s.Min, s.Max, s.Mean)
		}
	}
	return tw.Flush()
}
