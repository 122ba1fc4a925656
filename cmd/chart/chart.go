// Package chart implements the chart command.
package chart

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/meat-stats/cmd/root"
	"fjacquet/meat-stats/internal/chart"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/joiner"

	"github.com/spf13/cobra"
)

// Options selects what the chart command draws.
type Options struct {
	// YearlyFile is a yearly aggregate CSV. When empty, the population
	// series itself is drawn.
	YearlyFile string
	// PopulationFile turns a yearly chart into a per-person chart.
	PopulationFile string
	// PerCapitaScale converts the yearly unit before dividing by population.
	PerCapitaScale float64
	Subcategories  []string
	Title          string
	YLabel         string
	// Name of the PNG file; derived from the inputs when empty.
	Name string
}

var opts Options

// Cmd represents the chart command
var Cmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a yearly aggregate or population CSV as a PNG line chart",
	Long: `Chart draws one line per subcategory of a yearly aggregate written by the
rollup or weights commands. With --population, every value is multiplied by
--per-capita-scale and divided by the population of its year first. With only
--population, the population series is drawn.`,
	RunE: chartFunc,
}

func init() {
	Cmd.Flags().StringVarP(&opts.YearlyFile, "input", "i", "", "Yearly aggregate CSV")
	Cmd.Flags().StringVarP(&opts.PopulationFile, "population", "p", "", "Population CSV")
	Cmd.Flags().Float64Var(&opts.PerCapitaScale, "per-capita-scale", 1e9,
		"Factor applied to yearly values before dividing by population (1e9 turns billion pounds into pounds)")
	Cmd.Flags().StringSliceVarP(&opts.Subcategories, "subcategory", "s", nil, "Subcategories to draw (default all)")
	Cmd.Flags().StringVar(&opts.Title, "title", "", "Chart title")
	Cmd.Flags().StringVar(&opts.YLabel, "ylabel", "", "Y axis label")
	Cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "PNG file name")
}

func chartFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	path, err := Run(c, opts, root.OutputPath)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// Run renders the chart selected by o and returns the written path.
func Run(c *container.Container, o Options, output func(string) string) (string, error) {
	if o.YearlyFile == "" && o.PopulationFile == "" {
		return "", fmt.Errorf("nothing to draw: give --input and/or --population")
	}
	w := c.GetWriter()
	renderer := c.GetRenderer()

	if o.YearlyFile == "" {
		series, err := w.ReadPopulation(o.PopulationFile)
		if err != nil {
			return "", err
		}
		path := output(nameOr(o.Name, o.PopulationFile, ""))
		labels := chart.Labels{Title: titleOr(o.Title, "US resident population"), X: "Year", Y: titleOr(o.YLabel, "Persons")}
		return path, renderer.RenderPopulation(path, series, labels)
	}

	agg, err := w.ReadYearlyAggregate(o.YearlyFile)
	if err != nil {
		return "", err
	}
	suffix := ""
	if o.PopulationFile != "" {
		series, err := w.ReadPopulation(o.PopulationFile)
		if err != nil {
			return "", err
		}
		if agg, err = joiner.PerCapita(agg, series, o.PerCapitaScale); err != nil {
			return "", err
		}
		suffix = "_per_capita"
	}

	path := output(nameOr(o.Name, o.YearlyFile, suffix))
	labels := chart.Labels{Title: titleOr(o.Title, baseName(o.YearlyFile)+strings.ReplaceAll(suffix, "_", " ")), X: "Year", Y: o.YLabel}
	return path, renderer.RenderYearly(path, agg, o.Subcategories, labels)
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func nameOr(name, input, suffix string) string {
	if name != "" {
		return name
	}
	return baseName(input) + suffix + ".png"
}

func titleOr(title, fallback string) string {
	if title != "" {
		return title
	}
	return fallback
}
