// Package chart renders yearly series as PNG line charts.
package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when a chart would have no points.
var ErrNoData = errors.New("no data to plot")

// Labels are the texts of a chart.
type Labels struct {
	Title string
	X     string
	Y     string
}

// Renderer draws charts of a fixed size.
type Renderer struct {
	width  vg.Length
	height vg.Length
	logger logging.Logger
}

// NewRenderer creates a renderer for charts of the given size in inches.
func NewRenderer(widthInches, heightInches float64, logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Renderer{
		width:  vg.Length(widthInches) * vg.Inch,
		height: vg.Length(heightInches) * vg.Inch,
		logger: logger,
	}
}

// RenderYearly draws one line per subcategory. When subcategories is empty,
// every subcategory of the aggregate is drawn.
func (r *Renderer) RenderYearly(path string, agg *models.YearlyAggregate, subcategories []string, labels Labels) error {
	if len(subcategories) == 0 {
		subcategories = agg.Subcategories
	}

	p := newPlot(labels)
	drawn := 0
	for i, sub := range subcategories {
		rows := agg.Series(sub)
		if len(rows) == 0 {
			return fmt.Errorf("subcategory %q: %w", sub, ErrNoData)
		}
		points := make(plotter.XYs, len(rows))
		for j, row := range rows {
			points[j].X = float64(row.Year)
			points[j].Y = row.Value
		}
		if err := addLine(p, sub, points, i); err != nil {
			return err
		}
		drawn++
	}
	if drawn == 0 {
		return ErrNoData
	}
	return r.save(p, path, drawn)
}

// RenderPopulation draws the published years of a population series.
func (r *Renderer) RenderPopulation(path string, series *models.PopulationSeries, labels Labels) error {
	published := series.Published()
	if len(published) == 0 {
		return ErrNoData
	}

	points := make(plotter.XYs, len(published))
	for i, yp := range published {
		points[i].X = float64(yp.Year)
		points[i].Y = float64(yp.Population)
	}

	p := newPlot(labels)
	if err := addLine(p, "population", points, 0); err != nil {
		return err
	}
	return r.save(p, path, 1)
}

func newPlot(labels Labels) *plot.Plot {
	p := plot.New()
	p.Title.Text = labels.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = labels.X
	p.Y.Label.Text = labels.Y
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, name string, points plotter.XYs, i int) error {
	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("failed to build line %q: %w", name, err)
	}
	line.Color = plotutil.Color(i)
	line.Dashes = plotutil.Dashes(i / len(plotutil.DefaultColors))
	line.Width = vg.Points(1.5)

	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func (r *Renderer) save(p *plot.Plot, path string, lines int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := p.Save(r.width, r.height, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	r.logger.Info("Rendered chart",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, lines))
	return nil
}
