// Package container wires the application's dependencies from a Config, so
// commands receive ready-made components instead of building them.
package container

import (
	"fmt"

	"fjacquet/meat-stats/internal/census"
	"fjacquet/meat-stats/internal/chart"
	"fjacquet/meat-stats/internal/common"
	"fjacquet/meat-stats/internal/config"
	"fjacquet/meat-stats/internal/corrections"
	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/normalizer"
	"fjacquet/meat-stats/internal/store"
	"fjacquet/meat-stats/internal/workbook"
)

// Container holds all application dependencies. It is immutable after
// creation; components are reached through getters.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       store.Loader
	corrections *corrections.Table
	normalizer  *normalizer.Normalizer
	writer      *common.TableWriter
	renderer    *chart.Renderer

	// shapes are loaded eagerly so a broken shapes file fails before any work.
	shapes []census.QueryShape
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	return NewContainerWith(cfg, logger, store.New(logger))
}

// NewContainerWith wires the container around an existing logger and store.
func NewContainerWith(cfg *config.Config, logger logging.Logger, loader store.Loader) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if loader == nil {
		loader = store.New(logger)
	}

	table, err := loader.LoadCorrections(cfg.Normalize.CorrectionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load corrections: %w", err)
	}
	shapes, err := loader.LoadShapes(cfg.Census.ShapesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load census query shapes: %w", err)
	}

	delimiter := common.DefaultDelimiter
	if runes := []rune(cfg.CSV.Delimiter); len(runes) > 0 {
		delimiter = runes[0]
	}

	logger.Debug("Container initialized",
		logging.F("corrections", len(table.Entries)),
		logging.F("query_shapes", len(shapes)))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       loader,
		corrections: table,
		normalizer:  normalizer.New(table, cfg.Normalize.FillLimit, logger),
		writer:      common.NewTableWriter(delimiter, logger),
		renderer:    chart.NewRenderer(cfg.Chart.WidthInches, cfg.Chart.HeightInches, logger),
		shapes:      shapes,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the side file loader.
func (c *Container) GetStore() store.Loader {
	return c.store
}

// GetCorrections returns the corrections table in effect.
func (c *Container) GetCorrections() *corrections.Table {
	return c.corrections
}

// GetWriter returns the CSV table writer.
func (c *Container) GetWriter() *common.TableWriter {
	return c.writer
}

// GetRenderer returns the chart renderer.
func (c *Container) GetRenderer() *chart.Renderer {
	return c.renderer
}

// NewFetcher builds a population fetcher from the census settings. The API
// key comes from the configuration only.
func (c *Container) NewFetcher() *census.Fetcher {
	return census.NewFetcher(census.Options{
		BaseURL: c.config.Census.BaseURL,
		APIKey:  c.config.Census.APIKey,
		Delay:   c.config.CensusDelay(),
		Timeout: c.config.CensusTimeout(),
		Shapes:  c.shapes,
	}, c.logger)
}

// Layout converts the configured workbook location of a category.
func (c *Container) Layout(category models.Category) (normalizer.Layout, error) {
	spec, err := c.config.CategorySpecFor(category)
	if err != nil {
		return normalizer.Layout{}, err
	}
	return normalizer.Layout{
		Category:        category,
		HeaderRow:       spec.HeaderRow,
		Anchor:          spec.Anchor,
		EndAnchor:       spec.EndAnchor,
		DropLastColumn:  spec.DropLastColumn,
		MinObservations: spec.MinObservations,
	}, nil
}

// NormalizeCategory reads the configured sheet of a category from an open
// workbook and normalizes it.
func (c *Container) NormalizeCategory(wb *workbook.Workbook, category models.Category) (*models.CategoryTable, error) {
	layout, err := c.Layout(category)
	if err != nil {
		return nil, err
	}
	spec, _ := c.config.CategorySpecFor(category)

	sheet, err := wb.Sheet(spec.Sheet)
	if err != nil {
		return nil, err
	}
	table, err := c.normalizer.Normalize(sheet, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", category, err)
	}
	return table, nil
}

// Close releases container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
