// Package store locates and loads the YAML side files of the pipeline: the
// data corrections table and the census query shapes.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/meat-stats/internal/census"
	"fjacquet/meat-stats/internal/corrections"
	"fjacquet/meat-stats/internal/logging"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultCorrectionsFile is looked up when no corrections file is configured.
	DefaultCorrectionsFile = "corrections.yaml"
	// DefaultShapesFile is looked up when no query shapes file is configured.
	DefaultShapesFile = "census_shapes.yaml"
)

// Loader is what the commands need from the store.
type Loader interface {
	LoadCorrections(filename string) (*corrections.Table, error)
	LoadShapes(filename string) ([]census.QueryShape, error)
}

// Store finds side files in the working directory, ./config and
// ~/.meat-stats.
type Store struct {
	logger  logging.Logger
	homeDir func() (string, error)
}

// New creates a store.
func New(logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Store{logger: logger, homeDir: os.UserHomeDir}
}

// FindConfigFile looks for a file in the standard locations.
func (s *Store) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", err
		}
		return filename, nil
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if home, err := s.homeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".meat-stats", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", fmt.Errorf("%s: %w", filename, os.ErrNotExist)
}

// resolve finds filename, or the fallback name when filename is empty. An
// explicitly configured file must exist; a missing fallback yields "".
func (s *Store) resolve(filename, fallback string) (string, error) {
	explicit := filename != ""
	if !explicit {
		filename = fallback
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}

// LoadCorrections loads the corrections table. Without a configured file and
// without a corrections.yaml in the standard locations, the built-in table is
// used.
func (s *Store) LoadCorrections(filename string) (*corrections.Table, error) {
	path, err := s.resolve(filename, DefaultCorrectionsFile)
	if err != nil {
		return nil, fmt.Errorf("error resolving corrections file: %w", err)
	}
	if path == "" {
		s.logger.Debug("Using built-in corrections table")
		return corrections.Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening corrections file: %w", err)
	}
	defer func() { _ = f.Close() }()

	table, err := corrections.Load(f)
	if err != nil {
		return nil, fmt.Errorf("error loading corrections from %s: %w", path, err)
	}
	s.logger.Info("Loaded corrections",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(table.Entries)))
	return table, nil
}

// SaveCorrections writes a corrections table as YAML.
func (s *Store) SaveCorrections(path string, table *corrections.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory for corrections file: %w", err)
		}
	}

	data, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("error marshaling corrections: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing corrections file: %w", err)
	}

	s.logger.Info("Saved corrections",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(table.Entries)))
	return nil
}

// LoadShapes loads the census query shapes, falling back to the built-in
// list the same way LoadCorrections does.
func (s *Store) LoadShapes(filename string) ([]census.QueryShape, error) {
	path, err := s.resolve(filename, DefaultShapesFile)
	if err != nil {
		return nil, fmt.Errorf("error resolving query shapes file: %w", err)
	}
	if path == "" {
		s.logger.Debug("Using built-in census query shapes")
		return census.DefaultShapes(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening query shapes file: %w", err)
	}
	defer func() { _ = f.Close() }()

	shapes, err := census.LoadShapes(f)
	if err != nil {
		return nil, fmt.Errorf("error loading query shapes from %s: %w", path, err)
	}
	s.logger.Info("Loaded census query shapes",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(shapes)))
	return shapes, nil
}
