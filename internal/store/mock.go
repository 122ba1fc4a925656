package store

import (
	"fjacquet/meat-stats/internal/census"
	"fjacquet/meat-stats/internal/corrections"
)

// MockStore is a Loader returning fixed values, for tests.
type MockStore struct {
	Corrections *corrections.Table
	Shapes      []census.QueryShape

	LoadCorrectionsError error
	LoadShapesError      error

	// Requested records the file names passed in, in call order.
	Requested []string
}

// LoadCorrections returns the mock table, or the built-in one when unset.
func (m *MockStore) LoadCorrections(filename string) (*corrections.Table, error) {
	m.Requested = append(m.Requested, filename)
	if m.LoadCorrectionsError != nil {
		return nil, m.LoadCorrectionsError
	}
	if m.Corrections == nil {
		return corrections.Default(), nil
	}
	return m.Corrections, nil
}

// LoadShapes returns the mock shapes, or the built-in ones when unset.
func (m *MockStore) LoadShapes(filename string) ([]census.QueryShape, error) {
	m.Requested = append(m.Requested, filename)
	if m.LoadShapesError != nil {
		return nil, m.LoadShapesError
	}
	if m.Shapes == nil {
		return census.DefaultShapes(), nil
	}
	return m.Shapes, nil
}
