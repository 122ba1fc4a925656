// Package workbook reads named worksheets of an xlsx file into RawSheets.
package workbook

import (
	"fmt"

	"fjacquet/meat-stats/internal/logging"
	"fjacquet/meat-stats/internal/models"
	"fjacquet/meat-stats/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// Workbook is an open spreadsheet file.
type Workbook struct {
	file   *excelize.File
	source string
	logger logging.Logger
}

// Open opens the workbook at path.
func Open(path string, logger logging.Logger) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return newWorkbook(f, path, logger), nil
}

func newWorkbook(f *excelize.File, source string, logger logging.Logger) *Workbook {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Workbook{file: f, source: source, logger: logger}
}

// Sheet reads one worksheet. Numbers come back unformatted (no thousands
// separators) so that the normalizer sees the stored values.
func (w *Workbook) Sheet(name string) (*models.RawSheet, error) {
	if !w.hasSheet(name) {
		return nil, &parsererror.ConfigurationError{
			Sheet:  name,
			Item:   "worksheet",
			Reason: fmt.Sprintf("not present in %s", w.source),
		}
	}

	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	w.logger.Debug("Read worksheet",
		logging.F(logging.FieldFile, w.source),
		logging.F(logging.FieldSheet, name),
		logging.F(logging.FieldCount, len(rows)))

	return &models.RawSheet{Name: name, Rows: rows}, nil
}

func (w *Workbook) hasSheet(name string) bool {
	for _, s := range w.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}
