// Package workbooktest writes xlsx workbooks for tests.
package workbooktest

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteFixture writes sheets of cell values to an xlsx file. String cells
// are written as text, float64 and int as numbers and nil leaves the cell
// empty. It backs the workbook, container and command tests.
func WriteFixture(path string, sheets map[string][][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}

		for r, row := range rows {
			for c, value := range row {
				if value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(name, cell, value); err != nil {
					return fmt.Errorf("set %s!%s: %w", name, cell, err)
				}
			}
		}
	}

	return f.SaveAs(path)
}

// Sample sheet names, matching the default configuration.
const (
	SampleProductionSheet = "RedMeatPoultry_Prod-Full"
	SampleCountsSheet     = "SlaughterCounts-Full"
	SampleWeightsSheet    = "SlaughterWeights-Full"
)

// SampleSheets returns a two-month excerpt of the statistics workbook laid
// out the way the default configuration expects it.
func SampleSheets() map[string][][]interface{} {
	return map[string][][]interface{}{
		SampleProductionSheet: {
			{"Million pounds"},
			{"Month", "Commercial", nil, "Federally inspected 1/", nil, nil, nil, nil},
			{nil, "Beef", "Pork", "Beef", "Veal", "Pork 2/", "Lamb and mutton", "Total red meat 3/"},
			{"Jan-1990", 1900, 1400, 1800, 25, 1300, 30, 3155},
			{"Feb-1990", 1700, 1300, 1650, 22, 1250, 27, 2949},
			{"1990", 3600, 2700, 3450, 47, 2550, 57, 6104},
			{"Source: USDA, National Agricultural Statistics Service."},
		},
		SampleCountsSheet: {
			{"Thousand head"},
			{"Month", "Commercial", nil, "Federally inspected", nil, nil, nil, nil},
			{nil, "Cattle", "Hogs", "Cattle", "Heifers", "Hogs", "Sheep and lambs", "Total"},
			{"Jan-1990", 2800, 7600, 2700, 800, 7500, 450, 11450},
			{"Feb-1990", 2500, 7000, 2400, 720, 6900, 400, 10420},
			{"Date run: 10/30/2019"},
		},
		SampleWeightsSheet: {
			{"Pounds"},
			{"Month", "Federally inspected", nil, "Average live weight", nil, "Average dressed weight", nil, nil},
			{nil, "Cattle", "Hogs", "Cattle", "Hogs", "Cattle", "Hogs", "Total"},
			{"Jan-1990", 1950, 1900, 1150, 250, 700, 185, 885},
			{"Feb-1990", 1720, 1780, 1160, 255, 710, 190, 900},
		},
	}
}
