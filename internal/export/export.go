// Package export writes the dashboard of one region and year as an xlsx
// workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"metrodash/server/internal/models"
	"metrodash/server/internal/shaping"
)

const (
	YearlySheet  = "Yearly"
	MonthlySheet = "Monthly"

	dateLayout = "2006-01-02"
)

// Workbook holds what goes into the export.
type Workbook struct {
	RegionName string
	Year       int
	Records    []models.MetroRecord
	Months     [12]shaping.Summary
}

// Write renders wb as xlsx to w. The Yearly sheet lists every record of
// the year, the Monthly sheet one summary row per calendar month.
func Write(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", YearlySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(MonthlySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeYearly(f, wb); err != nil {
		return err
	}
	if err := writeMonthly(f, wb); err != nil {
		return err
	}

	if idx, err := f.GetSheetIndex(YearlySheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeYearly(f *excelize.File, wb Workbook) error {
	title := fmt.Sprintf("Prices in %d (%s)", wb.Year, regionLabel(wb.RegionName))
	if err := f.SetCellValue(YearlySheet, "A1", title); err != nil {
		return err
	}
	if err := setRow(f, YearlySheet, 2, []any{"Date", "Region", "State", "Average cost"}); err != nil {
		return err
	}

	for i, r := range wb.Records {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.UTC().Format(dateLayout)
		}
		if err := setRow(f, YearlySheet, i+3, []any{date, r.RegionName, r.StateName, r.AvgCost}); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthly(f *excelize.File, wb Workbook) error {
	if err := setRow(f, MonthlySheet, 1, []any{"Month", "Count", "Mean", "Median", "Min", "Max"}); err != nil {
		return err
	}
	for i, s := range wb.Months {
		if err := setRow(f, MonthlySheet, i+2, []any{shaping.MonthNames[i], s.Count, s.Mean, s.Median, s.Min, s.Max}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func regionLabel(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
