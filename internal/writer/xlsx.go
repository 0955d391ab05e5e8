package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/transcript-gwa/internal/apperrors"
	"github.com/insightdelivered/transcript-gwa/internal/gwa"
	"github.com/insightdelivered/transcript-gwa/internal/models"
	"github.com/insightdelivered/transcript-gwa/internal/report"
)

// SheetName is the worksheet the computation is written to.
const SheetName = "GWA Computation"

// tableStart is the row of the column headers; course rows follow it.
const tableStart = 4

// XLSXWriter writes the computation as an Excel workbook. Totals and the
// average are live formulas so edits in the sheet recompute the GWA.
type XLSXWriter struct{}

// WriteToFile writes the workbook to path.
func (w *XLSXWriter) WriteToFile(path string, c *models.Computation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, c)
}

// Write builds the workbook and streams it to out.
func (w *XLSXWriter) Write(out io.Writer, c *models.Computation) error {
	if c.Empty() {
		return apperrors.ErrNoDataForReport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := fill(f, c); err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fill(f *excelize.File, c *models.Computation) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"222326"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create bold style: %w", err)
	}
	twoPlaces, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	cells := map[string]interface{}{
		"A1": "Name",
		"B1": c.Header.StudentName,
		"A2": "Student No",
		"B2": c.Header.StudentNumber,
	}
	for i, h := range report.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableStart)
		cells[cell] = h
	}

	first := tableStart + 1
	for i, r := range c.Records {
		row := first + i
		values := []interface{}{i + 1, r.Code, r.Name, r.Units, r.Grade, r.WeightedGrade()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			cells[cell] = v
		}
	}
	for cell, v := range cells {
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", cell, err)
		}
	}

	last := first + len(c.Records) - 1
	total := last + 1
	avg := total + 1
	honor := avg + 1

	formulas := map[string]string{
		fmt.Sprintf("D%d", total): fmt.Sprintf("SUM(D%d:D%d)", first, last),
		fmt.Sprintf("F%d", total): fmt.Sprintf("SUM(F%d:F%d)", first, last),
		fmt.Sprintf("F%d", avg):   fmt.Sprintf("IF(D%[1]d=0,\"%[2]s\",ROUND(F%[1]d/D%[1]d,%[3]d))", total, models.NoValidData, gwa.AveragePlaces),
	}
	for cell, formula := range formulas {
		if err := f.SetCellFormula(SheetName, cell, formula); err != nil {
			return fmt.Errorf("failed to set formula %s: %w", cell, err)
		}
	}

	labels := map[string]string{
		fmt.Sprintf("B%d", total): "TOTAL",
		fmt.Sprintf("A%d", avg):   "GWA = Total Weighted / Total Units",
		fmt.Sprintf("A%d", honor): "Latin Honor Qualification",
		fmt.Sprintf("C%d", honor): string(c.Honor),
	}
	for cell, v := range labels {
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", cell, err)
		}
	}

	styles := []struct {
		from, to string
		style    int
	}{
		{fmt.Sprintf("A%d", tableStart), fmt.Sprintf("F%d", tableStart), headerStyle},
		{fmt.Sprintf("E%d", first), fmt.Sprintf("F%d", total), twoPlaces},
		{fmt.Sprintf("A%d", total), fmt.Sprintf("F%d", total), boldStyle},
		{fmt.Sprintf("A%d", honor), fmt.Sprintf("C%d", honor), boldStyle},
		{"A1", "A2", boldStyle},
	}
	for _, s := range styles {
		if err := f.SetCellStyle(SheetName, s.from, s.to, s.style); err != nil {
			return fmt.Errorf("failed to style %s:%s: %w", s.from, s.to, err)
		}
	}

	if err := f.SetColWidth(SheetName, "C", "C", 40); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return f.SetColWidth(SheetName, "D", "F", 14)
}
