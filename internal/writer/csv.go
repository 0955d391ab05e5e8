package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/transcript-gwa/internal/apperrors"
	"github.com/insightdelivered/transcript-gwa/internal/models"
	"github.com/insightdelivered/transcript-gwa/internal/report"
)

type courseRow struct {
	Index    int    `csv:"#"`
	Code     string `csv:"Course Code"`
	Name     string `csv:"Course Name"`
	Units    string `csv:"Units"`
	Grade    string `csv:"Grade"`
	Weighted string `csv:"Weighted Grade"`
}

// CSVWriter writes course records and GWA totals to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the computation to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, c *models.Computation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, c)
}

// Write writes the computation in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, c *models.Computation) error {
	if c.Empty() {
		return apperrors.ErrNoDataForReport
	}
	t := report.BuildTable(c)

	// Metadata rows go first so spreadsheet tools still find the table header.
	if w.IncludeHeader {
		meta := csv.NewWriter(out)
		rows := [][]string{
			{"# Name", t.StudentName},
			{"# Student No", t.StudentNumber},
			{"# Total Units", t.TotalUnits},
			{"# Total Weighted", t.TotalWeighted},
			{"# GWA", t.Average},
			{"# Latin Honor", string(t.Honor)},
		}
		if err := meta.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	rows := make([]courseRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, courseRow{
			Index:    r.Index,
			Code:     r.Code,
			Name:     r.Name,
			Units:    r.Units,
			Grade:    r.Grade,
			Weighted: r.Weighted,
		})
	}
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}
