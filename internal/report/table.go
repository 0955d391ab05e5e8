// Package report lays out a GWA computation as a table and renders it to PDF.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/transcript-gwa/internal/models"
)

// Row is one course line of the computation table.
type Row struct {
	Index    int
	Code     string
	Name     string
	Units    string
	Grade    string
	Weighted string
}

// Table is the printable form of a computation.
type Table struct {
	StudentName   string
	StudentNumber string
	Rows          []Row
	TotalUnits    string
	TotalWeighted string
	Formula       string
	FormulaValues string
	Average       string
	Honor         models.HonorTier
}

// Headers are the column titles shared by every output format.
var Headers = []string{"#", "Course Code", "Course Name", "Units", "Grade", "Weighted Grade"}

// BuildTable formats the computation rows, totals and GWA line.
func BuildTable(c *models.Computation) Table {
	t := Table{
		StudentName:   c.Header.StudentName,
		StudentNumber: c.Header.StudentNumber,
		Rows:          make([]Row, 0, len(c.Records)),
		TotalUnits:    c.Aggregate.TotalUnits.String(),
		TotalWeighted: c.Aggregate.TotalWeighted.StringFixed(2),
		Average:       c.Aggregate.AverageText(),
		Honor:         c.Honor,
	}

	for i, r := range c.Records {
		weighted := decimal.NewFromFloat(r.Units).Mul(decimal.NewFromFloat(r.Grade))
		t.Rows = append(t.Rows, Row{
			Index:    i + 1,
			Code:     r.Code,
			Name:     r.Name,
			Units:    FormatUnits(r.Units),
			Grade:    fmt.Sprintf("%.2f", r.Grade),
			Weighted: weighted.StringFixed(2),
		})
	}

	t.Formula = "GWA = Total Weighted ÷ Total Units"
	t.FormulaValues = fmt.Sprintf("(%s ÷ %s)", t.TotalWeighted, t.TotalUnits)
	return t
}

// FormatUnits prints units without trailing zeros: 3 → "3", 1.5 → "1.5".
func FormatUnits(units float64) string {
	return strconv.FormatFloat(units, 'f', -1, 64)
}

// Filename returns "<Surname>_GWA Computation.pdf" for the student name.
// "DELA CRUZ, JUAN" yields "Dela Cruz"; "Juan Dela Cruz" yields "Cruz";
// an empty name yields "Student".
func Filename(studentName string) string {
	return Surname(studentName) + "_GWA Computation.pdf"
}

// Surname extracts and title-cases the family name from a header name.
func Surname(studentName string) string {
	name := strings.TrimSpace(studentName)
	if name == "" {
		return "Student"
	}

	var surname string
	if idx := strings.Index(name, ","); idx >= 0 {
		surname = strings.TrimSpace(name[:idx])
	} else {
		fields := strings.Fields(name)
		surname = fields[len(fields)-1]
	}
	if surname == "" {
		return "Student"
	}
	return titleCase(surname)
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest: "DELA CRUZ" → "Dela Cruz", "O'NEIL" → "O'Neil".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
