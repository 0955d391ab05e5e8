package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/insightdelivered/transcript-gwa/internal/apperrors"
	"github.com/insightdelivered/transcript-gwa/internal/models"
)

const (
	margin     = 36.0
	lineHeight = 14.0
	cellPad    = 4.0
)

var colWidths = []float64{28, 72, 232, 52, 52, 84}

type rgb struct{ r, g, b int }

var (
	darkFill  = rgb{0x22, 0x23, 0x26}
	lightFill = rgb{0xF2, 0xF2, 0xF2}
	totalFill = rgb{0xD9, 0xD9, 0xD9}
	white     = rgb{0xFF, 0xFF, 0xFF}
	black     = rgb{0x00, 0x00, 0x00}
	gridLine  = rgb{0x99, 0x99, 0x99}
)

// Render writes the computation as a Letter-size PDF: header block, course
// table with totals, the GWA formula row and the Latin honor line.
func Render(w io.Writer, c *models.Computation) error {
	if c.Empty() {
		return apperrors.ErrNoDataForReport
	}

	t := BuildTable(c)
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle("GWA Computation", true)
	pdf.SetCreator("transcript-gwa", true)

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.AddPage()
	r.heading(t)
	r.tableHeader()
	for i, row := range t.Rows {
		fill := lightFill
		if i%2 == 1 {
			fill = white
		}
		r.row([]string{fmt.Sprint(row.Index), row.Code, row.Name, row.Units, row.Grade, row.Weighted}, fill, black, "")
	}
	r.row([]string{"", "TOTAL", "", t.TotalUnits, "", t.TotalWeighted}, totalFill, black, "B")
	r.formula(t)
	r.honor(t)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return pdf.Output(w)
}

type renderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (r *renderer) heading(t Table) {
	p := r.pdf
	p.SetFont("Helvetica", "B", 20)
	p.CellFormat(0, 28, "GWA Computation", "", 1, "C", false, 0, "")
	p.Ln(6)

	p.SetFont("Helvetica", "", 11)
	for _, line := range headingLines(t) {
		p.CellFormat(0, lineHeight+2, r.tr(line), "", 1, "L", false, 0, "")
	}
	p.Ln(8)
}

// headingLines returns the identity lines printed above the table. Each is
// omitted when its header field was not found.
func headingLines(t Table) []string {
	var lines []string
	if strings.TrimSpace(t.StudentName) != "" {
		lines = append(lines, "Name: "+t.StudentName)
	}
	if strings.TrimSpace(t.StudentNumber) != "" {
		lines = append(lines, "Student No: "+t.StudentNumber)
	}
	return lines
}

func (r *renderer) tableHeader() {
	r.row(Headers, darkFill, white, "B")
}

// row draws one table row. The course name column wraps; every other cell
// is stretched to the wrapped height.
func (r *renderer) row(cells []string, fill, text rgb, style string) {
	p := r.pdf
	p.SetFont("Helvetica", style, 9)

	lines := 1
	for i, cell := range cells {
		if n := len(p.SplitText(r.tr(cell), colWidths[i]-cellPad)); n > lines {
			lines = n
		}
	}
	h := float64(lines) * lineHeight

	if r.needsBreak(h) {
		p.AddPage()
		if fill != darkFill {
			r.tableHeader()
			p.SetFont("Helvetica", style, 9)
		}
	}

	p.SetFillColor(fill.r, fill.g, fill.b)
	p.SetDrawColor(gridLine.r, gridLine.g, gridLine.b)
	p.SetTextColor(text.r, text.g, text.b)

	x, y := p.GetXY()
	for i, cell := range cells {
		w := colWidths[i]
		p.Rect(x, y, w, h, "FD")
		wrapped := p.SplitText(r.tr(cell), w-cellPad)
		top := y + (h-float64(len(wrapped))*lineHeight)/2
		p.SetXY(x, top)
		p.MultiCell(w, lineHeight, r.tr(cell), "", "C", false)
		x += w
	}
	p.SetXY(margin, y+h)
	p.SetTextColor(black.r, black.g, black.b)
}

// formula draws the merged GWA row: the formula spans the first five
// columns and the average sits in the last one.
func (r *renderer) formula(t Table) {
	p := r.pdf
	h := 2 * lineHeight
	if r.needsBreak(h) {
		p.AddPage()
	}

	spanned := 0.0
	for _, w := range colWidths[:len(colWidths)-1] {
		spanned += w
	}
	last := colWidths[len(colWidths)-1]

	p.SetFillColor(darkFill.r, darkFill.g, darkFill.b)
	p.SetDrawColor(gridLine.r, gridLine.g, gridLine.b)
	p.SetTextColor(white.r, white.g, white.b)
	p.SetFont("Helvetica", "B", 10)

	x, y := p.GetXY()
	p.Rect(x, y, spanned, h, "FD")
	p.SetXY(x, y)
	p.MultiCell(spanned, lineHeight, r.tr(t.Formula+"\n"+t.FormulaValues), "", "C", false)

	p.SetXY(x+spanned, y)
	p.CellFormat(last, h, t.Average, "1", 0, "C", true, 0, "")

	p.SetXY(margin, y+h)
	p.SetTextColor(black.r, black.g, black.b)
}

func (r *renderer) honor(t Table) {
	p := r.pdf
	if r.needsBreak(3 * lineHeight) {
		p.AddPage()
	}
	p.Ln(lineHeight)
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, lineHeight+4, r.tr("Latin Honor Qualification: "+string(t.Honor)), "", 1, "L", false, 0, "")
}

func (r *renderer) needsBreak(h float64) bool {
	_, pageH := r.pdf.GetPageSize()
	_, y := r.pdf.GetXY()
	return y+h > pageH-margin
}
