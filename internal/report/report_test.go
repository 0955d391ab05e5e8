package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/transcript-gwa/internal/apperrors"
	"github.com/insightdelivered/transcript-gwa/internal/gwa"
	"github.com/insightdelivered/transcript-gwa/internal/models"
)

func sampleComputation() *models.Computation {
	records := []models.CourseRecord{
		{Code: "IT 101", Name: "Introduction to Computing", Units: 3, Grade: 1.00},
		{Code: "CS 21", Name: "Data Structures and Algorithms", Units: 3, Grade: 1.75},
		{Code: "MATH 1", Name: "College Algebra", Units: 5, Grade: 1.75},
	}
	header := models.TranscriptHeader{StudentName: "DELA CRUZ, JUAN", StudentNumber: "2019-12345"}
	return gwa.Compute(header, records, models.ParseStats{})
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comma form", "DELA CRUZ, JUAN", "Dela Cruz_GWA Computation.pdf"},
		{"given names first", "Juan Dela Cruz", "Cruz_GWA Computation.pdf"},
		{"empty", "", "Student_GWA Computation.pdf"},
		{"blank before comma", " , JUAN", "Student_GWA Computation.pdf"},
		{"apostrophe", "O'NEIL, PAT", "O'Neil_GWA Computation.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.in))
		})
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "3", FormatUnits(3))
	assert.Equal(t, "1.5", FormatUnits(1.5))
	assert.Equal(t, "6", FormatUnits(6.0))
}

func TestBuildTable(t *testing.T) {
	tbl := BuildTable(sampleComputation())

	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, Row{Index: 1, Code: "IT 101", Name: "Introduction to Computing", Units: "3", Grade: "1.00", Weighted: "3.00"}, tbl.Rows[0])
	assert.Equal(t, "8.75", tbl.Rows[2].Weighted)
	assert.Equal(t, "11", tbl.TotalUnits)
	assert.Equal(t, "17.00", tbl.TotalWeighted)
	assert.Equal(t, "1.5455", tbl.Average)
	assert.Equal(t, "(17.00 ÷ 11)", tbl.FormulaValues)
	assert.Equal(t, models.HonorCum, tbl.Honor)
}

func TestHeadingLines(t *testing.T) {
	tests := []struct {
		name   string
		header models.TranscriptHeader
		want   []string
	}{
		{"both fields", models.TranscriptHeader{StudentName: "DELA CRUZ, JUAN", StudentNumber: "2019-12345"},
			[]string{"Name: DELA CRUZ, JUAN", "Student No: 2019-12345"}},
		{"name only", models.TranscriptHeader{StudentName: "REYES, ANA"}, []string{"Name: REYES, ANA"}},
		{"number only", models.TranscriptHeader{StudentNumber: "2020-0001"}, []string{"Student No: 2020-0001"}},
		{"neither", models.TranscriptHeader{StudentName: "  "}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := Table{StudentName: tt.header.StudentName, StudentNumber: tt.header.StudentNumber}
			assert.Equal(t, tt.want, headingLines(tbl))
		})
	}
}

func TestRender_WithoutHeader(t *testing.T) {
	c := gwa.Compute(models.TranscriptHeader{}, []models.CourseRecord{{Code: "IT 101", Name: "Intro", Units: 3, Grade: 1}}, models.ParseStats{})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, c))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleComputation()))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"), "output must be a PDF document")
}

func TestRender_ManyRowsPaginate(t *testing.T) {
	var records []models.CourseRecord
	for i := 0; i < 80; i++ {
		records = append(records, models.CourseRecord{
			Code: "IT 101", Name: "A rather long course title that will need to wrap across lines", Units: 3, Grade: 1.25,
		})
	}
	c := gwa.Compute(models.TranscriptHeader{StudentName: "REYES, ANA"}, records, models.ParseStats{})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, c))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestRender_NoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Render(&buf, nil), apperrors.ErrNoDataForReport)
	assert.ErrorIs(t, Render(&buf, &models.Computation{}), apperrors.ErrNoDataForReport)
	assert.Zero(t, buf.Len())
}
