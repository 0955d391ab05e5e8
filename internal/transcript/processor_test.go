package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/transcript-gwa/internal/apperrors"
	"github.com/insightdelivered/transcript-gwa/internal/metrics"
	"github.com/insightdelivered/transcript-gwa/internal/models"
	"github.com/insightdelivered/transcript-gwa/internal/parser"
)

type fakeExtractor struct {
	pages []string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractPages(ctx context.Context, data []byte) ([]string, error) {
	f.calls++
	return f.pages, f.err
}

type panickingExtractor struct{}

func (panickingExtractor) ExtractPages(ctx context.Context, data []byte) ([]string, error) {
	panic("corrupt xref table")
}

func newProcessor(ex TextExtractor, m *metrics.Metrics) *Processor {
	opts := parser.DefaultOptions()
	opts.Debug = true
	return NewProcessor(ex, parser.New(opts), m)
}

func TestProcess_Success(t *testing.T) {
	ex := &fakeExtractor{pages: []string{
		"NAME: SANTOS, MARIA STUDENT NO: 2018-0042\n" +
			"1.00 IT 101 Intro to Computing 3 1.00\n" +
			"2.75 PE 1 Physical Education 2 2.75",
	}}
	m := metrics.New()

	res, err := newProcessor(ex, m).Process(context.Background(), "transcript.pdf", []byte("%PDF"))
	require.NoError(t, err)

	c := res.Computation
	require.Len(t, c.Records, 1)
	assert.Equal(t, "SANTOS, MARIA", c.Header.StudentName)
	assert.Equal(t, "2018-0042", c.Header.StudentNumber)
	assert.Equal(t, "1", c.Aggregate.Average.String())
	assert.Equal(t, models.HonorSumma, c.Honor)
	assert.Len(t, res.DebugLines, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LinesScanned))
}

func TestProcess_InvalidFileType(t *testing.T) {
	ex := &fakeExtractor{}

	for _, name := range []string{"transcript.docx", "transcript.PDF", "transcript"} {
		t.Run(name, func(t *testing.T) {
			_, err := newProcessor(ex, nil).Process(context.Background(), name, nil)
			assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
		})
	}
	assert.Equal(t, 0, ex.calls, "extractor must not run for rejected files")
}

func TestProcess_EmptyExtraction(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
	}{
		{"no pages", nil},
		{"no course lines", []string{"OFFICIAL TRANSCRIPT OF RECORDS\nNAME: REYES, ANA"}},
		{"only excluded courses", []string{"1.00 PE 1 Physical Education 2 1.00\n1.25 NSTP 1 CWTS 3 1.25"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newProcessor(&fakeExtractor{pages: tt.pages}, nil).Process(context.Background(), "t.pdf", nil)
			assert.ErrorIs(t, err, apperrors.ErrEmptyExtraction)
			assert.False(t, errors.Is(err, apperrors.ErrProcessingFailure))
		})
	}
}

func TestProcess_ProcessingFailure(t *testing.T) {
	t.Run("extractor error", func(t *testing.T) {
		ex := &fakeExtractor{err: errors.New("malformed PDF")}
		_, err := newProcessor(ex, nil).Process(context.Background(), "t.pdf", nil)
		assert.ErrorIs(t, err, apperrors.ErrProcessingFailure)
	})

	t.Run("extractor panic", func(t *testing.T) {
		_, err := newProcessor(panickingExtractor{}, nil).Process(context.Background(), "t.pdf", nil)
		assert.ErrorIs(t, err, apperrors.ErrProcessingFailure)
	})
}

func TestValidateFilename(t *testing.T) {
	assert.NoError(t, ValidateFilename("Transcript 2024.pdf"))
	assert.ErrorIs(t, ValidateFilename("scan.png"), apperrors.ErrInvalidFileType)
	assert.ErrorIs(t, ValidateFilename("SCAN.PDF"), apperrors.ErrInvalidFileType)
}
