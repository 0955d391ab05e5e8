// Package transcript runs an uploaded document through extraction, parsing
// and GWA computation.
package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/insightdelivered/transcript-gwa/internal/apperrors"
	"github.com/insightdelivered/transcript-gwa/internal/gwa"
	"github.com/insightdelivered/transcript-gwa/internal/logger"
	"github.com/insightdelivered/transcript-gwa/internal/metrics"
	"github.com/insightdelivered/transcript-gwa/internal/models"
	"github.com/insightdelivered/transcript-gwa/internal/parser"
)

// TextExtractor returns per-page plain text for a PDF document.
type TextExtractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
}

// Result is a successful computation plus the per-line parse trace.
type Result struct {
	Computation *models.Computation
	DebugLines  []models.DebugLine
}

// Processor ties the extractor, parser and aggregator together.
type Processor struct {
	extractor TextExtractor
	parser    *parser.TranscriptParser
	metrics   *metrics.Metrics
}

// NewProcessor builds a processor. m may be nil.
func NewProcessor(extractor TextExtractor, p *parser.TranscriptParser, m *metrics.Metrics) *Processor {
	return &Processor{extractor: extractor, parser: p, metrics: m}
}

// ValidateFilename rejects anything that does not end in ".pdf". The check is
// case-sensitive.
func ValidateFilename(filename string) error {
	if !strings.HasSuffix(filename, ".pdf") {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidFileType, filename)
	}
	return nil
}

// Process validates, extracts, parses and aggregates one document.
//
// Errors wrap apperrors.ErrInvalidFileType, ErrEmptyExtraction or
// ErrProcessingFailure so callers can tell them apart with errors.Is.
func (p *Processor) Process(ctx context.Context, filename string, data []byte) (res *Result, err error) {
	if err := ValidateFilename(filename); err != nil {
		p.metrics.ObserveUpload("invalid_type")
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			p.metrics.ObserveUpload("failed")
			res, err = nil, fmt.Errorf("%w: %v", apperrors.ErrProcessingFailure, r)
		}
	}()

	pages, err := p.extractor.ExtractPages(ctx, data)
	if err != nil {
		logger.Warn().Err(err).Str("file", filename).Msg("text extraction failed")
		p.metrics.ObserveUpload("failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrProcessingFailure, err)
	}

	parsed := p.parser.Parse(pages)
	p.metrics.ObserveParse(parsed.Stats)

	logger.Info().
		Str("file", filename).
		Int("pages", len(pages)).
		Int("lines_scanned", parsed.Stats.LinesScanned).
		Int("lines_matched", parsed.Stats.LinesMatched).
		Int("records", parsed.Stats.RecordsExtracted).
		Int("fallback_units", parsed.Stats.FallbackUnits).
		Int("line_failures", parsed.Stats.LineFailures).
		Bool("has_name", parsed.Header.StudentName != "").
		Bool("has_student_no", parsed.Header.StudentNumber != "").
		Msg("transcript parsed")

	if len(parsed.Records) == 0 {
		p.metrics.ObserveUpload("empty")
		return nil, fmt.Errorf("%w in %q", apperrors.ErrEmptyExtraction, filename)
	}

	records := p.parser.Filter().Apply(parsed.Records)
	p.metrics.ObserveUpload("success")
	return &Result{
		Computation: gwa.Compute(parsed.Header, records, parsed.Stats),
		DebugLines:  parsed.DebugLines,
	}, nil
}
