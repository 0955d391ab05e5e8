package parser

import (
	"strings"

	"github.com/insightdelivered/transcript-gwa/internal/models"
)

// Options tunes the record extraction heuristics.
type Options struct {
	// ExcludedPrefixes lists course code prefixes dropped from the result.
	// Nil selects DefaultExcludedPrefixes.
	ExcludedPrefixes []string
	// DefaultUnits is used when a line carries no units token.
	DefaultUnits float64
	// SpecialUnits overrides DefaultUnits for specific course codes.
	SpecialUnits map[string]float64
	// Debug records a DebugLine for every classified line.
	Debug bool
}

// DefaultOptions returns the heuristics used by the registrar's layout.
func DefaultOptions() Options {
	return Options{
		ExcludedPrefixes: DefaultExcludedPrefixes,
		DefaultUnits:     3.0,
		SpecialUnits:     map[string]float64{"IT 402": 6.0},
	}
}

// TranscriptParser turns transcript page text into course records.
type TranscriptParser struct {
	opts   Options
	filter *RecordFilter
}

// New returns a parser with the given options.
func New(opts Options) *TranscriptParser {
	if opts.DefaultUnits <= 0 {
		opts.DefaultUnits = 3.0
	}
	return &TranscriptParser{
		opts:   opts,
		filter: NewRecordFilter(opts.ExcludedPrefixes),
	}
}

// Filter returns the record filter the parser applies.
func (p *TranscriptParser) Filter() *RecordFilter {
	return p.filter
}

// Parse runs every page line through the classifier and token extractor.
// Pages are processed in order; empty pages are skipped. Header fields are
// scanned page by page until both are found. A line that fails extraction is
// counted and skipped, it never stops the parse.
func (p *TranscriptParser) Parse(pages []string) *models.Transcript {
	t := &models.Transcript{}
	var header HeaderScanner

	for pageNum, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		lines := strings.Split(page, "\n")

		if !header.Done() {
			for _, line := range lines {
				header.Scan(line)
			}
		}

		for i, raw := range lines {
			t.Stats.LinesScanned++
			line := strings.TrimSpace(raw)
			if !IsCourseLine(line) {
				continue
			}
			t.Stats.LinesMatched++

			debug := models.DebugLine{Page: pageNum + 1, LineNum: i + 1, Text: line}

			ext, err := p.extractRecord(line)
			if err != nil {
				t.Stats.LineFailures++
				debug.Result = "failed"
				debug.Error = err.Error()
				p.addDebug(t, debug)
				continue
			}
			debug.Method = ext.method
			if ext.fallback {
				t.Stats.FallbackUnits++
			}

			if p.filter.Excluded(ext.record.Code) {
				t.Stats.Excluded++
				debug.Result = "excluded"
				p.addDebug(t, debug)
				continue
			}

			t.Records = append(t.Records, ext.record)
			t.Stats.RecordsExtracted++
			debug.Result = "parsed"
			p.addDebug(t, debug)
		}
	}

	t.Header = header.Header()
	return t
}

func (p *TranscriptParser) addDebug(t *models.Transcript, d models.DebugLine) {
	if p.opts.Debug {
		t.DebugLines = append(t.DebugLines, d)
	}
}
