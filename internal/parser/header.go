package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/transcript-gwa/internal/models"
)

var (
	// "NAME: DELA CRUZ, JUAN P.   STUDENT NO: 2019-00123" → "DELA CRUZ, JUAN P."
	namePattern = regexp.MustCompile(`(?i)NAME\s*[:\-]\s*(.*?)(?:\s+STUDENT\s*NO[:\-]|$)`)
	// "STUDENT NO: 2019-00123" → "2019-00123"
	studentNoPattern = regexp.MustCompile(`(?i)STUDENT\s*NO\s*[:\-]\s*([A-Za-z0-9\-]+)`)
)

// HeaderScanner collects the student name and number from page lines.
// The first non-empty match for each field wins.
type HeaderScanner struct {
	header models.TranscriptHeader
}

// Scan checks one line for header fields that are still missing.
func (s *HeaderScanner) Scan(line string) {
	if s.header.StudentName == "" {
		if m := namePattern.FindStringSubmatch(line); m != nil {
			s.header.StudentName = strings.TrimSpace(m[1])
		}
	}
	if s.header.StudentNumber == "" {
		if m := studentNoPattern.FindStringSubmatch(line); m != nil {
			s.header.StudentNumber = strings.TrimSpace(m[1])
		}
	}
}

// Done reports whether both fields have been found.
func (s *HeaderScanner) Done() bool {
	return s.header.Complete()
}

// Header returns the fields found so far.
func (s *HeaderScanner) Header() models.TranscriptHeader {
	return s.header
}
