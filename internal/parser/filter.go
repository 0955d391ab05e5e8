package parser

import (
	"strings"

	"github.com/insightdelivered/transcript-gwa/internal/models"
)

// DefaultExcludedPrefixes are the course code prefixes left out of the GWA:
// physical education, the national service training program and
// general-education STEM electives.
var DefaultExcludedPrefixes = []string{"PE", "NSTP", "STEM"}

// RecordFilter drops records whose course code starts with an excluded prefix.
type RecordFilter struct {
	prefixes []string
}

// NewRecordFilter returns a filter for the given prefixes. A nil slice
// selects DefaultExcludedPrefixes; an empty non-nil slice excludes nothing.
func NewRecordFilter(prefixes []string) *RecordFilter {
	if prefixes == nil {
		prefixes = DefaultExcludedPrefixes
	}
	return &RecordFilter{prefixes: prefixes}
}

// Excluded reports whether the course code belongs to an excluded category.
func (f *RecordFilter) Excluded(code string) bool {
	for _, prefix := range f.prefixes {
		if prefix != "" && strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

// Apply returns the records that are not excluded. The input is not modified.
func (f *RecordFilter) Apply(records []models.CourseRecord) []models.CourseRecord {
	kept := make([]models.CourseRecord, 0, len(records))
	for _, r := range records {
		if f.Excluded(r.Code) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
