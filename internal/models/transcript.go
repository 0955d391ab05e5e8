package models

// CourseRecord represents a single parsed transcript course line.
type CourseRecord struct {
	Code  string  `json:"courseCode"`
	Name  string  `json:"courseName"`
	Units float64 `json:"units"`
	Grade float64 `json:"grade"`
}

// WeightedGrade returns units × grade for the record.
func (r CourseRecord) WeightedGrade() float64 {
	return r.Units * r.Grade
}

// TranscriptHeader holds student identity fields found in the page text.
type TranscriptHeader struct {
	StudentName   string `json:"studentName,omitempty"`
	StudentNumber string `json:"studentNumber,omitempty"`
}

// Complete reports whether both header fields have been found.
func (h TranscriptHeader) Complete() bool {
	return h.StudentName != "" && h.StudentNumber != ""
}

// ParseStats counts what the parser did with the input lines.
type ParseStats struct {
	LinesScanned     int `json:"linesScanned"`
	LinesMatched     int `json:"linesMatched"`
	RecordsExtracted int `json:"recordsExtracted"`
	FallbackUnits    int `json:"fallbackUnits"`
	LineFailures     int `json:"lineFailures"`
	Excluded         int `json:"excluded"`
}

// DebugLine captures what the parser did with each candidate line.
type DebugLine struct {
	Page    int    `json:"page"`
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Result  string `json:"result"` // "parsed", "excluded", "failed"
	Method  string `json:"method,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Transcript is the parser output for one uploaded document.
type Transcript struct {
	Header     TranscriptHeader
	Records    []CourseRecord
	Stats      ParseStats
	DebugLines []DebugLine
}
