package apperrors

import "errors"

// Upload errors
var (
	// ErrInvalidFileType is returned before parsing when the upload is not a .pdf.
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrEmptyExtraction means the document parsed but held no course lines.
	ErrEmptyExtraction = errors.New("no valid course data found")
	// ErrProcessingFailure wraps extraction or parsing failures of the whole file.
	ErrProcessingFailure = errors.New("failed to process transcript")
)

// Session errors
var (
	// ErrNoDataForReport is returned when a report is requested without a computation.
	ErrNoDataForReport = errors.New("no data available")
	ErrSessionNotFound = errors.New("session not found")
)

// User-facing messages, keyed by the error kinds above.
const (
	MsgInvalidFileType   = "Invalid file type. Please upload a PDF file."
	MsgEmptyExtraction   = "No valid course data found in the PDF. Please upload a valid transcript."
	MsgProcessingFailure = "Failed to process the PDF. Please make sure you uploaded a valid transcript PDF file."
	MsgNoDataForReport   = "No data available to download."
)

// Message returns the user-facing text for a known error, or a generic one.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFileType):
		return MsgInvalidFileType
	case errors.Is(err, ErrEmptyExtraction):
		return MsgEmptyExtraction
	case errors.Is(err, ErrNoDataForReport), errors.Is(err, ErrSessionNotFound):
		return MsgNoDataForReport
	default:
		return MsgProcessingFailure
	}
}
