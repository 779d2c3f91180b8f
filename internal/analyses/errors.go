package analyses

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another owner.
	ErrNotFound = errors.New("analysis not found")
	// ErrStorage wraps failures writing the uploaded file or resolving its URL.
	ErrStorage = errors.New("storage failure")
	// ErrPersistence wraps failures writing or reading analysis records.
	ErrPersistence = errors.New("persistence failure")
	// ErrExtraction wraps failures turning the upload into text.
	ErrExtraction = errors.New("text extraction failure")
	// ErrOwnerRequired is returned when no authenticated owner is supplied.
	ErrOwnerRequired = errors.New("owner id is required")
)

const (
	msgUploadFailed = "Failed to upload and analyze resume. Please try again."
	msgNotFound     = "Analysis Not Found"
)

// ValidationError describes an upload rejected before any I/O.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}
