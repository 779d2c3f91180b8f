package analyses

import (
	"strconv"
	"strings"
)

// MaxUploadBytes is the largest accepted resume file.
const MaxUploadBytes = 10 << 20

var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Validate checks an upload's metadata. It does no I/O.
func Validate(up Upload) error {
	if strings.TrimSpace(up.FileName) == "" {
		return &ValidationError{Field: "fileName", Value: up.FileName, Message: "Please select a file to upload"}
	}
	if _, ok := allowedMimeTypes[normalizeMime(up.MimeType)]; !ok {
		return &ValidationError{Field: "mimeType", Value: up.MimeType, Message: "Please upload a PDF, DOC, or DOCX file"}
	}
	if size := up.size(); size > MaxUploadBytes {
		return &ValidationError{Field: "size", Value: strconv.FormatInt(size, 10), Message: "File size must be less than 10MB"}
	}
	return nil
}

func normalizeMime(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}

// size is the larger of the declared size and the payload length.
func (up Upload) size() int64 {
	if n := int64(len(up.Data)); n > up.Size {
		return n
	}
	return up.Size
}
