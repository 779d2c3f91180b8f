package analyses

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		up        Upload
		wantField string
		wantMsg   string
	}{
		{name: "pdf", up: Upload{FileName: "cv.pdf", MimeType: "application/pdf", Size: 1024}},
		{name: "doc", up: Upload{FileName: "cv.doc", MimeType: "application/msword", Size: 1024}},
		{name: "docx with params", up: Upload{FileName: "cv.docx", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document; charset=binary", Size: 1}},
		{name: "exactly 10MB", up: Upload{FileName: "cv.pdf", MimeType: "application/pdf", Size: 10 * 1024 * 1024}},
		{name: "png", up: Upload{FileName: "cv.png", MimeType: "image/png", Size: 10}, wantField: "mimeType", wantMsg: "Please upload a PDF, DOC, or DOCX file"},
		{name: "missing mime", up: Upload{FileName: "cv.pdf", Size: 10}, wantField: "mimeType", wantMsg: "Please upload a PDF, DOC, or DOCX file"},
		{name: "one byte over", up: Upload{FileName: "cv.pdf", MimeType: "application/pdf", Size: 10*1024*1024 + 1}, wantField: "size", wantMsg: "File size must be less than 10MB"},
		{name: "understated size", up: Upload{FileName: "cv.pdf", MimeType: "application/pdf", Size: 1, Data: make([]byte, 10*1024*1024+1)}, wantField: "size", wantMsg: "File size must be less than 10MB"},
		{name: "empty name", up: Upload{FileName: "  ", MimeType: "application/pdf", Size: 10}, wantField: "fileName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.up)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Fatalf("field = %q, want %q", ve.Field, tt.wantField)
			}
			if tt.wantMsg != "" && ve.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", ve.Message, tt.wantMsg)
			}
		})
	}
}
