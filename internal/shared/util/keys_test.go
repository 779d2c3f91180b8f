package util

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestResumeKey(t *testing.T) {
	at := time.UnixMilli(1700000000123).UTC()

	got, err := ResumeKey("user-1", "My Resume.pdf", at)
	if err != nil {
		t.Fatalf("ResumeKey: %v", err)
	}
	want := "resumes/" + OwnerSegment("user-1") + "/1700000000123_My Resume.pdf"
	if got != want {
		t.Fatalf("ResumeKey = %q, want %q", got, want)
	}

	later, err := ResumeKey("user-1", "My Resume.pdf", at.Add(time.Millisecond))
	if err != nil {
		t.Fatalf("ResumeKey later: %v", err)
	}
	if later == got {
		t.Fatalf("expected distinct keys for distinct upload times")
	}
}

func TestResumeKeyRejectsTraversal(t *testing.T) {
	_, err := ResumeKey("user-1", "../../etc/passwd", time.Now())
	if !errors.Is(err, ErrInvalidFileName) {
		t.Fatalf("expected ErrInvalidFileName, got %v", err)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "cv.pdf", want: "cv.pdf"},
		{in: " a/b\\c.docx ", want: "a_b_c.docx"},
		{in: "tab\there.doc", want: "tabhere.doc"},
		{in: "   ", wantErr: true},
		{in: "..", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProfilePhotoKey(t *testing.T) {
	tests := []struct {
		contentType string
		ext         string
	}{
		{contentType: "image/jpeg", ext: ".jpg"},
		{contentType: "image/png", ext: ".png"},
		{contentType: "image/webp", ext: ".webp"},
		{contentType: "image/gif", ext: ".gif"},
	}
	for _, tt := range tests {
		got := ProfilePhotoKey("uid-1", tt.contentType)
		if want := "profile-photos/" + OwnerSegment("uid-1") + tt.ext; got != want {
			t.Fatalf("ProfilePhotoKey(%q) = %q, want %q", tt.contentType, got, want)
		}
		if got != ProfilePhotoKey("uid-1", tt.contentType) {
			t.Fatalf("expected stable key")
		}
	}
}

func TestOwnerSegment(t *testing.T) {
	got := OwnerSegment("google:12345")
	if len(got) != 64 || strings.Trim(got, "0123456789abcdef") != "" {
		t.Fatalf("expected 64 hex characters, got %q", got)
	}
	if got == OwnerSegment("google:12346") {
		t.Fatalf("expected distinct segments for distinct ids")
	}
}
