package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "resumes/abc/1_cv.pdf", want: "resumes/abc/1_cv.pdf"},
		{name: "simple prefix", prefix: "prod", key: "resumes/abc/1_cv.pdf", want: "prod/resumes/abc/1_cv.pdf"},
		{name: "prefix trailing slash", prefix: "prod/", key: "profile-photos/abc", want: "prod/profile-photos/abc"},
		{name: "prefix and key slashes", prefix: "/prod/", key: "/resumes/x", want: "prod/resumes/x"},
		{name: "empty key", prefix: "prod", key: "", want: "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	if got := normalizePrefix(" /a/b/ "); got != "a/b" {
		t.Fatalf("normalizePrefix = %q", got)
	}
}
