package users

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/session"
	"resume-scorer/internal/shared/storage/object/local"
)

func setupRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	if _, err := repo.Create(context.Background(), Profile{UID: "u-1", Email: "jane@example.com", Name: "Jane Doe", Phone: "555"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	store := local.New(t.TempDir(), "http://localhost:8080")

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		session.Attach(c, session.Context{UserID: "u-1", SessionID: "s-1"})
		c.Next()
	})
	NewHandler(NewService(repo, store)).RegisterRoutes(api)
	return r, repo
}

func photoRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photo"; filename="me"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(data)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/photo", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestGetProfile(t *testing.T) {
	router, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var p Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.UID != "u-1" || p.Name != "Jane Doe" || p.Email != "jane@example.com" {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestUploadPhotoUpdatesProfile(t *testing.T) {
	router, repo := setupRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, photoRequest(t, "image/png", []byte("\x89PNG fake")))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	p, _ := repo.GetByID(context.Background(), "u-1")
	if !strings.HasPrefix(p.PhotoURL, "http://localhost:8080/api/v1/files/profile-photos/") || !strings.HasSuffix(p.PhotoURL, ".png") {
		t.Fatalf("unexpected photo url %q", p.PhotoURL)
	}

	// A second upload of the same type replaces the first under the same key.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, photoRequest(t, "image/png", []byte("\x89PNG other")))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	again, _ := repo.GetByID(context.Background(), "u-1")
	if again.PhotoURL != p.PhotoURL {
		t.Fatalf("photo url changed: %q vs %q", again.PhotoURL, p.PhotoURL)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, photoRequest(t, "image/jpeg", []byte("jpeg")))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	jpeg, _ := repo.GetByID(context.Background(), "u-1")
	if !strings.HasSuffix(jpeg.PhotoURL, ".jpg") {
		t.Fatalf("expected .jpg photo url, got %q", jpeg.PhotoURL)
	}
}

func TestUploadPhotoRejectsNonImage(t *testing.T) {
	router, repo := setupRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, photoRequest(t, "application/pdf", []byte("%PDF")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	p, _ := repo.GetByID(context.Background(), "u-1")
	if p.PhotoURL != "" {
		t.Fatalf("photo url should be unchanged, got %q", p.PhotoURL)
	}
}

func TestValidatePhoto(t *testing.T) {
	tests := []struct {
		name  string
		photo Photo
		ok    bool
	}{
		{"png", Photo{ContentType: "image/png", Size: 10}, true},
		{"webp with params", Photo{ContentType: "image/webp; q=1", Size: 10}, true},
		{"empty", Photo{ContentType: "image/png", Size: 0}, false},
		{"too large", Photo{ContentType: "image/gif", Size: MaxPhotoBytes + 1}, false},
		{"svg", Photo{ContentType: "image/svg+xml", Size: 10}, false},
	}
	for _, tt := range tests {
		err := ValidatePhoto(tt.photo)
		if (err == nil) != tt.ok {
			t.Fatalf("%s: err = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}
