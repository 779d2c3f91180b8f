package analyses

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"resume-scorer/internal/events"
	"resume-scorer/internal/extract"
	"resume-scorer/internal/scoring"
	"resume-scorer/internal/shared/storage/object"
	"resume-scorer/internal/shared/storage/object/local"
)

type spyStore struct {
	object.Store
	mu     sync.Mutex
	puts   []string
	putErr error
	urlErr error
}

func (s *spyStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	s.mu.Lock()
	s.puts = append(s.puts, key)
	s.mu.Unlock()
	if s.putErr != nil {
		return 0, s.putErr
	}
	return s.Store.Put(ctx, key, contentType, r)
}

func (s *spyStore) DownloadURL(ctx context.Context, key string) (string, error) {
	if s.urlErr != nil {
		return "", s.urlErr
	}
	return s.Store.DownloadURL(ctx, key)
}

type failingRepo struct {
	Repo
	err error
}

func (f failingRepo) Create(context.Context, Record) (Record, error) { return Record{}, f.err }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, []byte, string, string) (string, error) {
	return "", extract.ErrUnsupportedFormat
}

func newTestService(t *testing.T) (*Service, *spyStore, *recordingPublisher) {
	t.Helper()
	store := &spyStore{Store: local.New(t.TempDir(), "http://localhost:8080")}
	pub := &recordingPublisher{}
	svc := &Service{
		Repo:      NewMemoryRepo(),
		Store:     store,
		Extractor: extract.SampleExtractor{},
		Scorer:    scoring.New(scoring.FixedContent(20), scoring.FeedbackStatic),
		Events:    pub,
		Now:       func() time.Time { return time.UnixMilli(1700000000000) },
	}
	return svc, store, pub
}

func pdfUpload() Upload {
	data := []byte("%PDF-1.4 fake")
	return Upload{FileName: "my cv.pdf", MimeType: "application/pdf", Size: int64(len(data)), Data: data}
}

func TestUploadCreatesCompletedRecord(t *testing.T) {
	svc, store, pub := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Upload(ctx, "u-1", pdfUpload())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.ID == "" || rec.UploadedAt.IsZero() {
		t.Fatalf("expected store-assigned id and time, got %+v", rec)
	}
	if rec.Status != StatusCompleted || rec.OwnerID != "u-1" || rec.FileName != "my cv.pdf" {
		t.Fatalf("unexpected record %+v", rec)
	}
	// Sample text matches all eight keywords and is long: 40 + 25 + 20 + 15 capped at 100.
	if rec.Score != 100 || len(rec.Analysis.Keywords) != 8 {
		t.Fatalf("score = %d keywords = %v", rec.Score, rec.Analysis.Keywords)
	}
	if !strings.HasPrefix(rec.FileRef, "resumes/") || !strings.HasSuffix(rec.FileRef, "/1700000000000_my cv.pdf") {
		t.Fatalf("unexpected file ref %q", rec.FileRef)
	}
	if !strings.HasPrefix(rec.FileURL, "http://localhost:8080/api/v1/files/resumes/") {
		t.Fatalf("unexpected file url %q", rec.FileURL)
	}
	if len(store.puts) != 1 {
		t.Fatalf("expected one put, got %d", len(store.puts))
	}
	if len(pub.events) != 1 || pub.events[0].AnalysisID != rec.ID || pub.events[0].Type != events.TypeAnalysisCompleted {
		t.Fatalf("unexpected events %+v", pub.events)
	}

	got, err := svc.Get(ctx, "u-1", rec.ID)
	if err != nil || got.ID != rec.ID {
		t.Fatalf("Get = %+v, %v", got, err)
	}
}

func TestUploadRejectsBeforeAnyIO(t *testing.T) {
	svc, store, pub := newTestService(t)

	up := Upload{FileName: "photo.png", MimeType: "image/png", Size: 10, Data: []byte("0123456789")}
	_, err := svc.Upload(context.Background(), "u-1", up)

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "Please upload a PDF, DOC, or DOCX file" {
		t.Fatalf("expected mime validation error, got %v", err)
	}
	if len(store.puts) != 0 {
		t.Fatalf("expected no storage calls, got %d", len(store.puts))
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events")
	}
	list, _ := svc.List(context.Background(), "u-1", 0, 0)
	if len(list) != 0 {
		t.Fatalf("expected no records, got %d", len(list))
	}
}

func TestUploadStorageFailureCreatesNoRecord(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.putErr = errors.New("disk full")

	_, err := svc.Upload(context.Background(), "u-1", pdfUpload())
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	list, _ := svc.List(context.Background(), "u-1", 0, 0)
	if len(list) != 0 {
		t.Fatalf("expected no records after storage failure")
	}
}

func TestUploadDownloadURLFailureIsStorageError(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.urlErr = errors.New("presign failed")

	if _, err := svc.Upload(context.Background(), "u-1", pdfUpload()); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestUploadPersistenceFailure(t *testing.T) {
	svc, _, pub := newTestService(t)
	svc.Repo = failingRepo{Repo: svc.Repo, err: errors.New("connection reset")}

	_, err := svc.Upload(context.Background(), "u-1", pdfUpload())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event should be published for a failed upload")
	}
}

func TestUploadExtractionFailure(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.Extractor = failingExtractor{}

	_, err := svc.Upload(context.Background(), "u-1", pdfUpload())
	if !errors.Is(err, ErrExtraction) || !errors.Is(err, extract.ErrUnsupportedFormat) {
		t.Fatalf("expected wrapped extraction error, got %v", err)
	}
}

func TestUploadSucceedsWhenEventPublishFails(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.err = errors.New("broker down")

	if _, err := svc.Upload(context.Background(), "u-1", pdfUpload()); err != nil {
		t.Fatalf("publish failure must not fail the upload: %v", err)
	}
}

func TestUploadRequiresOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Upload(context.Background(), " ", pdfUpload()); !errors.Is(err, ErrOwnerRequired) {
		t.Fatalf("expected ErrOwnerRequired, got %v", err)
	}
}

func TestUploadRejectsTraversalName(t *testing.T) {
	svc, store, _ := newTestService(t)
	up := pdfUpload()
	up.FileName = "../../etc/passwd.pdf"

	var ve *ValidationError
	if _, err := svc.Upload(context.Background(), "u-1", up); !errors.As(err, &ve) || ve.Field != "fileName" {
		t.Fatalf("expected fileName validation error, got %v", err)
	}
	if len(store.puts) != 0 {
		t.Fatalf("expected no storage calls")
	}
}

func TestGetHidesOtherOwnersRecords(t *testing.T) {
	svc, _, _ := newTestService(t)
	rec, err := svc.Upload(context.Background(), "u-1", pdfUpload())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := svc.Get(context.Background(), "u-2", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "u-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentUploadsGetDistinctIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	var tick int64
	var mu sync.Mutex
	svc.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return time.UnixMilli(1700000000000 + tick)
	}

	const n = 10
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := svc.Upload(context.Background(), "u-1", pdfUpload())
			if err != nil {
				t.Errorf("Upload: %v", err)
				return
			}
			ids <- rec.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d records, got %d", n, len(seen))
	}
}
