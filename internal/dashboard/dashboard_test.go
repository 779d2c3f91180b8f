package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/analyses"
	"resume-scorer/internal/session"
)

func records(scores ...int) []analyses.Record {
	out := make([]analyses.Record, 0, len(scores))
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range scores {
		out = append(out, analyses.Record{
			ID:         string(rune('a' + i)),
			Score:      s,
			Status:     analyses.StatusCompleted,
			UploadedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.TotalAnalyses != 0 || got.AverageScore != 0 || len(got.Recent) != 0 {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestSummarizeAverageRoundsHalfUp(t *testing.T) {
	tests := []struct {
		scores []int
		want   int
	}{
		{[]int{80}, 80},
		{[]int{80, 81}, 81},
		{[]int{70, 71, 71}, 71},
		{[]int{0, 100}, 50},
	}
	for _, tt := range tests {
		if got := Summarize(records(tt.scores...)).AverageScore; got != tt.want {
			t.Fatalf("scores %v: average = %d, want %d", tt.scores, got, tt.want)
		}
	}
}

func TestSummarizeIgnoresIncompleteForAverage(t *testing.T) {
	recs := records(90, 10, 70)
	recs[1].Status = analyses.StatusFailed

	got := Summarize(recs)
	if got.TotalAnalyses != 3 {
		t.Fatalf("total = %d, want 3", got.TotalAnalyses)
	}
	if got.AverageScore != 80 {
		t.Fatalf("average = %d, want 80", got.AverageScore)
	}
}

func TestSummarizeNoCompletedRecords(t *testing.T) {
	recs := records(50, 60)
	for i := range recs {
		recs[i].Status = analyses.StatusAnalyzing
	}
	got := Summarize(recs)
	if got.AverageScore != 0 || got.TotalAnalyses != 2 {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestSummarizeKeepsFiveMostRecent(t *testing.T) {
	recs := records(1, 2, 3, 4, 5, 6, 7)
	got := Summarize(recs)
	if len(got.Recent) != RecentLimit {
		t.Fatalf("recent = %d, want %d", len(got.Recent), RecentLimit)
	}
	for i, r := range got.Recent {
		if r.ID != recs[i].ID {
			t.Fatalf("recent[%d] = %s, want %s", i, r.ID, recs[i].ID)
		}
	}
	if got.TotalAnalyses != 7 {
		t.Fatalf("total = %d, want 7", got.TotalAnalyses)
	}
}

type failingLister struct{}

func (failingLister) ListByOwner(context.Context, string, int, int) ([]analyses.Record, error) {
	return nil, errors.New("db down")
}

func TestForOwnerWrapsPersistenceError(t *testing.T) {
	_, err := NewService(failingLister{}).ForOwner(context.Background(), "u-1")
	if !errors.Is(err, analyses.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestForOwnerRequiresOwner(t *testing.T) {
	_, err := NewService(analyses.NewMemoryRepo()).ForOwner(context.Background(), "")
	if !errors.Is(err, ErrOwnerRequired) {
		t.Fatalf("expected ErrOwnerRequired, got %v", err)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := analyses.NewMemoryRepo()
	ctx := context.Background()
	for _, s := range []int{60, 90} {
		if _, err := repo.Create(ctx, analyses.Record{OwnerID: "u-1", Score: s, Status: analyses.StatusCompleted}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := repo.Create(ctx, analyses.Record{OwnerID: "u-2", Score: 10, Status: analyses.StatusCompleted}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		session.Attach(c, session.Context{UserID: "u-1", SessionID: "s-1"})
		c.Next()
	})
	NewHandler(NewService(repo)).RegisterRoutes(r.Group("/api/v1"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalAnalyses != 2 || got.AverageScore != 75 || len(got.Recent) != 2 {
		t.Fatalf("unexpected summary %+v", got)
	}
}
