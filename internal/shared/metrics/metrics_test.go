package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesUploadMetrics(t *testing.T) {
	ObserveUpload(72, 120)
	IncUploadRejected()

	out := Render()
	for _, want := range []string{
		"# TYPE resume_uploads_total counter",
		"# TYPE resume_score histogram",
		`resume_score_bucket{le="+Inf"}`,
		"resume_upload_duration_ms_count",
		"resume_uploads_rejected_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestHistogramCountsPerBucket(t *testing.T) {
	h := newHistogram([]float64{10, 20})
	h.Observe(5)
	h.Observe(15)
	h.Observe(25)

	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
	}
	if snap.count != 3 || snap.sum != 45 {
		t.Fatalf("count=%d sum=%v", snap.count, snap.sum)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("counts = %v", snap.counts)
	}
	if cumulative != 2 {
		t.Fatalf("cumulative = %d", cumulative)
	}
}
