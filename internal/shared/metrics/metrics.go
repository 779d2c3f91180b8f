package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	uploadsTotal          atomic.Uint64
	uploadFailuresTotal   atomic.Uint64
	uploadsRejectedTotal  atomic.Uint64
	eventPublishFailTotal atomic.Uint64
	signInsTotal          atomic.Uint64
	signInFailuresTotal   atomic.Uint64

	scoreDistribution = newHistogram([]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100})
	uploadDuration    = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000})
)

// IncUploadRejected counts uploads refused by validation.
func IncUploadRejected() {
	uploadsRejectedTotal.Add(1)
}

// IncUploadFailed counts uploads that failed after validation.
func IncUploadFailed() {
	uploadFailuresTotal.Add(1)
}

// ObserveUpload records a completed upload with its score and duration.
func ObserveUpload(score int, durationMs float64) {
	uploadsTotal.Add(1)
	scoreDistribution.Observe(float64(score))
	if durationMs < 0 {
		durationMs = 0
	}
	uploadDuration.Observe(durationMs)
}

// IncEventPublishFailed counts analysis events that could not be delivered.
func IncEventPublishFailed() {
	eventPublishFailTotal.Add(1)
}

// IncSignIn counts successful sign-ins and sign-ups.
func IncSignIn() {
	signInsTotal.Add(1)
}

// IncSignInFailed counts rejected sign-in attempts.
func IncSignInFailed() {
	signInFailuresTotal.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_uploads_total", "Resumes uploaded and scored", uploadsTotal.Load())
	writeCounter(&buf, "resume_upload_failures_total", "Uploads that failed after validation", uploadFailuresTotal.Load())
	writeCounter(&buf, "resume_uploads_rejected_total", "Uploads rejected by validation", uploadsRejectedTotal.Load())
	writeCounter(&buf, "analysis_event_publish_failures_total", "Analysis events that could not be published", eventPublishFailTotal.Load())
	writeCounter(&buf, "auth_sign_ins_total", "Successful sign-ins and sign-ups", signInsTotal.Load())
	writeCounter(&buf, "auth_sign_in_failures_total", "Rejected sign-in attempts", signInFailuresTotal.Load())
	writeHistogram(&buf, "resume_score", "Distribution of resume scores", scoreDistribution.Snapshot())
	writeHistogram(&buf, "resume_upload_duration_ms", "Upload pipeline duration in milliseconds", uploadDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket that holds it. Counts are
// per bucket; writeHistogram accumulates them.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
