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
	applicationSubmittedTotal     atomic.Uint64
	applicationSubmitFailedTotal  atomic.Uint64
	applicationWithdrawnTotal     atomic.Uint64
	applicationStatusChangedTotal atomic.Uint64

	applicationSubmitDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000})

	emailJobsReceivedTotal atomic.Uint64
	emailJobsSentTotal     atomic.Uint64
	emailJobsFailedTotal   atomic.Uint64
	emailJobsDroppedTotal  atomic.Uint64
)

// IncApplicationSubmitted increments the successful-submission counter.
func IncApplicationSubmitted() {
	applicationSubmittedTotal.Add(1)
}

// IncApplicationSubmitFailed increments the rejected-submission counter.
func IncApplicationSubmitFailed() {
	applicationSubmitFailedTotal.Add(1)
}

// IncApplicationWithdrawn increments the withdrawal counter.
func IncApplicationWithdrawn() {
	applicationWithdrawnTotal.Add(1)
}

// IncApplicationStatusChanged increments the status-transition counter.
func IncApplicationStatusChanged() {
	applicationStatusChangedTotal.Add(1)
}

// ObserveApplicationSubmitDurationMs records a submission duration in milliseconds.
func ObserveApplicationSubmitDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	applicationSubmitDuration.Observe(value)
}

// IncEmailJobsReceived increments the worker's received counter.
func IncEmailJobsReceived() {
	emailJobsReceivedTotal.Add(1)
}

// IncEmailJobsSent increments the worker's delivered counter.
func IncEmailJobsSent() {
	emailJobsSentTotal.Add(1)
}

// IncEmailJobsFailed increments the worker's send-failure counter.
func IncEmailJobsFailed() {
	emailJobsFailedTotal.Add(1)
}

// IncEmailJobsDropped increments the counter of messages deleted as unrecoverable.
func IncEmailJobsDropped() {
	emailJobsDroppedTotal.Add(1)
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
	writeCounter(&buf, "application_submitted_total", "Total applications submitted", applicationSubmittedTotal.Load())
	writeCounter(&buf, "application_submit_failed_total", "Total submissions rejected", applicationSubmitFailedTotal.Load())
	writeCounter(&buf, "application_withdrawn_total", "Total applications withdrawn", applicationWithdrawnTotal.Load())
	writeCounter(&buf, "application_status_changed_total", "Total application status transitions", applicationStatusChangedTotal.Load())
	writeHistogram(&buf, "application_submit_duration_ms", "Submission duration in milliseconds", applicationSubmitDuration.Snapshot())
	writeCounter(&buf, "email_jobs_received_total", "Total email tasks received by the worker", emailJobsReceivedTotal.Load())
	writeCounter(&buf, "email_jobs_sent_total", "Total email tasks delivered", emailJobsSentTotal.Load())
	writeCounter(&buf, "email_jobs_failed_total", "Total email tasks that failed to send", emailJobsFailedTotal.Load())
	writeCounter(&buf, "email_jobs_dropped_total", "Total email tasks deleted as unrecoverable", emailJobsDroppedTotal.Load())
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
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

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
