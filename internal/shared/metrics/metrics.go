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
	enrichmentStartedTotal   atomic.Uint64
	enrichmentCompletedTotal atomic.Uint64
	enrichmentFallbackTotal  atomic.Uint64
	enrichmentRejectedTotal  atomic.Uint64

	enrichmentDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncEnrichmentStarted increments the started counter.
func IncEnrichmentStarted() {
	enrichmentStartedTotal.Add(1)
}

// IncEnrichmentCompleted increments the completed counter.
func IncEnrichmentCompleted() {
	enrichmentCompletedTotal.Add(1)
}

// IncEnrichmentFallback increments the fallback counter. Fallbacks complete
// the pipeline with a placeholder result instead of failing it.
func IncEnrichmentFallback() {
	enrichmentFallbackTotal.Add(1)
}

// IncEnrichmentRejected increments the rejected counter (queue at capacity).
func IncEnrichmentRejected() {
	enrichmentRejectedTotal.Add(1)
}

// ObserveEnrichmentDurationMs records one pipeline run duration in milliseconds.
func ObserveEnrichmentDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	enrichmentDuration.Observe(value)
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
	writeCounter(&buf, "enrichment_started_total", "Total enrichment runs started", enrichmentStartedTotal.Load())
	writeCounter(&buf, "enrichment_completed_total", "Total enrichment runs completed", enrichmentCompletedTotal.Load())
	writeCounter(&buf, "enrichment_fallback_total", "Total enrichment runs completed with a fallback result", enrichmentFallbackTotal.Load())
	writeCounter(&buf, "enrichment_rejected_total", "Total enrichment requests rejected by a full queue", enrichmentRejectedTotal.Load())
	writeHistogram(&buf, "enrichment_duration_ms", "Enrichment pipeline duration in milliseconds", enrichmentDuration.Snapshot())
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
			break
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

// NowMillis returns current time in milliseconds.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
