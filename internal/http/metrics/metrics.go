package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

type Collector struct {
	requests    uint64
	errors      uint64
	rateLimited uint64
	submissions uint64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests() {
	atomic.AddUint64(&c.requests, 1)
}

func (c *Collector) IncErrors() {
	atomic.AddUint64(&c.errors, 1)
}

func (c *Collector) IncRateLimited() {
	atomic.AddUint64(&c.rateLimited, 1)
}

func (c *Collector) IncSubmissions() {
	atomic.AddUint64(&c.submissions, 1)
}

type Snapshot struct {
	Requests    uint64
	Errors      uint64
	RateLimited uint64
	Submissions uint64
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Requests:    atomic.LoadUint64(&c.requests),
		Errors:      atomic.LoadUint64(&c.errors),
		RateLimited: atomic.LoadUint64(&c.rateLimited),
		Submissions: atomic.LoadUint64(&c.submissions),
	}
}

type Handler struct {
	collector *Collector
}

func NewHandler(collector *Collector) *Handler {
	return &Handler{collector: collector}
}

// ServeHTTP writes the counters in the Prometheus text format.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	var snap Snapshot
	if h.collector != nil {
		snap = h.collector.Snapshot()
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	writeCounter(w, "jobboard_http_requests_total", "Total number of HTTP requests.", snap.Requests)
	writeCounter(w, "jobboard_http_errors_total", "Total number of 5xx HTTP responses.", snap.Errors)
	writeCounter(w, "jobboard_apply_rate_limited_total", "Submissions rejected by the apply rate limit.", snap.RateLimited)
	writeCounter(w, "jobboard_applications_submitted_total", "Applications accepted by this instance.", snap.Submissions)
}

func writeCounter(w http.ResponseWriter, name, help string, value uint64) {
	_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	_, _ = fmt.Fprintf(w, "# TYPE %s counter\n", name)
	_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
}
