package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MetricsMiddleware wraps an HTTP handler to record request metrics.
//
// It captures:
//   - docqa_requests_total (counter): incremented per request with method, route, and status class labels
//   - docqa_request_duration_seconds (histogram): request duration with method and route labels
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()

		// Build a status class label like "2xx", "4xx", "5xx".
		statusStr := strconv.Itoa(sw.status/100) + "xx"

		path := routeLabel(r.URL.Path)

		RequestsTotal.WithLabelValues(r.Method, path, statusStr).Inc()
		RequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routeLabel maps a request path to a bounded route label so that
// per-document search paths do not explode metric cardinality.
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/search/"):
		return "/search/{prompt}"
	case strings.HasPrefix(path, "/upload"):
		return "/upload/"
	case path == "/", path == "/healthz", path == "/token", path == "/metrics":
		return path
	default:
		return "other"
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

// WriteHeader captures the status code and delegates to the underlying writer.
func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

// Write delegates to the underlying writer and marks the status as written.
func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter, enabling http.ResponseController
// and similar utilities to access the original writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
