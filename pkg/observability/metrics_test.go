package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry without panicking.
func TestMetricsRegistered(t *testing.T) {
	expected := map[string]bool{
		"docqa_requests_total":           false,
		"docqa_request_duration_seconds": false,
		"docqa_upstream_requests_total":  false,
		"docqa_upstream_latency_seconds": false,
		"docqa_documents_ingested_total": false,
		"docqa_ratelimit_rejected_total": false,
	}

	// Counters and histograms with labels only appear after the first
	// observation, so seed every metric before gathering.
	RequestsTotal.WithLabelValues("GET", "/healthz", "2xx").Inc()
	RequestDuration.WithLabelValues("GET", "/healthz").Observe(0.1)
	UpstreamRequestsTotal.WithLabelValues("embedding", "ok").Inc()
	UpstreamLatency.WithLabelValues("embedding").Observe(0.1)
	DocumentsIngestedTotal.WithLabelValues("created").Inc()
	RateLimitRejectedTotal.Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

// TestMiddlewareRecordsRequestCount verifies that the middleware increments
// the request counter for each served request.
func TestMiddlewareRecordsRequestCount(t *testing.T) {
	before := counterValue(t, RequestsTotal, "GET", "/search/{prompt}", "2xx")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/search/what%20is%20go", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := counterValue(t, RequestsTotal, "GET", "/search/{prompt}", "2xx")
	if after-before != 1 {
		t.Errorf("expected request count to increase by 1, got delta=%f", after-before)
	}
}

// TestMiddlewareRecordsDuration verifies that the middleware records
// a request duration observation.
func TestMiddlewareRecordsDuration(t *testing.T) {
	before := histogramCount(t, RequestDuration, "POST", "/upload/")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/upload/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := histogramCount(t, RequestDuration, "POST", "/upload/")
	if after-before != 1 {
		t.Errorf("expected histogram sample count to increase by 1, got delta=%d", after-before)
	}
}

// TestMiddlewareCapturesStatusCode verifies that non-200 status codes are
// captured correctly in the status label.
func TestMiddlewareCapturesStatusCode(t *testing.T) {
	before := counterValue(t, RequestsTotal, "POST", "/token", "4xx")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	req := httptest.NewRequest("POST", "/token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := counterValue(t, RequestsTotal, "POST", "/token", "4xx")
	if after-before != 1 {
		t.Errorf("expected 4xx count to increase by 1, got delta=%f", after-before)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/healthz", "/healthz"},
		{"/token", "/token"},
		{"/metrics", "/metrics"},
		{"/upload/", "/upload/"},
		{"/search/some%20question", "/search/{prompt}"},
		{"/search/a/b/c", "/search/{prompt}"},
		{"/unknown", "other"},
	}
	for _, tt := range tests {
		if got := routeLabel(tt.path); got != tt.want {
			t.Errorf("routeLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// counterValue reads the current value of a CounterVec for the given labels.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

// histogramCount reads the observation count from a HistogramVec.
func histogramCount(t *testing.T, hv *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	obs, err := hv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting histogram metric: %v", err)
	}
	if err := obs.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing histogram metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}
