package transport

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docqa-dev/docqa/pkg/api"
)

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(tag("a"), tag("b"), tag("c"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"a", "b", "c", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRequestIDGenerated(t *testing.T) {
	var ctxID string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	headerID := rec.Header().Get("X-Request-ID")
	if headerID == "" {
		t.Fatal("expected X-Request-ID response header")
	}
	if ctxID != headerID {
		t.Errorf("context id %q != header id %q", ctxID, headerID)
	}
	if len(headerID) != 32 {
		t.Errorf("generated id %q is not 16 hex bytes", headerID)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var ctxID string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "client-chosen-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if ctxID != "client-chosen-id" {
		t.Errorf("context id = %q, want client-chosen-id", ctxID)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "client-chosen-id" {
		t.Errorf("header id = %q, want client-chosen-id", got)
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Error.Type != api.ErrorTypeServerError {
		t.Errorf("type = %s, want server_error", resp.Error.Type)
	}
}

func TestLoggingEmitsEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/search/q", nil))

	out := buf.String()
	if !strings.Contains(out, "request completed") {
		t.Errorf("log output %q missing completion message", out)
	}
	if !strings.Contains(out, "status=404") {
		t.Errorf("log output %q missing status", out)
	}
	if !strings.Contains(out, "path=/search/q") {
		t.Errorf("log output %q missing path", out)
	}
}
