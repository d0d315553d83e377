package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docqa-dev/docqa/pkg/api"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		err  *api.APIError
		want int
	}{
		{api.NewInvalidRequestError("id", "bad id"), http.StatusBadRequest},
		{api.NewUnsupportedFormatError("not docx"), http.StatusBadRequest},
		{api.NewUnauthorizedError("no token"), http.StatusUnauthorized},
		{api.NewForbiddenError("disabled"), http.StatusForbidden},
		{api.NewNotFoundError("no documents"), http.StatusNotFound},
		{api.NewTooManyRequestsError("slow down"), http.StatusTooManyRequests},
		{api.NewUpstreamError("backend down"), http.StatusBadGateway},
		{api.NewProcessingError("ingest failed"), http.StatusInternalServerError},
		{api.NewServerError("broken"), http.StatusInternalServerError},
		{&api.APIError{Type: "unknown_type"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Type), func(t *testing.T) {
			if got := HTTPStatusFromError(tt.err); got != tt.want {
				t.Errorf("HTTPStatusFromError(%s) = %d, want %d", tt.err.Type, got, tt.want)
			}
		})
	}
}

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, api.NewNotFoundError("no documents matched"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Error == nil || resp.Error.Type != api.ErrorTypeNotFound {
		t.Errorf("body = %s, want not_found error", rec.Body.String())
	}
}

func TestWriteErrorWrapsPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("opaque failure"))

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
	// The original message must not leak.
	if resp.Error.Message != "internal server error" {
		t.Errorf("message = %q, want generic message", resp.Error.Message)
	}
}
