package api

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAPIErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "without param",
			err:  NewUnsupportedFormatError("only .docx files are supported"),
			want: "unsupported_format: only .docx files are supported",
		},
		{
			name: "with param",
			err:  NewInvalidRequestError("id", "id must not be negative"),
			want: "invalid_request: id must not be negative (param: id)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstructorsSetType(t *testing.T) {
	tests := []struct {
		err  *APIError
		want ErrorType
	}{
		{NewInvalidRequestError("id", "m"), ErrorTypeInvalidRequest},
		{NewUnauthorizedError("m"), ErrorTypeUnauthorized},
		{NewForbiddenError("m"), ErrorTypeForbidden},
		{NewNotFoundError("m"), ErrorTypeNotFound},
		{NewUnsupportedFormatError("m"), ErrorTypeUnsupportedFormat},
		{NewUpstreamError("m"), ErrorTypeUpstream},
		{NewProcessingError("m"), ErrorTypeProcessing},
		{NewTooManyRequestsError("m"), ErrorTypeTooManyRequests},
		{NewServerError("m"), ErrorTypeServerError},
	}

	for _, tt := range tests {
		if tt.err.Type != tt.want {
			t.Errorf("constructor produced type %q, want %q", tt.err.Type, tt.want)
		}
	}
}

func TestErrorResponseSerialization(t *testing.T) {
	resp := ErrorResponse{Error: NewProcessingError("error processing file: report.docx")}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshaling error response: %v", err)
	}

	if !strings.Contains(string(data), `"type":"processing_error"`) {
		t.Errorf("serialized response missing type field: %s", data)
	}
	if strings.Contains(string(data), `"param"`) {
		t.Errorf("empty param should be omitted: %s", data)
	}
}
