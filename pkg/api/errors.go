package api

import "fmt"

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeInvalidRequest    ErrorType = "invalid_request"
	ErrorTypeUnauthorized      ErrorType = "unauthorized"
	ErrorTypeForbidden         ErrorType = "forbidden"
	ErrorTypeNotFound          ErrorType = "not_found"
	ErrorTypeUnsupportedFormat ErrorType = "unsupported_format"
	ErrorTypeUpstream          ErrorType = "upstream_error"
	ErrorTypeProcessing        ErrorType = "processing_error"
	ErrorTypeTooManyRequests   ErrorType = "too_many_requests"
	ErrorTypeServerError       ErrorType = "server_error"
)

// APIError represents a structured API error with type, code, param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewUnauthorizedError creates an APIError for missing or invalid credentials.
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NewForbiddenError creates an APIError for authenticated but disallowed callers.
func NewForbiddenError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewUnsupportedFormatError creates an APIError for document containers
// the extraction layer does not recognize.
func NewUnsupportedFormatError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeUnsupportedFormat,
		Message: message,
	}
}

// NewUpstreamError creates an APIError for failures of an external service
// (embedding provider, vector store, or completion backend).
func NewUpstreamError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeUpstream,
		Message: message,
	}
}

// NewProcessingError creates an APIError for ingestion failures. The upload
// handler collapses the underlying cause into this kind at response-rendering
// time; the specific kind is still logged.
func NewProcessingError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeProcessing,
		Message: message,
	}
}

// NewTooManyRequestsError creates an APIError for rate limiting.
func NewTooManyRequestsError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeTooManyRequests,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}
