package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docqa-dev/docqa/pkg/api"
)

// HTTPStatusFromError maps an APIError type to the corresponding HTTP status
// code. Transport-level errors (body too large, malformed multipart) are
// handled separately by the HTTP adapter.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeInvalidRequest, api.ErrorTypeUnsupportedFormat:
		return http.StatusBadRequest
	case api.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case api.ErrorTypeForbidden:
		return http.StatusForbidden
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeTooManyRequests:
		return http.StatusTooManyRequests
	case api.ErrorTypeUpstream:
		return http.StatusBadGateway
	case api.ErrorTypeProcessing, api.ErrorTypeServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a JSON error response using the ErrorResponse
// wrapper format from pkg/api. It sets the Content-Type header and writes
// the HTTP status code.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// WriteAPIError writes an APIError response, deriving the HTTP status code
// from the error type.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}

// WriteError renders any error as a JSON error response. Errors that are
// not typed APIErrors become generic server errors.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		apiErr = api.NewServerError("internal server error")
	}
	WriteAPIError(w, apiErr)
}
