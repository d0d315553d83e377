package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/docqa-dev/docqa/pkg/api"
)

// chatErrorResponse is the OpenAI-style error envelope backends return.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// mapHTTPError converts a non-2xx backend response into an APIError. It
// attempts to parse the response body for a descriptive message.
func mapHTTPError(resp *http.Response) *api.APIError {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		if message == "" {
			message = "invalid request to backend"
		}
		return api.NewInvalidRequestError("", message)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "backend authentication failed"
		}
		return api.NewUpstreamError(message)

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "backend model not found"
		}
		return api.NewUpstreamError(message)

	case resp.StatusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "backend rate limit exceeded"
		}
		return api.NewTooManyRequestsError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("backend error (HTTP %d)", resp.StatusCode)
		}
		return api.NewUpstreamError(message)
	}
}

// mapNetworkError converts a network-level error (connection refused,
// timeout, DNS resolution failure) into an APIError.
func mapNetworkError(err error) *api.APIError {
	return api.NewUpstreamError(fmt.Sprintf("backend connection error: %s", err.Error()))
}

// extractErrorMessage tries to parse the response body as an OpenAI-style
// error envelope and returns the message if found.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp chatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	return ""
}
