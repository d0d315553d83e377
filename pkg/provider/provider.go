// Package provider implements the completion client for OpenAI-compatible
// chat completion backends.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/docqa-dev/docqa/pkg/api"
	"github.com/docqa-dev/docqa/pkg/debug"
	"github.com/docqa-dev/docqa/pkg/observability"
)

// CompletionRequest describes a single non-streaming completion call.
type CompletionRequest struct {
	Model       string
	Prompt      string
	Temperature float64
}

// Client produces completions for prompts.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAIClient calls any OpenAI-compatible /v1/chat/completions endpoint.
type OpenAIClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a completion client for an OpenAI-compatible endpoint.
func NewOpenAIClient(baseURL, apiKey string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// chatCompletionRequest is the Chat Completions request body.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the Chat Completions response body.
type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete performs non-streaming inference against the Chat Completions
// endpoint and returns the first choice's message content.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	chatReq := chatCompletionRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	url := c.BaseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	debug.Log("completion", "completion request", "model", req.Model, "prompt_chars", len(req.Prompt))
	debug.Raw("completion", debug.Truncate(req.Prompt, 4096))

	start := time.Now()
	httpResp, err := c.HTTPClient.Do(httpReq)
	observability.UpstreamLatency.WithLabelValues("completion").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.UpstreamRequestsTotal.WithLabelValues("completion", "error").Inc()
		return "", mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	observability.UpstreamRequestsTotal.WithLabelValues("completion", strconv.Itoa(httpResp.StatusCode)).Inc()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return "", mapHTTPError(httpResp)
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return "", api.NewUpstreamError(fmt.Sprintf("failed to parse backend response: %s", err.Error()))
	}

	if len(chatResp.Choices) == 0 {
		return "", api.NewUpstreamError("completion response contained no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
