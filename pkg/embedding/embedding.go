// Package embedding converts text into vector embeddings via an
// OpenAI-compatible /v1/embeddings endpoint.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/docqa-dev/docqa/pkg/api"
	"github.com/docqa-dev/docqa/pkg/debug"
	"github.com/docqa-dev/docqa/pkg/observability"
)

// Client embeds text via an external service.
type Client interface {
	// Embed converts a text string into an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the dimensionality of the embedding vectors.
	// Returns 0 until the first successful Embed call.
	Dimensions() int
}

// OpenAIClient calls any OpenAI-compatible /v1/embeddings endpoint.
type OpenAIClient struct {
	URL        string
	APIKey     string
	Model      string
	HTTPClient *http.Client

	mu   sync.RWMutex
	dims int
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a new embedding client for an OpenAI-compatible endpoint.
func NewOpenAIClient(url, apiKey, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		URL:        url,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// embeddingRequest is the JSON request body for the embeddings API.
type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// embeddingResponse is the JSON response from the embeddings API.
type embeddingResponse struct {
	Data []embeddingData `json:"data"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// Embed sends the text to the embeddings endpoint and returns its vector.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	endpoint := c.URL
	if !strings.HasSuffix(endpoint, "/v1/embeddings") {
		endpoint = strings.TrimRight(endpoint, "/") + "/v1/embeddings"
	}

	reqBody := embeddingRequest{
		Input: []string{text},
		Model: c.Model,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	debug.Log("embedding", "embedding request", "model", c.Model, "chars", len(text))

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	observability.UpstreamLatency.WithLabelValues("embedding").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.UpstreamRequestsTotal.WithLabelValues("embedding", "error").Inc()
		return nil, api.NewUpstreamError(fmt.Sprintf("embedding request failed: %v", err))
	}
	defer resp.Body.Close()

	observability.UpstreamRequestsTotal.WithLabelValues("embedding", strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading embedding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, api.NewUpstreamError(fmt.Sprintf("embedding API returned status %d: %s", resp.StatusCode, string(respBody)))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("parsing embedding response: %w", err)
	}

	if len(embResp.Data) == 0 {
		return nil, api.NewUpstreamError("embedding response contained no data")
	}

	vector := embResp.Data[0].Embedding
	if len(vector) == 0 {
		return nil, api.NewUpstreamError("embedding response contained an empty vector")
	}

	// Record dimensions from the first successful response.
	c.mu.Lock()
	if c.dims == 0 {
		c.dims = len(vector)
	}
	c.mu.Unlock()

	return vector, nil
}

// Dimensions returns the dimensionality of the embedding vectors.
// Returns 0 until the first successful Embed call.
func (c *OpenAIClient) Dimensions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dims
}
