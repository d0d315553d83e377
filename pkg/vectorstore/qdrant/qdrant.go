// Package qdrant implements the vector store backend against the Qdrant
// HTTP API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/docqa-dev/docqa/pkg/api"
	"github.com/docqa-dev/docqa/pkg/debug"
	"github.com/docqa-dev/docqa/pkg/observability"
	"github.com/docqa-dev/docqa/pkg/vectorstore"
)

// Backend talks to a Qdrant instance over its REST API.
type Backend struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ vectorstore.Backend = (*Backend)(nil)

// New creates a Backend for the Qdrant instance at url.
func New(url string, timeout time.Duration) *Backend {
	return &Backend{
		BaseURL:    strings.TrimRight(url, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// do sends the request, records upstream metrics, and returns the response
// body when Qdrant answered 200.
func (q *Backend) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling qdrant request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating qdrant request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	debug.Log("qdrant", "qdrant request", "method", method, "url", url)

	start := time.Now()
	resp, err := q.HTTPClient.Do(req)
	observability.UpstreamLatency.WithLabelValues("qdrant").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.UpstreamRequestsTotal.WithLabelValues("qdrant", "error").Inc()
		return nil, api.NewUpstreamError(fmt.Sprintf("qdrant request failed: %v", err))
	}
	defer resp.Body.Close()

	observability.UpstreamRequestsTotal.WithLabelValues("qdrant", strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading qdrant response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, api.NewUpstreamError(fmt.Sprintf("qdrant returned status %d: %s", resp.StatusCode, string(respBody)))
	}

	debug.Trace("qdrant", "qdrant response", "body", debug.Truncate(string(respBody), 2048))
	return respBody, nil
}

type collectionsResponse struct {
	Result struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

// ListCollections returns the names of all collections.
// GET /collections
func (q *Backend) ListCollections(ctx context.Context) ([]string, error) {
	respBody, err := q.do(ctx, http.MethodGet, q.BaseURL+"/collections", nil)
	if err != nil {
		return nil, err
	}

	var parsed collectionsResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parsing collections response: %w", err)
	}

	names := make([]string, 0, len(parsed.Result.Collections))
	for _, c := range parsed.Result.Collections {
		names = append(names, c.Name)
	}
	return names, nil
}

// CreateCollection creates a new vector collection.
// PUT /collections/{name} with {"vectors": {"size": dims, "distance": "Cosine"}}
func (q *Backend) CreateCollection(ctx context.Context, name string, dimensions int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}

	url := fmt.Sprintf("%s/collections/%s", q.BaseURL, name)
	_, err := q.do(ctx, http.MethodPut, url, body)
	return err
}

type collectionInfoResponse struct {
	Result struct {
		PointsCount uint64 `json:"points_count"`
	} `json:"result"`
}

// Count returns the number of points in the named collection.
// GET /collections/{name}
func (q *Backend) Count(ctx context.Context, collection string) (uint64, error) {
	url := fmt.Sprintf("%s/collections/%s", q.BaseURL, collection)
	respBody, err := q.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	var parsed collectionInfoResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return 0, fmt.Errorf("parsing collection info response: %w", err)
	}
	return parsed.Result.PointsCount, nil
}

type upsertRequest struct {
	Points []upsertPoint `json:"points"`
}

type upsertPoint struct {
	ID      uint64         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Upsert writes a point, replacing any existing point with the same ID.
// PUT /collections/{name}/points?wait=true
func (q *Backend) Upsert(ctx context.Context, collection string, point vectorstore.Point) error {
	body := upsertRequest{
		Points: []upsertPoint{{
			ID:      point.ID,
			Vector:  point.Vector,
			Payload: map[string]any{"content": point.Text},
		}},
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", q.BaseURL, collection)
	_, err := q.do(ctx, http.MethodPut, url, body)
	return err
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []searchResult `json:"result"`
}

type searchResult struct {
	ID      uint64         `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// Search performs a nearest-neighbor search in the named collection.
// POST /collections/{name}/points/search
func (q *Backend) Search(ctx context.Context, collection string, vector []float32, limit int) ([]vectorstore.SearchMatch, error) {
	body := searchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", q.BaseURL, collection)
	respBody, err := q.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	matches := make([]vectorstore.SearchMatch, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		match := vectorstore.SearchMatch{
			ID:    r.ID,
			Score: r.Score,
		}
		if content, ok := r.Payload["content"].(string); ok {
			match.Text = content
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// Close is a no-op; the backend holds no persistent connections.
func (q *Backend) Close() error {
	return nil
}
