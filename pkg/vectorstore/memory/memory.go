// Package memory implements an in-process vector store backend. It is
// intended for tests and local development; search is a brute-force
// cosine-similarity scan.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/docqa-dev/docqa/pkg/vectorstore"
)

// Backend stores points in process memory.
type Backend struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	dimensions int
	points     map[uint64]vectorstore.Point
}

var _ vectorstore.Backend = (*Backend)(nil)

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{collections: make(map[string]*collection)}
}

// ListCollections returns the names of all collections in sorted order.
func (b *Backend) ListCollections(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.collections))
	for name := range b.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateCollection creates a new collection. Creating an existing
// collection resets it, matching Qdrant's PUT semantics.
func (b *Backend) CreateCollection(ctx context.Context, name string, dimensions int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.collections[name] = &collection{
		dimensions: dimensions,
		points:     make(map[uint64]vectorstore.Point),
	}
	return nil
}

// Count returns the number of points in the named collection.
func (b *Backend) Count(ctx context.Context, name string) (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	col, ok := b.collections[name]
	if !ok {
		return 0, fmt.Errorf("collection %q does not exist", name)
	}
	return uint64(len(col.points)), nil
}

// Upsert writes a point, replacing any existing point with the same ID.
func (b *Backend) Upsert(ctx context.Context, name string, point vectorstore.Point) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	col, ok := b.collections[name]
	if !ok {
		return fmt.Errorf("collection %q does not exist", name)
	}
	if col.dimensions > 0 && len(point.Vector) != col.dimensions {
		return fmt.Errorf("vector has %d dimensions, collection %q expects %d", len(point.Vector), name, col.dimensions)
	}

	vec := make([]float32, len(point.Vector))
	copy(vec, point.Vector)
	col.points[point.ID] = vectorstore.Point{ID: point.ID, Vector: vec, Text: point.Text}
	return nil
}

// Search scans all points and returns up to limit matches ordered by
// descending cosine similarity.
func (b *Backend) Search(ctx context.Context, name string, vector []float32, limit int) ([]vectorstore.SearchMatch, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	col, ok := b.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", name)
	}

	matches := make([]vectorstore.SearchMatch, 0, len(col.points))
	for _, p := range col.points {
		matches = append(matches, vectorstore.SearchMatch{
			ID:    p.ID,
			Score: cosineSimilarity(vector, p.Vector),
			Text:  p.Text,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Close is a no-op.
func (b *Backend) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
