// Package vectorstore defines the pluggable interface for vector databases.
// All vector compute (storage, indexing, search) happens externally; the
// Backend interface abstracts the specific vector DB implementation.
package vectorstore

import "context"

// Point is a single stored document vector with its source text.
type Point struct {
	ID     uint64
	Vector []float32
	Text   string
}

// SearchMatch represents a single search result from the vector store.
type SearchMatch struct {
	ID    uint64
	Score float32
	Text  string
}

// Backend is the pluggable interface for vector databases.
type Backend interface {
	// ListCollections returns the names of all existing collections.
	ListCollections(ctx context.Context) ([]string, error)

	// CreateCollection creates a new vector collection with the given
	// name and dimensionality, using cosine distance.
	CreateCollection(ctx context.Context, name string, dimensions int) error

	// Count returns the number of points stored in the named collection.
	Count(ctx context.Context, collection string) (uint64, error)

	// Upsert writes a point into the named collection, replacing any
	// existing point with the same ID.
	Upsert(ctx context.Context, collection string, point Point) error

	// Search performs a nearest-neighbor search in the named collection
	// and returns up to limit matches ordered by descending score.
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]SearchMatch, error)

	// Close releases any resources held by the backend.
	Close() error
}
