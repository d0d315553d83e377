package memory

import (
	"context"
	"testing"

	"github.com/docqa-dev/docqa/pkg/vectorstore"
)

func TestCreateAndList(t *testing.T) {
	b := New()
	ctx := context.Background()

	names, err := b.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no collections, got %v", names)
	}

	if err := b.CreateCollection(ctx, "documents", 3); err != nil {
		t.Fatalf("CreateCollection() error: %v", err)
	}
	if err := b.CreateCollection(ctx, "archive", 3); err != nil {
		t.Fatalf("CreateCollection() error: %v", err)
	}

	names, err = b.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections() error: %v", err)
	}
	if len(names) != 2 || names[0] != "archive" || names[1] != "documents" {
		t.Errorf("ListCollections() = %v, want [archive documents]", names)
	}
}

func TestUpsertAndCount(t *testing.T) {
	b := New()
	ctx := context.Background()

	if _, err := b.Count(ctx, "documents"); err == nil {
		t.Error("expected error counting a missing collection")
	}

	if err := b.CreateCollection(ctx, "documents", 2); err != nil {
		t.Fatalf("CreateCollection() error: %v", err)
	}

	if err := b.Upsert(ctx, "documents", vectorstore.Point{ID: 1, Vector: []float32{1, 0}, Text: "first"}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if err := b.Upsert(ctx, "documents", vectorstore.Point{ID: 2, Vector: []float32{0, 1}, Text: "second"}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	count, err := b.Count(ctx, "documents")
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}

	// Same ID replaces, count stays flat.
	if err := b.Upsert(ctx, "documents", vectorstore.Point{ID: 2, Vector: []float32{1, 1}, Text: "replaced"}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	count, _ = b.Count(ctx, "documents")
	if count != 2 {
		t.Errorf("Count() after overwrite = %d, want 2", count)
	}
}

func TestUpsertDimensionMismatch(t *testing.T) {
	b := New()
	ctx := context.Background()

	if err := b.CreateCollection(ctx, "documents", 3); err != nil {
		t.Fatalf("CreateCollection() error: %v", err)
	}
	err := b.Upsert(ctx, "documents", vectorstore.Point{ID: 1, Vector: []float32{1, 0}, Text: "short"})
	if err == nil {
		t.Error("expected error for mismatched vector dimensions")
	}
}

func TestSearchOrdering(t *testing.T) {
	b := New()
	ctx := context.Background()

	if err := b.CreateCollection(ctx, "documents", 2); err != nil {
		t.Fatalf("CreateCollection() error: %v", err)
	}
	points := []vectorstore.Point{
		{ID: 1, Vector: []float32{1, 0}, Text: "east"},
		{ID: 2, Vector: []float32{0, 1}, Text: "north"},
		{ID: 3, Vector: []float32{0.9, 0.1}, Text: "mostly east"},
	}
	for _, p := range points {
		if err := b.Upsert(ctx, "documents", p); err != nil {
			t.Fatalf("Upsert() error: %v", err)
		}
	}

	matches, err := b.Search(ctx, "documents", []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != 1 || matches[0].Text != "east" {
		t.Errorf("best match = %+v, want id 1 (east)", matches[0])
	}
	if matches[1].ID != 3 {
		t.Errorf("second match = %+v, want id 3 (mostly east)", matches[1])
	}
	if matches[0].Score < matches[1].Score {
		t.Error("matches not ordered by descending score")
	}
}

func TestSearchEmptyCollection(t *testing.T) {
	b := New()
	ctx := context.Background()

	if err := b.CreateCollection(ctx, "documents", 2); err != nil {
		t.Fatalf("CreateCollection() error: %v", err)
	}
	matches, err := b.Search(ctx, "documents", []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %v", matches)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("cosineSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}
}
