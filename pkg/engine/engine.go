// Package engine implements the document ingestion and question answering
// flows on top of the extraction, embedding, vector store, and completion
// layers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/docqa-dev/docqa/pkg/api"
	"github.com/docqa-dev/docqa/pkg/embedding"
	"github.com/docqa-dev/docqa/pkg/extract"
	"github.com/docqa-dev/docqa/pkg/observability"
	"github.com/docqa-dev/docqa/pkg/provider"
	"github.com/docqa-dev/docqa/pkg/vectorstore"
)

// Outcome describes what an ingestion did to the index.
type Outcome string

const (
	// OutcomeCreated means the document was stored under a fresh ID.
	OutcomeCreated Outcome = "created"
	// OutcomeUpdated means an existing document was replaced in place.
	OutcomeUpdated Outcome = "updated"
)

// IngestResult reports the outcome of a single document ingestion.
type IngestResult struct {
	Outcome Outcome
	ID      uint64
}

// Config carries the engine's tunables.
type Config struct {
	Collection      string
	Dimensions      int
	CompletionModel string
	PromptTemplate  string
}

// Engine composes the extraction, embedding, vector store, and completion
// layers into the ingestion and answer flows.
type Engine struct {
	embedder   embedding.Client
	store      vectorstore.Backend
	completion provider.Client
	cfg        Config
	logger     *slog.Logger

	// appendMu serializes count-then-write ID assignment so concurrent
	// appends cannot observe the same count.
	appendMu sync.Mutex
}

// New creates an Engine from its collaborators.
func New(embedder embedding.Client, store vectorstore.Backend, completion provider.Client, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		embedder:   embedder,
		store:      store,
		completion: completion,
		cfg:        cfg,
		logger:     logger,
	}
}

// Ingest extracts, embeds, and stores one document. A requestedID of 0
// appends the document under the next free ID; a positive requestedID
// replaces the document stored under that ID.
func (e *Engine) Ingest(ctx context.Context, filename string, content []byte, requestedID int64) (*IngestResult, error) {
	if requestedID < 0 {
		return nil, api.NewInvalidRequestError("id", "document id must not be negative")
	}
	if !extract.IsSupported(filename) {
		return nil, api.NewUnsupportedFormatError(fmt.Sprintf("unsupported file type: %s", filename))
	}

	text, err := extract.Text(content)
	if err != nil {
		if errors.Is(err, extract.ErrNotDocx) {
			return nil, api.NewUnsupportedFormatError(fmt.Sprintf("%s is not a valid docx document", filename))
		}
		return nil, fmt.Errorf("extracting text from %s: %w", filename, err)
	}
	if text == "" {
		return nil, api.NewUnsupportedFormatError(fmt.Sprintf("%s contains no extractable text", filename))
	}

	vector, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	result, err := e.storeDocument(ctx, vector, text, uint64(requestedID))
	if err != nil {
		return nil, err
	}

	observability.DocumentsIngestedTotal.WithLabelValues(string(result.Outcome)).Inc()
	e.logger.Info("document ingested",
		"filename", filename,
		"id", result.ID,
		"outcome", result.Outcome)
	return result, nil
}

// storeDocument writes the embedded document into the vector store,
// creating the collection on first use.
func (e *Engine) storeDocument(ctx context.Context, vector []float32, text string, requestedID uint64) (*IngestResult, error) {
	collections, err := e.store.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(collections, e.cfg.Collection) {
		if err := e.store.CreateCollection(ctx, e.cfg.Collection, e.cfg.Dimensions); err != nil {
			return nil, err
		}
		if err := e.store.Upsert(ctx, e.cfg.Collection, vectorstore.Point{ID: 1, Vector: vector, Text: text}); err != nil {
			return nil, err
		}
		return &IngestResult{Outcome: OutcomeCreated, ID: 1}, nil
	}

	if requestedID == 0 {
		e.appendMu.Lock()
		defer e.appendMu.Unlock()

		count, err := e.store.Count(ctx, e.cfg.Collection)
		if err != nil {
			return nil, err
		}
		id := count + 1
		if err := e.store.Upsert(ctx, e.cfg.Collection, vectorstore.Point{ID: id, Vector: vector, Text: text}); err != nil {
			return nil, err
		}
		return &IngestResult{Outcome: OutcomeCreated, ID: id}, nil
	}

	if err := e.store.Upsert(ctx, e.cfg.Collection, vectorstore.Point{ID: requestedID, Vector: vector, Text: text}); err != nil {
		return nil, err
	}
	return &IngestResult{Outcome: OutcomeUpdated, ID: requestedID}, nil
}

// Answer embeds the query, retrieves the closest document, and asks the
// completion backend to answer from it.
func (e *Engine) Answer(ctx context.Context, query string) (string, error) {
	question := extract.Normalize(query)

	vector, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return "", err
	}

	matches, err := e.store.Search(ctx, e.cfg.Collection, vector, 1)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", api.NewNotFoundError("no documents matched the question")
	}

	prompt := fillTemplate(e.cfg.PromptTemplate, question, matches[0].Text)

	answer, err := e.completion.Complete(ctx, provider.CompletionRequest{
		Model:       e.cfg.CompletionModel,
		Prompt:      prompt,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}

	e.logger.Info("question answered", "match_id", matches[0].ID, "score", matches[0].Score)
	return answer, nil
}
