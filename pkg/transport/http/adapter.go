// Package http serves the document ingestion and question answering API
// over HTTP. The Adapter routes requests to the engine and auth layers;
// the Server manages the listener lifecycle.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/docqa-dev/docqa/pkg/api"
	"github.com/docqa-dev/docqa/pkg/auth"
	"github.com/docqa-dev/docqa/pkg/auth/token"
	"github.com/docqa-dev/docqa/pkg/engine"
	"github.com/docqa-dev/docqa/pkg/transport"
	"github.com/docqa-dev/docqa/pkg/users"
)

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize     int64
	MaxPromptLength int
	EnableMetrics   bool
	MetricsPath     string
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize:     10 << 20, // 10 MB
		MaxPromptLength: 512,
		EnableMetrics:   true,
		MetricsPath:     "/metrics",
	}
}

// Adapter routes API requests to the engine and auth layers and
// serializes responses.
type Adapter struct {
	engine *engine.Engine
	store  users.Store
	issuer *token.Issuer
	config Config
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewAdapter creates an HTTP adapter wired to the engine, user store, and
// token issuer.
func NewAdapter(eng *engine.Engine, store users.Store, issuer *token.Issuer, cfg Config, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		engine: eng,
		store:  store,
		issuer: issuer,
		config: cfg,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	a.mux.HandleFunc("GET /{$}", a.handleHome)
	a.mux.HandleFunc("GET /healthz", a.handleHealthz)
	a.mux.HandleFunc("POST /token", a.handleToken)
	a.mux.HandleFunc("POST /upload/", a.handleUpload)
	a.mux.HandleFunc("GET /search/{prompt}", a.handleSearch)
	if cfg.EnableMetrics {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		a.mux.Handle("GET "+path, promhttp.Handler())
	}

	return a
}

// Handler returns the adapter's http.Handler without any middleware
// applied. Use this to integrate with an http.Server or test with httptest.
func (a *Adapter) Handler() http.Handler {
	return a.mux
}

// handleHome serves the unauthenticated service banner.
func (a *Adapter) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.HomeResponse{
		Service: "docqa",
		Message: "document question answering service",
	})
}

// handleHealthz reports liveness.
func (a *Adapter) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleToken exchanges form-encoded username/password credentials for a
// bearer token.
func (a *Adapter) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		transport.WriteAPIError(w, api.NewInvalidRequestError("", "malformed form body"))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		transport.WriteAPIError(w, api.NewInvalidRequestError("username", "username and password are required"))
		return
	}

	user, err := auth.Authenticate(r.Context(), a.store, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			transport.WriteAPIError(w, api.NewForbiddenError("account disabled"))
			return
		}
		w.Header().Set("WWW-Authenticate", "Bearer")
		transport.WriteAPIError(w, api.NewUnauthorizedError("incorrect username or password"))
		return
	}

	tok, err := a.issuer.Issue(user.Username)
	if err != nil {
		a.logger.Error("token issuance failed", "username", user.Username, "error", err)
		transport.WriteAPIError(w, api.NewServerError("could not issue token"))
		return
	}

	writeJSON(w, http.StatusOK, api.TokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
	})
}

// handleUpload ingests one multipart document. The optional id query
// parameter selects overwrite mode; 0 or absent appends.
func (a *Adapter) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var requestedID int64
	if raw := r.URL.Query().Get("id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			transport.WriteAPIError(w, api.NewInvalidRequestError("id", "document id must be an integer"))
			return
		}
		requestedID = parsed
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			transport.WriteAPIError(w, api.NewInvalidRequestError("file", "request body too large"))
			return
		}
		transport.WriteAPIError(w, api.NewInvalidRequestError("file", "multipart file field is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		transport.WriteAPIError(w, api.NewInvalidRequestError("file", "could not read uploaded file"))
		return
	}

	result, err := a.engine.Ingest(r.Context(), header.Filename, content, requestedID)
	if err != nil {
		a.writeIngestError(w, r, header.Filename, err)
		return
	}

	writeJSON(w, http.StatusOK, api.UploadResponse{
		Filename: header.Filename,
		Outcome:  string(result.Outcome),
		ID:       result.ID,
	})
}

// writeIngestError renders ingestion failures. Request-shape problems keep
// their specific type; everything downstream of validation collapses into
// a single processing error naming the file, with the underlying cause
// logged.
func (a *Adapter) writeIngestError(w http.ResponseWriter, r *http.Request, filename string, err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Type {
		case api.ErrorTypeInvalidRequest, api.ErrorTypeUnsupportedFormat:
			transport.WriteAPIError(w, apiErr)
			return
		}
	}

	a.logger.Error("document ingestion failed",
		"filename", filename,
		"error", err,
		"request_id", transport.RequestIDFromContext(r.Context()))
	transport.WriteAPIError(w, api.NewProcessingError(fmt.Sprintf("there was an error processing the file %s", filename)))
}

// handleSearch answers a question against the indexed documents.
func (a *Adapter) handleSearch(w http.ResponseWriter, r *http.Request) {
	prompt := r.PathValue("prompt")
	if prompt == "" {
		transport.WriteAPIError(w, api.NewInvalidRequestError("prompt", "prompt must not be empty"))
		return
	}
	if a.config.MaxPromptLength > 0 && len(prompt) > a.config.MaxPromptLength {
		transport.WriteAPIError(w, api.NewInvalidRequestError("prompt",
			fmt.Sprintf("prompt exceeds maximum length of %d", a.config.MaxPromptLength)))
		return
	}

	answer, err := a.engine.Answer(r.Context(), prompt)
	if err != nil {
		var apiErr *api.APIError
		if !errors.As(err, &apiErr) {
			a.logger.Error("answer flow failed", "error", err)
			apiErr = api.NewServerError("internal server error")
		}
		transport.WriteAPIError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, api.AnswerResponse{Answer: answer})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
