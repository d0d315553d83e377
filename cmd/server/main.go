// Command server runs the docqa document question answering service.
//
// Configuration is loaded from a YAML file (-config flag, DOCQA_CONFIG,
// ./config.yaml, or /etc/docqa/config.yaml) with DOCQA_* environment
// variable overrides. See pkg/config for the full set of options.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/docqa-dev/docqa/pkg/auth"
	"github.com/docqa-dev/docqa/pkg/auth/token"
	"github.com/docqa-dev/docqa/pkg/config"
	"github.com/docqa-dev/docqa/pkg/debug"
	"github.com/docqa-dev/docqa/pkg/embedding"
	"github.com/docqa-dev/docqa/pkg/engine"
	"github.com/docqa-dev/docqa/pkg/provider"
	"github.com/docqa-dev/docqa/pkg/transport"
	transporthttp "github.com/docqa-dev/docqa/pkg/transport/http"
	"github.com/docqa-dev/docqa/pkg/users"
	"github.com/docqa-dev/docqa/pkg/users/file"
	"github.com/docqa-dev/docqa/pkg/users/postgres"
	"github.com/docqa-dev/docqa/pkg/vectorstore/qdrant"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// The debug package installs the default JSON logger at the level
	// selected by DOCQA_LOG_LEVEL, with DOCQA_DEBUG category filtering.
	debug.Init("", "")
	logger := slog.Default()

	// User store.
	store, err := newUserStore(cfg)
	if err != nil {
		return fmt.Errorf("creating user store: %w", err)
	}
	defer store.Close()

	// Token issuing and the bearer auth chain.
	issuer := token.NewIssuer([]byte(cfg.Auth.SecretKey), cfg.Auth.TokenTTL)
	chain := &auth.AuthChain{
		Authenticators:  []auth.Authenticator{auth.NewBearer(issuer, store)},
		DefaultDecision: auth.No,
	}

	var limiter auth.RateLimiter
	if rpm := cfg.Auth.RateLimit.RequestsPerMinute; rpm > 0 {
		limiter = auth.NewInProcessLimiter(rpm)
		logger.Info("rate limiting enabled", "requests_per_minute", rpm)
	}
	authMW := transport.Middleware(auth.Middleware(chain, limiter, auth.DefaultBypassEndpoints))

	// Upstream clients.
	embedder := embedding.NewOpenAIClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel, cfg.OpenAI.Timeout)
	backend := qdrant.New(cfg.Qdrant.URL, cfg.Qdrant.Timeout)
	defer backend.Close()
	completion := provider.NewOpenAIClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Timeout)

	eng := engine.New(embedder, backend, completion, engine.Config{
		Collection:      cfg.Qdrant.Collection,
		Dimensions:      cfg.Qdrant.Dimensions,
		CompletionModel: cfg.OpenAI.CompletionModel,
		PromptTemplate:  cfg.Search.PromptTemplate,
	}, logger)

	adapter := transporthttp.NewAdapter(eng, store, issuer, transporthttp.Config{
		MaxBodySize:     cfg.Server.MaxBodySize,
		MaxPromptLength: cfg.Search.MaxPromptLength,
		EnableMetrics:   cfg.Observability.Metrics.Enabled,
		MetricsPath:     cfg.Observability.Metrics.Path,
	}, logger)

	srv := transporthttp.NewServer(adapter, authMW,
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithReadTimeout(cfg.Server.ReadTimeout),
		transporthttp.WithWriteTimeout(cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(logger),
	)

	logger.Info("starting docqa",
		"port", cfg.Server.Port,
		"qdrant", cfg.Qdrant.URL,
		"collection", cfg.Qdrant.Collection,
		"users_store", cfg.Users.Store,
	)
	return srv.ListenAndServe()
}

// newUserStore constructs the user store selected by the configuration.
func newUserStore(cfg *config.Config) (users.Store, error) {
	switch cfg.Users.Store {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Users.Postgres.DSN,
			MaxConns:       cfg.Users.Postgres.MaxConns,
			MigrateOnStart: cfg.Users.Postgres.MigrateOnStart,
		})
	default:
		return file.New(cfg.Users.File)
	}
}
