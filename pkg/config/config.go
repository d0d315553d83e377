// Package config provides unified configuration for the docqa service.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (DOCQA_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the docqa service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Qdrant        QdrantConfig        `yaml:"qdrant"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Auth          AuthConfig          `yaml:"auth"`
	Users         UsersConfig         `yaml:"users"`
	Search        SearchConfig        `yaml:"search"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 120s
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 10 MB
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// QdrantConfig holds vector store connection settings.
type QdrantConfig struct {
	URL        string        `yaml:"url"`        // required
	Collection string        `yaml:"collection"` // required
	Dimensions int           `yaml:"dimensions"` // default: 1536
	Timeout    time.Duration `yaml:"timeout"`    // default: 15s
}

// OpenAIConfig holds settings for the embedding and completion backends.
// Both calls go through one OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL         string        `yaml:"base_url"`         // required
	APIKey          string        `yaml:"api_key"`          // optional
	APIKeyFile      string        `yaml:"api_key_file"`     // _file variant for api_key
	EmbeddingModel  string        `yaml:"embedding_model"`  // default: "text-embedding-ada-002"
	CompletionModel string        `yaml:"completion_model"` // default: "gpt-3.5-turbo"
	Timeout         time.Duration `yaml:"timeout"`          // default: 60s
}

// AuthConfig holds token signing and rate limit settings.
type AuthConfig struct {
	SecretKey     string          `yaml:"secret_key"`      // required (or secret_key_file)
	SecretKeyFile string          `yaml:"secret_key_file"` // _file variant for secret_key
	TokenTTL      time.Duration   `yaml:"token_ttl"`       // default: 15m
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig holds per-subject request rate limits.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"` // 0 disables limiting
}

// UsersConfig selects and configures the user store backing authentication.
type UsersConfig struct {
	Store    string         `yaml:"store"` // "file" or "postgres", default: "file"
	File     string         `yaml:"file"`  // path to the JSON user file, default: "users.json"
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings for the user store.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 10
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// SearchConfig holds query handling settings.
type SearchConfig struct {
	MaxPromptLength int    `yaml:"max_prompt_length"` // default: 512
	PromptTemplate  string `yaml:"prompt_template"`   // must contain {question} and {content}
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DefaultPromptTemplate is used when search.prompt_template is not set.
const DefaultPromptTemplate = "Answer the question using only the content below.\n\nContent:\n{content}\n\nQuestion: {question}\nAnswer:"

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			MaxBodySize:     10 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Qdrant: QdrantConfig{
			Dimensions: 1536,
			Timeout:    15 * time.Second,
		},
		OpenAI: OpenAIConfig{
			EmbeddingModel:  "text-embedding-ada-002",
			CompletionModel: "gpt-3.5-turbo",
			Timeout:         60 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 15 * time.Minute,
		},
		Users: UsersConfig{
			Store: "file",
			File:  "users.json",
			Postgres: PostgresConfig{
				MaxConns: 10,
			},
		},
		Search: SearchConfig{
			MaxPromptLength: 512,
			PromptTemplate:  DefaultPromptTemplate,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
