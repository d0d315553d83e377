package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, DOCQA_CONFIG env, ./config.yaml, /etc/docqa/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg)

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. DOCQA_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/docqa/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	// Check DOCQA_CONFIG env var.
	if envPath := os.Getenv("DOCQA_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{
		"config.yaml",
		"/etc/docqa/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCQA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DOCQA_QDRANT_URL"); v != "" {
		cfg.Qdrant.URL = v
	}
	if v := os.Getenv("DOCQA_QDRANT_COLLECTION"); v != "" {
		cfg.Qdrant.Collection = v
	}
	if v := os.Getenv("DOCQA_OPENAI_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := os.Getenv("DOCQA_OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("DOCQA_EMBEDDING_MODEL"); v != "" {
		cfg.OpenAI.EmbeddingModel = v
	}
	if v := os.Getenv("DOCQA_COMPLETION_MODEL"); v != "" {
		cfg.OpenAI.CompletionModel = v
	}
	if v := os.Getenv("DOCQA_SECRET_KEY"); v != "" {
		cfg.Auth.SecretKey = v
	}
	if v := os.Getenv("DOCQA_TOKEN_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = ttl
		}
	}
	if v := os.Getenv("DOCQA_USERS_STORE"); v != "" {
		cfg.Users.Store = v
	}
	if v := os.Getenv("DOCQA_USERS_FILE"); v != "" {
		cfg.Users.File = v
	}
	if v := os.Getenv("DOCQA_POSTGRES_DSN"); v != "" {
		cfg.Users.Postgres.DSN = v
	}
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// openai.api_key_file -> openai.api_key
	if cfg.OpenAI.APIKeyFile != "" && cfg.OpenAI.APIKey == "" {
		val, err := readSecretFile(cfg.OpenAI.APIKeyFile)
		if err != nil {
			return fmt.Errorf("openai.api_key_file: %w", err)
		}
		cfg.OpenAI.APIKey = val
	}

	// auth.secret_key_file -> auth.secret_key
	if cfg.Auth.SecretKeyFile != "" && cfg.Auth.SecretKey == "" {
		val, err := readSecretFile(cfg.Auth.SecretKeyFile)
		if err != nil {
			return fmt.Errorf("auth.secret_key_file: %w", err)
		}
		cfg.Auth.SecretKey = val
	}

	// users.postgres.dsn_file -> users.postgres.dsn
	if cfg.Users.Postgres.DSNFile != "" && cfg.Users.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Users.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("users.postgres.dsn_file: %w", err)
		}
		cfg.Users.Postgres.DSN = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
