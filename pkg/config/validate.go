package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	if c.Qdrant.URL == "" {
		errs = append(errs, fmt.Errorf("qdrant.url is required"))
	}
	if c.Qdrant.Collection == "" {
		errs = append(errs, fmt.Errorf("qdrant.collection is required"))
	}
	if c.Qdrant.Dimensions <= 0 {
		errs = append(errs, fmt.Errorf("qdrant.dimensions must be > 0, got %d", c.Qdrant.Dimensions))
	}

	if c.OpenAI.BaseURL == "" {
		errs = append(errs, fmt.Errorf("openai.base_url is required"))
	}

	if c.Auth.SecretKey == "" && c.Auth.SecretKeyFile == "" {
		errs = append(errs, fmt.Errorf("auth.secret_key or auth.secret_key_file is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be > 0, got %s", c.Auth.TokenTTL))
	}

	switch c.Users.Store {
	case "file", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("users.store must be \"file\" or \"postgres\", got %q", c.Users.Store))
	}
	if c.Users.Store == "file" && c.Users.File == "" {
		errs = append(errs, fmt.Errorf("users.file is required when users.store is \"file\""))
	}
	if c.Users.Store == "postgres" {
		if c.Users.Postgres.DSN == "" && c.Users.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("users.postgres.dsn or users.postgres.dsn_file is required when users.store is \"postgres\""))
		}
	}

	if c.Search.MaxPromptLength <= 0 {
		errs = append(errs, fmt.Errorf("search.max_prompt_length must be > 0, got %d", c.Search.MaxPromptLength))
	}
	if !strings.Contains(c.Search.PromptTemplate, "{question}") || !strings.Contains(c.Search.PromptTemplate, "{content}") {
		errs = append(errs, fmt.Errorf("search.prompt_template must contain {question} and {content} placeholders"))
	}

	return errors.Join(errs...)
}
