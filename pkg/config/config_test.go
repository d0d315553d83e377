package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// minimalYAML is a config with just the required fields set.
const minimalYAML = `
qdrant:
  url: http://localhost:6333
  collection: documents
openai:
  base_url: https://api.openai.com
auth:
  secret_key: test-secret
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Qdrant.Dimensions != 1536 {
		t.Errorf("default dimensions = %d, want 1536", cfg.Qdrant.Dimensions)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Errorf("default token TTL = %s, want 15m", cfg.Auth.TokenTTL)
	}
	if cfg.Users.Store != "file" {
		t.Errorf("default users store = %q, want \"file\"", cfg.Users.Store)
	}
	if cfg.Search.MaxPromptLength != 512 {
		t.Errorf("default max prompt length = %d, want 512", cfg.Search.MaxPromptLength)
	}
	if !strings.Contains(cfg.Search.PromptTemplate, "{question}") {
		t.Errorf("default prompt template missing {question}: %q", cfg.Search.PromptTemplate)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalYAML+`
server:
  port: 9090
search:
  max_prompt_length: 100
`))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Search.MaxPromptLength != 100 {
		t.Errorf("max prompt length = %d, want 100", cfg.Search.MaxPromptLength)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	t.Setenv("DOCQA_PORT", "7070")
	t.Setenv("DOCQA_QDRANT_COLLECTION", "from-env")

	cfg, err := Load(writeConfigFile(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070 from env", cfg.Server.Port)
	}
	if cfg.Qdrant.Collection != "from-env" {
		t.Errorf("collection = %q, want \"from-env\"", cfg.Qdrant.Collection)
	}
}

func TestLoadResolvesFileReferences(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret")
	if err := os.WriteFile(secretPath, []byte("  file-secret \n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	cfg, err := Load(writeConfigFile(t, `
qdrant:
  url: http://localhost:6333
  collection: documents
openai:
  base_url: https://api.openai.com
auth:
  secret_key_file: `+secretPath+`
`))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Auth.SecretKey != "file-secret" {
		t.Errorf("secret key = %q, want trimmed file content", cfg.Auth.SecretKey)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "missing qdrant url",
			mutate: func(c *Config) { c.Qdrant.URL = "" },
			want:   "qdrant.url",
		},
		{
			name:   "missing collection",
			mutate: func(c *Config) { c.Qdrant.Collection = "" },
			want:   "qdrant.collection",
		},
		{
			name:   "missing secret key",
			mutate: func(c *Config) { c.Auth.SecretKey = "" },
			want:   "auth.secret_key",
		},
		{
			name:   "unknown users store",
			mutate: func(c *Config) { c.Users.Store = "redis" },
			want:   "users.store",
		},
		{
			name:   "template missing placeholder",
			mutate: func(c *Config) { c.Search.PromptTemplate = "no placeholders" },
			want:   "prompt_template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Qdrant.URL = "http://localhost:6333"
			cfg.Qdrant.Collection = "documents"
			cfg.OpenAI.BaseURL = "https://api.openai.com"
			cfg.Auth.SecretKey = "s"

			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDiscoverConfigFileEnvVar(t *testing.T) {
	path := writeConfigFile(t, minimalYAML)
	t.Setenv("DOCQA_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Qdrant.Collection != "documents" {
		t.Errorf("collection = %q, want \"documents\" from DOCQA_CONFIG file", cfg.Qdrant.Collection)
	}
}
