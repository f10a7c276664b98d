// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and environment variables on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Embedder backends.
const (
	EmbedderHash   = "hash"
	EmbedderOllama = "ollama"
	EmbedderGemini = "gemini"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// CatalogSource is a CSV file path or an s3://bucket/key URL.
	CatalogSource string `koanf:"catalog_source"`

	// S3Region and S3Endpoint apply to s3:// catalog sources. The endpoint
	// is only needed for S3-compatible stores.
	S3Region   string `koanf:"s3_region"`
	S3Endpoint string `koanf:"s3_endpoint"`

	// Embedder selects the backend: hash, ollama or gemini.
	Embedder string `koanf:"embedder"`

	// EmbeddingDim is the vector size of the hash embedder. Remote backends
	// report their own.
	EmbeddingDim int `koanf:"embedding_dim"`

	OllamaURL    string `koanf:"ollama_url"`
	OllamaModel  string `koanf:"ollama_model"`
	GeminiModel  string `koanf:"gemini_model"`
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiBaseURL overrides the Gemini API endpoint, e.g. for a proxy.
	GeminiBaseURL string `koanf:"gemini_base_url"`

	// EmbedRateLimit caps remote embedding calls per second; 0 disables it.
	EmbedRateLimit float64 `koanf:"embed_rate_limit"`
	EmbedBurst     int     `koanf:"embed_burst"`

	// EmbedWorkers and EmbedQueueSize size the queue in front of remote
	// backends.
	EmbedWorkers   int `koanf:"embed_workers"`
	EmbedQueueSize int `koanf:"embed_queue_size"`

	// EmbedCacheSize bounds the memoized texts of remote backends. Texts are
	// evicted least recently used first.
	EmbedCacheSize int `koanf:"embed_cache_size"`

	// DefaultTopN is used when a request does not give top_n.
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN caps ?top_n on the HTTP API.
	MaxTopN int `koanf:"max_top_n"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":8000",
		CatalogSource:  "data/career_path_dataset.csv",
		Embedder:       EmbedderHash,
		EmbeddingDim:   384,
		OllamaURL:      "http://localhost:11434",
		OllamaModel:    "nomic-embed-text",
		GeminiModel:    "text-embedding-004",
		EmbedRateLimit: 0,
		EmbedBurst:     1,
		EmbedWorkers:   1,
		EmbedQueueSize: 64,
		EmbedCacheSize: 4096,
		DefaultTopN:    3,
		MaxTopN:        50,
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.CatalogSource) == "" {
		return fmt.Errorf("%w: catalog_source must not be empty", ErrInvalidConfig)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}

	switch strings.ToLower(c.Embedder) {
	case EmbedderHash:
		if c.EmbeddingDim < 1 {
			return fmt.Errorf("%w: embedding_dim must be positive", ErrInvalidConfig)
		}
	case EmbedderOllama:
		if strings.TrimSpace(c.OllamaURL) == "" || strings.TrimSpace(c.OllamaModel) == "" {
			return fmt.Errorf("%w: ollama_url and ollama_model are required for the ollama embedder", ErrInvalidConfig)
		}
	case EmbedderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return fmt.Errorf("%w: gemini_api_key is required for the gemini embedder", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown embedder %q", ErrInvalidConfig, c.Embedder)
	}

	if c.EmbedRateLimit < 0 {
		return fmt.Errorf("%w: embed_rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.EmbedRateLimit > 0 && c.EmbedBurst < 1 {
		return fmt.Errorf("%w: embed_burst must be at least 1 when rate limiting", ErrInvalidConfig)
	}
	if c.EmbedWorkers < 1 || c.EmbedQueueSize < 1 {
		return fmt.Errorf("%w: embed_workers and embed_queue_size must be positive", ErrInvalidConfig)
	}
	if c.EmbedCacheSize < 1 {
		return fmt.Errorf("%w: embed_cache_size must be positive", ErrInvalidConfig)
	}
	if c.DefaultTopN < 1 {
		return fmt.Errorf("%w: default_top_n must be at least 1", ErrInvalidConfig)
	}
	if c.MaxTopN < c.DefaultTopN {
		return fmt.Errorf("%w: max_top_n (%d) must not be below default_top_n (%d)", ErrInvalidConfig, c.MaxTopN, c.DefaultTopN)
	}
	return nil
}
