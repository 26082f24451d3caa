// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DatabaseEngine identifies a supported database backend.
type DatabaseEngine string

const (
	EngineSQLite   DatabaseEngine = "sqlite"
	EnginePostgres DatabaseEngine = "postgres"
	EngineDuckDB   DatabaseEngine = "duckdb"
)

// DatabaseConfig holds settings for the database adapter.
type DatabaseConfig struct {
	// Engine selects the backend: sqlite, postgres, or duckdb.
	Engine DatabaseEngine `json:"engine" yaml:"engine"`

	// DSN is the driver connection string: a file path for sqlite and
	// duckdb, a postgres:// URL for postgres.
	DSN string `json:"dsn" yaml:"dsn"`
}

// LLMProvider identifies a supported language-model backend.
type LLMProvider string

const (
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
	ProviderOllama    LLMProvider = "ollama"
)

// LLMConfig holds shared settings for the language-model adapter.
type LLMConfig struct {
	// Provider selects the backend: openai, anthropic, or ollama.
	Provider LLMProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o-mini",
	// "claude-sonnet-4-5-20250929", "llama3").
	Model string `json:"model" yaml:"model"`

	// BaseURL overrides the provider's API endpoint. Required for openai
	// when pointing at an OpenAI-compatible server, optional otherwise.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is the authentication key for the provider API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature controls generation randomness (default 0.1).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens bounds the generated response length (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the HTTP request timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// EmbeddingConfig holds settings for semantic retrieval. When Model is
// empty the store falls back to keyword-only retrieval.
type EmbeddingConfig struct {
	// Model is the embedding model identifier (e.g. "text-embedding-3-small").
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
}

// StoreConfig holds settings for the retrieval store.
type StoreConfig struct {
	// Dir is the directory holding the store database (default "store").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default number of items retrieved per kind (default 2).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// HybridAlpha weights semantic scores against keyword scores when both
	// are available (default 0.5).
	HybridAlpha float64 `json:"hybrid_alpha" yaml:"hybrid_alpha"`
}

// Config groups all component configurations.
type Config struct {
	Database  DatabaseConfig  `json:"database" yaml:"database"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
