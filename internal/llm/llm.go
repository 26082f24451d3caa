// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps language-model backends behind a uniform generate
// call. Backends share the retrying HTTP transport from internal/httputil
// so tests can substitute httptest servers via config base URLs.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// ErrEmptyPrompt is returned when Generate is called without a prompt.
var ErrEmptyPrompt = fmt.Errorf("prompt cannot be empty")

const (
	defaultTemperature = 0.1
	defaultMaxTokens   = 1024
	defaultTimeout     = 60 * time.Second
)

// Provider generates a completion for a prompt.
type Provider interface {
	// Name returns the backend identifier.
	Name() string

	// Generate submits prompt and returns the model's text response.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder produces embedding vectors for retrieval.
type Embedder interface {
	Embeddings(ctx context.Context, inputs []string) ([][]float32, error)
}

// New builds the provider selected by cfg.Provider.
func New(cfg types.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case types.ProviderOpenAI:
		return NewOpenAI(cfg)
	case types.ProviderAnthropic:
		return NewAnthropic(cfg)
	case types.ProviderOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// httpClient builds the shared client honoring the configured timeout.
func httpClient(cfg types.LLMConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// temperature returns the configured sampling temperature or the default.
func temperature(cfg types.LLMConfig) float64 {
	if cfg.Temperature > 0 {
		return cfg.Temperature
	}
	return defaultTemperature
}

// maxTokens returns the configured response budget or the default.
func maxTokens(cfg types.LLMConfig) int {
	if cfg.MaxTokens > 0 {
		return cfg.MaxTokens
	}
	return defaultMaxTokens
}
