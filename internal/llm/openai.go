// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/sqlmind/internal/httputil"
	"github.com/pdiddy/sqlmind/pkg/types"
)

// defaultOpenAIBase is the hosted OpenAI endpoint; cfg.BaseURL points the
// client at any OpenAI-compatible server instead.
const defaultOpenAIBase = "https://api.openai.com/v1"

// OpenAI calls an OpenAI-compatible chat completions API. It also serves
// as the Embedder for semantic retrieval.
type OpenAI struct {
	baseURL        string
	apiKey         string
	model          string
	embeddingModel string
	temperature    float64
	maxTokens      int
	maxRetries     int
	client         *http.Client
}

// NewOpenAI builds a client from cfg. An API key is required unless the
// base URL targets a local server.
func NewOpenAI(cfg types.LLMConfig) (*OpenAI, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultOpenAIBase
	}
	if cfg.APIKey == "" && base == defaultOpenAIBase {
		return nil, fmt.Errorf("openai API key is required")
	}
	return &OpenAI{
		baseURL:     base,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: temperature(cfg),
		maxTokens:   maxTokens(cfg),
		maxRetries:  cfg.MaxRetries,
		client:      httpClient(cfg),
	}, nil
}

// WithEmbeddingModel sets the model used for Embeddings.
func (o *OpenAI) WithEmbeddingModel(model string) *OpenAI {
	o.embeddingModel = model
	return o
}

func (o *OpenAI) Name() string { return "openai" }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate submits prompt to the chat completions endpoint.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	reqBody := openAIChatRequest{
		Model:       o.model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	}
	var parsed openAIChatResponse
	if err := o.post(ctx, "/chat/completions", reqBody, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

type openAIEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embeddings submits inputs to the embeddings endpoint.
func (o *OpenAI) Embeddings(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	model := o.embeddingModel
	if model == "" {
		model = "text-embedding-3-small"
	}

	var parsed openAIEmbeddingResponse
	if err := o.post(ctx, "/embeddings", openAIEmbeddingRequest{Model: model, Input: inputs}, &parsed); err != nil {
		return nil, err
	}
	vecs := make([][]float32, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		vecs = append(vecs, d.Embedding)
	}
	return vecs, nil
}

// post sends a JSON request to path and decodes the JSON response into out.
func (o *OpenAI) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, o.client, req, o.maxRetries)
	if err != nil {
		return fmt.Errorf("calling openai API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openai API returned %d: %s", resp.StatusCode, string(data))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding openai response: %w", err)
	}
	return nil
}
