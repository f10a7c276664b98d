package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaTimeout = 30 * time.Second

// OllamaEmbedder calls an Ollama server's /api/embeddings endpoint.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
	dim     int
}

// OllamaOption configures an OllamaEmbedder.
type OllamaOption func(*OllamaEmbedder)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) OllamaOption {
	return func(o *OllamaEmbedder) {
		if c != nil {
			o.client = c
		}
	}
}

type ollamaEmbedReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResp struct {
	Embedding []float64 `json:"embedding"`
}

// NewOllamaEmbedder connects to baseURL and learns the model's dimension by
// embedding the empty string once.
func NewOllamaEmbedder(ctx context.Context, baseURL, model string, opts ...OllamaOption) (*OllamaEmbedder, error) {
	o := &OllamaEmbedder{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: defaultOllamaTimeout},
	}
	for _, opt := range opts {
		opt(o)
	}

	probe, err := o.embed(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("ollama probe: %w", err)
	}
	if len(probe) == 0 {
		return nil, fmt.Errorf("%w: ollama returned an empty embedding", ErrEmbed)
	}
	o.dim = len(probe)
	return o, nil
}

// Embed implements Embedder.
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	return o.embed(ctx, text)
}

// Dimension implements Embedder.
func (o *OllamaEmbedder) Dimension() int { return o.dim }

func (o *OllamaEmbedder) embed(ctx context.Context, text string) (Vector, error) {
	body, err := json.Marshal(ollamaEmbedReq{Model: o.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", ErrEmbed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %w", ErrEmbed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ollama status %d", ErrEmbed, resp.StatusCode)
	}

	var result ollamaEmbedResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: ollama decode: %w", ErrEmbed, err)
	}

	out := make(Vector, len(result.Embedding))
	for i, v := range result.Embedding {
		out[i] = float32(v)
	}
	return out, nil
}
