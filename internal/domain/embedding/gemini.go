package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "text-embedding-004"

// GeminiEmbedder embeds text with the Gemini API.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	dim    int
}

// GeminiOption configures the Gemini client.
type GeminiOption func(*genai.ClientConfig)

// WithGeminiBaseURL points the client at another endpoint, such as a proxy.
func WithGeminiBaseURL(url string) GeminiOption {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = url
	}
}

// WithGeminiHTTPClient overrides the HTTP client.
func WithGeminiHTTPClient(hc *http.Client) GeminiOption {
	return func(c *genai.ClientConfig) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// NewGeminiEmbedder creates a client for the Gemini API backend and learns the
// model's dimension by embedding the empty string once.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*GeminiEmbedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", ErrEmbed)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: create genai client: %w", ErrEmbed, err)
	}

	g := &GeminiEmbedder{client: client, model: model}
	probe, err := g.Embed(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("gemini probe: %w", err)
	}
	if len(probe) == 0 {
		return nil, fmt.Errorf("%w: gemini returned an empty embedding", ErrEmbed)
	}
	g.dim = len(probe)
	return g, nil
}

// Embed implements Embedder.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	resp, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %w", ErrEmbed, err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("%w: gemini returned no embeddings", ErrEmbed)
	}
	values := resp.Embeddings[0].Values
	out := make(Vector, len(values))
	copy(out, values)
	return out, nil
}

// Dimension implements Embedder.
func (g *GeminiEmbedder) Dimension() int { return g.dim }
