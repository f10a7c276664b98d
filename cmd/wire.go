package main

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/okian/careerpath/internal/adapters/mq/worker"
	"github.com/okian/careerpath/internal/adapters/source"
	service "github.com/okian/careerpath/internal/app"
	"github.com/okian/careerpath/internal/config"
	"github.com/okian/careerpath/internal/domain/embedding"
	"github.com/okian/careerpath/pkg/logger"
)

// buildEmbedder returns the configured embedding backend. Remote backends are
// rate limited, serialized behind a bounded queue and memoized, with the
// cache outermost so repeated text never waits in the queue.
func buildEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	var remote embedding.Embedder
	switch strings.ToLower(cfg.Embedder) {
	case config.EmbedderHash:
		return embedding.NewHashEmbedder(cfg.EmbeddingDim), nil
	case config.EmbedderOllama:
		o, err := embedding.NewOllamaEmbedder(ctx, cfg.OllamaURL, cfg.OllamaModel)
		if err != nil {
			return nil, fmt.Errorf("ollama embedder: %w", err)
		}
		remote = o
	case config.EmbedderGemini:
		g, err := embedding.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel,
			embedding.WithGeminiBaseURL(cfg.GeminiBaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("gemini embedder: %w", err)
		}
		remote = g
	default:
		return nil, fmt.Errorf("%w: unknown embedder %q", config.ErrInvalidConfig, cfg.Embedder)
	}

	if cfg.EmbedRateLimit > 0 {
		remote = embedding.RateLimited(remote, rate.NewLimiter(rate.Limit(cfg.EmbedRateLimit), cfg.EmbedBurst))
	}
	pool := worker.Serialized(remote,
		worker.WithWorkers(cfg.EmbedWorkers),
		worker.WithQueueCapacity(cfg.EmbedQueueSize),
		worker.WithPoolLogger(logger.Named("embed-pool")),
	)
	return embedding.Cached(pool, embedding.WithMaxEntries(cfg.EmbedCacheSize)), nil
}

// newService wires the recommendation service from configuration. The caller
// owns Start and Stop.
func newService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	emb, err := buildEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opener := source.New(
		source.WithS3Region(cfg.S3Region),
		source.WithS3Endpoint(cfg.S3Endpoint),
		source.WithLogger(logger.Named("source")),
	)

	return service.New(
		service.WithLogger(logger.Named("service")),
		service.WithCatalogSource(cfg.CatalogSource),
		service.WithOpener(opener),
		service.WithEmbedder(emb),
		service.WithDefaultTopN(cfg.DefaultTopN),
	), nil
}

// startService builds and starts a service for one-shot commands.
func startService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	svc, err := newService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}
