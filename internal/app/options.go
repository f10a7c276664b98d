package service

import (
	"github.com/okian/careerpath/internal/domain/embedding"
	"github.com/okian/careerpath/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalogSource sets the catalog file path or s3:// URL.
func WithCatalogSource(src string) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithOpener replaces the component that resolves the catalog source.
func WithOpener(o Opener) Option {
	return func(s *Service) {
		if o != nil {
			s.opener = o
		}
	}
}

// WithEmbedder sets the embedding backend. If it has Start and Stop methods,
// the service runs them with its own lifecycle.
func WithEmbedder(e embedding.Embedder) Option {
	return func(s *Service) {
		if e != nil {
			s.embedder = e
		}
	}
}

// WithDefaultTopN sets how many results a query without TopN returns.
func WithDefaultTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultTopN = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
