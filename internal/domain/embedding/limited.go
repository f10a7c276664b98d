package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited makes every call to next wait for a token from limiter. It is
// meant for remote backends with request quotas.
func RateLimited(next Embedder, limiter *rate.Limiter) Embedder {
	if limiter == nil {
		return next
	}
	return &limited{next: next, limiter: limiter}
}

type limited struct {
	next    Embedder
	limiter *rate.Limiter
}

func (l *limited) Embed(ctx context.Context, text string) (Vector, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", ErrEmbed, err)
	}
	return l.next.Embed(ctx, text)
}

func (l *limited) Dimension() int { return l.next.Dimension() }

func (l *limited) Unwrap() Embedder { return l.next }
