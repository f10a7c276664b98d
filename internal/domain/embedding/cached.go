package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/careerpath/pkg/metrics"
)

// DefaultCacheSize bounds the number of memoized texts.
const DefaultCacheSize = 4096

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithMaxEntries bounds the cache. When full, the least recently used entry
// is evicted. A non-positive size keeps DefaultCacheSize.
func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// Cache memoizes an Embedder. Identical text returns the very same vector
// for as long as it stays cached, even when the backend is a remote model
// that is not bit-stable across calls. Every hit refreshes an entry, so text
// that keeps being queried is never evicted by a stream of one-off texts; a
// text evicted and asked for again goes back to the backend.
type Cache struct {
	next       Embedder
	maxEntries int
	items      *lru.Cache[string, Vector]
}

// Cached wraps next with a memoizing cache.
func Cached(next Embedder, opts ...CacheOption) *Cache {
	c := &Cache{
		next:       next,
		maxEntries: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Size is always positive here, the only error lru reports.
	c.items, _ = lru.NewWithEvict(c.maxEntries, func(string, Vector) {
		metrics.RecordEmbedCacheEviction()
	})
	return c
}

// Embed implements Embedder.
func (c *Cache) Embed(ctx context.Context, text string) (Vector, error) {
	v, ok := c.items.Get(text)
	metrics.RecordEmbedCacheLookup(ok)
	if ok {
		return v, nil
	}

	v, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	// A concurrent caller may have stored the text first; keep its vector so
	// every caller sees the same one.
	if prev, ok, _ := c.items.PeekOrAdd(text, v); ok {
		return prev, nil
	}
	return v, nil
}

// Dimension implements Embedder.
func (c *Cache) Dimension() int { return c.next.Dimension() }

// Len returns the number of cached texts.
func (c *Cache) Len() int { return c.items.Len() }

// Unwrap returns the wrapped Embedder.
func (c *Cache) Unwrap() Embedder { return c.next }
