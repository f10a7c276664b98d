// Package embedding turns text into fixed-length vectors and compares them.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/careerpath/pkg/metrics"
)

// Sentinel errors for this package.
var (
	// ErrDimensionMismatch means two vectors that must share a dimension do
	// not. It signals a broken invariant and must never be turned into a score.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrEmbed wraps failures of a backend model.
	ErrEmbed = errors.New("embed failed")
)

// Vector is a dense embedding.
type Vector []float32

// Embedder converts text into a Vector of constant dimension. Identical text
// must produce a bit-identical vector for the life of the process, and the
// empty string is a valid input.
type Embedder interface {
	Embed(ctx context.Context, text string) (Vector, error)
	Dimension() int
}

// Cosine returns the cosine similarity of a and b, clamped to [-1, 1]. A
// zero-norm operand scores 0.
func Cosine(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, s)), nil
}

// Checked wraps e so that every returned vector is verified against
// e.Dimension(). Latency and failures are recorded as metrics.
func Checked(e Embedder) Embedder {
	if c, ok := e.(*checked); ok {
		return c
	}
	return &checked{next: e}
}

type checked struct {
	next Embedder
}

func (c *checked) Embed(ctx context.Context, text string) (Vector, error) {
	start := time.Now()
	v, err := c.next.Embed(ctx, text)
	metrics.RecordEmbedLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordEmbedError("backend")
		return nil, err
	}
	if want := c.next.Dimension(); len(v) != want {
		metrics.RecordEmbedError("dimension_mismatch")
		return nil, fmt.Errorf("%w: embedder returned %d values, want %d", ErrDimensionMismatch, len(v), want)
	}
	return v, nil
}

func (c *checked) Dimension() int { return c.next.Dimension() }

func (c *checked) Unwrap() Embedder { return c.next }

// As walks the chain of wrappers around e, outermost first, and returns the
// first layer that is a T.
func As[T any](e Embedder) (T, bool) {
	for e != nil {
		if t, ok := e.(T); ok {
			return t, true
		}
		u, ok := e.(interface{ Unwrap() Embedder })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	var zero T
	return zero, false
}
