package embedding

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// DefaultDimension is the vector size of the hash model when none is set.
const DefaultDimension = 384

const (
	wordWeight    = 1.0
	trigramWeight = 0.5
	startWeight   = 0.1
	startFeature  = "\x00<s>"
)

// HashEmbedder is a local feature-hashing model. Lower-cased word unigrams and
// padded character trigrams are hashed into signed buckets, a constant
// start-of-text feature is added and the result is L2-normalized, so every
// output (including that of the empty string) is a unit vector.
//
// It holds no mutable state and is safe for concurrent use.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder returns a model producing vectors of size dim. A
// non-positive dim selects DefaultDimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &HashEmbedder{dim: dim}
}

// Dimension implements Embedder.
func (h *HashEmbedder) Dimension() int { return h.dim }

// Embed implements Embedder. It never fails.
func (h *HashEmbedder) Embed(_ context.Context, text string) (Vector, error) {
	acc := make([]float64, h.dim)
	h.add(acc, startFeature, startWeight)
	for _, word := range tokenize(text) {
		h.add(acc, "w:"+word, wordWeight)
		padded := []rune(" " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(acc, "t:"+string(padded[i:i+3]), trigramWeight)
		}
	}

	var norm float64
	for _, x := range acc {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make(Vector, h.dim)
	if norm == 0 {
		return out, nil
	}
	for i, x := range acc {
		out[i] = float32(x / norm)
	}
	return out, nil
}

// add folds one feature into acc. The low bits pick the bucket and the top
// bit picks the sign, which keeps collisions unbiased.
func (h *HashEmbedder) add(acc []float64, feature string, weight float64) {
	sum := xxhash.Sum64String(feature)
	bucket := sum % uint64(h.dim)
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[bucket] += weight
}

// tokenize lower-cases text and splits it on anything that is not a letter or
// digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
