// Package index holds one embedding per catalog record and ranks the catalog
// against a query vector.
//
// An Index is immutable once built. A new catalog means a new Index.
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/careerpath/internal/domain/embedding"
	"github.com/okian/careerpath/internal/domain/model"
	"github.com/okian/careerpath/pkg/metrics"
)

// ErrInvalidTopN means a ranking was requested for fewer than one result.
var ErrInvalidTopN = errors.New("topN must be at least 1")

// Hit is one ranked record. Position is its 0-based place in the catalog.
type Hit struct {
	Record   model.CareerRecord
	Position int
	Score    float64
}

type entry struct {
	record model.CareerRecord
	vector embedding.Vector
}

// Index pairs every catalog record with the embedding of its combined text.
type Index struct {
	entries []entry
	dim     int
}

// CombinedText is the text embedded for a record.
func CombinedText(r model.CareerRecord) string {
	return strings.Join([]string{r.Title, r.Industry, r.EntryLevelRoles}, " ")
}

// Build embeds every record once, in catalog order.
func Build(ctx context.Context, records []model.CareerRecord, e embedding.Embedder) (*Index, error) {
	start := time.Now()
	dim := e.Dimension()
	idx := &Index{entries: make([]entry, 0, len(records)), dim: dim}

	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := e.Embed(ctx, CombinedText(r))
		if err != nil {
			return nil, fmt.Errorf("embed record %d (%q): %w", i, r.Title, err)
		}
		if len(v) != dim {
			return nil, fmt.Errorf("%w: record %q has %d, embedder reports %d",
				embedding.ErrDimensionMismatch, r.Title, len(v), dim)
		}
		idx.entries = append(idx.entries, entry{record: r, vector: v})
	}

	metrics.RecordIndexBuildDuration(float64(time.Since(start).Milliseconds()))
	return idx, nil
}

// Rank scores every record against query and returns the best topN, highest
// score first. Equal scores keep catalog order. A topN larger than the
// catalog returns the whole catalog.
func (x *Index) Rank(query embedding.Vector, topN int) ([]Hit, error) {
	if topN < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d",
			embedding.ErrDimensionMismatch, len(query), x.dim)
	}

	hits := make([]Hit, len(x.entries))
	for i, e := range x.entries {
		s, err := embedding.Cosine(query, e.vector)
		if err != nil {
			return nil, err
		}
		hits[i] = Hit{Record: e.record, Position: i, Score: s}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if topN < len(hits) {
		hits = hits[:topN]
	}
	return hits, nil
}

// Len returns the number of indexed records.
func (x *Index) Len() int { return len(x.entries) }

// Dimension returns the vector dimension of the index.
func (x *Index) Dimension() int { return x.dim }
