package index

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/careerpath/internal/domain/embedding"
	"github.com/okian/careerpath/internal/domain/model"
)

// tableEmbedder returns a fixed vector per text and a fallback otherwise.
type tableEmbedder struct {
	dim      int
	vectors  map[string]embedding.Vector
	fallback embedding.Vector
	err      error
	seen     []string
}

func (t *tableEmbedder) Embed(_ context.Context, text string) (embedding.Vector, error) {
	t.seen = append(t.seen, text)
	if t.err != nil {
		return nil, t.err
	}
	if v, ok := t.vectors[text]; ok {
		return v, nil
	}
	return t.fallback, nil
}

func (t *tableEmbedder) Dimension() int { return t.dim }

func records() []model.CareerRecord {
	return []model.CareerRecord{
		{Title: "Data Scientist", Industry: "AI", EntryLevelRoles: "Junior Data Analyst"},
		{Title: "Chef", Industry: "Hospitality", EntryLevelRoles: "Line Cook"},
		{Title: "Accountant", Industry: "Finance", EntryLevelRoles: "Audit Associate"},
		{Title: "Designer", Industry: "Media", EntryLevelRoles: "Junior Designer"},
	}
}

func TestCombinedText(t *testing.T) {
	Convey("Given a career record", t, func() {
		r := model.CareerRecord{Title: "Data Scientist", Industry: "AI", EntryLevelRoles: "Junior Data Analyst", MidLevelRoles: "ignored"}

		Convey("Then the combined text is title, industry and entry roles", func() {
			So(CombinedText(r), ShouldEqual, "Data Scientist AI Junior Data Analyst")
		})
	})
}

func TestBuild(t *testing.T) {
	Convey("Given catalog records", t, func() {
		ctx := context.Background()

		Convey("When building with a working embedder", func() {
			e := &tableEmbedder{dim: 2, fallback: embedding.Vector{1, 0}}
			idx, err := Build(ctx, records(), e)

			Convey("Then every record is embedded once in catalog order", func() {
				So(err, ShouldBeNil)
				So(idx.Len(), ShouldEqual, 4)
				So(idx.Dimension(), ShouldEqual, 2)
				So(e.seen, ShouldResemble, []string{
					"Data Scientist AI Junior Data Analyst",
					"Chef Hospitality Line Cook",
					"Accountant Finance Audit Associate",
					"Designer Media Junior Designer",
				})
			})
		})

		Convey("When the embedder returns the wrong dimension", func() {
			e := &tableEmbedder{dim: 3, fallback: embedding.Vector{1, 0}}
			_, err := Build(ctx, records(), e)

			Convey("Then the build fails loudly", func() {
				So(errors.Is(err, embedding.ErrDimensionMismatch), ShouldBeTrue)
			})
		})

		Convey("When the embedder fails", func() {
			boom := errors.New("boom")
			_, err := Build(ctx, records(), &tableEmbedder{dim: 2, err: boom})
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("When the context is already canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Build(cctx, records(), &tableEmbedder{dim: 2, fallback: embedding.Vector{1, 0}})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given an index with known vectors", t, func() {
		ctx := context.Background()
		rs := records()
		e := &tableEmbedder{
			dim: 2,
			vectors: map[string]embedding.Vector{
				CombinedText(rs[0]): {1, 0},
				CombinedText(rs[1]): {0, 1},
				CombinedText(rs[2]): {1, 1},
				CombinedText(rs[3]): {1, 0},
			},
		}
		idx, err := Build(ctx, rs, e)
		So(err, ShouldBeNil)

		Convey("When ranking a query", func() {
			hits, err := idx.Rank(embedding.Vector{1, 0}, 3)

			Convey("Then hits are sorted by score and ties keep catalog order", func() {
				So(err, ShouldBeNil)
				So(len(hits), ShouldEqual, 3)
				So(hits[0].Record.Title, ShouldEqual, "Data Scientist")
				So(hits[0].Position, ShouldEqual, 0)
				So(hits[1].Record.Title, ShouldEqual, "Designer")
				So(hits[1].Position, ShouldEqual, 3)
				So(hits[2].Record.Title, ShouldEqual, "Accountant")
				So(hits[0].Score, ShouldAlmostEqual, 1.0, 1e-9)
				So(hits[0].Score, ShouldEqual, hits[1].Score)
			})
		})

		Convey("When topN exceeds the catalog", func() {
			hits, err := idx.Rank(embedding.Vector{0, 1}, 100)

			Convey("Then each record appears exactly once", func() {
				So(err, ShouldBeNil)
				So(len(hits), ShouldEqual, 4)
				seen := map[int]bool{}
				for i, h := range hits {
					So(seen[h.Position], ShouldBeFalse)
					seen[h.Position] = true
					So(h.Score, ShouldBeBetweenOrEqual, -1.0, 1.0)
					if i > 0 {
						So(h.Score, ShouldBeLessThanOrEqualTo, hits[i-1].Score)
					}
				}
				So(hits[0].Record.Title, ShouldEqual, "Chef")
			})
		})

		Convey("When topN is below one", func() {
			_, err := idx.Rank(embedding.Vector{1, 0}, 0)
			So(errors.Is(err, ErrInvalidTopN), ShouldBeTrue)
		})

		Convey("When the query dimension differs", func() {
			_, err := idx.Rank(embedding.Vector{1, 0, 0}, 2)
			So(errors.Is(err, embedding.ErrDimensionMismatch), ShouldBeTrue)
		})
	})

	Convey("Given an index built with the hash embedder", t, func() {
		ctx := context.Background()
		h := embedding.NewHashEmbedder(embedding.DefaultDimension)
		rs := records()
		idx, err := Build(ctx, rs, h)
		So(err, ShouldBeNil)

		Convey("When a record's own combined text is the query", func() {
			q, _ := h.Embed(ctx, CombinedText(rs[1]))
			hits, err := idx.Rank(q, len(rs))

			Convey("Then that record scores highest", func() {
				So(err, ShouldBeNil)
				So(hits[0].Record.Title, ShouldEqual, "Chef")
				So(hits[0].Score, ShouldAlmostEqual, 1.0, 1e-6)
			})
		})
	})
}
