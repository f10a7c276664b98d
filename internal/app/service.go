// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
//
// A Service is the single process-wide owner of the catalog, the embedder and
// the index. It is built once by Start and is read-only afterwards, so every
// query method is safe for concurrent use without locking.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/careerpath/internal/adapters/source"
	"github.com/okian/careerpath/internal/domain/assessment"
	"github.com/okian/careerpath/internal/domain/catalog"
	"github.com/okian/careerpath/internal/domain/embedding"
	"github.com/okian/careerpath/internal/domain/index"
	"github.com/okian/careerpath/internal/domain/model"
	"github.com/okian/careerpath/internal/domain/rules"
	"github.com/okian/careerpath/internal/domain/salary"
	"github.com/okian/careerpath/pkg/logger"
	"github.com/okian/careerpath/pkg/metrics"
)

const (
	defaultTopN    = 3
	assessmentTopN = 3

	// NoMatchMessage accompanies an empty RULE result.
	NoMatchMessage = "No matching careers found. Try different skills or interests."
)

// Opener resolves a catalog source to a reader.
type Opener interface {
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}

// lifecycle is implemented by embedders that run background workers.
type lifecycle interface {
	Start(ctx context.Context)
	Stop()
}

// Service implements the recommendation engine.
type Service struct {
	mu sync.Mutex

	// Configuration
	source      string
	opener      Opener
	embedder    embedding.Embedder
	defaultTopN int

	// Built by Start, read-only afterwards.
	catalog *catalog.Catalog
	index   *index.Index

	// State
	started  bool
	starting bool
	done     chan struct{}
	startErr error
	ready    atomic.Bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultTopN: defaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog and builds the index. The service reports ready
// only after both succeed. A failed start leaves it not ready and should be
// treated as fatal. A Start that overlaps one already in flight waits for it
// and returns its result.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.starting {
		done := s.done
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", model.ErrNotReady, ctx.Err())
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.startErr
	}
	s.starting = true
	s.startErr = nil
	done := make(chan struct{})
	s.done = done
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.opener == nil {
		s.opener = source.New(source.WithLogger(s.logger.Named("source")))
	}
	if s.embedder == nil {
		s.embedder = embedding.NewHashEmbedder(embedding.DefaultDimension)
	}
	s.embedder = embedding.Checked(s.embedder)
	s.mu.Unlock()

	s.logger.Info(ctx, "starting career recommendation service...",
		logger.String("source", s.source),
		logger.Int("embeddingDim", s.embedder.Dimension()),
	)

	lc, hasLifecycle := embedding.As[lifecycle](s.embedder)
	if hasLifecycle {
		lc.Start(ctx)
	}

	cat, idx, err := s.build(ctx)

	defer close(done)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starting = false
	s.startErr = err

	if err != nil {
		if hasLifecycle {
			lc.Stop()
		}
		metrics.SetReady(false)
		s.logger.Error(ctx, "service failed to start", logger.Error(err))
		return err
	}

	s.catalog = cat
	s.index = idx
	s.started = true
	s.ready.Store(true)

	metrics.UpdateCatalogRecords(cat.Len())
	metrics.SetReady(true)
	s.logger.Info(ctx, "career recommendation service ready",
		logger.Int("careers", cat.Len()),
		logger.Int("defaultTopN", s.defaultTopN),
	)
	return nil
}

func (s *Service) build(ctx context.Context) (*catalog.Catalog, *index.Index, error) {
	rc, err := s.opener.Open(ctx, s.source)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	cat, err := catalog.Load(rc)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	idx, err := index.Build(ctx, cat.All(), s.embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("build index: %w", err)
	}
	s.logger.Info(ctx, "index built",
		logger.Int("records", idx.Len()),
		logger.Duration("took", time.Since(start)),
	)
	return cat, idx, nil
}

// Stop marks the service not ready and stops background embedding workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping career recommendation service...")
	s.ready.Store(false)
	metrics.SetReady(false)

	if lc, ok := embedding.As[lifecycle](s.embedder); ok {
		lc.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "career recommendation service stopped")
}

// Ready reports whether the catalog and index are built.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

// Recommend returns careers for the given skills and interests.
func (s *Service) Recommend(ctx context.Context, q model.Query) (model.Recommendation, error) {
	start := time.Now()
	mode := q.Mode
	if mode == "" {
		mode = model.ModeAI
	}

	rec, err := s.recommend(ctx, q, mode)

	outcome := "ok"
	switch {
	case err != nil && isInvalid(err):
		outcome = "invalid"
	case err != nil:
		outcome = "error"
	case len(rec.Results) == 0:
		outcome = "empty"
	}
	metrics.RecordRecommendation(string(mode), outcome)
	metrics.RecordRecommendLatency(string(mode), float64(time.Since(start).Milliseconds()))
	if err == nil {
		metrics.RecordRecommendResults(string(mode), len(rec.Results))
	}
	return rec, err
}

func (s *Service) recommend(ctx context.Context, q model.Query, mode model.Mode) (model.Recommendation, error) {
	if mode != model.ModeAI && mode != model.ModeRule {
		return model.Recommendation{}, fmt.Errorf("%w: unknown mode %q", model.ErrInvalidQuery, mode)
	}
	if !s.Ready() {
		return model.Recommendation{}, model.ErrNotReady
	}

	skills := rules.Clean(q.Skills)
	interests := rules.Clean(q.Interests)
	if len(skills) == 0 && len(interests) == 0 {
		return model.Recommendation{}, fmt.Errorf("%w: provide at least one skill or interest", model.ErrInvalidQuery)
	}

	topN := q.TopN
	switch {
	case topN == 0:
		topN = s.defaultTopN
	case topN < 0:
		return model.Recommendation{}, fmt.Errorf("%w: top_n must be positive, got %d", model.ErrInvalidQuery, topN)
	}

	if mode == model.ModeRule {
		return s.recommendRule(skills, interests)
	}
	return s.recommendAI(ctx, skills, interests, topN)
}

func (s *Service) recommendAI(ctx context.Context, skills, interests []string, topN int) (model.Recommendation, error) {
	terms := make([]string, 0, len(skills)+len(interests))
	terms = append(terms, skills...)
	terms = append(terms, interests...)

	vec, err := s.embedder.Embed(ctx, strings.Join(terms, " "))
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("embed query: %w", err)
	}
	hits, err := s.index.Rank(vec, topN)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("rank: %w", err)
	}

	results := make([]model.RankedResult, len(hits))
	for i, h := range hits {
		score := h.Score
		results[i] = ranked(h.Record, i+1)
		results[i].Score = &score
	}
	return model.Recommendation{Mode: model.ModeAI, Results: results}, nil
}

func (s *Service) recommendRule(skills, interests []string) (model.Recommendation, error) {
	matched, err := rules.Filter(s.catalog.All(), skills, interests)
	if err != nil {
		return model.Recommendation{}, err
	}

	rec := model.Recommendation{Mode: model.ModeRule, Results: make([]model.RankedResult, len(matched))}
	for i, r := range matched {
		rec.Results[i] = ranked(r, i+1)
	}
	if len(rec.Results) == 0 {
		rec.Message = NoMatchMessage
	}
	return rec, nil
}

func ranked(r model.CareerRecord, rank int) model.RankedResult {
	out := model.RankedResult{CareerRecord: r, Rank: rank}
	if v, ok := salary.ParseLPA(r.ExpectedSalary); ok {
		out.AverageSalaryLPA = &v
	}
	return out
}

// AllCareers returns the full catalog in source order.
func (s *Service) AllCareers(_ context.Context) ([]model.CareerRecord, error) {
	if !s.Ready() {
		return nil, model.ErrNotReady
	}
	return s.catalog.All(), nil
}

// CareerByTitle looks a career up by title, ignoring case.
func (s *Service) CareerByTitle(_ context.Context, title string) (model.CareerRecord, error) {
	if !s.Ready() {
		return model.CareerRecord{}, model.ErrNotReady
	}
	return s.catalog.FindByTitle(title)
}

// AssessmentQuestions returns the assessment question bank.
func (s *Service) AssessmentQuestions() []assessment.Question {
	return assessment.Questions()
}

// SubmitAssessment maps answers to skills and interests and recommends the
// top three careers by similarity. Unrecognized answers are skipped.
func (s *Service) SubmitAssessment(ctx context.Context, answers []string) (model.Recommendation, error) {
	if !s.Ready() {
		return model.Recommendation{}, model.ErrNotReady
	}
	for _, a := range answers {
		if !assessment.Known(a) {
			metrics.RecordUnknownAnswer()
			s.logger.Warn(ctx, "skipping unrecognized assessment answer", logger.String("answer", a))
		}
	}
	skills, interests := assessment.MapAnswers(answers)
	return s.Recommend(ctx, model.Query{
		Skills:    skills,
		Interests: interests,
		TopN:      assessmentTopN,
		Mode:      model.ModeAI,
	})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"ready":       s.Ready(),
		"defaultTopN": s.defaultTopN,
	}
	if s.embedder != nil {
		stats["embeddingDim"] = s.embedder.Dimension()
		if p, ok := embedding.As[interface{ Pending() int }](s.embedder); ok {
			stats["embedQueueLength"] = p.Pending()
		}
	}
	if s.catalog != nil {
		stats["careers"] = s.catalog.Len()
	}
	return stats
}

func isInvalid(err error) bool {
	return errors.Is(err, model.ErrInvalidQuery)
}
