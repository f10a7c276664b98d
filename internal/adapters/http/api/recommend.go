// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/careerpath/internal/domain/model"
	"github.com/okian/careerpath/internal/domain/rules"
	"github.com/okian/careerpath/pkg/logger"
)

// RecommendDependencies defines the recommendation operation.
type RecommendDependencies interface {
	Recommend(ctx context.Context, q model.Query) (model.Recommendation, error)
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps    RecommendDependencies
	maxTopN int
	logger  logger.Logger
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies, maxTopN int, log logger.Logger) *RecommendHandler {
	return &RecommendHandler{deps: deps, maxTopN: maxTopN, logger: log}
}

var errLimitExceeded = errors.New("top_n exceeds the maximum")

// HandleAI handles GET /recommend?skills=..&interests=..&top_n=N requests.
func (h *RecommendHandler) HandleAI(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend"
	q, ok := h.parse(w, r, op)
	if !ok {
		return
	}
	q.Mode = model.ModeAI
	topN, err := h.topN(r)
	if err != nil {
		code := "bad_request"
		if errors.Is(err, errLimitExceeded) {
			code = "limit_exceeded"
		}
		writeError(w, http.StatusBadRequest, code, WrapKind(op, ErrBadRequest, err))
		return
	}
	q.TopN = topN
	h.respond(w, r, op, q)
}

// HandleRule handles GET /recommend_rule?skills=..&interests=.. requests.
// Every matching career is returned.
func (h *RecommendHandler) HandleRule(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend_rule"
	q, ok := h.parse(w, r, op)
	if !ok {
		return
	}
	q.Mode = model.ModeRule
	h.respond(w, r, op, q)
}

func (h *RecommendHandler) parse(w http.ResponseWriter, r *http.Request, op string) (model.Query, bool) {
	values := r.URL.Query()
	q := model.Query{
		Skills:    values["skills"],
		Interests: values["interests"],
	}
	if len(rules.Clean(q.Skills)) == 0 && len(rules.Clean(q.Interests)) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_query", errors.New(InvalidQueryMessage))
		return model.Query{}, false
	}
	return q, true
}

// topN returns 0 when the parameter is absent so the service default applies.
func (h *RecommendHandler) topN(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("top_n")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("top_n must be a positive integer, got %q", raw)
	}
	if h.maxTopN > 0 && n > h.maxTopN {
		return 0, fmt.Errorf("%w: %d > %d", errLimitExceeded, n, h.maxTopN)
	}
	return n, nil
}

func (h *RecommendHandler) respond(w http.ResponseWriter, r *http.Request, op string, q model.Query) {
	rec, err := h.deps.Recommend(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
