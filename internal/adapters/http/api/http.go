// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/careerpath/internal/adapters/mq/worker"
	"github.com/okian/careerpath/internal/domain/assessment"
	"github.com/okian/careerpath/internal/domain/model"
	"github.com/okian/careerpath/pkg/logger"
)

// InvalidQueryMessage is returned when a request carries no skill or interest.
const InvalidQueryMessage = "Please provide at least one skill or interest to get recommendations."

const welcomeMessage = "Welcome to the AI-Powered Career Path Advisor API"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ReadinessProvider

	AllCareers(ctx context.Context) ([]model.CareerRecord, error)
	CareerByTitle(ctx context.Context, title string) (model.CareerRecord, error)
	Recommend(ctx context.Context, q model.Query) (model.Recommendation, error)
	AssessmentQuestions() []assessment.Question
	SubmitAssessment(ctx context.Context, answers []string) (model.Recommendation, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps              Dependencies
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	careersHandler    *CareersHandler
	recommendHandler  *RecommendHandler
	assessmentHandler *AssessmentHandler
	logger            logger.Logger
}

// NewServer creates a new API server with all handlers. maxTopN caps the
// top_n query parameter.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxTopN int) *Server {
	log := logger.Get().Named("api")
	return &Server{
		deps:              deps,
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(statsProvider),
		careersHandler:    NewCareersHandler(deps, log),
		recommendHandler:  NewRecommendHandler(deps, maxTopN, log),
		assessmentHandler: NewAssessmentHandler(deps, log),
		logger:            log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	gated := func(h http.HandlerFunc) http.HandlerFunc {
		return ReadinessMiddleware(h, s.deps.Ready)
	}

	mux.HandleFunc("GET /{$}", MetricsMiddleware(handleHome, "home"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /careers", MetricsMiddleware(gated(s.careersHandler.HandleList), "careers"))
	mux.HandleFunc("GET /careers/{title}", MetricsMiddleware(gated(s.careersHandler.HandleGet), "career"))
	mux.HandleFunc("GET /career-path/{title}", MetricsMiddleware(gated(s.careersHandler.HandleGet), "career"))

	mux.HandleFunc("GET /recommend", MetricsMiddleware(gated(s.recommendHandler.HandleAI), "recommend"))
	mux.HandleFunc("GET /recommend_rule", MetricsMiddleware(gated(s.recommendHandler.HandleRule), "recommend_rule"))

	mux.HandleFunc("GET /career-test", MetricsMiddleware(s.assessmentHandler.HandleQuestions, "career_test"))
	mux.HandleFunc("POST /career-test-submit", MetricsMiddleware(gated(s.assessmentHandler.HandleSubmit), "career_test_submit"))
}

// Handler wraps mux with request IDs, tracing and panic recovery.
func (s *Server) Handler(mux http.Handler) http.Handler {
	return Chain(mux,
		RequestID(),
		OTel("careerpath-api"),
		Recover(s.logger),
	)
}

type messageResponse struct {
	Message string `json:"message"`
}

func handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: welcomeMessage})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps domain errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, "invalid_query", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, model.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
	case errors.Is(err, worker.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	default:
		log.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("requestID", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
