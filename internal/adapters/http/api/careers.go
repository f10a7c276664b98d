// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/careerpath/internal/domain/model"
	"github.com/okian/careerpath/pkg/logger"
)

// CareersDependencies defines the catalog read operations.
type CareersDependencies interface {
	AllCareers(ctx context.Context) ([]model.CareerRecord, error)
	CareerByTitle(ctx context.Context, title string) (model.CareerRecord, error)
}

// CareersHandler handles catalog requests.
type CareersHandler struct {
	deps   CareersDependencies
	logger logger.Logger
}

// NewCareersHandler creates a new careers handler.
func NewCareersHandler(deps CareersDependencies, log logger.Logger) *CareersHandler {
	return &CareersHandler{deps: deps, logger: log}
}

// HandleList handles GET /careers requests.
func (h *CareersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_careers"
	all, err := h.deps.AllCareers(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleGet handles GET /careers/{title} requests.
func (h *CareersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_career"
	title := strings.TrimSpace(r.PathValue("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rec, err := h.deps.CareerByTitle(r.Context(), title)
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
