// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/okian/careerpath/internal/domain/assessment"
	"github.com/okian/careerpath/internal/domain/model"
	"github.com/okian/careerpath/pkg/logger"
)

// maxSubmitBytes bounds a career test submission body.
const maxSubmitBytes = 64 << 10

// AssessmentDependencies defines the career test operations.
type AssessmentDependencies interface {
	AssessmentQuestions() []assessment.Question
	SubmitAssessment(ctx context.Context, answers []string) (model.Recommendation, error)
}

// AssessmentHandler handles career test requests.
type AssessmentHandler struct {
	deps   AssessmentDependencies
	logger logger.Logger
}

// NewAssessmentHandler creates a new assessment handler.
func NewAssessmentHandler(deps AssessmentDependencies, log logger.Logger) *AssessmentHandler {
	return &AssessmentHandler{deps: deps, logger: log}
}

type questionsResponse struct {
	Questions []assessment.Question `json:"questions"`
}

// submitRequest is the JSON form of POST /career-test-submit.
type submitRequest struct {
	Answers []string `json:"answers"`
}

// HandleQuestions handles GET /career-test requests.
func (h *AssessmentHandler) HandleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, questionsResponse{Questions: h.deps.AssessmentQuestions()})
}

// HandleSubmit handles POST /career-test-submit. Answers arrive either as
// repeated "answers" form fields or as a JSON body {"answers": [...]}.
func (h *AssessmentHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_career_test"
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBytes)

	var answers []string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		answers = req.Answers
	} else {
		if err := r.ParseMultipartForm(maxSubmitBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		answers = r.PostForm["answers"]
	}

	if len(answers) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	rec, err := h.deps.SubmitAssessment(r.Context(), answers)
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
