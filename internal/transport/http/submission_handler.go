package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salescli/internal/errors"
	"salescli/internal/middleware"
	"salescli/internal/services"
)

// AverageRequest is the body of POST /api/submissions/average.
type AverageRequest struct {
	Files []string `json:"files" validate:"required,min=1,dive,filename"`
	ID    string   `json:"id" validate:"required,max=64,filename"`
}

// WeightedRequest is the body of POST /api/submissions/weighted. The weight
// count is checked against the file count by the service.
type WeightedRequest struct {
	Files   []string  `json:"files" validate:"required,min=1,dive,filename"`
	Weights []float64 `json:"weights" validate:"required,min=1"`
	ID      string    `json:"id" validate:"required,max=64,filename"`
}

// ScoreRequest is the body of POST /api/scores. It carries either inline
// values or two submission file names.
type ScoreRequest struct {
	GroundTruth    []float64 `json:"ground_truth,omitempty" validate:"required_without=TruthFile"`
	Predictions    []float64 `json:"predictions,omitempty" validate:"required_with=GroundTruth"`
	TruthFile      string    `json:"truth_file,omitempty" validate:"required_with=PredictionFile,omitempty,filename"`
	PredictionFile string    `json:"prediction_file,omitempty" validate:"required_with=TruthFile,omitempty,filename"`
}

// SubmissionHandler handles ensemble and scoring requests
type SubmissionHandler struct {
	service      SubmissionCombiner
	validator    *middleware.RequestValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(service SubmissionCombiner, validator *middleware.RequestValidator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *SubmissionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "submission")),
	}
}

// Routes returns the ensemble routes, mounted under /api/submissions.
func (h *SubmissionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/average", h.Average)
	r.Post("/weighted", h.Weighted)
	return r
}

// Average handles POST /api/submissions/average
func (h *SubmissionHandler) Average(w http.ResponseWriter, r *http.Request) {
	var req AverageRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Average(r.Context(), req.Files, req.ID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// Weighted handles POST /api/submissions/weighted
func (h *SubmissionHandler) Weighted(w http.ResponseWriter, r *http.Request) {
	var req WeightedRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Weighted(r.Context(), req.Files, req.Weights, req.ID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// Score handles POST /api/scores
func (h *SubmissionHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var (
		result *services.ScoreResult
		err    error
	)
	switch {
	case req.TruthFile != "" && len(req.GroundTruth) > 0:
		err = apierrors.NewValidationError("score", services.ErrMixedScoreInput)
	case req.TruthFile != "":
		result, err = h.service.Score(r.Context(), req.TruthFile, req.PredictionFile)
	default:
		result, err = h.service.ScoreValues(r.Context(), req.GroundTruth, req.Predictions)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}
