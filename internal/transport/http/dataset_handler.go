package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salescli/internal/dataset"
	apierrors "salescli/internal/errors"
)

// DatasetHandler handles feature set requests
type DatasetHandler struct {
	service      DatasetSummarizer
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetSummarizer, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "dataset")),
	}
}

// Routes returns the dataset routes, mounted under /api/datasets.
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}/summary", h.Summary)
	return r
}

// Summary handles GET /api/datasets/{id}/summary?mode=all
func (h *DatasetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = string(dataset.ModeAll)
	}
	if _, err := dataset.ParseMode(mode); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("mode", err))
		return
	}

	h.logger.DebugContext(r.Context(), "summarizing feature set",
		slog.String("id", id),
		slog.String("mode", mode))

	summary, err := h.service.Summarize(r.Context(), id, mode)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}
