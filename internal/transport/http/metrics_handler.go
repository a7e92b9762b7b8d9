package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "solardash/internal/errors"
	"solardash/internal/services"
)

// MetricsHandler serves the Prometheus scrape and session store statistics
type MetricsHandler struct {
	scrape       http.Handler
	sessions     services.SessionStats
	errorHandler *apperrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler. scrape is nil when
// metrics export is disabled.
func NewMetricsHandler(scrape http.Handler, sessions services.SessionStats, errorHandler *apperrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{
		scrape:       scrape,
		sessions:     sessions,
		errorHandler: errorHandler,
	}
}

// Routes sets up the metrics routes
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetMetrics)
	r.Get("/sessions", h.GetSessions)
	return r
}

// GetMetrics handles GET /metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.scrape == nil {
		h.errorHandler.NotFound(w, r)
		return
	}
	h.scrape.ServeHTTP(w, r)
}

// GetSessions handles GET /metrics/sessions
func (h *MetricsHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		h.errorHandler.HandleError(w, r, apperrors.ErrServiceUnavailable)
		return
	}
	render.JSON(w, r, h.sessions.Stats())
}
