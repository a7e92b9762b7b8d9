package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"solardash/internal/charts"
	apperrors "solardash/internal/errors"
	"solardash/internal/infrastructure"
	"solardash/internal/middleware"
	v1 "solardash/pkg/contracts/api/v1"
)

// ChartHandler serves single chart images
type ChartHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewChartHandler creates a new chart image handler
func NewChartHandler(service DashboardServiceInterface, validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *ChartHandler {
	return &ChartHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "chart")),
	}
}

// Routes mounts GET /{kind}.{format}
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{kind}.{format}", h.Chart)
	return r
}

// Chart handles GET /charts/{kind}.{format}
func (h *ChartHandler) Chart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := v1.ChartRequest{
		Kind:   chi.URLParam(r, "kind"),
		Format: chi.URLParam(r, "format"),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	kind, err := charts.ParseKind(req.Kind)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format, err := charts.ParseFormat(req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	_, q, err := parseQuery(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	body, err := h.service.Chart(ctx, infrastructure.GetSessionID(ctx), kind, format, q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(ctx, "chart served",
		slog.String("kind", string(kind)),
		slog.String("format", string(format)),
		slog.Int("bytes", len(body)))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
