package http

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"solardash/internal/charts"
	apperrors "solardash/internal/errors"
	"solardash/internal/exporter"
	"solardash/internal/infrastructure"
	"solardash/internal/middleware"
	v1 "solardash/pkg/contracts/api/v1"
)

// DashboardHandler serves the JSON API with RFC 7807 errors
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard API handler
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       infrastructure.WithComponent(logger, "dashboard_handler"),
	}
}

// DatasetRoutes returns the routes mounted at /api/dataset
func (h *DashboardHandler) DatasetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.With(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data")).Post("/", h.Upload)
	r.Get("/", h.GetReport)
	r.Delete("/", h.Clear)
	r.Get("/export", h.Export)
	return r
}

// AnalysisRoutes returns the routes mounted at /api/analysis
func (h *DashboardHandler) AnalysisRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/histogram", h.analysis(charts.KindHistogram))
	r.Get("/correlation", h.analysis(charts.KindCorrelation))
	r.Get("/wind", h.analysis(charts.KindWind))
	return r
}

// Upload handles POST /api/dataset
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, header, err := readUpload(w, r, h.service.Config().MaxUploadBytes, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer file.Close()

	h.logger.InfoContext(ctx, "receiving upload",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.String("file", header.Filename),
		slog.Int64("size", header.Size),
	)

	report, err := h.service.Upload(ctx, infrastructure.GetSessionID(ctx), header.Filename, file, header.Size)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, report)
}

// GetReport handles GET /api/dataset
func (h *DashboardHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	_, q, err := parseQuery(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Report(r.Context(), infrastructure.GetSessionID(r.Context()), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Clear handles DELETE /api/dataset
func (h *DashboardHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !h.service.Clear(r.Context(), infrastructure.GetSessionID(r.Context())) {
		h.errorHandler.HandleError(w, r, apperrors.ErrNoDataset)
		return
	}
	render.JSON(w, r, v1.MessageResponse{Message: "Dataset cleared"})
}

// Export handles GET /api/dataset/export
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := v1.ExportRequest{
		Format: r.URL.Query().Get("format"),
		BOM:    isChecked(r.URL.Query().Get("bom")),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format, err := exporter.ParseFormat(req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	_, q, err := parseQuery(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	download, err := h.service.Export(ctx, infrastructure.GetSessionID(ctx), q, format, req.BOM)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": download.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(download.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(download.Body); err != nil {
		h.logger.WarnContext(ctx, "export write failed", slog.String("error", err.Error()))
	}
}

// analysis serves the data behind one chart as JSON
func (h *DashboardHandler) analysis(kind charts.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, q, err := parseQuery(r, h.validator)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		report, err := h.service.Report(r.Context(), infrastructure.GetSessionID(r.Context()), q)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		if err := report.Err(kind); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		switch kind {
		case charts.KindHistogram:
			render.JSON(w, r, report.Histogram)
		case charts.KindCorrelation:
			render.JSON(w, r, report.Correlation)
		case charts.KindWind:
			render.JSON(w, r, report.Wind)
		}
	}
}
