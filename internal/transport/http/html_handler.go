package http

import (
	"bytes"
	"encoding/base64"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"slices"

	"solardash/internal/charts"
	"solardash/internal/dataset"
	apperrors "solardash/internal/errors"
	"solardash/internal/infrastructure"
	"solardash/internal/middleware"
	"solardash/internal/services"
	"solardash/pkg/contracts"
)

// PageHandler serves the server-rendered dashboard. Errors are shown on the
// page instead of as problem documents.
type PageHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

type pageView struct {
	Version  string
	About    string
	Awaiting string
	Unlock   string
	Error    string

	Report      *services.Report
	Strategies  []strategyOption
	LineOptions []columnOption
	HistOptions []columnOption
	CorrOptions []columnOption
	MinBins     int
	MaxBins     int
	Charts      []chartView
}

type strategyOption struct {
	Value   string
	Label   string
	Checked bool
}

type columnOption struct {
	Name     string
	Selected bool
}

type chartView struct {
	Kind    charts.Kind
	Alt     string
	Image   template.URL
	Warning string
}

// NewPageHandler creates the dashboard page handler
func NewPageHandler(service DashboardServiceInterface, validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "page")),
	}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := infrastructure.GetSessionID(ctx)
	view := h.newView()
	status := http.StatusOK

	_, q, err := parseQuery(r, h.validator)
	if err != nil {
		status, view.Error = h.describe(err, r)
		q = services.Query{}
	}

	if h.service.HasDataset(sessionID) {
		if err := h.fillReport(r, sessionID, q, &view); err != nil {
			status, view.Error = h.describe(err, r)
		}
	}
	h.renderPage(w, r, status, view)
}

// Upload handles POST /upload
func (h *PageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := infrastructure.GetSessionID(ctx)

	err := func() error {
		file, header, err := readUpload(w, r, h.service.Config().MaxUploadBytes, h.validator)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = h.service.Upload(ctx, sessionID, header.Filename, file, header.Size)
		return err
	}()
	if err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.logger.WarnContext(ctx, "upload failed", slog.String("error", err.Error()))
	view := h.newView()
	status, msg := h.describe(err, r)
	if h.service.HasDataset(sessionID) {
		if ferr := h.fillReport(r, sessionID, services.Query{}, &view); ferr != nil {
			h.logger.WarnContext(ctx, "previous dataset unavailable", slog.String("error", ferr.Error()))
		}
	}
	view.Error = msg
	h.renderPage(w, r, status, view)
}

// Clear handles POST /clear
func (h *PageHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context(), infrastructure.GetSessionID(r.Context()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) newView() pageView {
	cfg := h.service.Config()
	return pageView{
		Version:  contracts.GetVersionString(),
		About:    services.MsgAbout,
		Awaiting: services.MsgAwaitingUpload,
		Unlock:   services.MsgUnlockEDA,
		MinBins:  cfg.MinBins,
		MaxBins:  cfg.MaxBins,
	}
}

// fillReport runs the pipeline for the page and inlines the chart images
func (h *PageHandler) fillReport(r *http.Request, sessionID string, q services.Query, view *pageView) error {
	ctx := r.Context()

	report, err := h.service.Report(ctx, sessionID, q)
	if err != nil {
		return err
	}
	images, err := h.service.RenderCharts(ctx, report, charts.FormatPNG)
	if err != nil {
		return err
	}

	sel := report.Selection
	view.Report = report
	for _, s := range dataset.Strategies() {
		view.Strategies = append(view.Strategies, strategyOption{
			Value:   string(s),
			Label:   s.Label(),
			Checked: s == sel.Strategy,
		})
	}
	for _, c := range report.NumericColumns {
		view.LineOptions = append(view.LineOptions, columnOption{Name: c, Selected: slices.Contains(sel.LineColumns, c)})
		view.CorrOptions = append(view.CorrOptions, columnOption{Name: c, Selected: slices.Contains(sel.CorrColumns, c)})
		view.HistOptions = append(view.HistOptions, columnOption{Name: c, Selected: c == sel.HistColumn})
	}
	if !slices.Contains(report.NumericColumns, sel.HistColumn) {
		// Keep the requested column selectable so its warning stays in context
		view.HistOptions = append([]columnOption{{Name: sel.HistColumn, Selected: true}}, view.HistOptions...)
	}

	for _, kind := range charts.Kinds() {
		cv := chartView{Kind: kind, Alt: string(kind) + " chart", Warning: report.WarningFor(kind)}
		if body, ok := images[kind]; ok && cv.Warning == "" {
			cv.Image = template.URL("data:" + charts.FormatPNG.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(body))
		}
		view.Charts = append(view.Charts, cv)
	}
	return nil
}

// describe turns an error into the status and text shown on the page
func (h *PageHandler) describe(err error, r *http.Request) (int, string) {
	if errors.Is(err, services.ErrNoDataset) {
		return http.StatusOK, services.MsgAwaitingUpload
	}
	problem := h.errorHandler.ErrorToProblem(err, r)
	return problem.Status, problem.Detail
}

func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, view pageView) {
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, view); err != nil {
		h.logger.ErrorContext(r.Context(), "page render failed", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
