package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"solardash/internal/analysis"
	"solardash/internal/charts"
	"solardash/internal/config"
	"solardash/internal/dataset"
	"solardash/internal/exporter"
	"solardash/internal/infrastructure"
	"solardash/internal/session"
)

// DashboardService runs the upload, clean, analyse and render pipeline
type DashboardService struct {
	store   *session.Store
	cfg     config.DashboardConfig
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// Download is an exported file
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// NewDashboardService creates a dashboard service. store may be nil for
// offline use through Analyze and RenderCharts; metrics may be nil.
func NewDashboardService(store *session.Store, cfg config.DashboardConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("service", "dashboard"))

	logger.Info("DashboardService initialized",
		slog.Int("max_rows", cfg.MaxRows),
		slog.Int64("max_upload_bytes", cfg.MaxUploadBytes),
		slog.Int("default_bins", cfg.DefaultBins))

	return &DashboardService{
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// Config returns the dashboard limits
func (s *DashboardService) Config() config.DashboardConfig {
	return s.cfg
}

// HasDataset reports whether the session holds an upload
func (s *DashboardService) HasDataset(sessionID string) bool {
	_, err := s.dataset(sessionID)
	return err == nil
}

// Upload parses r and stores it as the session's dataset, replacing any
// earlier upload. It returns the report for the default controls.
func (s *DashboardService) Upload(ctx context.Context, sessionID, filename string, r io.Reader, size int64) (*Report, error) {
	ctx, span := infrastructure.StartSpan(ctx, "dashboard.upload",
		attribute.String("file.name", filename),
		attribute.Int64("file.size", size))
	defer span.End()

	if s.store == nil || !session.ValidID(sessionID) {
		return nil, ErrNoDataset
	}
	if size > s.cfg.MaxUploadBytes {
		err := fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, s.cfg.MaxUploadBytes)
		s.metrics.RecordUpload(ctx, "unknown", size, 0, err)
		return nil, err
	}

	format, err := dataset.FormatFromFilename(filename)
	if err != nil {
		s.metrics.RecordUpload(ctx, "unknown", size, 0, err)
		return nil, err
	}

	start := time.Now()
	d, err := dataset.Load(r, filename, size, dataset.LoadOptions{
		MaxRows: s.cfg.MaxRows,
		Format:  format,
	})
	rows := 0
	if d != nil {
		rows, _ = d.Shape()
	}
	s.metrics.RecordUpload(ctx, string(format), size, rows, err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "Upload rejected",
			slog.String("file", filename),
			slog.String("error", err.Error()))
		return nil, err
	}

	if s.store.Put(sessionID, d) {
		s.metrics.RecordSession(ctx, 1)
	}
	s.logger.InfoContext(ctx, "Dataset uploaded",
		slog.String("file", filename),
		slog.Int64("size", size),
		slog.Int("rows", rows),
		slog.Int("columns", len(d.Columns())),
		slog.Duration("duration", time.Since(start)))

	return s.Analyze(ctx, d, Query{})
}

// Clear discards the session's dataset. It reports whether one existed.
func (s *DashboardService) Clear(ctx context.Context, sessionID string) bool {
	if s.store == nil {
		return false
	}
	removed := s.store.Delete(sessionID)
	if removed {
		s.logger.InfoContext(ctx, "Dataset cleared")
	}
	return removed
}

// SessionRemovedHook keeps the session gauge in step with the store. It is
// passed to session.WithRemoveHook when the store is created.
func SessionRemovedHook(metrics *infrastructure.BusinessMetrics, logger *slog.Logger) func(id string, reason session.RemoveReason) {
	return func(id string, reason session.RemoveReason) {
		metrics.RecordSession(context.Background(), -1)
		logger.Debug("Session removed", slog.String("reason", string(reason)))
	}
}

// Report runs the pipeline on the session's dataset
func (s *DashboardService) Report(ctx context.Context, sessionID string, q Query) (*Report, error) {
	d, err := s.dataset(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, d, q)
}

// Analyze runs the pipeline on d: missing report, cleaning, dtypes,
// coercion, preview and the four widgets. Widget failures become warnings.
func (s *DashboardService) Analyze(ctx context.Context, d *dataset.Dataset, q Query) (*Report, error) {
	ctx, span := infrastructure.StartSpan(ctx, "dashboard.analyze",
		attribute.String("strategy", string(q.Strategy)))
	defer span.End()

	q, err := q.normalize(s.cfg)
	if err != nil {
		return nil, err
	}

	rows, cols := d.Shape()
	report := &Report{
		FileName: d.Name(),
		FileSize: d.Size(),
		LoadedAt: d.LoadedAt(),
		Shape:    [2]int{rows, cols},
		Columns:  d.Columns(),
		Preview:  d.Head(q.Rows),
		Missing:  d.MissingValues(),
		errs:     make(map[charts.Kind]error),
	}

	cleaned := d
	if !report.HasMissing() {
		report.Info = append(report.Info, MsgNoMissing)
		q.Strategy = dataset.StrategyNone
	} else if q.Strategy != dataset.StrategyNone {
		if cleaned, err = d.Clean(q.Strategy); err != nil {
			return nil, fmt.Errorf("clean %s: %w", q.Strategy, err)
		}
		after, _ := cleaned.Shape()
		s.metrics.RecordCleaning(ctx, string(q.Strategy), rows, after)
		report.Notice = q.Strategy.Notice()
	}
	report.DTypes = cleaned.DTypes()

	coerced, coercions := cleaned.CoerceObjects()
	report.Coercions = coercions
	report.CoercedDTypes = coerced.DTypes()
	crows, ccols := coerced.Shape()
	report.CleanedShape = [2]int{crows, ccols}
	if q.ShowCleaned {
		preview := coerced.Head(q.Rows)
		report.Cleaned = &preview
	}
	report.NumericColumns = coerced.NumericColumns()
	if report.NumericColumns == nil {
		report.NumericColumns = []string{}
	}
	report.data = coerced

	sel := q.resolve(coerced)
	report.Selection = sel
	s.analyse(report, coerced, sel)

	s.metrics.RecordWarnings(ctx, report.warnedWidgets())
	s.logger.DebugContext(ctx, "Report built",
		slog.String("strategy", string(q.Strategy)),
		slog.Int("rows", crows),
		slog.Int("warnings", len(report.Warnings)))
	return report, nil
}

func (s *DashboardService) analyse(report *Report, d *dataset.Dataset, sel Selection) {
	if line, err := analysis.Line(d, sel.LineColumns); err != nil {
		report.fail(charts.KindLine, "", err)
	} else {
		report.Line = line
	}

	if hist, err := analysis.Histogram(d, sel.HistColumn, sel.Bins); err != nil {
		report.fail(charts.KindHistogram, sel.HistColumn, err)
	} else {
		report.Histogram = hist
	}

	if corr, err := analysis.Correlation(d, sel.CorrColumns); err != nil {
		report.fail(charts.KindCorrelation, "", err)
	} else {
		report.Correlation = corr
	}

	if wind, err := analysis.Wind(d); err != nil {
		report.fail(charts.KindWind, "", err)
	} else {
		report.Wind = wind
		report.WindPoints = len(wind.Points)
	}
}

// RenderCharts draws every widget of report concurrently. Widgets without
// enough data are added to the report's warnings; other render failures
// are returned.
func (s *DashboardService) RenderCharts(ctx context.Context, report *Report, format charts.Format) (map[charts.Kind][]byte, error) {
	ctx, span := infrastructure.StartSpan(ctx, "dashboard.render_charts",
		attribute.String("chart.format", string(format)))
	defer span.End()

	var (
		mu     sync.Mutex
		images = make(map[charts.Kind][]byte, len(charts.Kinds()))
		failed = make(map[charts.Kind]error)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range charts.Kinds() {
		if report.Err(kind) != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			body, err := s.render(gctx, report, kind, format)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				images[kind] = body
			case errors.Is(err, charts.ErrInsufficientData):
				failed[kind] = err
			default:
				return fmt.Errorf("render %s chart: %w", kind, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	var warned []string
	for _, kind := range charts.Kinds() {
		if err, ok := failed[kind]; ok {
			report.fail(kind, "", err)
			warned = append(warned, string(kind))
		}
	}
	s.metrics.RecordWarnings(ctx, warned)
	return images, nil
}

// Chart renders a single widget of the session's report
func (s *DashboardService) Chart(ctx context.Context, sessionID string, kind charts.Kind, format charts.Format, q Query) ([]byte, error) {
	report, err := s.Report(ctx, sessionID, q)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, report, kind, format)
}

func (s *DashboardService) render(ctx context.Context, report *Report, kind charts.Kind, format charts.Format) ([]byte, error) {
	start := time.Now()
	var buf bytes.Buffer
	err := report.draw(&buf, kind, charts.Options{
		Width:  s.cfg.ChartWidth,
		Height: s.cfg.ChartHeight,
		Format: format,
	})
	s.metrics.RecordChart(ctx, string(kind), string(format), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export encodes the cleaned and coerced table of the session
func (s *DashboardService) Export(ctx context.Context, sessionID string, q Query, format exporter.Format, bom bool) (*Download, error) {
	report, err := s.Report(ctx, sessionID, q)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.Write(&buf, format, report.Data(), exporter.WriteOptions{BOMPrefix: bom}); err != nil {
		return nil, err
	}
	s.metrics.RecordExport(ctx, string(format))

	return &Download{
		Filename:    format.Filename(report.FileName),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

func (s *DashboardService) dataset(sessionID string) (*dataset.Dataset, error) {
	if s.store == nil || !session.ValidID(sessionID) {
		return nil, ErrNoDataset
	}
	entry, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrNoDataset
	}
	return entry.Dataset, nil
}
