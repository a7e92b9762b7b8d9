package http

import (
	"context"
	"io"

	"solardash/internal/charts"
	"solardash/internal/config"
	"solardash/internal/exporter"
	"solardash/internal/services"
)

// DashboardServiceInterface defines the dashboard operations the handlers need
type DashboardServiceInterface interface {
	Config() config.DashboardConfig
	HasDataset(sessionID string) bool
	Upload(ctx context.Context, sessionID, filename string, r io.Reader, size int64) (*services.Report, error)
	Clear(ctx context.Context, sessionID string) bool
	Report(ctx context.Context, sessionID string, q services.Query) (*services.Report, error)

	// Rendering
	RenderCharts(ctx context.Context, report *services.Report, format charts.Format) (map[charts.Kind][]byte, error)
	Chart(ctx context.Context, sessionID string, kind charts.Kind, format charts.Format, q services.Query) ([]byte, error)

	Export(ctx context.Context, sessionID string, q services.Query, format exporter.Format, bom bool) (*services.Download, error)
}

var _ DashboardServiceInterface = (*services.DashboardService)(nil)
