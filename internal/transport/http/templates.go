package http

import (
	"embed"
	"fmt"
	"html/template"

	"solardash/internal/analysis"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"formatSize": func(size int64) string {
		const unit = 1024
		if size < unit {
			return fmt.Sprintf("%d B", size)
		}
		div, exp := int64(unit), 0
		for n := size / unit; n >= unit; n /= unit {
			div *= unit
			exp++
		}
		return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
	},
	"histogramTitle": func(column string) string {
		if column == analysis.DefaultHistogramColumn {
			return "Histogram for Global Horizontal Irradiance (GHI)"
		}
		return "Histogram for " + column
	},
}

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/dashboard.html"))
