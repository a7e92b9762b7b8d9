// Package http implements the HTTP handlers of the solar dashboard. It is a
// thin layer between the chi router and the dashboard service: handlers parse
// and validate the request, call the service and format the response.
//
// # Surfaces
//
// The package serves two surfaces over the same service:
//
//	PageHandler      GET /, POST /upload, POST /clear (server-rendered HTML)
//	ChartHandler     GET /charts/{kind}.{format} (PNG or SVG images)
//	DashboardHandler /api/dataset and /api/analysis/* (JSON)
//	HealthHandler    /api/health, /api/health/live, /api/health/ready, /api/version
//	MetricsHandler   /metrics (Prometheus) and /metrics/sessions
//
// # Query Parameters
//
// The page form, the chart images and the JSON endpoints share one query:
//
//	strategy      none | ffill | drop | mean | median
//	show_cleaned  include the cleaned preview
//	line          repeatable, columns of the line chart
//	hist_column   histogram column, GHI by default
//	bins          histogram bins
//	corr          repeatable, columns of the correlation matrix
//	rows          preview length
//	submitted     set by the page form; absent line or corr then means none
//
// # Error Handling
//
// JSON and image endpoints answer with RFC 7807 problem documents produced by
// the central ErrorHandler:
//
//	{
//	    "type": "/errors/dataset/column-not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "GHI column is missing in the dataset!",
//	    "instance": "/api/analysis/histogram",
//	    "error_code": "COLUMN_NOT_FOUND",
//	    "trace_id": "..."
//	}
//
// The page shows the same detail inline instead.
//
// # Sessions
//
// Every handler reads the session id placed on the context by the Session
// middleware; a browser only ever sees its own upload.
package http
