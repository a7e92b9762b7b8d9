// Package services implements the dashboard's business logic. It sits between
// the HTTP handlers and the dataset, analysis and charts packages so that
// every interaction runs the same pipeline whether it arrives from the page,
// the JSON API or the command line.
//
// # Pipeline
//
// Each request re-runs the whole script on a fresh copy of the uploaded
// table:
//
//	load -> missing report -> clean -> dtypes -> coerce -> analysis -> charts
//
// Only the raw upload is kept, in the session store. The cleaning choice and
// the chart selections arrive with every request as a Query.
//
// # Warnings
//
// A widget that cannot be drawn (no selection, a missing GHI, WD or WS
// column, too little data) becomes a Warning on the Report instead of an
// error. The JSON analysis endpoints and the single chart endpoint surface
// the underlying error so that ClassifyError can map it to a problem
// document.
//
// # Available Services
//
//	- DashboardService: upload, report, charts, export and clear
//	- HealthService: liveness, readiness and version information
package services
