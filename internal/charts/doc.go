// Package charts renders analysis results to PNG or SVG with go-chart.
//
// Line and histogram charts are built on chart.Chart. The correlation
// heatmap and the polar wind scatter are drawn directly on a chart.Renderer
// because go-chart has no cell or polar layout.
package charts
