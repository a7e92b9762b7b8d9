// Package analysis computes the dashboard's exploratory views from a cleaned
// dataset: line series, histograms with a kernel density overlay, Pearson
// correlation matrices and polar wind points.
//
// Every function is pure. Missing cells (NaN) are skipped per view, so the
// same Dataset can feed all four views without further cleaning.
package analysis
