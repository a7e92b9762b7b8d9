// Package exporter writes a dataset back out as CSV or XLSX.
//
// CSV output can carry a UTF-8 BOM so spreadsheet applications detect the
// encoding. XLSX output holds a single sheet named "data" with a bold header
// row and typed numeric cells. Missing values are written as empty cells in
// both formats.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(exporter.WriteOptions{BOMPrefix: true})
//	err := w.Write(resp, cleaned)
//
//	err = exporter.WriteFile("out/cleaned.xlsx", exporter.FormatXLSX, cleaned, exporter.WriteOptions{})
package exporter
