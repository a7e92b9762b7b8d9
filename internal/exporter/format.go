package exporter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
)

// ErrUnsupportedFormat is returned for export formats other than csv and xlsx
var ErrUnsupportedFormat = errors.New("exporter: unsupported format")

// Format is an export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates an export format; the empty string means CSV
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the encoding
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename derives the download name from the uploaded file name
func (f Format) Filename(source string) string {
	base := source
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "dataset"
	}
	return base + "_cleaned." + string(f)
}

// formatCell renders an element for CSV output. Missing cells are empty.
func formatCell(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	switch e.Type() {
	case series.Float:
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	default:
		return e.String()
	}
}

// cellValue returns the typed value for a spreadsheet cell, nil when missing
func cellValue(e series.Element) interface{} {
	if e.IsNA() {
		return nil
	}
	switch e.Type() {
	case series.Float:
		return e.Float()
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return e.String()
		}
		return v
	case series.Bool:
		v, err := e.Bool()
		if err != nil {
			return e.String()
		}
		return v
	default:
		return e.String()
	}
}
