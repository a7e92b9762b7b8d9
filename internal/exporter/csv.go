package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/series"

	"solardash/internal/dataset"
)

// WriteOptions configures export behavior
type WriteOptions struct {
	BOMPrefix    bool // Add UTF-8 BOM for Excel compatibility
	IncludeIndex bool // Prepend the original row labels as an unnamed column
}

// CSVWriter writes datasets as CSV
type CSVWriter struct {
	options WriteOptions
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(options WriteOptions) *CSVWriter {
	return &CSVWriter{options: options}
}

// Write encodes every row of d to w
func (c *CSVWriter) Write(w io.Writer, d *dataset.Dataset) error {
	if c.options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	header := d.Columns()
	if c.options.IncludeIndex {
		header = append([]string{""}, header...)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	cols := columns(d)
	index := d.Index()
	rows, _ := d.Shape()
	for i := 0; i < rows; i++ {
		record := make([]string, 0, len(header))
		if c.options.IncludeIndex {
			record = append(record, strconv.Itoa(index[i]))
		}
		for _, col := range cols {
			record = append(record, formatCell(col.Elem(i)))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func columns(d *dataset.Dataset) []series.Series {
	frame := d.Frame()
	names := frame.Names()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = frame.Col(name)
	}
	return cols
}

// WriteFile exports d to path in the given format, creating parent
// directories as needed
func WriteFile(path string, format Format, d *dataset.Dataset, options WriteOptions) error {
	slog.Debug("Writing export file",
		slog.String("file_path", path),
		slog.String("format", string(format)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, format, d, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write exports d to w in the given format
func Write(w io.Writer, format Format, d *dataset.Dataset, options WriteOptions) error {
	switch format {
	case FormatCSV, "":
		return NewCSVWriter(options).Write(w, d)
	case FormatXLSX:
		return NewXLSXWriter(options).Write(w, d)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
