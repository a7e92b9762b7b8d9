package dataset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// Format identifies an upload's file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// MissingTokens are read as missing in every column
var MissingTokens = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan", "NULL", "null",
	"None", "<NA>", "<nil>", "#N/A", "#NA", "#N/A N/A",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatFromFilename picks the format from the file extension
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// LoadOptions bounds a load
type LoadOptions struct {
	// MaxRows rejects tables with more data rows; zero means unbounded
	MaxRows int
	// Format overrides detection from the file name
	Format Format
}

// Load parses r as a table named name. The first row is the header; blank
// or duplicate header names are renamed (X0, GHI_0, GHI_1, ...).
func Load(r io.Reader, name string, size int64, opts LoadOptions) (*Dataset, error) {
	format := opts.Format
	if format == "" {
		var err error
		if format, err = FormatFromFilename(name); err != nil {
			return nil, err
		}
	}

	var frame dataframe.DataFrame
	switch format {
	case FormatCSV:
		frame = dataframe.ReadCSV(skipBOM(r), loadOptions()...)
	case FormatXLSX:
		records, err := readXLSXRecords(r)
		if err != nil {
			return nil, err
		}
		frame = dataframe.LoadRecords(records, loadOptions()...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := frame.Error(); err != nil {
		if strings.Contains(err.Error(), "empty DataFrame") {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if opts.MaxRows > 0 && frame.Nrow() > opts.MaxRows {
		return nil, fmt.Errorf("%w: %d rows exceeds limit of %d", ErrTooManyRows, frame.Nrow(), opts.MaxRows)
	}

	return New(name, size, frame)
}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingTokens),
	}
}

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// readXLSXRecords reads the first sheet. Short rows are padded to the header
// width and fully blank rows are skipped.
func readXLSXRecords(r io.Reader) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i > 0 && isBlank(row) {
			continue
		}
		if len(row) > width {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrInvalidFile, i+1, len(row), width)
		}
		padded := make([]string, width)
		copy(padded, row)
		records = append(records, padded)
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// IsUserError reports whether err was caused by the uploaded content rather
// than by the server
func IsUserError(err error) bool {
	return errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrInvalidFile) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrTooManyRows)
}
