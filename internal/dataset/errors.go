package dataset

import "errors"

var (
	// ErrEmptyFile is returned for uploads without a header or without data rows
	ErrEmptyFile = errors.New("dataset: file has no data rows")
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX
	ErrUnsupportedFormat = errors.New("dataset: unsupported file format")
	// ErrInvalidFile wraps parse failures of the uploaded file
	ErrInvalidFile = errors.New("dataset: invalid file")
	// ErrTooManyRows is returned when an upload exceeds the configured row limit
	ErrTooManyRows = errors.New("dataset: too many rows")
	// ErrColumnNotFound is returned when a referenced column does not exist
	ErrColumnNotFound = errors.New("dataset: column not found")
	// ErrNotNumeric is returned when a numeric column is required
	ErrNotNumeric = errors.New("dataset: column is not numeric")
	// ErrUnknownStrategy is returned for an unrecognised cleaning strategy
	ErrUnknownStrategy = errors.New("dataset: unknown cleaning strategy")
)
