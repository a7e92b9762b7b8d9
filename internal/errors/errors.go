package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one rejected field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeNoDataset         = "NO_DATASET"
	CodeNotFound          = "NOT_FOUND"
	CodeColumnNotFound    = "COLUMN_NOT_FOUND"
	CodeColumnNotNumeric  = "COLUMN_NOT_NUMERIC"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeInvalidFile       = "INVALID_FILE"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	CodeServiceDown       = "SERVICE_UNAVAILABLE"
)

// Predefined errors for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")
	ErrMissingFile      = New(http.StatusBadRequest, CodeInvalidRequest, "A file must be uploaded in the 'file' form field")

	// 404 Not Found
	ErrNotFound  = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrNoDataset = New(http.StatusNotFound, CodeNoDataset, "No dataset uploaded. Please upload a CSV file to begin.")

	// 413 Payload Too Large
	ErrFileTooLarge = New(http.StatusRequestEntityTooLarge, CodeFileTooLarge, "Uploaded file exceeds the maximum allowed size")

	// 415 Unsupported Media Type
	ErrUnsupportedFormat = New(http.StatusUnsupportedMediaType, CodeUnsupportedFormat, "Only CSV and XLSX files are supported")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, CodeInternal, "Internal server error")

	// 503 Service Unavailable
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeServiceDown, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", []ValidationError{{
		Field:   field,
		Message: message,
	}})
}

// NewValidationErrors creates a validation error listing every rejected field
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", errs)
}

// InvalidFileError reports an upload that could not be parsed
func InvalidFileError(err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeInvalidFile, "The uploaded file could not be read as a table", err.Error())
}

// ColumnNotFoundError reports a requested column absent from the dataset
func ColumnNotFoundError(column string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeColumnNotFound, fmt.Sprintf("Column %q not found in the dataset", column), column)
}

// ColumnNotNumericError reports a column that cannot be plotted numerically
func ColumnNotNumericError(column string) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeColumnNotNumeric, fmt.Sprintf("Column %q is not numeric", column), column)
}

// InsufficientDataError reports data too sparse for the requested analysis
func InsufficientDataError(detail string) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeInsufficientData, "Not enough data for this analysis", detail)
}
