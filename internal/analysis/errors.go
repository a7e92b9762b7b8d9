package analysis

import "errors"

var (
	// ErrNoColumns is returned when a view is requested with an empty selection
	ErrNoColumns = errors.New("analysis: no columns selected")
	// ErrNoData is returned when the selected columns hold no present values
	ErrNoData = errors.New("analysis: no values to analyse")
	// ErrInvalidBins is returned for a bin count outside the allowed range
	ErrInvalidBins = errors.New("analysis: invalid bin count")
)
