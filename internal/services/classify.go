package services

import (
	"errors"
	"net/http"
	"strings"

	"solardash/internal/analysis"
	"solardash/internal/charts"
	"solardash/internal/dataset"
	apperrors "solardash/internal/errors"
	"solardash/internal/exporter"
)

// ClassifyError maps dashboard errors to API errors. It returns nil for
// errors it does not recognise.
func ClassifyError(err error) *apperrors.APIError {
	var widget *WidgetError
	if errors.As(err, &widget) {
		apiErr := classify(widget.Err)
		if apiErr == nil {
			return nil
		}
		out := *apiErr
		out.Message = widget.Message
		return &out
	}
	return classify(err)
}

func classify(err error) *apperrors.APIError {
	switch {
	case errors.Is(err, ErrNoDataset):
		return apperrors.ErrNoDataset
	case errors.Is(err, ErrMissingFile):
		return apperrors.ErrMissingFile
	case errors.Is(err, ErrInvalidStrategy), errors.Is(err, dataset.ErrUnknownStrategy):
		return apperrors.ErrValidation("strategy", err.Error())
	case errors.Is(err, ErrInvalidBins), errors.Is(err, analysis.ErrInvalidBins):
		return apperrors.ErrValidation("bins", err.Error())
	case errors.Is(err, ErrInvalidRows):
		return apperrors.ErrValidation("rows", err.Error())
	case errors.Is(err, analysis.ErrNoColumns):
		return apperrors.ErrValidation("columns", "at least one column must be selected")
	case errors.Is(err, ErrFileTooLarge), errors.Is(err, dataset.ErrTooManyRows):
		return apperrors.NewWithDetails(http.StatusRequestEntityTooLarge, apperrors.CodeFileTooLarge,
			apperrors.ErrFileTooLarge.Message, err.Error())
	case errors.Is(err, dataset.ErrUnsupportedFormat), errors.Is(err, exporter.ErrUnsupportedFormat):
		return apperrors.NewWithDetails(http.StatusUnsupportedMediaType, apperrors.CodeUnsupportedFormat,
			apperrors.ErrUnsupportedFormat.Message, err.Error())
	case errors.Is(err, charts.ErrUnknownKind), errors.Is(err, charts.ErrUnknownFormat):
		return apperrors.NewWithDetails(http.StatusNotFound, apperrors.CodeNotFound, "Unknown chart", err.Error())
	case errors.Is(err, dataset.ErrEmptyFile), errors.Is(err, dataset.ErrInvalidFile):
		return apperrors.InvalidFileError(err)
	case errors.Is(err, dataset.ErrColumnNotFound):
		return apperrors.ColumnNotFoundError(detail(err, dataset.ErrColumnNotFound))
	case errors.Is(err, dataset.ErrNotNumeric):
		column, _, _ := strings.Cut(detail(err, dataset.ErrNotNumeric), " is ")
		return apperrors.ColumnNotNumericError(column)
	case errors.Is(err, analysis.ErrNoData), errors.Is(err, charts.ErrInsufficientData):
		return apperrors.InsufficientDataError(err.Error())
	}
	return nil
}

// detail returns the text wrapped after sentinel, "GHI" for "...: GHI"
func detail(err, sentinel error) string {
	_, after, found := strings.Cut(err.Error(), sentinel.Error()+": ")
	if !found {
		return err.Error()
	}
	return after
}
