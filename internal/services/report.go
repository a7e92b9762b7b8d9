package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"solardash/internal/analysis"
	"solardash/internal/charts"
	"solardash/internal/dataset"
)

// Messages shown on the page
const (
	MsgAwaitingUpload = "Awaiting CSV file upload for cleaning and analysis."
	MsgUnlockEDA      = "Upload a dataset to unlock EDA features."
	MsgNoMissing      = "No missing values detected!"
	MsgAbout          = "This dashboard allows users to perform data cleaning and exploratory data analysis on solar farm data."

	MsgNoLineColumns = "Please select at least one column for the line chart."
	MsgNoCorrColumns = "Please select at least one column for correlation analysis."
	MsgNoWindColumns = "Wind direction (WD) or speed (WS) columns are missing!"
)

// Warning replaces a widget that could not be drawn
type Warning struct {
	Widget  charts.Kind `json:"widget"`
	Message string      `json:"message"`
}

// WidgetError is why a widget has no data. Message is the text the page
// shows in its place.
type WidgetError struct {
	Widget  charts.Kind
	Message string
	Err     error
}

func (e *WidgetError) Error() string {
	return fmt.Sprintf("%s: %s", e.Widget, e.Message)
}

func (e *WidgetError) Unwrap() error {
	return e.Err
}

// Report is everything one interaction shows
type Report struct {
	FileName string    `json:"file_name"`
	FileSize int64     `json:"file_size"`
	LoadedAt time.Time `json:"loaded_at"`

	Shape   [2]int                `json:"shape"`
	Columns []string              `json:"columns"`
	Preview dataset.Preview       `json:"preview"`
	Missing dataset.MissingReport `json:"missing"`
	Info    []string              `json:"info,omitempty"`
	Notice  string                `json:"notice,omitempty"`

	DTypes        []dataset.ColumnType `json:"dtypes"`
	Coercions     []dataset.Coercion   `json:"coercions,omitempty"`
	CoercedDTypes []dataset.ColumnType `json:"coerced_dtypes"`
	CleanedShape  [2]int               `json:"cleaned_shape"`
	Cleaned       *dataset.Preview     `json:"cleaned,omitempty"`

	NumericColumns []string  `json:"numeric_columns"`
	Selection      Selection `json:"selection"`
	Warnings       []Warning `json:"warnings,omitempty"`

	Line        *analysis.LineData          `json:"-"`
	Histogram   *analysis.HistogramData     `json:"histogram,omitempty"`
	Correlation *analysis.CorrelationMatrix `json:"correlation,omitempty"`
	Wind        *analysis.WindData          `json:"-"`
	WindPoints  int                         `json:"wind_points"`

	data *dataset.Dataset
	errs map[charts.Kind]error
}

// HasMissing reports whether the upload had missing cells
func (r *Report) HasMissing() bool {
	return r.Missing.Total > 0
}

// Data returns the cleaned and coerced table
func (r *Report) Data() *dataset.Dataset {
	return r.data
}

// Err returns why kind cannot be drawn, or nil
func (r *Report) Err(kind charts.Kind) error {
	return r.errs[kind]
}

// WarningFor returns the warning text of a widget, or ""
func (r *Report) WarningFor(kind charts.Kind) string {
	for _, w := range r.Warnings {
		if w.Widget == kind {
			return w.Message
		}
	}
	return ""
}

func (r *Report) fail(kind charts.Kind, column string, err error) {
	we := &WidgetError{Widget: kind, Message: warningMessage(kind, column, err), Err: err}
	r.errs[kind] = we
	r.Warnings = append(r.Warnings, Warning{Widget: kind, Message: we.Message})
}

func (r *Report) warnedWidgets() []string {
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = string(w.Widget)
	}
	return out
}

// draw renders one widget to w
func (r *Report) draw(w io.Writer, kind charts.Kind, opts charts.Options) error {
	if err := r.errs[kind]; err != nil {
		return err
	}
	switch kind {
	case charts.KindLine:
		return charts.Line(w, r.Line, opts)
	case charts.KindHistogram:
		return charts.Histogram(w, r.Histogram, opts)
	case charts.KindCorrelation:
		return charts.Heatmap(w, r.Correlation, opts)
	case charts.KindWind:
		return charts.Polar(w, r.Wind, opts)
	}
	return fmt.Errorf("%w: %q", charts.ErrUnknownKind, kind)
}

func warningMessage(kind charts.Kind, column string, err error) string {
	switch {
	case kind == charts.KindLine && errors.Is(err, analysis.ErrNoColumns):
		return MsgNoLineColumns
	case kind == charts.KindCorrelation && errors.Is(err, analysis.ErrNoColumns):
		return MsgNoCorrColumns
	case kind == charts.KindWind && errors.Is(err, dataset.ErrColumnNotFound):
		return MsgNoWindColumns
	case kind == charts.KindHistogram && errors.Is(err, dataset.ErrColumnNotFound):
		return fmt.Sprintf("%s column is missing in the dataset!", column)
	case errors.Is(err, dataset.ErrColumnNotFound):
		return "Some selected columns are missing in the dataset!"
	case errors.Is(err, dataset.ErrNotNumeric):
		if column != "" {
			return fmt.Sprintf("%s column is not numeric!", column)
		}
		return "Only numeric columns can be plotted!"
	case errors.Is(err, analysis.ErrNoData), errors.Is(err, charts.ErrInsufficientData):
		return fmt.Sprintf("Not enough data to draw the %s chart.", kind)
	default:
		return fmt.Sprintf("The %s chart could not be drawn.", kind)
	}
}
