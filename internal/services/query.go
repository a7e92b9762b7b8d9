package services

import (
	"fmt"

	"solardash/internal/analysis"
	"solardash/internal/config"
	"solardash/internal/dataset"
)

// Query carries the page controls of one interaction. A nil column list
// means "use the default selection"; a non-nil empty list is an explicit
// empty selection and produces the widget's warning.
type Query struct {
	Strategy    dataset.Strategy
	ShowCleaned bool
	LineColumns []string
	HistColumn  string
	Bins        int
	CorrColumns []string
	Rows        int
}

// Selection is the query after defaults were applied against a dataset
type Selection struct {
	Strategy    dataset.Strategy `json:"strategy"`
	ShowCleaned bool             `json:"show_cleaned"`
	LineColumns []string         `json:"line_columns"`
	HistColumn  string           `json:"hist_column"`
	Bins        int              `json:"bins"`
	CorrColumns []string         `json:"corr_columns"`
	Rows        int              `json:"rows"`
}

// normalize fills the zero fields of q from cfg and checks the bounds that do
// not depend on the data
func (q Query) normalize(cfg config.DashboardConfig) (Query, error) {
	strategy, err := dataset.ParseStrategy(string(q.Strategy))
	if err != nil {
		return q, fmt.Errorf("%w: %q", ErrInvalidStrategy, q.Strategy)
	}
	q.Strategy = strategy

	if q.Bins == 0 {
		q.Bins = cfg.DefaultBins
	}
	if q.Bins < cfg.MinBins || q.Bins > cfg.MaxBins {
		return q, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBins, q.Bins, cfg.MinBins, cfg.MaxBins)
	}

	if q.Rows == 0 {
		q.Rows = cfg.PreviewRows
	}
	if q.Rows < 1 || q.Rows > config.MaxPreviewRows {
		return q, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidRows, q.Rows, config.MaxPreviewRows)
	}

	if q.HistColumn == "" {
		q.HistColumn = analysis.DefaultHistogramColumn
	}
	return q, nil
}

// resolve applies the column defaults of the page against the coerced table
func (q Query) resolve(d *dataset.Dataset) Selection {
	sel := Selection{
		Strategy:    q.Strategy,
		ShowCleaned: q.ShowCleaned,
		LineColumns: q.LineColumns,
		HistColumn:  q.HistColumn,
		Bins:        q.Bins,
		CorrColumns: q.CorrColumns,
		Rows:        q.Rows,
	}
	if sel.LineColumns == nil {
		sel.LineColumns = analysis.DefaultSelection(d, analysis.DefaultLineColumns)
	}
	if sel.CorrColumns == nil {
		sel.CorrColumns = d.NumericColumns()
	}
	if sel.LineColumns == nil {
		sel.LineColumns = []string{}
	}
	if sel.CorrColumns == nil {
		sel.CorrColumns = []string{}
	}
	return sel
}
