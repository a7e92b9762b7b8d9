package analysis

import (
	"solardash/internal/dataset"
)

// DefaultLineColumns are preselected for the line chart when present
var DefaultLineColumns = []string{"GHI", "DNI", "DHI"}

// Series is one column plotted against the row labels
type Series struct {
	Column string    `json:"column"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

// LineData holds every series of a line chart
type LineData struct {
	Series []Series `json:"series"`
}

// DefaultSelection keeps the preferred columns that exist and are numeric
func DefaultSelection(d *dataset.Dataset, preferred []string) []string {
	numeric := make(map[string]bool)
	for _, c := range d.NumericColumns() {
		numeric[c] = true
	}
	var out []string
	for _, c := range preferred {
		if numeric[c] {
			out = append(out, c)
		}
	}
	return out
}

// Line extracts the selected numeric columns against the dataset index.
// Missing values are kept as NaN so the chart breaks the line there;
// infinite values break it too.
func Line(d *dataset.Dataset, columns []string) (*LineData, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	index := d.Index()
	x := make([]float64, len(index))
	for i, label := range index {
		x[i] = float64(label)
	}

	data := &LineData{Series: make([]Series, 0, len(columns))}
	for _, column := range dedupe(columns) {
		y, err := d.Float(column)
		if err != nil {
			return nil, err
		}
		data.Series = append(data.Series, Series{Column: column, X: x, Y: y})
	}
	return data, nil
}

func dedupe(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
