package analysis

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/stat"

	"solardash/internal/dataset"
)

// CorrelationMatrix is a symmetric Pearson matrix over Columns
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Correlation computes the Pearson coefficient of every column pair on the
// rows where both cells are present and finite. Pairs with fewer than two
// such rows or with a constant side are NaN. The diagonal is 1 unless the
// column is constant or empty.
func Correlation(d *dataset.Dataset, columns []string) (*CorrelationMatrix, error) {
	columns = dedupe(columns)
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	data := make([][]float64, len(columns))
	for i, c := range columns {
		values, err := d.Float(c)
		if err != nil {
			return nil, err
		}
		data[i] = values
	}

	m := &CorrelationMatrix{
		Columns: columns,
		Values:  make([][]float64, len(columns)),
	}
	for i := range columns {
		m.Values[i] = make([]float64, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			r := pairwise(data[i], data[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pairwise(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if !Finite(a[i]) || !Finite(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	// float error can push |r| just past 1
	return math.Max(-1, math.Min(1, r))
}

// Rounded returns the matrix rounded to two decimals, as annotated on the heatmap
func (m *CorrelationMatrix) Rounded() [][]float64 {
	out := make([][]float64, len(m.Values))
	for i, row := range m.Values {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = math.Round(v*100) / 100
		}
	}
	return out
}

// MarshalJSON writes NaN cells as null
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				v := row[j]
				values[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, values})
}
