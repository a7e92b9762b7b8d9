package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
)

// Coercion records an object column converted to a numeric dtype
type Coercion struct {
	Column string `json:"column"`
	From   DType  `json:"from"`
	To     DType  `json:"to"`
	// Coerced counts present cells that failed to parse and are now missing
	Coerced int `json:"coerced"`
}

// CoerceObjects converts every object column to a numeric column, turning
// unparseable cells into missing values. Columns in which no cell parses stay
// object. A converted column is int64 when every cell is a present integer.
func (d *Dataset) CoerceObjects() (*Dataset, []Coercion) {
	frame := d.frame
	var report []Coercion
	for _, name := range frame.Names() {
		col := frame.Col(name)
		if col.Type() != series.String {
			continue
		}
		converted, coerced, ok := toNumeric(col)
		if !ok {
			continue
		}
		frame = frame.Mutate(converted)
		report = append(report, Coercion{
			Column:  name,
			From:    DTypeObject,
			To:      dtypeOf(converted.Type()),
			Coerced: coerced,
		})
	}
	if len(report) == 0 || frame.Error() != nil {
		return d, nil
	}
	return d.derive(frame, d.Index()), report
}

func toNumeric(col series.Series) (series.Series, int, bool) {
	values := make([]float64, col.Len())
	parsed, coerced := 0, 0
	integral := true
	for i := range values {
		e := col.Elem(i)
		if e.IsNA() {
			values[i] = math.NaN()
			integral = false
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(e.String()), 64)
		if err != nil || math.IsNaN(v) {
			values[i] = math.NaN()
			integral = false
			coerced++
			continue
		}
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			integral = false
		}
		values[i] = v
		parsed++
	}
	if parsed == 0 {
		return series.Series{}, 0, false
	}
	if integral {
		ints := make([]int, len(values))
		for i, v := range values {
			ints[i] = int(v)
		}
		return series.New(ints, series.Int, col.Name), coerced, true
	}
	return series.New(values, series.Float, col.Name), coerced, true
}
