package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// Strategy selects how missing cells are handled
type Strategy string

const (
	StrategyNone        Strategy = "none"
	StrategyForwardFill Strategy = "ffill"
	StrategyDrop        Strategy = "drop"
	StrategyMean        Strategy = "mean"
	StrategyMedian      Strategy = "median"
)

// Strategies lists every strategy in the order the dashboard offers them
func Strategies() []Strategy {
	return []Strategy{StrategyNone, StrategyForwardFill, StrategyDrop, StrategyMean, StrategyMedian}
}

// ParseStrategy accepts a strategy id; the empty string means StrategyNone
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return StrategyNone, nil
	}
	for _, st := range Strategies() {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Label is the text shown next to the strategy's radio button
func (s Strategy) Label() string {
	switch s {
	case StrategyForwardFill:
		return "Forward fill"
	case StrategyDrop:
		return "Drop rows with missing values"
	case StrategyMean:
		return "Fill numeric columns with the column mean"
	case StrategyMedian:
		return "Fill numeric columns with the column median"
	default:
		return "No action"
	}
}

// Notice is the confirmation shown after the strategy ran
func (s Strategy) Notice() string {
	switch s {
	case StrategyForwardFill:
		return "Missing values filled using forward fill!"
	case StrategyDrop:
		return "Rows with missing values have been dropped!"
	case StrategyMean:
		return "Missing numeric values filled with the column mean!"
	case StrategyMedian:
		return "Missing numeric values filled with the column median!"
	default:
		return ""
	}
}

// Clean returns a new Dataset with strategy applied
func (d *Dataset) Clean(strategy Strategy) (*Dataset, error) {
	switch strategy {
	case StrategyNone, "":
		return d, nil
	case StrategyForwardFill:
		return d.mapColumns(forwardFill)
	case StrategyDrop:
		return d.dropMissing()
	case StrategyMean:
		return d.mapColumns(fillNumeric(stat.Mean))
	case StrategyMedian:
		return d.mapColumns(fillNumeric(median))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

func (d *Dataset) mapColumns(fn func(series.Series) series.Series) (*Dataset, error) {
	names := d.frame.Names()
	if len(names) == 0 {
		return d, nil
	}
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = fn(d.frame.Col(name))
	}
	frame := dataframe.New(cols...)
	if err := frame.Error(); err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	return d.derive(frame, d.Index()), nil
}

// forwardFill replaces each missing cell with the last present value above
// it. Leading missing cells have nothing to copy and stay missing.
func forwardFill(s series.Series) series.Series {
	if !s.HasNaN() {
		return s
	}
	source := make([]int, s.Len())
	last := -1
	for i, na := range s.IsNaN() {
		if !na {
			last = i
		}
		if na && last >= 0 {
			source[i] = last
		} else {
			source[i] = i
		}
	}
	filled := s.Subset(source)
	filled.Name = s.Name
	return filled
}

// fillNumeric replaces missing cells of float columns with agg over the
// present values. Other columns are returned unchanged.
func fillNumeric(agg func(x, weights []float64) float64) func(series.Series) series.Series {
	return func(s series.Series) series.Series {
		if s.Type() != series.Float || !s.HasNaN() {
			return s
		}
		values := s.Float()
		present := presentValues(values)
		if len(present) == 0 {
			return s
		}
		fill := agg(present, nil)
		for i, v := range values {
			if math.IsNaN(v) {
				values[i] = fill
			}
		}
		return series.New(values, series.Float, s.Name)
	}
}

// median takes the mean of the two middle values for even counts
func median(x, _ []float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func presentValues(values []float64) []float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	return present
}

// dropMissing removes every row with at least one missing cell
func (d *Dataset) dropMissing() (*Dataset, error) {
	rows := d.frame.Nrow()
	complete := make([]bool, rows)
	for i := range complete {
		complete[i] = true
	}
	for _, name := range d.frame.Names() {
		for i, na := range d.frame.Col(name).IsNaN() {
			if na {
				complete[i] = false
			}
		}
	}

	keep := make([]int, 0, rows)
	index := make([]int, 0, rows)
	for i, ok := range complete {
		if ok {
			keep = append(keep, i)
			index = append(index, d.index[i])
		}
	}
	if len(keep) == rows {
		return d, nil
	}

	frame := d.frame.Subset(keep)
	if err := frame.Error(); err != nil {
		return nil, fmt.Errorf("drop missing: %w", err)
	}
	return d.derive(frame, index), nil
}
