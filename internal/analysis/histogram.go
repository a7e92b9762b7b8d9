package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"solardash/internal/dataset"
)

const (
	// DefaultHistogramColumn is the irradiance column the histogram starts on
	DefaultHistogramColumn = "GHI"
	// KDEPoints is the number of samples of the density curve
	KDEPoints = 200
	// kdeCut extends the density curve past the data by this many bandwidths
	kdeCut = 3
)

// Bin is one histogram bar covering [Low, High)
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Point is a sample of a curve
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HistogramData is a binned column with its density estimate scaled to counts
type HistogramData struct {
	Column    string  `json:"column"`
	Bins      []Bin   `json:"bins"`
	KDE       []Point `json:"kde,omitempty"`
	Bandwidth float64 `json:"bandwidth,omitempty"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Histogram bins the present, finite values of column into bins equal-width bars.
// The last bar includes its upper edge. A column holding a single distinct
// value is centred in a range one unit wide.
func Histogram(d *dataset.Dataset, column string, bins int) (*HistogramData, error) {
	if bins < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBins, bins)
	}
	values, err := d.Float(column)
	if err != nil {
		return nil, err
	}
	x := present(values)
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: %s has no values", ErrNoData, column)
	}
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if math.IsInf(hi-lo, 0) {
		return nil, fmt.Errorf("%w: %s spans more than the float range", ErrNoData, column)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi

	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)

	h := &HistogramData{
		Column: column,
		Bins:   make([]Bin, bins),
		Count:  len(x),
		Min:    x[0],
		Max:    x[len(x)-1],
	}
	for i := range h.Bins {
		h.Bins[i] = Bin{Low: edges[i], High: edges[i+1], Count: int(counts[i])}
	}

	h.Mean = stat.Mean(x, nil)
	if len(x) > 1 {
		h.StdDev = stat.StdDev(x, nil)
	}
	if bw := scottBandwidth(h.StdDev, len(x)); bw > 0 {
		h.Bandwidth = bw
		h.KDE = kde(x, bw, (hi-lo)/float64(bins))
	}
	return h, nil
}

// scottBandwidth is Scott's rule for a one-dimensional Gaussian kernel
func scottBandwidth(std float64, n int) float64 {
	if n < 2 || std == 0 || math.IsNaN(std) {
		return 0
	}
	return std * math.Pow(float64(n), -1.0/5)
}

// kde samples a Gaussian kernel density estimate and scales it so the curve
// sits on the same axis as bin counts of the given width.
func kde(x []float64, bandwidth, binWidth float64) []Point {
	lo := x[0] - kdeCut*bandwidth
	hi := x[len(x)-1] + kdeCut*bandwidth
	grid := floats.Span(make([]float64, KDEPoints), lo, hi)

	kernels := make([]distuv.Normal, len(x))
	for i, v := range x {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bandwidth}
	}

	scale := float64(len(x)) * binWidth
	points := make([]Point, len(grid))
	for i, g := range grid {
		var density float64
		for _, k := range kernels {
			density += k.Prob(g)
		}
		points[i] = Point{X: g, Y: density / float64(len(x)) * scale}
	}
	return points
}

// TotalCount sums the bar heights
func (h *HistogramData) TotalCount() int {
	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	return total
}

// present drops missing and infinite values; neither can be binned
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if Finite(v) {
			out = append(out, v)
		}
	}
	return out
}

// Finite reports whether v is neither missing nor infinite
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
