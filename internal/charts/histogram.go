package charts

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"solardash/internal/analysis"
)

var (
	barEdge  = drawing.Color{R: 70, G: 130, B: 180, A: 255}
	kdeColor = drawing.Color{R: 31, G: 78, B: 121, A: 255}
)

// Histogram draws the bins as filled bars with the density curve on top
func Histogram(w io.Writer, data *analysis.HistogramData, opts Options) error {
	opts = opts.withDefaults()
	if data == nil || len(data.Bins) == 0 || data.Count == 0 {
		return ErrInsufficientData
	}

	column := opts.Format.text(data.Column)
	xs, ys := stepOutline(data.Bins)
	top := 0.0
	for _, y := range ys {
		top = max(top, y)
	}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name: "count",
			Style: chart.Style{
				StrokeColor: barEdge,
				StrokeWidth: 1,
				FillColor:   SkyBlue,
			},
			XValues: xs,
			YValues: ys,
		},
	}

	lo, hi := data.Bins[0].Low, data.Bins[len(data.Bins)-1].High
	if len(data.KDE) > 1 {
		kx := make([]float64, len(data.KDE))
		ky := make([]float64, len(data.KDE))
		for i, p := range data.KDE {
			kx[i], ky[i] = p.X, p.Y
			top = max(top, p.Y)
		}
		lo, hi = min(lo, kx[0]), max(hi, kx[len(kx)-1])
		series = append(series, chart.ContinuousSeries{
			Name:    "density",
			Style:   chart.Style{StrokeColor: kdeColor, StrokeWidth: 2},
			XValues: kx,
			YValues: ky,
		})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("Distribution of %s", column),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 12}},
		XAxis:      chart.XAxis{Name: column, Range: paddedRange(lo, hi)},
		YAxis:      chart.YAxis{Name: "Count", Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(ch, opts, w)
}

// stepOutline traces the top of the bars from the baseline on the left to
// the baseline on the right
func stepOutline(bins []analysis.Bin) ([]float64, []float64) {
	xs := make([]float64, 0, len(bins)*2+2)
	ys := make([]float64, 0, len(bins)*2+2)
	xs, ys = append(xs, bins[0].Low), append(ys, 0)
	for _, b := range bins {
		c := float64(b.Count)
		xs = append(xs, b.Low, b.High)
		ys = append(ys, c, c)
	}
	xs, ys = append(xs, bins[len(bins)-1].High), append(ys, 0)
	return xs, ys
}
