package charts

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"solardash/internal/analysis"
)

// Line draws one line per series against the row index. Missing values
// break the line; isolated values are drawn as dots.
func Line(w io.Writer, data *analysis.LineData, opts Options) error {
	opts = opts.withDefaults()
	if data == nil || len(data.Series) == 0 || len(data.Series[0].X) < 2 {
		return ErrInsufficientData
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	var series []chart.Series
	for i, s := range data.Series {
		color := SeriesColor(i)
		name := opts.Format.text(s.Column)
		for _, seg := range segments(s.X, s.Y) {
			for _, v := range seg.y {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
			series = append(series, chart.ContinuousSeries{
				Name: name,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 1.5,
					DotColor:    color,
					DotWidth:    dotWidth(len(seg.x)),
				},
				XValues: seg.x,
				YValues: seg.y,
			})
			// only the first segment appears in the legend
			name = ""
		}
	}
	if len(series) == 0 || math.IsInf(hi-lo, 0) {
		return ErrInsufficientData
	}

	x := data.Series[0].X
	ch := chart.Chart{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 12}},
		XAxis: chart.XAxis{
			Name:  "Row",
			Range: paddedRange(x[0], x[len(x)-1]),
		},
		YAxis: chart.YAxis{
			Name:  "Value",
			Range: paddedRange(lo, hi),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(ch, opts, w)
}

type segment struct {
	x, y []float64
}

// segments splits a series into runs of present, finite values
func segments(x, y []float64) []segment {
	var out []segment
	var cur segment
	for i := range y {
		if !analysis.Finite(y[i]) {
			if len(cur.x) > 0 {
				out = append(out, cur)
				cur = segment{}
			}
			continue
		}
		cur.x = append(cur.x, x[i])
		cur.y = append(cur.y, y[i])
	}
	if len(cur.x) > 0 {
		out = append(out, cur)
	}
	return out
}

func dotWidth(points int) float64 {
	if points == 1 {
		return 2
	}
	return 0
}
