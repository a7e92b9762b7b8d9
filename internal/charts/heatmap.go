package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"solardash/internal/analysis"
)

const (
	heatmapTitle     = "Correlation Heatmap"
	colorbarWidth    = 16
	colorbarSteps    = 64
	minAnnotatedCell = 28
)

// Heatmap draws the correlation matrix as coloured cells annotated with
// their two-decimal value, plus a colour bar over [-1, 1].
func Heatmap(w io.Writer, m *analysis.CorrelationMatrix, opts Options) error {
	opts = opts.withDefaults()
	if m == nil || len(m.Columns) == 0 {
		return ErrInsufficientData
	}

	r, err := canvas(opts)
	if err != nil {
		return err
	}
	title(r, heatmapTitle, opts.Width)

	n := len(m.Columns)
	labels := make([]string, n)
	labelWidth := 0
	for i, c := range m.Columns {
		labels[i] = opts.Format.text(c)
		labelWidth = max(labelWidth, r.MeasureText(labels[i]).Width())
	}

	top, left := 36, labelWidth+16
	right := colorbarWidth + 56
	bottom := labelWidth + 16
	cell := min((opts.Width-left-right)/n, (opts.Height-top-bottom)/n)
	if cell < 2 {
		return fmt.Errorf("%w: %d columns do not fit in %dx%d", ErrInsufficientData, n, opts.Width, opts.Height)
	}

	rounded := m.Rounded()
	annotate := cell >= minAnnotatedCell
	fontSize := math.Min(10, float64(cell)/4)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0, y0 := left+j*cell, top+i*cell
			bg := Coolwarm(m.Values[i][j])
			r.SetFillColor(bg)
			r.SetStrokeColor(chart.ColorWhite)
			r.SetStrokeWidth(1)
			rect(r, x0, y0, x0+cell, y0+cell)
			r.FillStroke()

			if annotate {
				r.SetFontSize(fontSize)
				r.SetFontColor(textColor(bg))
				centeredText(r, annotation(rounded[i][j]), x0+cell/2, y0+cell/2)
			}
		}
	}

	r.SetFontSize(10)
	r.SetFontColor(chart.ColorBlack)
	for i, c := range labels {
		box := r.MeasureText(c)
		// row labels, right aligned against the grid
		r.Text(c, left-8-box.Width(), top+i*cell+cell/2+box.Height()/2)

		// column labels read upwards from below the grid
		r.SetTextRotation(chart.DegreesToRadians(-90))
		r.Text(c, left+i*cell+cell/2+box.Height()/2, top+n*cell+8+box.Width())
		r.ClearTextRotation()
	}

	colorbar(r, left+n*cell+16, top, n*cell)
	return r.Save(w)
}

func annotation(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	// avoid "-0.00"
	if v == 0 {
		v = 0
	}
	return fmt.Sprintf("%.2f", v)
}

func colorbar(r chart.Renderer, left, top, height int) {
	step := float64(height) / colorbarSteps
	for k := 0; k < colorbarSteps; k++ {
		v := 1 - 2*(float64(k)+0.5)/colorbarSteps
		y0 := top + int(math.Round(float64(k)*step))
		y1 := top + int(math.Round(float64(k+1)*step))
		c := Coolwarm(v)
		r.SetFillColor(c)
		r.SetStrokeColor(c)
		r.SetStrokeWidth(0)
		rect(r, left, y0, left+colorbarWidth, y1)
		r.Fill()
	}

	r.SetFontSize(9)
	r.SetFontColor(chart.ColorBlack)
	for _, tick := range []float64{1, 0.5, 0, -0.5, -1} {
		y := top + int(math.Round((1-tick)/2*float64(height)))
		label := fmt.Sprintf("%.1f", tick)
		box := r.MeasureText(label)
		r.Text(label, left+colorbarWidth+6, y+box.Height()/2)
	}
}
