package charts

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"solardash/internal/analysis"
)

const (
	polarTitle = "Wind Speed vs Direction"
	polarRings = 4
	// dots are drawn at 75% opacity
	polarAlpha = 191
)

var (
	gridColor = drawing.Color{R: 200, G: 200, B: 200, A: 255}
	dotColor  = drawing.Color{R: 31, G: 119, B: 180, A: 255}
)

// Polar draws the wind points on a polar grid with direction zero pointing
// right and angles increasing counterclockwise.
func Polar(w io.Writer, data *analysis.WindData, opts Options) error {
	opts = opts.withDefaults()
	if data == nil || len(data.Points) == 0 {
		return ErrInsufficientData
	}

	r, err := canvas(opts)
	if err != nil {
		return err
	}
	title(r, polarTitle, opts.Width)

	radius := (min(opts.Width, opts.Height-36) - 60) / 2
	if radius < 10 {
		return fmt.Errorf("%w: %dx%d is too small", ErrInsufficientData, opts.Width, opts.Height)
	}
	cx, cy := opts.Width/2, 36+(opts.Height-36)/2

	outer := niceCeil(data.MaxSpeed)
	scale := float64(radius) / outer

	r.SetStrokeColor(gridColor)
	r.SetStrokeWidth(1)
	r.SetFontSize(8)
	r.SetFontColor(chart.ColorAlternateGray)
	for k := 1; k <= polarRings; k++ {
		ring := outer * float64(k) / polarRings
		r.Circle(ring*scale, cx, cy)
		r.Stroke()
		r.Text(strconv.FormatFloat(ring, 'g', 3, 64), cx+int(ring*scale*math.Cos(math.Pi/8))+2, cy-int(ring*scale*math.Sin(math.Pi/8)))
	}

	r.SetFontSize(10)
	r.SetFontColor(chart.ColorBlack)
	for deg := 0; deg < 360; deg += 45 {
		theta := analysis.Radians(float64(deg))
		x, y := polarToCanvas(cx, cy, float64(radius), theta)
		r.SetStrokeColor(gridColor)
		r.MoveTo(cx, cy)
		r.LineTo(x, y)
		r.Stroke()

		lx, ly := polarToCanvas(cx, cy, float64(radius+16), theta)
		centeredText(r, fmt.Sprintf("%d°", deg), lx, ly)
	}

	color := dotColor.WithAlpha(polarAlpha)
	r.SetFillColor(color)
	r.SetStrokeColor(color)
	r.SetStrokeWidth(0)
	for _, p := range data.Points {
		x, y := polarToCanvas(cx, cy, p.Speed*scale, p.Theta)
		r.Circle(3, x, y)
		r.Fill()
	}

	return r.Save(w)
}

// polarToCanvas maps (rho, theta) around the centre to pixel coordinates;
// the y axis of the canvas points down
func polarToCanvas(cx, cy int, rho, theta float64) (int, int) {
	return cx + int(math.Round(rho*math.Cos(theta))), cy - int(math.Round(rho*math.Sin(theta)))
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten
func niceCeil(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}
