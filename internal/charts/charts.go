package charts

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrInsufficientData is returned when the data cannot produce a chart
	ErrInsufficientData = errors.New("charts: not enough data to draw")
	// ErrUnknownKind is returned for an unrecognised chart kind
	ErrUnknownKind = errors.New("charts: unknown chart kind")
	// ErrUnknownFormat is returned for an unsupported image format
	ErrUnknownFormat = errors.New("charts: unknown image format")
)

// Kind names one of the dashboard charts
type Kind string

const (
	KindLine        Kind = "line"
	KindHistogram   Kind = "histogram"
	KindCorrelation Kind = "correlation"
	KindWind        Kind = "wind"
)

// Kinds lists the charts in page order
func Kinds() []Kind {
	return []Kind{KindLine, KindHistogram, KindCorrelation, KindWind}
}

// ParseKind validates a chart kind
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Format is an image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat validates an image format; the empty string means PNG
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the encoding
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// text escapes user supplied labels; the SVG renderer writes them verbatim
func (f Format) text(s string) string {
	if f == FormatSVG {
		return html.EscapeString(s)
	}
	return s
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// Options sizes and encodes a chart
type Options struct {
	Width  int
	Height int
	Format Format
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 960
	}
	if o.Height <= 0 {
		o.Height = 540
	}
	if o.Format == "" {
		o.Format = FormatPNG
	}
	return o
}

var (
	// SkyBlue fills histogram bars
	SkyBlue = drawing.Color{R: 135, G: 206, B: 235, A: 255}

	palette = []drawing.Color{
		{R: 31, G: 119, B: 180, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 44, G: 160, B: 44, A: 255},
		{R: 214, G: 39, B: 40, A: 255},
		{R: 148, G: 103, B: 189, A: 255},
		{R: 140, G: 86, B: 75, A: 255},
		{R: 227, G: 119, B: 194, A: 255},
		{R: 127, G: 127, B: 127, A: 255},
		{R: 188, G: 189, B: 34, A: 255},
		{R: 23, G: 190, B: 207, A: 255},
	}

	coolwarmStops = []drawing.Color{
		{R: 59, G: 76, B: 192, A: 255},
		{R: 221, G: 221, B: 221, A: 255},
		{R: 180, G: 4, B: 38, A: 255},
	}

	missingCell = drawing.Color{R: 255, G: 255, B: 255, A: 255}
)

// SeriesColor returns the colour of the i-th plotted column
func SeriesColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

// Coolwarm maps v in [-1, 1] onto a diverging blue-grey-red scale. NaN
// maps to white.
func Coolwarm(v float64) drawing.Color {
	if math.IsNaN(v) {
		return missingCell
	}
	t := (math.Max(-1, math.Min(1, v)) + 1) / 2
	lo, hi, f := coolwarmStops[0], coolwarmStops[1], t*2
	if t > 0.5 {
		lo, hi, f = coolwarmStops[1], coolwarmStops[2], (t-0.5)*2
	}
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
	}
	return drawing.Color{R: mix(lo.R, hi.R), G: mix(lo.G, hi.G), B: mix(lo.B, hi.B), A: 255}
}

// textColor picks black or white for legibility on bg
func textColor(bg drawing.Color) drawing.Color {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma < 140 {
		return chart.ColorWhite
	}
	return chart.ColorBlack
}

// paddedRange widens a degenerate [lo, hi] so go-chart can scale it
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.1, 1)
		lo, hi = lo-pad, hi+pad
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// render draws ch. go-chart rejects axes it cannot scale with plain errors
// ("infinite y-range delta", "zero x-range delta; ..."); those mean the data
// cannot be drawn.
func render(ch chart.Chart, opts Options, w io.Writer) error {
	err := ch.Render(opts.Format.provider(), w)
	if err != nil && strings.Contains(err.Error(), "range delta") {
		return fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}
	return err
}

// canvas prepares a raw renderer with a white background and the default font
func canvas(opts Options) (chart.Renderer, error) {
	r, err := opts.Format.provider()(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetDPI(chart.DefaultDPI)
	r.SetFont(font)
	r.SetFontColor(chart.ColorBlack)
	r.SetFontSize(10)

	r.SetFillColor(chart.ColorWhite)
	r.SetStrokeColor(chart.ColorWhite)
	r.SetStrokeWidth(0)
	rect(r, 0, 0, opts.Width, opts.Height)
	r.Fill()
	return r, nil
}

func rect(r chart.Renderer, left, top, right, bottom int) {
	r.MoveTo(left, top)
	r.LineTo(right, top)
	r.LineTo(right, bottom)
	r.LineTo(left, bottom)
	r.LineTo(left, top)
	r.Close()
}

// centeredText draws body centred on (x, y)
func centeredText(r chart.Renderer, body string, x, y int) {
	box := r.MeasureText(body)
	r.Text(body, x-box.Width()/2, y+box.Height()/2)
}

func title(r chart.Renderer, body string, width int) {
	r.SetFontSize(13)
	r.SetFontColor(chart.ColorBlack)
	centeredText(r, body, width/2, 18)
	r.SetFontSize(10)
}
