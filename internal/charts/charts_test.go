package charts

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"solardash/internal/analysis"
	"solardash/internal/dataset"
	"solardash/internal/shared/testutil"
)

func load(t *testing.T, fixture string) *dataset.Dataset {
	t.Helper()
	d, err := dataset.Load(strings.NewReader(fixture), "fixture.csv", 0, dataset.LoadOptions{})
	require.NoError(t, err)
	return d
}

func assertPNG(t *testing.T, buf *bytes.Buffer, width, height int) {
	t.Helper()
	img, err := png.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, width, img.Bounds().Dx())
	assert.Equal(t, height, img.Bounds().Dy())
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("pie")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input       string
		want        Format
		contentType string
		wantErr     bool
	}{
		{"", FormatPNG, "image/png", false},
		{"png", FormatPNG, "image/png", false},
		{"SVG", FormatSVG, "image/svg+xml", false},
		{"gif", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.contentType, got.ContentType())
		})
	}
}

func TestCoolwarm(t *testing.T) {
	assert.Equal(t, coolwarmStops[0], Coolwarm(-1))
	assert.Equal(t, coolwarmStops[1], Coolwarm(0))
	assert.Equal(t, coolwarmStops[2], Coolwarm(1))
	assert.Equal(t, coolwarmStops[2], Coolwarm(3))
	assert.Equal(t, missingCell, Coolwarm(math.NaN()))
}

func TestAnnotation(t *testing.T) {
	assert.Equal(t, "0.46", annotation(0.46))
	assert.Equal(t, "-1.00", annotation(-1))
	assert.Equal(t, "0.00", annotation(math.Copysign(0, -1)))
	assert.Empty(t, annotation(math.NaN()))
}

func TestNiceCeil(t *testing.T) {
	assert.Equal(t, 1.0, niceCeil(0))
	assert.Equal(t, 2.0, niceCeil(1.5))
	assert.Equal(t, 5.0, niceCeil(4))
	assert.Equal(t, 10.0, niceCeil(7.3))
	assert.Equal(t, 20.0, niceCeil(12))
}

func TestSegments(t *testing.T) {
	nan := math.NaN()
	segs := segments([]float64{0, 1, 2, 3, 4, 5}, []float64{1, 2, nan, 4, nan, nan})

	require.Len(t, segs, 2)
	assert.Equal(t, []float64{0, 1}, segs[0].x)
	assert.Equal(t, []float64{3}, segs[1].x)
	assert.Equal(t, []float64{4}, segs[1].y)
}

func TestSegments_BreakOnInfinity(t *testing.T) {
	segs := segments([]float64{0, 1, 2, 3}, []float64{1, math.Inf(1), 3, math.Inf(-1)})

	require.Len(t, segs, 2)
	assert.Equal(t, []float64{0}, segs[0].x)
	assert.Equal(t, []float64{2}, segs[1].x)
	assert.Equal(t, []float64{3}, segs[1].y)
}

func TestLine_InfiniteValues(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		wantErr bool
	}{
		{"positive infinity", "GHI\n1\ninf\n3\n", false},
		{"negative infinity", "GHI\n1\n-inf\n3\n", false},
		{"only infinity", "GHI\ninf\n-inf\n", true},
		{"range beyond float", "GHI\n-1e308\n1e308\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := analysis.Line(load(t, tt.fixture), []string{"GHI"})
			require.NoError(t, err)

			var buf bytes.Buffer
			err = Line(&buf, data, Options{Width: 320, Height: 240})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsufficientData)
				return
			}
			require.NoError(t, err)
			assertPNG(t, &buf, 320, 240)
		})
	}
}

func TestRender_UnscalableAxisIsInsufficientData(t *testing.T) {
	ch := chart.Chart{
		Width:  200,
		Height: 200,
		XAxis:  chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: math.Inf(1)}},
		Series: []chart.Series{
			chart.ContinuousSeries{XValues: []float64{0, 1}, YValues: []float64{0, 1}},
		},
	}

	var buf bytes.Buffer
	err := render(ch, Options{}.withDefaults(), &buf)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Contains(t, err.Error(), "infinite y-range delta")
}

func TestLine(t *testing.T) {
	d := load(t, testutil.SolarCSV)
	data, err := analysis.Line(d, []string{"GHI", "DNI", "DHI"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Line(&buf, data, Options{Width: 640, Height: 360}))
	assertPNG(t, &buf, 640, 360)
}

func TestLine_SVG(t *testing.T) {
	d := load(t, testutil.CleanCSV)
	data, err := analysis.Line(d, []string{"GHI"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Line(&buf, data, Options{Format: FormatSVG}))
	assert.True(t, strings.HasPrefix(buf.String(), "<svg"))
}

func TestLine_InsufficientData(t *testing.T) {
	d := load(t, testutil.SolarCSV)
	single, err := d.Clean(dataset.StrategyDrop)
	require.NoError(t, err)
	data, err := analysis.Line(single, []string{"GHI"})
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.ErrorIs(t, Line(&buf, data, Options{}), ErrInsufficientData)
	assert.ErrorIs(t, Line(&buf, nil, Options{}), ErrInsufficientData)
}

func TestHistogram(t *testing.T) {
	d := load(t, testutil.SolarCSV)
	data, err := analysis.Histogram(d, "GHI", 20)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Histogram(&buf, data, Options{Width: 800, Height: 400}))
	assertPNG(t, &buf, 800, 400)
}

func TestHistogram_InsufficientData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Histogram(&buf, &analysis.HistogramData{}, Options{}), ErrInsufficientData)
}

func TestStepOutline(t *testing.T) {
	xs, ys := stepOutline([]analysis.Bin{{Low: 0, High: 1, Count: 2}, {Low: 1, High: 2, Count: 3}})

	assert.Equal(t, []float64{0, 0, 1, 1, 2, 2}, xs)
	assert.Equal(t, []float64{0, 2, 2, 3, 3, 0}, ys)
}

func TestHeatmap(t *testing.T) {
	d := load(t, testutil.SolarCSV)
	m, err := analysis.Correlation(d, d.NumericColumns())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, m, Options{Width: 700, Height: 600}))
	assertPNG(t, &buf, 700, 600)
}

func TestHeatmap_SVG(t *testing.T) {
	m := &analysis.CorrelationMatrix{
		Columns: []string{"GHI", "DNI"},
		Values:  [][]float64{{1, 0.87}, {0.87, 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, m, Options{Format: FormatSVG}))
	assert.Contains(t, buf.String(), "0.87")
}

func TestHeatmap_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Heatmap(&buf, &analysis.CorrelationMatrix{}, Options{}), ErrInsufficientData)

	many := &analysis.CorrelationMatrix{Columns: make([]string, 200), Values: make([][]float64, 200)}
	assert.ErrorIs(t, Heatmap(&buf, many, Options{Width: 200, Height: 200}), ErrInsufficientData)
}

func TestPolar(t *testing.T) {
	d := load(t, testutil.SolarCSV)
	data, err := analysis.Wind(d)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Polar(&buf, data, Options{Width: 600, Height: 600}))
	assertPNG(t, &buf, 600, 600)
}

func TestPolar_InsufficientData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Polar(&buf, &analysis.WindData{}, Options{}), ErrInsufficientData)
}

func TestHeatmap_EscapesSVGLabels(t *testing.T) {
	m := &analysis.CorrelationMatrix{
		Columns: []string{"<script>", "DNI"},
		Values:  [][]float64{{1, 0.5}, {0.5, 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, m, Options{Format: FormatSVG}))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}
