package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solardash/internal/dataset"
	"solardash/internal/shared/testutil"
)

func load(t *testing.T, fixture string) *dataset.Dataset {
	t.Helper()
	d, err := dataset.Load(strings.NewReader(fixture), "fixture.csv", 0, dataset.LoadOptions{})
	require.NoError(t, err)
	return d
}

func TestDefaultSelection(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		want    []string
	}{
		{"all irradiance columns", testutil.SolarCSV, []string{"GHI", "DNI", "DHI"}},
		{"GHI absent", testutil.NoGHICSV, []string{"DNI", "DHI"}},
		{"text column skipped", "GHI,DNI\nx,1\ny,2\n", []string{"DNI"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultSelection(load(t, tt.fixture), DefaultLineColumns))
		})
	}
}

func TestLine(t *testing.T) {
	d := load(t, testutil.SolarCSV)

	data, err := Line(d, []string{"GHI", "WS", "GHI"})
	require.NoError(t, err)
	require.Len(t, data.Series, 2)

	ghi := data.Series[0]
	assert.Equal(t, "GHI", ghi.Column)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, ghi.X)
	assert.Equal(t, -1.2, ghi.Y[0])
	assert.True(t, math.IsNaN(ghi.Y[1]))
}

func TestLine_UsesOriginalRowLabels(t *testing.T) {
	d := load(t, testutil.SolarCSV)
	cleaned, err := d.Clean(dataset.StrategyDrop)
	require.NoError(t, err)

	data, err := Line(cleaned, []string{"GHI"})
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, data.Series[0].X)
	assert.Equal(t, []float64{-1}, data.Series[0].Y)
}

func TestLine_Errors(t *testing.T) {
	d := load(t, testutil.SolarCSV)

	_, err := Line(d, nil)
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = Line(d, []string{"Comments"})
	assert.ErrorIs(t, err, dataset.ErrNotNumeric)

	_, err = Line(d, []string{"Nope"})
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestHistogram(t *testing.T) {
	d := load(t, testutil.CleanCSV)

	h, err := Histogram(d, "GHI", 4)
	require.NoError(t, err)

	assert.Equal(t, "GHI", h.Column)
	require.Len(t, h.Bins, 4)
	assert.Equal(t, 10.0, h.Bins[0].Low)
	assert.Equal(t, 50.0, h.Bins[3].High)
	// 10 | 20 | 35 | 50, the maximum falls in the last bar
	assert.Equal(t, []int{1, 1, 1, 1}, []int{h.Bins[0].Count, h.Bins[1].Count, h.Bins[2].Count, h.Bins[3].Count})
	assert.Equal(t, 4, h.Count)
	assert.Equal(t, h.Count, h.TotalCount())
	assert.InDelta(t, 28.75, h.Mean, 1e-9)
	assert.Equal(t, 10.0, h.Min)
	assert.Equal(t, 50.0, h.Max)
}

func TestHistogram_CountsMatchPresentValues(t *testing.T) {
	d := load(t, testutil.SolarCSV)

	for _, bins := range []int{5, 20, 50} {
		h, err := Histogram(d, "GHI", bins)
		require.NoError(t, err)
		assert.Len(t, h.Bins, bins)
		assert.Equal(t, 5, h.TotalCount())
	}
}

func TestHistogram_KDE(t *testing.T) {
	d := load(t, testutil.SolarCSV)

	h, err := Histogram(d, "GHI", 20)
	require.NoError(t, err)

	require.Len(t, h.KDE, KDEPoints)
	assert.Greater(t, h.Bandwidth, 0.0)
	assert.Less(t, h.KDE[0].X, h.Min)
	assert.Greater(t, h.KDE[KDEPoints-1].X, h.Max)

	// the scaled curve integrates to roughly count * bin width
	binWidth := h.Bins[0].High - h.Bins[0].Low
	var area float64
	for i := 1; i < len(h.KDE); i++ {
		dx := h.KDE[i].X - h.KDE[i-1].X
		area += dx * (h.KDE[i].Y + h.KDE[i-1].Y) / 2
	}
	assert.InDelta(t, float64(h.Count)*binWidth, area, float64(h.Count)*binWidth*0.02)
}

func TestHistogram_ConstantColumn(t *testing.T) {
	d := load(t, "GHI\n3\n3\n3\n")

	h, err := Histogram(d, "GHI", 5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, h.Bins[0].Low)
	assert.Equal(t, 3.5, h.Bins[4].High)
	assert.Equal(t, 3, h.TotalCount())
	assert.Empty(t, h.KDE)
}

func TestHistogram_Errors(t *testing.T) {
	d := load(t, testutil.SolarCSV)

	_, err := Histogram(d, "GHI", 0)
	assert.ErrorIs(t, err, ErrInvalidBins)

	_, err = Histogram(d, "Comments", 10)
	assert.ErrorIs(t, err, dataset.ErrNotNumeric)

	_, err = Histogram(load(t, testutil.NoGHICSV), "GHI", 10)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)

	frame := dataframe.New(series.New([]float64{math.NaN(), math.NaN()}, series.Float, "GHI"))
	empty, err := dataset.New("empty.csv", 0, frame)
	require.NoError(t, err)
	_, err = Histogram(empty, "GHI", 10)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCorrelation(t *testing.T) {
	d := load(t, testutil.CleanCSV)

	m, err := Correlation(d, []string{"GHI", "DNI", "WS"})
	require.NoError(t, err)
	require.Len(t, m.Values, 3)

	for i := range m.Columns {
		assert.InDelta(t, 1.0, m.Values[i][i], 1e-12)
		for j := range m.Columns {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.LessOrEqual(t, math.Abs(m.Values[i][j]), 1.0)
		}
	}
	assert.Greater(t, m.Values[0][1], 0.99)
}

func TestCorrelation_PairwiseComplete(t *testing.T) {
	d := load(t, "a,b,c\n1,2,5\n2,4,5\n3,,5\n4,8,5\n")

	m, err := Correlation(d, []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, m.Values[0][1], 1e-12)
	// constant column
	assert.True(t, math.IsNaN(m.Values[0][2]))
	assert.True(t, math.IsNaN(m.Values[2][2]))

	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "null")
}

func TestCorrelation_Rounded(t *testing.T) {
	m := &CorrelationMatrix{Columns: []string{"a", "b"}, Values: [][]float64{{1, 0.456}, {0.456, 1}}}
	assert.Equal(t, [][]float64{{1, 0.46}, {0.46, 1}}, m.Rounded())
}

func TestCorrelation_Errors(t *testing.T) {
	d := load(t, testutil.SolarCSV)

	_, err := Correlation(d, nil)
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = Correlation(d, []string{"GHI", "Timestamp"})
	assert.ErrorIs(t, err, dataset.ErrNotNumeric)
}

func TestWind(t *testing.T) {
	d := load(t, testutil.CleanCSV)

	require.True(t, HasWindColumns(d))
	w, err := Wind(d)
	require.NoError(t, err)
	require.Len(t, w.Points, 4)

	east := w.Points[1]
	assert.Equal(t, 90.0, east.Degrees)
	assert.InDelta(t, math.Pi/2, east.Theta, 1e-12)
	assert.InDelta(t, 0, east.X, 1e-12)
	assert.InDelta(t, 2, east.Y, 1e-12)
	assert.Equal(t, 4.0, w.MaxSpeed)
}

func TestWind_SkipsIncompleteRows(t *testing.T) {
	d := load(t, testutil.SolarCSV)

	w, err := Wind(d)
	require.NoError(t, err)
	assert.Len(t, w.Points, 5)
	for _, p := range w.Points {
		assert.NotEqual(t, 2, p.Index)
	}
}

func TestWind_MissingColumns(t *testing.T) {
	d := load(t, testutil.NoWindCSV)

	assert.False(t, HasWindColumns(d))
	_, err := Wind(d)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestRadians(t *testing.T) {
	assert.InDelta(t, math.Pi, Radians(180), 1e-12)
	assert.Zero(t, Radians(0))
}

func TestHistogram_IgnoresInfiniteValues(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		count   int
		min     float64
		max     float64
	}{
		{"positive infinity", "GHI\n1\ninf\n3\n", 2, 1, 3},
		{"negative infinity", "GHI\n1\n-inf\n3\n", 2, 1, 3},
		{"both signs", "GHI\n-inf\n2\n+Inf\n5\n", 2, 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := load(t, tt.fixture)
			dtype, err := d.DType("GHI")
			require.NoError(t, err)
			require.Equal(t, dataset.DTypeFloat, dtype)

			var h *HistogramData
			require.NotPanics(t, func() {
				h, err = Histogram(d, "GHI", 4)
			})
			require.NoError(t, err)
			assert.Equal(t, tt.count, h.Count)
			assert.Equal(t, tt.count, h.TotalCount())
			assert.Equal(t, tt.min, h.Min)
			assert.Equal(t, tt.max, h.Max)
			assert.False(t, math.IsInf(h.Mean, 0))
		})
	}
}

func TestHistogram_OnlyInfiniteValues(t *testing.T) {
	d := load(t, "GHI\ninf\n-inf\n")

	_, err := Histogram(d, "GHI", 10)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestHistogram_RangeBeyondFloat(t *testing.T) {
	d := load(t, "GHI\n-1e308\n1e308\n")

	require.NotPanics(t, func() {
		_, err := Histogram(d, "GHI", 10)
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestCorrelation_IgnoresInfiniteValues(t *testing.T) {
	d := load(t, "a,b\n1,2\n2,4\ninf,1\n3,6\n4,-inf\n")

	m, err := Correlation(d, []string{"a", "b"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-12)

	_, err = json.Marshal(m)
	assert.NoError(t, err)
}

func TestWind_SkipsInfiniteRows(t *testing.T) {
	d := load(t, "WD,WS\n90,1\ninf,2\n180,-inf\n270,3\n")

	w, err := Wind(d)
	require.NoError(t, err)
	require.Len(t, w.Points, 2)
	assert.Equal(t, 0, w.Points[0].Index)
	assert.Equal(t, 3, w.Points[1].Index)
	assert.Equal(t, 3.0, w.MaxSpeed)
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(0))
	assert.True(t, Finite(-1e308))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(1)))
	assert.False(t, Finite(math.Inf(-1)))
}
