package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solardash/internal/shared/testutil"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{"", StrategyNone, false},
		{"none", StrategyNone, false},
		{"ffill", StrategyForwardFill, false},
		{"FFILL", StrategyForwardFill, false},
		{"drop", StrategyDrop, false},
		{"mean", StrategyMean, false},
		{"median", StrategyMedian, false},
		{"bfill", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategy_Text(t *testing.T) {
	assert.Equal(t, "No action", StrategyNone.Label())
	assert.Equal(t, "Forward fill", StrategyForwardFill.Label())
	assert.Equal(t, "Drop rows with missing values", StrategyDrop.Label())
	assert.Empty(t, StrategyNone.Notice())
	assert.Equal(t, "Missing values filled using forward fill!", StrategyForwardFill.Notice())
	assert.Equal(t, "Rows with missing values have been dropped!", StrategyDrop.Notice())
	assert.Len(t, Strategies(), 5)
}

func TestClean_None(t *testing.T) {
	d := loadFixture(t, testutil.SolarCSV)

	cleaned, err := d.Clean(StrategyNone)
	require.NoError(t, err)
	assert.Same(t, d, cleaned)
}

func TestClean_ForwardFill(t *testing.T) {
	d := loadFixture(t, testutil.SolarCSV)

	cleaned, err := d.Clean(StrategyForwardFill)
	require.NoError(t, err)

	rows, cols := cleaned.Shape()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 10, cols)

	ghi, err := cleaned.Float("GHI")
	require.NoError(t, err)
	assert.Equal(t, -1.2, ghi[1])

	dni, err := cleaned.Float("DNI")
	require.NoError(t, err)
	assert.Equal(t, -0.2, dni[2])

	ws, err := cleaned.Float("WS")
	require.NoError(t, err)
	assert.Equal(t, 0.6, ws[2])

	// nothing above the first comment to copy
	report := cleaned.MissingValues()
	assert.Equal(t, []ColumnCount{{Column: "Comments", Count: 2}}, report.Columns)

	comments := cleaned.Head(6).Rows
	assert.Equal(t, "NaN", comments[0][9])
	assert.Equal(t, "sensor check", comments[3][9])
	assert.Equal(t, "rinse", comments[5][9])

	// the source is untouched
	assert.Equal(t, 7, d.MissingValues().Total)
}

func TestClean_ForwardFillKeepsDTypes(t *testing.T) {
	d := loadFixture(t, testutil.SolarCSV)

	cleaned, err := d.Clean(StrategyForwardFill)
	require.NoError(t, err)
	assert.Equal(t, d.DTypes(), cleaned.DTypes())
}

func TestClean_Drop(t *testing.T) {
	d := loadFixture(t, testutil.SolarCSV)

	cleaned, err := d.Clean(StrategyDrop)
	require.NoError(t, err)

	rows, cols := cleaned.Shape()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 10, cols)
	assert.Equal(t, []int{4}, cleaned.Index())
	assert.False(t, cleaned.HasMissing())

	head := cleaned.Head(5)
	assert.Equal(t, []int{4}, head.Index)
	assert.Equal(t, "rinse", head.Rows[0][9])
}

func TestClean_DropWithoutGaps(t *testing.T) {
	d := loadFixture(t, testutil.CleanCSV)

	cleaned, err := d.Clean(StrategyDrop)
	require.NoError(t, err)
	assert.Same(t, d, cleaned)
}

func TestClean_DropEverything(t *testing.T) {
	d := loadFixture(t, "a,b\n1,\n,2\n")

	cleaned, err := d.Clean(StrategyDrop)
	require.NoError(t, err)

	rows, cols := cleaned.Shape()
	assert.Equal(t, 0, rows)
	assert.Equal(t, 2, cols)
	assert.Empty(t, cleaned.Index())
}

func TestClean_MeanAndMedian(t *testing.T) {
	tests := []struct {
		strategy Strategy
		ghi      float64
		ws       float64
	}{
		{StrategyMean, 1.6, 0.9},
		{StrategyMedian, -1.1, 0.9},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			d := loadFixture(t, testutil.SolarCSV)

			cleaned, err := d.Clean(tt.strategy)
			require.NoError(t, err)

			ghi, err := cleaned.Float("GHI")
			require.NoError(t, err)
			assert.InDelta(t, tt.ghi, ghi[1], 1e-9)

			ws, err := cleaned.Float("WS")
			require.NoError(t, err)
			assert.InDelta(t, tt.ws, ws[2], 1e-9)

			// text columns are left alone
			report := cleaned.MissingValues()
			assert.Equal(t, []ColumnCount{{Column: "Comments", Count: 4}}, report.Columns)
		})
	}
}

func TestClean_UnknownStrategy(t *testing.T) {
	d := loadFixture(t, testutil.SolarCSV)

	_, err := d.Clean(Strategy("interpolate"))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}, nil))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}, nil))
	assert.False(t, math.IsNaN(median([]float64{7}, nil)))
}
