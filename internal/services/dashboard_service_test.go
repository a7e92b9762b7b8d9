package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solardash/internal/charts"
	"solardash/internal/config"
	"solardash/internal/dataset"
	"solardash/internal/exporter"
	"solardash/internal/session"
	"solardash/internal/shared/testutil"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func newTestService(t *testing.T) (*DashboardService, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	store := session.NewStore(time.Hour, 8, 0)
	t.Cleanup(store.Close)

	cfg := config.Default().Dashboard
	cfg.ChartWidth = 480
	cfg.ChartHeight = 320
	return NewDashboardService(store, cfg, nil, logger), handler
}

func loadFixture(t *testing.T, fixture string) *dataset.Dataset {
	t.Helper()
	d, err := dataset.Load(testutil.Reader(fixture), "fixture.csv", int64(len(fixture)), dataset.LoadOptions{})
	require.NoError(t, err)
	return d
}

func upload(t *testing.T, svc *DashboardService, fixture string) string {
	t.Helper()
	id := session.NewID()
	_, err := svc.Upload(context.Background(), id, "solar.csv", testutil.Reader(fixture), int64(len(fixture)))
	require.NoError(t, err)
	return id
}

func TestAnalyze_DefaultQuery(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.SolarCSV), Query{})
	require.NoError(t, err)

	assert.Equal(t, [2]int{6, 10}, report.Shape)
	assert.Equal(t, "Timestamp", report.Columns[0])
	assert.Len(t, report.Preview.Rows, 5)
	assert.Equal(t, 7, report.Missing.Total)
	assert.True(t, report.HasMissing())
	assert.Empty(t, report.Info)
	assert.Empty(t, report.Notice)
	assert.Empty(t, report.Warnings)
	assert.Nil(t, report.Cleaned)

	assert.Equal(t, dataset.StrategyNone, report.Selection.Strategy)
	assert.Equal(t, []string{"GHI", "DNI", "DHI"}, report.Selection.LineColumns)
	assert.Equal(t, "GHI", report.Selection.HistColumn)
	assert.Equal(t, 20, report.Selection.Bins)
	assert.Equal(t, report.NumericColumns, report.Selection.CorrColumns)
	assert.Contains(t, report.NumericColumns, "WS")
	assert.NotContains(t, report.NumericColumns, "Comments")

	require.NotNil(t, report.Histogram)
	assert.Equal(t, 5, report.Histogram.Count)
	assert.Len(t, report.Histogram.Bins, 20)
	require.NotNil(t, report.Correlation)
	assert.Equal(t, 5, report.WindPoints)
}

func TestAnalyze_NoMissingValues(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.CleanCSV), Query{Strategy: dataset.StrategyForwardFill})
	require.NoError(t, err)

	assert.False(t, report.HasMissing())
	assert.Equal(t, []string{MsgNoMissing}, report.Info)
	assert.Equal(t, dataset.StrategyNone, report.Selection.Strategy)
	assert.Empty(t, report.Notice)
}

func TestAnalyze_Strategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy dataset.Strategy
		rows     int
		notice   string
	}{
		{"forward fill", dataset.StrategyForwardFill, 6, "Missing values filled using forward fill!"},
		{"drop", dataset.StrategyDrop, 1, "Rows with missing values have been dropped!"},
		{"mean", dataset.StrategyMean, 6, "Missing numeric values filled with the column mean!"},
		{"case insensitive", "FFILL", 6, "Missing values filled using forward fill!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.SolarCSV), Query{Strategy: tt.strategy})
			require.NoError(t, err)

			assert.Equal(t, tt.notice, report.Notice)
			assert.Equal(t, tt.rows, report.CleanedShape[0])
			assert.Equal(t, [2]int{6, 10}, report.Shape, "raw shape is unchanged")
		})
	}
}

func TestAnalyze_ForwardFillLeavesLeadingGaps(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.SolarCSV), Query{Strategy: dataset.StrategyForwardFill})
	require.NoError(t, err)

	missing := report.Data().MissingValues()
	require.Len(t, missing.Columns, 1)
	assert.Equal(t, dataset.ColumnCount{Column: "Comments", Count: 2}, missing.Columns[0])
}

func TestAnalyze_ShowCleaned(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.SolarCSV),
		Query{Strategy: dataset.StrategyDrop, ShowCleaned: true, Rows: 3})
	require.NoError(t, err)

	require.NotNil(t, report.Cleaned)
	assert.Equal(t, []int{4}, report.Cleaned.Index)
	assert.Len(t, report.Preview.Rows, 3)
}

func TestAnalyze_Coercion(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.MixedTypesCSV), Query{})
	require.NoError(t, err)

	require.Len(t, report.Coercions, 1)
	assert.Equal(t, "reading", report.Coercions[0].Column)
	assert.Contains(t, report.DTypes, dataset.ColumnType{Column: "reading", DType: dataset.DTypeObject})
	assert.Contains(t, report.CoercedDTypes, dataset.ColumnType{Column: "reading", DType: dataset.DTypeFloat})
	assert.Contains(t, report.CoercedDTypes, dataset.ColumnType{Column: "site", DType: dataset.DTypeObject})
	assert.Contains(t, report.NumericColumns, "reading")
}

func TestAnalyze_Warnings(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		query   Query
		widget  charts.Kind
		message string
	}{
		{"no wind columns", testutil.NoWindCSV, Query{}, charts.KindWind, MsgNoWindColumns},
		{"no GHI column", testutil.NoGHICSV, Query{}, charts.KindHistogram, "GHI column is missing in the dataset!"},
		{"empty line selection", testutil.CleanCSV, Query{LineColumns: []string{}}, charts.KindLine, MsgNoLineColumns},
		{"empty correlation selection", testutil.CleanCSV, Query{CorrColumns: []string{}}, charts.KindCorrelation, MsgNoCorrColumns},
		{"text histogram column", testutil.SolarCSV, Query{HistColumn: "Comments"}, charts.KindHistogram, "Comments column is not numeric!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			report, err := svc.Analyze(context.Background(), loadFixture(t, tt.fixture), tt.query)
			require.NoError(t, err)

			assert.Equal(t, tt.message, report.WarningFor(tt.widget))
			var widgetErr *WidgetError
			require.ErrorAs(t, report.Err(tt.widget), &widgetErr)
			assert.Equal(t, tt.message, widgetErr.Message)
		})
	}
}

func TestAnalyze_NoGHIKeepsLineDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.NoGHICSV), Query{})
	require.NoError(t, err)

	assert.Equal(t, []string{"DNI", "DHI"}, report.Selection.LineColumns)
	assert.Empty(t, report.WarningFor(charts.KindLine))
}

func TestAnalyze_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  error
	}{
		{"unknown strategy", Query{Strategy: "interpolate"}, ErrInvalidStrategy},
		{"too few bins", Query{Bins: 3}, ErrInvalidBins},
		{"too many bins", Query{Bins: 51}, ErrInvalidBins},
		{"too many rows", Query{Rows: 101}, ErrInvalidRows},
		{"negative rows", Query{Rows: -1}, ErrInvalidRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			_, err := svc.Analyze(context.Background(), loadFixture(t, testutil.CleanCSV), tt.query)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpload(t *testing.T) {
	svc, logs := newTestService(t)
	id := session.NewID()

	report, err := svc.Upload(context.Background(), id, "solar.csv", testutil.Reader(testutil.SolarCSV), int64(len(testutil.SolarCSV)))
	require.NoError(t, err)

	assert.Equal(t, "solar.csv", report.FileName)
	assert.Equal(t, [2]int{6, 10}, report.Shape)
	assert.True(t, svc.HasDataset(id))
	assert.True(t, logs.ContainsMessage("Dataset uploaded"))
}

func TestUpload_ReplacesDataset(t *testing.T) {
	svc, _ := newTestService(t)
	id := upload(t, svc, testutil.SolarCSV)

	_, err := svc.Upload(context.Background(), id, "clean.csv", testutil.Reader(testutil.CleanCSV), int64(len(testutil.CleanCSV)))
	require.NoError(t, err)

	report, err := svc.Report(context.Background(), id, Query{})
	require.NoError(t, err)
	assert.Equal(t, "clean.csv", report.FileName)
	assert.Equal(t, [2]int{4, 6}, report.Shape)
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		filename string
		body     string
		size     int64
		want     error
	}{
		{"unsupported extension", session.NewID(), "data.json", "{}", 2, dataset.ErrUnsupportedFormat},
		{"empty file", session.NewID(), "empty.csv", "", 0, dataset.ErrEmptyFile},
		{"header only", session.NewID(), "header.csv", "GHI,DNI\n", 8, dataset.ErrEmptyFile},
		{"too large", session.NewID(), "big.csv", "GHI\n1\n", 11 << 20, ErrFileTooLarge},
		{"invalid session", "not-a-session", "solar.csv", testutil.SolarCSV, 10, ErrNoDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			_, err := svc.Upload(context.Background(), tt.id, tt.filename, strings.NewReader(tt.body), tt.size)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, svc.HasDataset(tt.id))
		})
	}
}

func TestReport_NoDataset(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Report(context.Background(), session.NewID(), Query{})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestClear(t *testing.T) {
	svc, _ := newTestService(t)
	id := upload(t, svc, testutil.CleanCSV)

	assert.True(t, svc.Clear(context.Background(), id))
	assert.False(t, svc.Clear(context.Background(), id))

	_, err := svc.Report(context.Background(), id, Query{})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestRenderCharts(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.CleanCSV), Query{})
	require.NoError(t, err)

	images, err := svc.RenderCharts(context.Background(), report, charts.FormatPNG)
	require.NoError(t, err)

	require.Len(t, images, 4)
	for _, kind := range charts.Kinds() {
		assert.True(t, bytes.HasPrefix(images[kind], pngSignature), "%s is not a PNG", kind)
	}
	assert.Empty(t, report.Warnings)
}

func TestRenderCharts_SkipsWarnedWidgets(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.NoWindCSV), Query{})
	require.NoError(t, err)

	images, err := svc.RenderCharts(context.Background(), report, charts.FormatSVG)
	require.NoError(t, err)

	assert.Len(t, images, 3)
	assert.NotContains(t, images, charts.KindWind)
	assert.Equal(t, MsgNoWindColumns, report.WarningFor(charts.KindWind))
}

func TestRenderCharts_SingleRowBecomesWarning(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.SolarCSV), Query{Strategy: dataset.StrategyDrop})
	require.NoError(t, err)
	assert.Empty(t, report.WarningFor(charts.KindLine))

	images, err := svc.RenderCharts(context.Background(), report, charts.FormatPNG)
	require.NoError(t, err)

	assert.NotContains(t, images, charts.KindLine)
	assert.Equal(t, "Not enough data to draw the line chart.", report.WarningFor(charts.KindLine))
	assert.ErrorIs(t, report.Err(charts.KindLine), charts.ErrInsufficientData)
}

func TestRenderCharts_InfiniteValues(t *testing.T) {
	fixtures := []struct {
		name    string
		fixture string
	}{
		{"positive infinity", "GHI,WD,WS\n1,10,2\ninf,20,3\n3,30,4\n"},
		{"negative infinity", "GHI,WD,WS\n1,10,2\n-inf,20,3\n3,30,4\n"},
		{"infinity and gaps", "GHI,WD,WS\n1,10,2\ninf,20,3\n3,,4\n-inf,40,5\n"},
	}

	for _, f := range fixtures {
		for _, strategy := range dataset.Strategies() {
			t.Run(f.name+"/"+string(strategy), func(t *testing.T) {
				svc, _ := newTestService(t)

				report, err := svc.Analyze(context.Background(), loadFixture(t, f.fixture), Query{Strategy: strategy})
				require.NoError(t, err)

				var images map[charts.Kind][]byte
				require.NotPanics(t, func() {
					images, err = svc.RenderCharts(context.Background(), report, charts.FormatPNG)
				})
				require.NoError(t, err)

				assert.Contains(t, report.DTypes, dataset.ColumnType{Column: "GHI", DType: dataset.DTypeFloat})
				assert.Len(t, images, 4)
				assert.Empty(t, report.Warnings)

				_, err = json.Marshal(report)
				assert.NoError(t, err)
			})
		}
	}
}

func TestRenderCharts_OnlyInfiniteValuesBecomeWarnings(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, "GHI,WD,WS\ninf,10,2\n-inf,20,3\n"), Query{})
	require.NoError(t, err)
	assert.Equal(t, "Not enough data to draw the histogram chart.", report.WarningFor(charts.KindHistogram))

	images, err := svc.RenderCharts(context.Background(), report, charts.FormatSVG)
	require.NoError(t, err)

	assert.NotContains(t, images, charts.KindLine)
	assert.NotContains(t, images, charts.KindHistogram)
	assert.Contains(t, images, charts.KindCorrelation)
	assert.Contains(t, images, charts.KindWind)
	assert.Equal(t, "Not enough data to draw the line chart.", report.WarningFor(charts.KindLine))
}

func TestAnalyze_AllMissingColumn(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Analyze(context.Background(), loadFixture(t, "GHI,DNI\n1,\n2,\n3,\n"), Query{})
	require.NoError(t, err)

	assert.Equal(t, []dataset.ColumnType{
		{Column: "GHI", DType: dataset.DTypeInt},
		{Column: "DNI", DType: dataset.DTypeFloat},
	}, report.DTypes)
	assert.Equal(t, []string{"GHI", "DNI"}, report.NumericColumns)
	assert.Equal(t, []string{"GHI", "DNI"}, report.Selection.LineColumns)
	assert.Equal(t, []string{"GHI", "DNI"}, report.Selection.CorrColumns)
	assert.Equal(t, 3, report.Missing.Total)

	images, err := svc.RenderCharts(context.Background(), report, charts.FormatPNG)
	require.NoError(t, err)
	assert.Len(t, images, 3)
	assert.Equal(t, MsgNoWindColumns, report.WarningFor(charts.KindWind))
}

func TestChart(t *testing.T) {
	svc, _ := newTestService(t)
	id := upload(t, svc, testutil.SolarCSV)

	body, err := svc.Chart(context.Background(), id, charts.KindHistogram, charts.FormatSVG, Query{Bins: 10})
	require.NoError(t, err)
	assert.Contains(t, string(body), "<svg")

	_, err = svc.Chart(context.Background(), id, charts.KindHistogram, charts.FormatPNG, Query{HistColumn: "Irradiance"})
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestExport(t *testing.T) {
	svc, _ := newTestService(t)
	id := upload(t, svc, testutil.SolarCSV)

	download, err := svc.Export(context.Background(), id, Query{Strategy: dataset.StrategyDrop}, exporter.FormatCSV, false)
	require.NoError(t, err)

	assert.Equal(t, "solar_cleaned.csv", download.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", download.ContentType)
	lines := strings.Split(strings.TrimSpace(string(download.Body)), "\n")
	assert.Len(t, lines, 2, "header plus the single complete row")
	assert.True(t, strings.HasPrefix(lines[1], "2021-08-09 00:05,"))
}

func TestExport_XLSXWithoutDataset(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Export(context.Background(), session.NewID(), Query{}, exporter.FormatXLSX, false)
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestAnalyze_OfflineWithoutStore(t *testing.T) {
	svc := NewDashboardService(nil, config.Default().Dashboard, nil, nil)

	report, err := svc.Analyze(context.Background(), loadFixture(t, testutil.CleanCSV), Query{})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Histogram.Count)

	assert.False(t, svc.HasDataset(session.NewID()))
	assert.False(t, svc.Clear(context.Background(), session.NewID()))
}

func TestSessionRemovedHook(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	store := session.NewStore(time.Hour, 8, 0, session.WithRemoveHook(SessionRemovedHook(nil, logger)))
	t.Cleanup(store.Close)
	svc := NewDashboardService(store, config.Default().Dashboard, nil, logger)

	id := upload(t, svc, testutil.CleanCSV)
	require.True(t, svc.Clear(context.Background(), id))

	assert.True(t, logs.ContainsMessage("Session removed"))
	assert.True(t, logs.ContainsAttr("reason", string(session.ReasonDeleted)))
}
