package http

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solardash/internal/dataset"
	v1 "solardash/pkg/contracts/api/v1"
)

func TestDecodeQuery(t *testing.T) {
	values := url.Values{
		"strategy":     {" FFill "},
		"show_cleaned": {"on"},
		"line":         {"GHI", "", "DNI"},
		"hist_column":  {"DHI"},
		"bins":         {"30"},
		"rows":         {"10"},
	}

	q, err := decodeQuery(values)
	require.NoError(t, err)

	assert.Equal(t, v1.DashboardQuery{
		Strategy:    "ffill",
		ShowCleaned: true,
		Line:        []string{"GHI", "DNI"},
		HistColumn:  "DHI",
		Bins:        30,
		Rows:        10,
	}, q)
}

func TestDecodeQuery_BadNumbers(t *testing.T) {
	for _, key := range []string{"bins", "rows"} {
		_, err := decodeQuery(url.Values{key: {"many"}})
		assert.Error(t, err, key)
	}
}

func TestToServiceQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    v1.DashboardQuery
		wantLine []string
		wantCorr []string
	}{
		{"absent means defaults", v1.DashboardQuery{}, nil, nil},
		{"form without selection", v1.DashboardQuery{Submitted: true}, []string{}, []string{}},
		{"form with selection", v1.DashboardQuery{Submitted: true, Line: []string{"GHI"}}, []string{"GHI"}, []string{}},
		{"explicit list", v1.DashboardQuery{Corr: []string{"WS", "WD"}}, nil, []string{"WS", "WD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := toServiceQuery(tt.query)
			assert.Equal(t, tt.wantLine, q.LineColumns)
			assert.Equal(t, tt.wantCorr, q.CorrColumns)
		})
	}
}

func TestToServiceQuery_Strategy(t *testing.T) {
	q := toServiceQuery(v1.DashboardQuery{Strategy: "drop", Bins: 12})
	assert.Equal(t, dataset.StrategyDrop, q.Strategy)
	assert.Equal(t, 12, q.Bins)
}
