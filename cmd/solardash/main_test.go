package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solardash/internal/config"
	"solardash/internal/shared/testutil"
	"solardash/pkg/contracts"
)

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAnalyze_WritesOutputs(t *testing.T) {
	input := writeInput(t, "solar.csv", testutil.SolarCSV)
	out := filepath.Join(t.TempDir(), "out")

	opts := analyzeOptions{
		strategy:    "ffill",
		outDir:      out,
		chartFormat: "svg",
		export:      "csv",
	}

	var stdout bytes.Buffer
	err := runAnalyze(context.Background(), &stdout, input, config.Default().Dashboard, opts, quietLogger())
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, "solar.csv", report["file_name"])
	assert.Equal(t, []any{float64(6), float64(10)}, report["shape"])

	for _, name := range []string{"line.svg", "histogram.svg", "correlation.svg", "wind.svg", "solar_cleaned.csv"} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestRunAnalyze_SkipsMissingCharts(t *testing.T) {
	input := writeInput(t, "nowind.csv", testutil.NoWindCSV)
	out := t.TempDir()

	opts := analyzeOptions{outDir: out, chartFormat: "png", export: "xlsx"}
	err := runAnalyze(context.Background(), io.Discard, input, config.Default().Dashboard, opts, quietLogger())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(out, "wind.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(out, "nowind_cleaned.xlsx"))
	assert.NoError(t, err)
}

func TestRunAnalyze_InvalidOptions(t *testing.T) {
	input := writeInput(t, "solar.csv", testutil.SolarCSV)
	cfg := config.Default().Dashboard

	tests := []struct {
		name string
		opts analyzeOptions
	}{
		{"strategy", analyzeOptions{strategy: "interpolate", chartFormat: "png", export: "csv"}},
		{"chart format", analyzeOptions{chartFormat: "gif", export: "csv"}},
		{"export format", analyzeOptions{chartFormat: "png", export: "pdf"}},
		{"bins", analyzeOptions{chartFormat: "png", export: "csv", bins: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runAnalyze(context.Background(), io.Discard, input, cfg, tt.opts, quietLogger())
			assert.Error(t, err)
		})
	}
}

func TestRunAnalyze_MissingFile(t *testing.T) {
	opts := analyzeOptions{chartFormat: "png", export: "csv"}
	err := runAnalyze(context.Background(), io.Discard, filepath.Join(t.TempDir(), "nope.csv"), config.Default().Dashboard, opts, quietLogger())
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), contracts.GetVersionString()))
}

func TestAnalyzeCommand_RequiresInput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"analyze"})

	assert.Error(t, cmd.Execute())
}
