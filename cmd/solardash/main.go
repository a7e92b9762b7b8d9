package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"solardash/internal/app"
	"solardash/internal/charts"
	"solardash/internal/config"
	"solardash/internal/dataset"
	"solardash/internal/exporter"
	"solardash/internal/infrastructure"
	"solardash/internal/services"
	"solardash/internal/validation"
	"solardash/pkg/contracts"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: config.AppTitle,
		Long: `solardash serves an interactive dashboard for solar farm measurements:
upload a CSV or Excel file, inspect and clean missing values, and explore
irradiance trends, distributions, correlations and wind.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (default: search the usual locations)")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newAnalyzeCmd(&configPath),
		newVersionCmd(),
	)
	return rootCmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger, err := infrastructure.InitializeLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer infrastructure.CloseLogFile()

			application, err := app.NewApplication(cfg, logger)
			if err != nil {
				logger.Error("Failed to initialize application", slog.String("error", err.Error()))
				return err
			}

			if err := application.Run(); err != nil {
				logger.Error("Application error", slog.String("error", err.Error()))
				return err
			}
			return nil
		},
	}
}

type analyzeOptions struct {
	strategy    string
	showCleaned bool
	line        []string
	histColumn  string
	bins        int
	corr        []string
	rows        int
	outDir      string
	chartFormat string
	export      string
	bom         bool
}

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [input.csv|input.xlsx]",
		Short: "Run the dashboard pipeline on a file and write the charts",
		Long: `analyze loads a file, applies the cleaning strategy and prints the
report as JSON. With --out the four charts and the cleaned data are written
to that directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			// stdout carries the report
			logger := infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], cfg.Dashboard, opts, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.strategy, "strategy", string(dataset.StrategyNone), "Missing value strategy: none, ffill, drop, mean, median")
	flags.BoolVar(&opts.showCleaned, "show-cleaned", false, "Include the cleaned preview in the report")
	flags.StringArrayVar(&opts.line, "line", nil, "Line chart column (repeatable)")
	flags.StringVar(&opts.histColumn, "hist-column", "", "Histogram column (default GHI)")
	flags.IntVar(&opts.bins, "bins", 0, "Histogram bins (default from configuration)")
	flags.StringArrayVar(&opts.corr, "corr", nil, "Correlation column (repeatable)")
	flags.IntVar(&opts.rows, "rows", 0, "Preview rows (default from configuration)")
	flags.StringVarP(&opts.outDir, "out", "o", "", "Directory for chart images and the cleaned data")
	flags.StringVar(&opts.chartFormat, "format", string(charts.FormatPNG), "Chart image format: png or svg")
	flags.StringVar(&opts.export, "export", string(exporter.FormatCSV), "Cleaned data format: csv or xlsx")
	flags.BoolVar(&opts.bom, "bom", false, "Prefix the CSV export with a UTF-8 BOM")

	return cmd
}

func runAnalyze(ctx context.Context, stdout io.Writer, path string, cfg config.DashboardConfig, opts analyzeOptions, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = infrastructure.EnsureTraceID(ctx)

	strategy, err := dataset.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}
	chartFormat, err := charts.ParseFormat(opts.chartFormat)
	if err != nil {
		return err
	}
	exportFormat, err := exporter.ParseFormat(opts.export)
	if err != nil {
		return err
	}

	files := validation.NewFileValidator(logger)
	info, err := files.ValidateInputFile(path, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		if err := files.ValidateOutputDirectory(opts.outDir); err != nil {
			return err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	d, err := dataset.Load(f, filepath.Base(path), info.Size(), dataset.LoadOptions{MaxRows: cfg.MaxRows})
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	svc := services.NewDashboardService(nil, cfg, nil, logger)
	report, err := svc.Analyze(ctx, d, services.Query{
		Strategy:    strategy,
		ShowCleaned: opts.showCleaned,
		LineColumns: opts.line,
		HistColumn:  opts.histColumn,
		Bins:        opts.bins,
		CorrColumns: opts.corr,
		Rows:        opts.rows,
	})
	if err != nil {
		return err
	}

	if opts.outDir != "" {
		if err := writeOutputs(ctx, svc, report, opts.outDir, chartFormat, exportFormat, opts.bom, logger); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// writeOutputs renders every chart that has data and exports the cleaned
// dataset into dir, which must exist
func writeOutputs(ctx context.Context, svc *services.DashboardService, report *services.Report, dir string, chartFormat charts.Format, exportFormat exporter.Format, bom bool, logger *slog.Logger) error {
	images, err := svc.RenderCharts(ctx, report, chartFormat)
	if err != nil {
		return err
	}
	for _, kind := range charts.Kinds() {
		body, ok := images[kind]
		if !ok {
			logger.WarnContext(ctx, "Chart skipped", slog.String("chart", string(kind)), slog.String("reason", report.WarningFor(kind)))
			continue
		}
		name := filepath.Join(dir, string(kind)+"."+string(chartFormat))
		if err := os.WriteFile(name, body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	name := filepath.Join(dir, exportFormat.Filename(report.FileName))
	if err := exporter.WriteFile(name, exportFormat, report.Data(), exporter.WriteOptions{BOMPrefix: bom}); err != nil {
		return fmt.Errorf("export cleaned data: %w", err)
	}
	logger.InfoContext(ctx, "Outputs written", slog.String("dir", dir), slog.Int("charts", len(images)))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}
