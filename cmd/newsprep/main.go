package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"newsprep/internal/config"
	"newsprep/internal/dataprocessing"
	"newsprep/internal/exporter"
	"newsprep/internal/infrastructure"
	"newsprep/internal/loader"
)

func main() {
	in := flag.String("in", "", "input news file (.csv, .xlsx)")
	out := flag.String("out", "", "output file name for the cleaned CSV (written under the reports dir; empty to skip)")
	summaryOut := flag.String("summary", "", "output file name for the JSON diagnostics summary (written under the reports dir; empty to skip)")
	configFile := flag.String("config", "", "optional YAML config file")
	noValidate := flag.Bool("no-validate", false, "skip schema validation of the input file")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: newsprep -in <file.csv> [-out cleaned.csv] [-summary summary.json]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), uuid.NewString())

	if err := run(ctx, logger, cfg, *in, *out, *summaryOut, !*noValidate); err != nil {
		logger.ErrorContext(ctx, "run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, in, out, summaryOut string, validate bool) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	ds, err := loader.NewLoader(logger).Load(ctx, in, validate)
	if err != nil {
		return err
	}

	preprocessor := dataprocessing.NewPreprocessor(logger, dataprocessing.PreprocessorConfig{
		DateColumn:      cfg.Pipeline.DateColumn,
		RequiredColumns: cfg.Pipeline.RequiredColumns,
	})
	cleaned, err := preprocessor.Preprocess(ctx, ds)
	if err != nil {
		return err
	}

	analyzer := dataprocessing.NewAnalyzer(logger, dataprocessing.AnalyzerConfig{})
	summary := analyzer.Summarize(ctx, cleaned)
	logger.InfoContext(ctx, "headline length distribution",
		slog.Int("count", summary.HeadlineLengths.Count),
		slog.Float64("mean", summary.HeadlineLengths.Mean),
		slog.Float64("min", summary.HeadlineLengths.Min),
		slog.Float64("max", summary.HeadlineLengths.Max))
	for _, pc := range summary.TopPublishers {
		logger.InfoContext(ctx, "active publisher",
			slog.String("publisher", pc.Publisher),
			slog.Int("articles", pc.Articles))
	}

	if summaryOut != "" {
		if err := analyzer.WriteJSON(ctx, cfg.GetReportPath(summaryOut), summary); err != nil {
			return err
		}
	}

	if out != "" {
		name := out
		if filepath.Ext(strings.ToLower(name)) != ".csv" {
			name += ".csv"
		}
		if err := exporter.NewCSVWriter(logger).WriteDataset(cfg.GetReportPath(name), cleaned); err != nil {
			return err
		}
	}

	return nil
}
