package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/veraarmas/telar/internal/config"
	"github.com/veraarmas/telar/internal/metrics"
	"github.com/veraarmas/telar/internal/pipeline"
)

var CLI struct {
	Root    string `short:"r" help:"Site root directory" default:"."`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Metrics bool `help:"Expose Prometheus metrics for this build"`
	} `cmd:"" help:"Convert content spreadsheets to the site's JSON data files"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "build":
		if err := runBuild(logger, CLI.Build.Metrics); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	}
}

func runBuild(logger *slog.Logger, enableMetrics bool) error {
	cfg, err := config.Load(CLI.Root)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if enableMetrics {
		recorder = metrics.NewPrometheusRecorder(nil)
	}

	buildCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting content build",
		"root", CLI.Root,
		"language", cfg.SiteLanguage(),
		"demo_content", cfg.IncludeDemoContent)

	builder := pipeline.New(cfg, logger, recorder, CLI.Root)
	report, err := builder.Run(buildCtx)
	if err != nil {
		return err
	}

	logger.Info("Conversion complete",
		"build_id", report.BuildID,
		"stories", len(report.Stories),
		"objects", report.Objects,
		"warnings", report.Warnings,
		"duration", report.Duration)
	return nil
}
