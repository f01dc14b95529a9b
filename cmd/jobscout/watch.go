package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmerrick/jobscout/internal/pipeline"
	"github.com/dmerrick/jobscout/internal/report"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan repeatedly on an interval",
	Long:  "Run one scan immediately, then repeat on the configured interval; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	p, cleanup, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("failed to assemble pipeline", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	reporter := setupReporter(cfg, httpClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting watch loop", "interval", cfg.Watch.Interval.String())

	// One immediate scan, then tick.
	scanOnce(ctx, p, reporter, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down watch loop")
			return nil
		case <-time.After(cfg.Watch.Interval):
			scanOnce(ctx, p, reporter, logger)
		}
	}
}

func scanOnce(ctx context.Context, p *pipeline.Pipeline, reporter report.Reporter, logger *slog.Logger) {
	summary, err := p.Run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrAborted):
			logger.Warn("scan cancelled, snapshot untouched")
		default:
			logger.Error("scan failed", "error", err)
		}
		return
	}
	if err := reporter.Report(summary); err != nil {
		logger.Warn("report delivery failed", "error", err)
	}
}
