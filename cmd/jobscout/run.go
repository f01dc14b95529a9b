package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmerrick/jobscout/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scan and update the snapshot",
	Long:  "Discover boards, fetch postings, score them, and merge the results into the snapshot. Exits non-zero if nothing was persisted.",
	RunE:  runScan,
}

var forceRatings bool

func init() {
	runCmd.Flags().BoolVar(&forceRatings, "force-ratings", false, "refresh ratings even for cached employers")
	rootCmd.AddCommand(runCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if forceRatings {
		cfg.Ratings.Force = true
	}

	logger.Info("config loaded",
		"query", cfg.Query,
		"boards", len(cfg.Boards),
		"workers", cfg.Workers,
		"discovery", cfg.Discovery.Enabled,
		"ratings", cfg.Ratings.Enabled,
	)

	p, cleanup, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("failed to assemble pipeline", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := p.Run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrLocked):
			logger.Error("another run is already in progress")
		case errors.Is(err, pipeline.ErrAborted):
			logger.Warn("run cancelled, snapshot untouched")
		default:
			logger.Error("run failed", "error", err)
		}
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	reporter := setupReporter(cfg, httpClient, logger)
	if err := reporter.Report(summary); err != nil {
		logger.Warn("report delivery failed", "error", err)
	}

	return nil
}
