package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dmerrick/jobscout/internal/review"
	"github.com/dmerrick/jobscout/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse the snapshot interactively",
	Long:  "Open a terminal browser over the persisted snapshot, best-scoring postings first.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	fileStore := store.NewFileStore(cfg.DataDir)
	postings, err := fileStore.LoadPostings()
	if err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}
	if len(postings) == 0 {
		logger.Info("snapshot is empty, run a scan first")
		return nil
	}
	ratings, err := fileStore.LoadRatings()
	if err != nil {
		logger.Error("failed to load ratings", "error", err)
		os.Exit(1)
	}

	return review.Run(postings, ratings)
}
