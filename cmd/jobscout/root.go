package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmerrick/jobscout/internal/adapter"
	"github.com/dmerrick/jobscout/internal/config"
	"github.com/dmerrick/jobscout/internal/discovery"
	"github.com/dmerrick/jobscout/internal/model"
	"github.com/dmerrick/jobscout/internal/pipeline"
	"github.com/dmerrick/jobscout/internal/ratelimit"
	"github.com/dmerrick/jobscout/internal/rating"
	"github.com/dmerrick/jobscout/internal/report"
	"github.com/dmerrick/jobscout/internal/retry"
	"github.com/dmerrick/jobscout/internal/score"
	"github.com/dmerrick/jobscout/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Job board scout — aggregate, score, and track postings",
	Long:  "Jobscout discovers employer job boards, aggregates their postings, scores them against your preferences, and maintains a durable snapshot across runs.",
	// Default to `run` so that `jobscout` with no args performs one scan.
	RunE: runScan,
}

func init() {
	// A .env next to the binary may carry API keys referenced by the config.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupReporter(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) report.Reporter {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack reporter")
		return report.NewSlackReporter(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return report.NewLogReporter(logger)
	}
}

// buildAdapters creates one decorated adapter per supported source. All
// adapters share the same pacing limiter so per-source delays hold across
// candidates.
func buildAdapters(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) map[string]model.SourceAdapter {
	limiter := ratelimit.NewSourceLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.SourceOverrides)

	adapters := map[string]model.SourceAdapter{
		"greenhouse": adapter.NewGreenhouseAdapter(httpClient, logger),
		"lever":      adapter.NewLeverAdapter(httpClient, logger),
	}
	for source, a := range adapters {
		a = ratelimit.Wrap(a, limiter)
		adapters[source] = retry.Wrap(a, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
	}
	return adapters
}

// buildPipeline assembles a full pipeline from config. The returned cleanup
// closes the first-seen index and must be called after the last run.
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var index *store.FirstSeenIndex
	var disc model.Discoverer
	cleanup := func() {}

	if cfg.Discovery.Enabled {
		var err error
		index, err = store.OpenFirstSeenIndex(cfg.Discovery.IndexPath)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { index.Close() }

		searcher := discovery.NewHTTPSearcher(cfg.Discovery.SearchURL, cfg.Discovery.APIKey, httpClient)
		disc = discovery.NewService(searcher, index, cfg.Discovery.FreshnessWindow, logger)
	}

	var lookup model.RatingLookup
	if cfg.Ratings.Enabled {
		lookup = rating.NewHTTPLookup(cfg.Ratings.BaseURL, httpClient)
	}

	fileStore := store.NewFileStore(cfg.DataDir)
	cached, err := fileStore.LoadRatings()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	p := &pipeline.Pipeline{
		Store:      fileStore,
		Index:      index,
		Discoverer: disc,
		Adapters:   buildAdapters(cfg, httpClient, logger),
		Enricher:   rating.NewEnricher(lookupOrNop(lookup), cached, cfg.Ratings.Force, logger),
		Scorer:     score.NewScorer(),
		Prefs:      cfg.Preferences,
		Static:     cfg.Candidates(),
		Query:      cfg.Query,
		Workers:    cfg.Workers,
		USOnly:     cfg.USOnly,
		ExtraVocab: cfg.Vocabulary,
		LockPath:   filepath.Join(cfg.DataDir, "jobscout.lock"),
		Logger:     logger,
	}
	return p, cleanup, nil
}

// nopLookup satisfies RatingLookup when rating enrichment is disabled; every
// lookup misses, so cached values pass through untouched.
type nopLookup struct{}

func (nopLookup) Lookup(ctx context.Context, employer string) (model.EmployerRating, error) {
	return model.EmployerRating{}, model.ErrRatingNotFound
}

func lookupOrNop(lookup model.RatingLookup) model.RatingLookup {
	if lookup == nil {
		return nopLookup{}
	}
	return lookup
}
