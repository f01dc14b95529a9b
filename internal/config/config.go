// Package config loads the YAML configuration that drives a scout run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmerrick/jobscout/internal/model"
)

// Config is the root configuration for jobscout.
type Config struct {
	Query        string
	Workers      int
	USOnly       bool
	DataDir      string // snapshot directory (postings.csv, ratings.csv)
	Boards       []BoardConfig
	Preferences  model.PreferenceModel
	Vocabulary   []string // extra keyword-extraction terms on top of the built-ins
	Discovery    DiscoveryConfig
	Ratings      RatingsConfig
	RateLimit    RateLimitConfig
	Retry        RetryConfig
	Watch        WatchConfig
	Notification NotificationConfig
}

// BoardConfig pins one employer board that is always probed, regardless of
// what discovery returns.
type BoardConfig struct {
	Employer string `yaml:"employer"`
	Source   string `yaml:"source"` // "greenhouse" or "lever"
	Slug     string `yaml:"slug"`
	Enabled  bool   `yaml:"enabled"`
}

// DiscoveryConfig controls the search-backed board discovery layer.
type DiscoveryConfig struct {
	Enabled         bool
	SearchURL       string
	APIKey          string // expanded from env var by Load
	FreshnessWindow time.Duration
	IndexPath       string // sqlite first-seen index
}

// RatingsConfig controls employer rating lookups.
type RatingsConfig struct {
	Enabled bool
	BaseURL string
	Force   bool // refresh even for cached employers
}

// RateLimitConfig controls per-source request pacing.
type RateLimitConfig struct {
	MinDelay        time.Duration
	SourceOverrides map[string]time.Duration
}

// MinDelayFor returns the configured delay for the source, falling back to
// MinDelay.
func (r RateLimitConfig) MinDelayFor(source string) time.Duration {
	if d, ok := r.SourceOverrides[source]; ok {
		return d
	}
	return r.MinDelay
}

// RetryConfig controls the fetch retry decorator.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// WatchConfig controls the repeating-run mode.
type WatchConfig struct {
	Interval time.Duration
}

// NotificationConfig selects where run summaries are delivered.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations
// as strings).
type rawConfig struct {
	Query        string              `yaml:"query"`
	Workers      int                 `yaml:"workers"`
	USOnly       bool                `yaml:"us_only"`
	DataDir      string              `yaml:"data_dir"`
	Boards       []BoardConfig       `yaml:"boards"`
	Preferences  []rawPreferenceRule `yaml:"preferences"`
	Vocabulary   []string            `yaml:"vocabulary"`
	Discovery    rawDiscoveryConfig  `yaml:"discovery"`
	Ratings      rawRatingsConfig    `yaml:"ratings"`
	RateLimit    rawRateLimitConfig  `yaml:"rate_limit"`
	Retry        rawRetryConfig      `yaml:"retry"`
	Watch        rawWatchConfig      `yaml:"watch"`
	Notification NotificationConfig  `yaml:"notification"`
}

type rawPreferenceRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
	Weight   int      `yaml:"weight"`
}

type rawDiscoveryConfig struct {
	Enabled         bool   `yaml:"enabled"`
	SearchURL       string `yaml:"search_url"`
	APIKey          string `yaml:"api_key"`
	FreshnessWindow string `yaml:"freshness_window"`
	IndexPath       string `yaml:"index_path"`
}

type rawRatingsConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Force   bool   `yaml:"force"`
}

type rawRateLimitConfig struct {
	MinDelay        string            `yaml:"min_delay"`
	SourceOverrides map[string]string `yaml:"source_overrides"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawWatchConfig struct {
	Interval string `yaml:"interval"`
}

// Defaults applied when the corresponding config keys are absent.
const (
	defaultWorkers         = 4
	defaultFreshnessWindow = 7 * 24 * time.Hour
	defaultMinDelay        = 2 * time.Second
	defaultMaxRetries      = 3
	defaultBaseDelay       = time.Second
	defaultWatchInterval   = time.Hour
)

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. Environment variable references (${VAR}) in the file are
// expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	workers := raw.Workers
	if workers == 0 {
		workers = defaultWorkers
	}

	dataDir := raw.DataDir
	if dataDir == "" {
		dataDir = "data"
	}

	freshness := defaultFreshnessWindow
	if raw.Discovery.FreshnessWindow != "" {
		freshness, err = time.ParseDuration(raw.Discovery.FreshnessWindow)
		if err != nil {
			return nil, fmt.Errorf("parse discovery.freshness_window %q: %w", raw.Discovery.FreshnessWindow, err)
		}
	}

	indexPath := raw.Discovery.IndexPath
	if indexPath == "" {
		indexPath = filepath.Join(dataDir, "employers.db")
	}

	minDelay := defaultMinDelay
	if raw.RateLimit.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
	}

	overrides := make(map[string]time.Duration)
	for source, rawDelay := range raw.RateLimit.SourceOverrides {
		d, err := time.ParseDuration(rawDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.source_overrides[%q]: %w", source, err)
		}
		overrides[source] = d
	}

	maxRetries := defaultMaxRetries
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}

	baseDelay := defaultBaseDelay
	if raw.Retry.BaseDelay != "" {
		baseDelay, err = time.ParseDuration(raw.Retry.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse retry.base_delay %q: %w", raw.Retry.BaseDelay, err)
		}
	}

	watchInterval := defaultWatchInterval
	if raw.Watch.Interval != "" {
		watchInterval, err = time.ParseDuration(raw.Watch.Interval)
		if err != nil {
			return nil, fmt.Errorf("parse watch.interval %q: %w", raw.Watch.Interval, err)
		}
	}

	rules := make([]model.PreferenceRule, 0, len(raw.Preferences))
	for _, r := range raw.Preferences {
		rules = append(rules, model.PreferenceRule{
			Tag:      r.Tag,
			Keywords: r.Keywords,
			Weight:   r.Weight,
		})
	}

	cfg := &Config{
		Query:   raw.Query,
		Workers: workers,
		USOnly:  raw.USOnly,
		DataDir: dataDir,
		Boards:  raw.Boards,
		Preferences: model.PreferenceModel{
			Rules: rules,
		},
		Vocabulary: raw.Vocabulary,
		Discovery: DiscoveryConfig{
			Enabled:         raw.Discovery.Enabled,
			SearchURL:       raw.Discovery.SearchURL,
			APIKey:          raw.Discovery.APIKey,
			FreshnessWindow: freshness,
			IndexPath:       indexPath,
		},
		Ratings: RatingsConfig{
			Enabled: raw.Ratings.Enabled,
			BaseURL: raw.Ratings.BaseURL,
			Force:   raw.Ratings.Force,
		},
		RateLimit: RateLimitConfig{
			MinDelay:        minDelay,
			SourceOverrides: overrides,
		},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
		},
		Watch: WatchConfig{
			Interval: watchInterval,
		},
		Notification: raw.Notification,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}

	if !cfg.Discovery.Enabled {
		enabled := 0
		for _, b := range cfg.Boards {
			if b.Enabled {
				enabled++
			}
		}
		if enabled == 0 {
			return fmt.Errorf("at least one board must be enabled when discovery is off")
		}
	}
	for i, b := range cfg.Boards {
		if !b.Enabled {
			continue
		}
		if b.Source != "greenhouse" && b.Source != "lever" {
			return fmt.Errorf("boards[%d].source %q is not a known source", i, b.Source)
		}
		if b.Slug == "" {
			return fmt.Errorf("boards[%d].slug is required", i)
		}
	}

	if cfg.Discovery.Enabled && cfg.Discovery.SearchURL == "" {
		return fmt.Errorf("discovery.search_url is required when discovery is enabled")
	}
	if cfg.Discovery.FreshnessWindow <= 0 {
		return fmt.Errorf("discovery.freshness_window must be positive, got %v", cfg.Discovery.FreshnessWindow)
	}

	if cfg.Ratings.Enabled && cfg.Ratings.BaseURL == "" {
		return fmt.Errorf("ratings.base_url is required when ratings are enabled")
	}

	for i, r := range cfg.Preferences.Rules {
		if r.Tag == "" {
			return fmt.Errorf("preferences[%d].tag is required", i)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("preferences[%d] (%s) needs at least one keyword", i, r.Tag)
		}
		for _, kw := range r.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("preferences[%d] (%s) has an empty keyword", i, r.Tag)
			}
		}
	}
	for i, term := range cfg.Vocabulary {
		if strings.TrimSpace(term) == "" {
			return fmt.Errorf("vocabulary[%d] is empty", i)
		}
	}

	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Watch.Interval < time.Minute {
		return fmt.Errorf("watch.interval must be at least 1m, got %v", cfg.Watch.Interval)
	}

	if cfg.Notification.Type == "slack" {
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}

// Candidates returns the enabled static boards as source candidates.
func (c *Config) Candidates() []model.SourceCandidate {
	out := make([]model.SourceCandidate, 0, len(c.Boards))
	for _, b := range c.Boards {
		if !b.Enabled {
			continue
		}
		out = append(out, model.SourceCandidate{
			Employer: b.Employer,
			Slug:     b.Slug,
			Source:   b.Source,
		})
	}
	return out
}
