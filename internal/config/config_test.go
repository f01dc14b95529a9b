package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
query: golang backend jobs
workers: 8
us_only: true
data_dir: /tmp/scout
boards:
  - employer: Acme
    source: greenhouse
    slug: acme
    enabled: true
preferences:
  - tag: go
    keywords: [Go, Golang]
    weight: 5
  - tag: frontend
    keywords: [React]
    weight: -2
discovery:
  enabled: true
  search_url: https://search.example.com
  freshness_window: 48h
ratings:
  enabled: true
  base_url: https://ratings.example.com
rate_limit:
  min_delay: 3s
  source_overrides:
    lever: 10s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Query != "golang backend jobs" {
		t.Errorf("Query = %q", cfg.Query)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if !cfg.USOnly {
		t.Error("USOnly = false, want true")
	}
	if len(cfg.Boards) != 1 || cfg.Boards[0].Slug != "acme" {
		t.Errorf("Boards = %+v", cfg.Boards)
	}
	if len(cfg.Preferences.Rules) != 2 {
		t.Fatalf("Rules = %+v", cfg.Preferences.Rules)
	}
	if cfg.Preferences.Rules[1].Weight != -2 {
		t.Errorf("Rules[1].Weight = %d, want -2", cfg.Preferences.Rules[1].Weight)
	}
	if cfg.Discovery.FreshnessWindow != 48*time.Hour {
		t.Errorf("FreshnessWindow = %v, want 48h", cfg.Discovery.FreshnessWindow)
	}
	if cfg.RateLimit.MinDelayFor("lever") != 10*time.Second {
		t.Errorf("MinDelayFor(lever) = %v, want 10s", cfg.RateLimit.MinDelayFor("lever"))
	}
	if cfg.RateLimit.MinDelayFor("greenhouse") != 3*time.Second {
		t.Errorf("MinDelayFor(greenhouse) = %v, want 3s", cfg.RateLimit.MinDelayFor("greenhouse"))
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
boards:
  - employer: Acme
    source: lever
    slug: acme
    enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != defaultWorkers {
		t.Errorf("Workers = %d, want default %d", cfg.Workers, defaultWorkers)
	}
	if cfg.Discovery.FreshnessWindow != defaultFreshnessWindow {
		t.Errorf("FreshnessWindow = %v, want default", cfg.Discovery.FreshnessWindow)
	}
	if cfg.RateLimit.MinDelay != defaultMinDelay {
		t.Errorf("MinDelay = %v, want default", cfg.RateLimit.MinDelay)
	}
	if cfg.Retry.MaxRetries != defaultMaxRetries {
		t.Errorf("MaxRetries = %d, want default", cfg.Retry.MaxRetries)
	}
	if cfg.Watch.Interval != defaultWatchInterval {
		t.Errorf("Watch.Interval = %v, want default", cfg.Watch.Interval)
	}
	if cfg.Discovery.IndexPath != filepath.Join("data", "employers.db") {
		t.Errorf("IndexPath = %q", cfg.Discovery.IndexPath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "query: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_NoBoardsAndNoDiscovery(t *testing.T) {
	path := writeConfig(t, `
query: anything
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load: expected error when nothing can produce candidates")
	}
	if !strings.Contains(err.Error(), "at least one board") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad_UnknownSource(t *testing.T) {
	path := writeConfig(t, `
boards:
  - employer: Acme
    source: workable
    slug: acme
    enabled: true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for unknown board source")
	}
}

func TestLoad_PreferenceRuleWithoutKeywords(t *testing.T) {
	path := writeConfig(t, `
boards:
  - employer: Acme
    source: lever
    slug: acme
    enabled: true
preferences:
  - tag: go
    keywords: []
    weight: 5
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for rule without keywords")
	}
}

func TestLoad_PreferenceRuleWithEmptyKeyword(t *testing.T) {
	path := writeConfig(t, `
boards:
  - employer: Acme
    source: lever
    slug: acme
    enabled: true
preferences:
  - tag: go
    keywords: ["", "Go"]
    weight: 5
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load: expected error for empty keyword string")
	}
	if !strings.Contains(err.Error(), "empty keyword") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad_EmptyVocabularyTerm(t *testing.T) {
	path := writeConfig(t, `
boards:
  - employer: Acme
    source: lever
    slug: acme
    enabled: true
vocabulary: ["Elixir", ""]
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for empty vocabulary term")
	}
}

func TestLoad_DiscoveryWithoutSearchURL(t *testing.T) {
	path := writeConfig(t, `
discovery:
  enabled: true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error when discovery has no search_url")
	}
}

func TestLoad_SlackWebhookValidation(t *testing.T) {
	path := writeConfig(t, `
boards:
  - employer: Acme
    source: lever
    slug: acme
    enabled: true
notification:
  type: slack
  webhook_url: https://evil.example.com/hook
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for non-Slack webhook URL")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SCOUT_TEST_API_KEY", "sekret")
	path := writeConfig(t, `
boards:
  - employer: Acme
    source: lever
    slug: acme
    enabled: true
discovery:
  enabled: true
  search_url: https://search.example.com
  api_key: ${SCOUT_TEST_API_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discovery.APIKey != "sekret" {
		t.Errorf("APIKey = %q, want expanded env value", cfg.Discovery.APIKey)
	}
}

func TestCandidates_OnlyEnabledBoards(t *testing.T) {
	cfg := &Config{Boards: []BoardConfig{
		{Employer: "Acme", Source: "greenhouse", Slug: "acme", Enabled: true},
		{Employer: "Dormant", Source: "lever", Slug: "dormant", Enabled: false},
	}}

	got := cfg.Candidates()
	if len(got) != 1 || got[0].Slug != "acme" {
		t.Errorf("Candidates = %+v, want only the enabled board", got)
	}
}
