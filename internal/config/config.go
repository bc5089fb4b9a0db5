// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hollowaylabs/sonar/internal/logging"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultModel   = "claude-sonnet-4-5-20250929"
	DefaultDataDir = "data"
	DefaultSiteDir = "site"
)

// Config holds everything a run needs from the environment.
type Config struct {
	AnthropicAPIKey string // reasoning-service credential; empty means fallback reports only
	GitHubToken     string // optional, raises GitHub search rate limits
	Model           string
	DataDir         string
	SiteDir         string
	LedgerPath      string
	Debug           bool
}

// Load reads configuration from the environment, applying defaults.
// Missing credentials are logged, never fatal: the pipeline degrades instead.
func Load() Config {
	cfg := Config{
		AnthropicAPIKey: strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		GitHubToken:     strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		Model:           envOrDefault("SONAR_MODEL", DefaultModel),
		DataDir:         envOrDefault("SONAR_DATA_DIR", DefaultDataDir),
		SiteDir:         envOrDefault("SONAR_SITE_DIR", DefaultSiteDir),
		Debug:           os.Getenv("SONAR_DEBUG") != "",
	}
	cfg.LedgerPath = envOrDefault("SONAR_DB", filepath.Join(cfg.DataDir, "sonar.db"))

	if cfg.AnthropicAPIKey == "" {
		logging.Warn("ANTHROPIC_API_KEY not set, analysis will return raw signals only")
	}
	if cfg.GitHubToken == "" {
		logging.Debug("GITHUB_TOKEN not set, GitHub searches use the unauthenticated rate limit")
	}
	return cfg
}

// SignalsPath is where the collected signal bundle is persisted.
func (c Config) SignalsPath() string {
	return filepath.Join(c.DataDir, "signals.json")
}

// AnalysisPath is where the narrative report is persisted.
func (c Config) AnalysisPath() string {
	return filepath.Join(c.DataDir, "analysis.json")
}

// SitePath is where the combined dashboard document is persisted.
func (c Config) SitePath() string {
	return filepath.Join(c.SiteDir, "data.json")
}

// envOrDefault returns the environment variable value or a fallback.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
