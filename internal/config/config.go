package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for modelrank.
type Config struct {
	CacheDir           string        `mapstructure:"cache_dir"`
	LogLevel           string        `mapstructure:"log_level"`
	ArtificialAnalysis SourceConfig  `mapstructure:"artificial_analysis"`
	ModelsDev          SourceConfig  `mapstructure:"models_dev"`
	Selected           CachedOutput  `mapstructure:"selected"`
	Scoring            ScoringConfig `mapstructure:"scoring"`
	Matcher            MatcherConfig `mapstructure:"matcher"`
	CatalogPath        string        `mapstructure:"catalog_path"`
	GitHub             GitHubConfig  `mapstructure:"github"`
}

// SourceConfig holds per-source fetch settings. Each source has its own
// cache TTL; callers must not assume a shared one.
type SourceConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	CacheTTL string `mapstructure:"cache_ttl"`
}

// CachedOutput holds settings for a cache-gated derived artifact.
type CachedOutput struct {
	CacheTTL string `mapstructure:"cache_ttl"`
}

// ScoringConfig holds scorer settings.
type ScoringConfig struct {
	LookbackDays int `mapstructure:"lookback_days"`
}

// MatcherConfig holds matcher settings. The scoring magnitudes themselves
// default in the match package; only the operational knobs live here.
type MatcherConfig struct {
	ProviderScope      string  `mapstructure:"provider_scope"`
	MaxCandidates      int     `mapstructure:"max_candidates"`
	VoidThresholdRatio float64 `mapstructure:"void_threshold_ratio"`
}

// GitHubConfig holds GitHub-related settings for publishing.
type GitHubConfig struct {
	Token      string `mapstructure:"token"`
	Owner      string `mapstructure:"owner"`
	Repo       string `mapstructure:"repo"`
	BaseBranch string `mapstructure:"base_branch"`
}

// Load reads configuration from file, environment, and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("log_level", "info")
	v.SetDefault("artificial_analysis.base_url", "https://artificialanalysis.ai/api/v2/data/llms")
	v.SetDefault("artificial_analysis.cache_ttl", "12h")
	v.SetDefault("models_dev.base_url", "https://models.dev")
	v.SetDefault("models_dev.cache_ttl", "12h")
	v.SetDefault("selected.cache_ttl", "24h")
	v.SetDefault("scoring.lookback_days", 365)
	v.SetDefault("matcher.provider_scope", "openrouter")
	v.SetDefault("matcher.max_candidates", 5)
	v.SetDefault("matcher.void_threshold_ratio", 0.35)
	v.SetDefault("catalog_path", "../model-catalog")
	v.SetDefault("github.base_branch", "main")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/modelrank")
	}

	// Environment variables
	v.SetEnvPrefix("MODELRANK")
	v.AutomaticEnv()

	// Bind specific env vars
	_ = v.BindEnv("artificial_analysis.api_key", "ARTIFICIALANALYSIS_API_KEY")
	_ = v.BindEnv("github.token", "GITHUB_TOKEN")
	_ = v.BindEnv("matcher.provider_scope", "MODELRANK_PROVIDER_SCOPE")
	_ = v.BindEnv("matcher.void_threshold_ratio", "MODELRANK_VOID_THRESHOLD_RATIO")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Resolve catalog path to absolute
	if !filepath.IsAbs(cfg.CatalogPath) {
		abs, err := filepath.Abs(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("resolving catalog path: %w", err)
		}
		cfg.CatalogPath = abs
	}

	return &cfg, nil
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/modelrank-cache"
	}
	return filepath.Join(home, ".cache", "modelrank")
}
