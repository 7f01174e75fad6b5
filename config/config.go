package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BaseURL         string        `split_words:"true"`
	OutputDir       string        `split_words:"true"`
	Headless        bool          `split_words:"true"`
	UserAgent       string        `split_words:"true"`
	NavigateTimeout time.Duration `split_words:"true"`

	// LoadMoreTimeout bounds each wait for the load-more control.
	LoadMoreTimeout time.Duration `split_words:"true"`
	// LoadMoreDelay is the pause after each load-more click. It is a guess at
	// how long the site needs to insert the new cards; slow networks can
	// outrun it.
	LoadMoreDelay time.Duration `split_words:"true"`
	// MaxLoadMore caps load-more clicks per page. 0 means unlimited.
	MaxLoadMore int `split_words:"true"`

	MaxRetries    int           `split_words:"true"`
	PageInterval  time.Duration `split_words:"true"`
	RespectRobots bool          `split_words:"true"`
	MetricsAddr   string        `split_words:"true"`
	Verbose       bool          `split_words:"true"`

	// Targets lists the target names to run. Empty means all of them.
	Targets []string `split_words:"true"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://webscraper.io/",
		OutputDir:       ".",
		Headless:        true,
		NavigateTimeout: 60 * time.Second,
		LoadMoreTimeout: 3 * time.Second,
		LoadMoreDelay:   200 * time.Millisecond,
		MaxLoadMore:     0,
		MaxRetries:      1,
		PageInterval:    0,
		RespectRobots:   false,
	}
}

// Load starts from DefaultConfig, applies an optional .env file and then
// SCRAPER_* environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			slog.Warn(".env file found but could not be loaded", slog.Any("error", err))
		}
	}

	cfg := DefaultConfig()
	if err := envconfig.Process("scraper", cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("base URL must be absolute")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.NavigateTimeout <= 0 {
		return fmt.Errorf("navigate timeout must be positive")
	}
	if c.LoadMoreTimeout <= 0 {
		return fmt.Errorf("load more timeout must be positive")
	}
	if c.LoadMoreDelay < 0 {
		return fmt.Errorf("load more delay cannot be negative")
	}
	if c.MaxLoadMore < 0 {
		return fmt.Errorf("max load more cannot be negative")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	if c.PageInterval < 0 {
		return fmt.Errorf("page interval cannot be negative")
	}

	if _, err := SelectTargets(DefaultTargets(), c.Targets); err != nil {
		return err
	}
	return nil
}
