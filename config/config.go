// Package config holds the settings for a scrape run. Defaults reproduce the
// fixed behaviour of the scraper; a YAML file, a .env file, environment
// variables and command-line flags can override them, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pevans/articulos/scraper"
)

// Browser modes.
const (
	ModeChrome = "chrome"
	ModeHTTP   = "http"
)

// Listing sources.
const (
	SourcePage = "page"
	SourceFeed = "feed"
)

var (
	ErrInvalidMode   = errors.New("browser mode must be chrome or http")
	ErrInvalidSource = errors.New("listing source must be page or feed")
)

// DefaultURL is the listing page scraped when nothing else is configured.
const DefaultURL = "https://blog.angular.dev/"

// Config represents the settings of a scrape run.
type Config struct {
	URL         string                `yaml:"url"`
	Listing     ListingConfig         `yaml:"listing"`
	Browser     BrowserConfig         `yaml:"browser"`
	Concurrency int                   `yaml:"concurrency"`
	Output      OutputConfig          `yaml:"output"`
	Archive     ArchiveConfig         `yaml:"archive"`
	Log         LogConfig             `yaml:"log"`
	Selectors   scraper.ScraperConfig `yaml:"selectors"`
}

// ListingConfig chooses where article summaries come from.
type ListingConfig struct {
	Source  string `yaml:"source"`   // "page" or "feed"
	FeedURL string `yaml:"feed_url"` // required when Source is "feed"
}

// BrowserConfig controls how pages are loaded.
type BrowserConfig struct {
	Mode              string        `yaml:"mode"` // "chrome" or "http"
	Headless          bool          `yaml:"headless"`
	ChromePath        string        `yaml:"chrome_path"`
	UserAgent         string        `yaml:"user_agent"`
	ListingSettle     time.Duration `yaml:"listing_settle"`
	DetailSettle      time.Duration `yaml:"detail_settle"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"` // 0: unbounded
}

// OutputConfig controls where export files are written.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	BaseName string `yaml:"base_name"`
}

// ArchiveConfig controls the optional SQLite archive of every run.
type ArchiveConfig struct {
	DSN string `yaml:"dsn"` // empty: disabled
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		URL: DefaultURL,
		Listing: ListingConfig{
			Source: SourcePage,
		},
		Browser: BrowserConfig{
			Mode:          ModeChrome,
			Headless:      false,
			ListingSettle: 8 * time.Second,
			DetailSettle:  6 * time.Second,
		},
		Concurrency: 1,
		Output: OutputConfig{
			Dir:      ".",
			BaseName: "articulos_completos",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Selectors: scraper.DefaultScraperConfig(),
	}
}

// Load builds a configuration from defaults, the YAML file at path (or
// DefaultFile when path is empty), a .env file in the working directory and
// the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	return cfg, nil
}

// applyEnv overrides settings from ARTICULOS_* environment variables.
func (c *Config) applyEnv() {
	c.URL = getEnv("ARTICULOS_URL", c.URL)
	c.Listing.Source = getEnv("ARTICULOS_LISTING_SOURCE", c.Listing.Source)
	c.Listing.FeedURL = getEnv("ARTICULOS_FEED_URL", c.Listing.FeedURL)
	c.Browser.Mode = getEnv("ARTICULOS_MODE", c.Browser.Mode)
	c.Browser.Headless = getEnvBool("ARTICULOS_HEADLESS", c.Browser.Headless)
	c.Browser.ChromePath = getEnv("ARTICULOS_CHROME_PATH", c.Browser.ChromePath)
	c.Browser.NavigationTimeout = getEnvDuration("ARTICULOS_NAVIGATION_TIMEOUT", c.Browser.NavigationTimeout)
	c.Concurrency = getEnvInt("ARTICULOS_CONCURRENCY", c.Concurrency)
	c.Output.Dir = getEnv("ARTICULOS_OUTPUT_DIR", c.Output.Dir)
	c.Archive.DSN = getEnv("ARTICULOS_ARCHIVE_DSN", c.Archive.DSN)
	c.Log.Level = getEnv("ARTICULOS_LOG_LEVEL", c.Log.Level)
}

// Validate checks the configuration for values the scraper cannot run with.
func (c *Config) Validate() error {
	if c.URL == "" && c.Listing.Source == SourcePage {
		return errors.New("url is required")
	}

	switch c.Listing.Source {
	case SourcePage:
	case SourceFeed:
		if c.Listing.FeedURL == "" {
			return errors.New("listing.feed_url is required when listing.source is feed")
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSource, c.Listing.Source)
	}

	if c.Browser.Mode != ModeChrome && c.Browser.Mode != ModeHTTP {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Browser.Mode)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}

	if c.Browser.ListingSettle < 0 || c.Browser.DetailSettle < 0 || c.Browser.NavigationTimeout < 0 {
		return errors.New("durations must not be negative")
	}

	if c.Output.BaseName == "" {
		return errors.New("output.base_name is required")
	}

	if c.Selectors.Listing.ArticleSelector == "" {
		return errors.New("selectors.listing.article_selector is required")
	}

	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses a duration from environment variable or returns default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvInt parses an int from environment variable or returns default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool parses a bool from environment variable or returns default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
