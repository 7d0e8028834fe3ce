package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pevans/articulos/browser"
	"github.com/pevans/articulos/collector"
	"github.com/pevans/articulos/config"
	"github.com/pevans/articulos/export"
	"github.com/pevans/articulos/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// options are the command-line overrides; only flags the user set are
// applied on top of the loaded configuration.
type options struct {
	configPath  string
	url         string
	feedURL     string
	mode        string
	headless    bool
	concurrency int
	outputDir   string
	archiveDSN  string
	logLevel    string
	summary     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return newCommand(&options{})
}

// newCommand builds the root command with its flags bound to opts.
func newCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articulos",
		Short: "Scrape blog articles and export them as JSON, CSV and XLSX",
		Long: `articulos reads the article listing of a blog, visits every article to
collect its date, author and engagement counters, and writes the results to
articulos_completos.json, articulos_completos.csv and articulos_completos.xlsx.

Settings come from articulos.yaml (or --config), a .env file and ARTICULOS_*
environment variables; flags override all of them.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, opts.summary)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to YAML configuration file (default: ./"+config.DefaultFile+" if present)")
	flags.StringVar(&opts.url, "url", "", "Listing page URL (ARTICULOS_URL)")
	flags.StringVar(&opts.feedURL, "feed", "", "Read the listing from this RSS/Atom feed instead of the listing page (ARTICULOS_FEED_URL)")
	flags.StringVar(&opts.mode, "mode", "", "Page loader: chrome or http (ARTICULOS_MODE)")
	flags.BoolVar(&opts.headless, "headless", false, "Run Chrome without a window (ARTICULOS_HEADLESS)")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "Maximum article pages open at once (ARTICULOS_CONCURRENCY)")
	flags.StringVar(&opts.outputDir, "output", "", "Directory for export files (ARTICULOS_OUTPUT_DIR)")
	flags.StringVar(&opts.archiveDSN, "archive", "", "SQLite database to archive every run in (ARTICULOS_ARCHIVE_DSN)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (ARTICULOS_LOG_LEVEL)")
	flags.BoolVar(&opts.summary, "summary", false, "Print a per-article summary table to stderr")

	return cmd
}

// loadConfig loads the configuration and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = opts.url
	}
	if flags.Changed("feed") {
		cfg.Listing.Source = config.SourceFeed
		cfg.Listing.FeedURL = opts.feedURL
	}
	if flags.Changed("mode") {
		cfg.Browser.Mode = opts.mode
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = opts.headless
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}
	if flags.Changed("output") {
		cfg.Output.Dir = opts.outputDir
	}
	if flags.Changed("archive") {
		cfg.Archive.DSN = opts.archiveDSN
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// run scrapes, prints and exports. Export failures abort with an error.
func run(ctx context.Context, cfg *config.Config, summary bool) error {
	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	session, err := newSession(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("Failed to start browser")
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("Failed to close browser")
		}
	}()

	c := collector.New(session, collectorConfig(cfg), log)
	result, err := c.Run(ctx)
	if err != nil {
		log.WithError(err).Error("Scrape failed")
		return err
	}

	fmt.Println("✅ Artículos completos:")
	if err := export.EncodeJSON(os.Stdout, result.Records); err != nil {
		return err
	}

	paths := export.NewPaths(cfg.Output.Dir, cfg.Output.BaseName)
	if err := export.WriteAll(paths, result.Records); err != nil {
		log.WithError(err).Error("Export failed")
		return err
	}
	log.WithFields(logrus.Fields{
		"json": paths.JSON,
		"csv":  paths.CSV,
		"xlsx": paths.XLSX,
	}).Info("Export written")

	if cfg.Archive.DSN != "" {
		if err := archiveRun(ctx, cfg.Archive.DSN, result); err != nil {
			log.WithError(err).Error("Archive failed")
			return err
		}
		log.WithField("dsn", cfg.Archive.DSN).Info("Run archived")
	}

	if summary {
		printSummary(os.Stderr, result)
	}

	return nil
}

// newSession starts the page loader selected by the configuration.
func newSession(ctx context.Context, cfg *config.Config) (browser.Session, error) {
	if cfg.Browser.Mode == config.ModeHTTP {
		return browser.NewHTTPSession(cfg.Browser.NavigationTimeout, cfg.Browser.UserAgent), nil
	}

	return browser.NewChromeSession(ctx, browser.ChromeOptions{
		Headless:  cfg.Browser.Headless,
		ExecPath:  cfg.Browser.ChromePath,
		UserAgent: cfg.Browser.UserAgent,
	})
}

func collectorConfig(cfg *config.Config) *collector.Config {
	feedURL := ""
	if cfg.Listing.Source == config.SourceFeed {
		feedURL = cfg.Listing.FeedURL
	}

	return &collector.Config{
		URL:               cfg.URL,
		FeedURL:           feedURL,
		ListingSettle:     cfg.Browser.ListingSettle,
		DetailSettle:      cfg.Browser.DetailSettle,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		Concurrency:       cfg.Concurrency,
		Selectors:         cfg.Selectors,
	}
}

func archiveRun(ctx context.Context, dsn string, result *collector.Result) error {
	archive, err := export.OpenArchive(dsn)
	if err != nil {
		return err
	}
	defer archive.Close()

	run := export.Run{
		ID:         result.RunID,
		Source:     result.Source,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}
	return archive.SaveRun(ctx, run, result.Records)
}
