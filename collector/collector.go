// Package collector runs the two-phase scrape: read article summaries from a
// listing, then visit each article page and reconcile the result into one
// record per summary.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/articulos/article"
	"github.com/pevans/articulos/browser"
	"github.com/pevans/articulos/extract"
	"github.com/pevans/articulos/scraper"
	"github.com/sirupsen/logrus"
)

// Config holds configuration for a collector.
type Config struct {
	// Listing page to read summaries from
	URL string
	// When set, summaries are read from this RSS/Atom feed instead of URL
	FeedURL string
	// Fixed waits after the network settles on listing and article pages
	ListingSettle time.Duration
	DetailSettle  time.Duration
	// Bound on each navigation; zero waits indefinitely
	NavigationTimeout time.Duration
	// Maximum number of article pages open at once
	Concurrency int
	Selectors   scraper.ScraperConfig
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		URL:           "https://blog.angular.dev/",
		ListingSettle: 8 * time.Second,
		DetailSettle:  6 * time.Second,
		Concurrency:   1,
		Selectors:     scraper.DefaultScraperConfig(),
	}
}

// Collector scrapes one blog through a browser session.
type Collector struct {
	session browser.Session
	config  *Config
	log     logrus.FieldLogger
}

// Result is the outcome of one run.
type Result struct {
	RunID      uuid.UUID
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []article.Record
}

// Counts returns how many records took each reconciliation path.
func (r *Result) Counts() map[article.Origin]int {
	counts := make(map[article.Origin]int)
	for _, record := range r.Records {
		counts[record.Origin]++
	}
	return counts
}

// New creates a collector. The session is borrowed: closing it stays the
// caller's job.
func New(session browser.Session, config *Config, log logrus.FieldLogger) *Collector {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}

	return &Collector{
		session: session,
		config:  config,
		log:     log,
	}
}

// Run reads the listing and reconciles every summary. The records keep
// listing order. A listing failure or a cancelled ctx fails the run; failures
// on single articles only degrade their own record.
func (c *Collector) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:     uuid.New(),
		Source:    c.source(),
		StartedAt: time.Now(),
	}
	log := c.log.WithField("run_id", result.RunID.String())

	log.WithField("source", result.Source).Info("Loading listing")
	summaries, err := c.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	log.WithField("articles", len(summaries)).Info("Listing loaded")

	result.Records = c.reconcileAll(ctx, log, summaries)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run interrupted: %w", err)
	}

	result.FinishedAt = time.Now()
	return result, nil
}

func (c *Collector) source() string {
	if c.config.FeedURL != "" {
		return c.config.FeedURL
	}
	return c.config.URL
}

// Summaries returns the article summaries of the configured listing page, or
// of the configured feed.
func (c *Collector) Summaries(ctx context.Context) ([]article.Summary, error) {
	if c.config.FeedURL != "" {
		feed, err := extract.FetchFeed(ctx, c.config.FeedURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load listing feed: %w", err)
		}
		return extract.FeedSummaries(feed), nil
	}

	page, err := c.session.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open listing page: %w", err)
	}
	defer c.closePage(page, c.config.URL)

	snapshot, err := c.load(ctx, page, c.config.URL, c.config.ListingSettle)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	return extract.Summaries(snapshot.Document, c.config.Selectors.Listing), nil
}

// reconcileAll reconciles summaries with at most Concurrency article pages
// open at once. records[i] always belongs to summaries[i].
func (c *Collector) reconcileAll(ctx context.Context, log logrus.FieldLogger, summaries []article.Summary) []article.Record {
	records := make([]article.Record, len(summaries))
	semaphore := make(chan struct{}, c.config.Concurrency)
	var wg sync.WaitGroup

	for i, summary := range summaries {
		select {
		case <-ctx.Done():
			wg.Wait()
			return records
		case semaphore <- struct{}{}: // Acquire semaphore
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }() // Release semaphore

			records[i] = c.Reconcile(ctx, summary)
			log.WithFields(logrus.Fields{
				"position": i + 1,
				"origin":   records[i].Origin,
			}).Debug("Article reconciled")
		}()
	}

	wg.Wait()
	return records
}

// Reconcile turns one summary into a record. Summaries without a link get a
// placeholder record without any navigation; summaries whose page fails to
// load or read get an errored record.
func (c *Collector) Reconcile(ctx context.Context, summary article.Summary) article.Record {
	if !summary.HasLink() {
		return article.PlaceholderRecord(summary)
	}

	detail, err := c.Enrich(ctx, *summary.Link)
	if err != nil {
		c.log.WithField("link", *summary.Link).WithError(err).Error("Error al procesar")
		return article.ErroredRecord(summary)
	}

	return article.NewRecord(summary, detail)
}

// Enrich opens a fresh page on link and reads the article detail from it.
// The page is closed before returning, whether or not loading succeeded.
func (c *Collector) Enrich(ctx context.Context, link string) (article.Detail, error) {
	page, err := c.session.NewPage(ctx)
	if err != nil {
		return article.Detail{}, fmt.Errorf("failed to open page: %w", err)
	}
	defer c.closePage(page, link)

	snapshot, err := c.load(ctx, page, link, c.config.DetailSettle)
	if err != nil {
		return article.Detail{}, err
	}

	return extract.Detail(snapshot.Document, snapshot.State, c.config.Selectors.Detail), nil
}

// load navigates page to url and snapshots it once settled.
func (c *Collector) load(ctx context.Context, page browser.Page, url string, settle time.Duration) (*browser.Snapshot, error) {
	navCtx := ctx
	if c.config.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, c.config.NavigationTimeout+settle)
		defer cancel()
	}

	if err := page.Goto(navCtx, url, settle); err != nil {
		return nil, err
	}

	snapshot, err := page.Snapshot(navCtx, c.config.Selectors.Detail.StateVariable)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	return snapshot, nil
}

func (c *Collector) closePage(page browser.Page, url string) {
	if err := page.Close(); err != nil {
		c.log.WithField("link", url).WithError(err).Warn("Failed to close page")
	}
}
