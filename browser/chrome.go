package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// networkIdleEvent is the lifecycle event fired once no more than two
// network connections have been active for 500ms.
const networkIdleEvent = "networkAlmostIdle"

// ChromeOptions configures the browser launched by NewChromeSession.
type ChromeOptions struct {
	Headless  bool
	ExecPath  string // empty: look up Chrome on PATH
	UserAgent string // empty: Chrome's own
}

// ChromeSession drives a local Chrome instance over the DevTools protocol.
// Pages run scripts, so state is read straight from the page's globals.
type ChromeSession struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// NewChromeSession launches Chrome. The browser lives until Close is called
// or ctx is cancelled.
func NewChromeSession(ctx context.Context, opts ChromeOptions) (*ChromeSession, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &ChromeSession{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

// NewPage opens a new tab.
func (s *ChromeSession) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(s.browserCtx)

	// The first Run creates the tab and must use the tab's own context: a
	// derived context would close the tab when it is cancelled.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}

	return &chromePage{ctx: tabCtx, cancel: cancel}, nil
}

// Close shuts the browser down.
func (s *ChromeSession) Close() error {
	err := chromedp.Cancel(s.browserCtx)
	s.cancelBrowser()
	s.cancelAlloc()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (p *chromePage) Goto(ctx context.Context, pageURL string, settle time.Duration) error {
	runCtx, stop := withCaller(p.ctx, ctx)
	defer stop()

	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(runCtx, func(ev any) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}

		switch e.Name {
		case "init":
			// A new navigation started; forget earlier idle signals.
			select {
			case <-idle:
			default:
			}
		case networkIdleEvent:
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	err := chromedp.Run(runCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(pageURL),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}

	select {
	case <-idle:
	case <-runCtx.Done():
		return fmt.Errorf("failed waiting for %s to settle: %w", pageURL, runCtx.Err())
	}

	return sleep(runCtx, settle)
}

func (p *chromePage) Snapshot(ctx context.Context, stateVar string) (*Snapshot, error) {
	runCtx, stop := withCaller(p.ctx, ctx)
	defer stop()

	var html, location string
	err := chromedp.Run(runCtx,
		chromedp.Location(&location),
		chromedp.Evaluate(`document.documentElement.outerHTML`, &html),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if u, err := url.Parse(location); err == nil {
		doc.Url = u
	}

	return &Snapshot{
		Document: doc,
		State:    p.state(runCtx, stateVar),
	}, nil
}

// state serializes the global stateVar in the page. A missing or
// unserializable value is reported as nil.
func (p *chromePage) state(ctx context.Context, stateVar string) []byte {
	if stateVar == "" {
		return nil
	}

	var raw string
	expr := fmt.Sprintf(`JSON.stringify(window[%q] ?? null)`, stateVar)
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &raw)); err != nil {
		return nil
	}
	if raw == "" || raw == "null" {
		return nil
	}

	return []byte(raw)
}

func (p *chromePage) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	if err != nil {
		return fmt.Errorf("failed to close tab: %w", err)
	}
	return nil
}

// withCaller derives a context from a chromedp context that is also
// cancelled when the caller's ctx is done.
func withCaller(chromeCtx, ctx context.Context) (context.Context, func()) {
	runCtx, cancel := context.WithCancel(chromeCtx)
	stopAfter := context.AfterFunc(ctx, cancel)

	return runCtx, func() {
		stopAfter()
		cancel()
	}
}
