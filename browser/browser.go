// Package browser opens and navigates pages for the scraper. A Session owns
// the underlying browser (or HTTP client) for the whole run; each Page is a
// single tab that must be closed after use.
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotLoaded is returned when a page is read before navigating it.
var ErrNotLoaded = errors.New("page has not been loaded")

// Session opens pages. Close releases the browser and every page still
// open.
type Session interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single browser tab.
type Page interface {
	// Goto navigates to url, waits for the network to settle and then waits
	// a further fixed settle period.
	Goto(ctx context.Context, url string, settle time.Duration) error

	// Snapshot returns the loaded document and the raw JSON of the global
	// variable named stateVar. State is nil when the variable is unset.
	Snapshot(ctx context.Context, stateVar string) (*Snapshot, error)

	Close() error
}

// Snapshot is a loaded page. Document.Url is set to the page's final
// location so relative links can be resolved.
type Snapshot struct {
	Document *goquery.Document
	State    []byte
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
