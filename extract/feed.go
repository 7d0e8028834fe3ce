package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/pevans/articulos/article"
)

// FetchFeed fetches and parses an RSS or Atom feed from the given URL. The
// gofeed library automatically detects and handles both RSS and Atom formats.
func FetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}

// FeedSummaries converts the items of a blog feed into listing summaries, in
// feed order. It is an alternative to reading the listing page when the blog
// publishes a feed.
func FeedSummaries(feed *gofeed.Feed) []article.Summary {
	summaries := make([]article.Summary, 0, len(feed.Items))
	for _, item := range feed.Items {
		summaries = append(summaries, FeedItemSummary(item))
	}
	return summaries
}

// FeedItemSummary converts one feed item. The excerpt is the first paragraph
// of the description, or of the full content when the feed only carries
// content:encoded (as Medium feeds do).
func FeedItemSummary(item *gofeed.Item) article.Summary {
	title := normalizeSpace(item.Title)
	if title == "" {
		title = article.UntitledTitle
	}

	body := item.Description
	if strings.TrimSpace(body) == "" {
		body = item.Content
	}

	summary := article.Summary{Title: title}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		summary.Excerpt = firstText(doc.Selection, "p")
		if summary.Excerpt == "" {
			summary.Excerpt = normalizeSpace(doc.Text())
		}
		summary.Avatar = firstURL(doc.Selection, "img", "src", nil)
	}

	if item.Image != nil && item.Image.URL != "" {
		image := item.Image.URL
		summary.Avatar = &image
	}

	if link := strings.TrimSpace(item.Link); link != "" {
		summary.Link = &link
	}

	return summary
}
