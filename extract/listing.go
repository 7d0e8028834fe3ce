// Package extract reads article data out of loaded pages. All functions are
// pure: they take parsed documents and raw state and never touch the
// network, so the browser that produced the page can be swapped freely.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/articulos/article"
	"github.com/pevans/articulos/scraper"
)

// Summaries returns one summary per article container in the listing
// document, in document order. Missing optional fields never fail the
// extraction: the title falls back to a placeholder, the excerpt to an empty
// string and the avatar and link to nil.
func Summaries(doc *goquery.Document, config scraper.ListingConfig) []article.Summary {
	summaries := []article.Summary{}

	doc.Find(config.ArticleSelector).Each(func(i int, s *goquery.Selection) {
		title := firstText(s, config.TitleSelector)
		if title == "" {
			title = article.UntitledTitle
		}

		summaries = append(summaries, article.Summary{
			Title:   title,
			Excerpt: firstText(s, config.ExcerptSelector),
			Avatar:  firstURL(s, config.AvatarSelector, "src", doc.Url),
			Link:    firstURL(s, config.LinkSelector, "href", doc.Url),
		})
	})

	return summaries
}

// firstText returns the whitespace-normalized text of the first element
// matching selector within s.
func firstText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return normalizeSpace(s.Find(selector).First().Text())
}

// firstURL returns the attribute of the first element matching selector,
// resolved against base. Missing or empty attributes yield nil.
func firstURL(s *goquery.Selection, selector, attr string, base *url.URL) *string {
	if selector == "" {
		return nil
	}
	raw, ok := s.Find(selector).First().Attr(attr)
	if !ok {
		return nil
	}
	resolved := resolve(strings.TrimSpace(raw), base)
	if resolved == "" {
		return nil
	}
	return &resolved
}

// resolve makes ref absolute against base, the way the DOM reports src and
// href properties. Unparsable references are returned unchanged.
func resolve(ref string, base *url.URL) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

// normalizeSpace replaces runs of whitespace with a single space.
func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
