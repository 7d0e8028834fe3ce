package extract

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/articulos/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: parse HTML into a document located at pageURL
func parseDoc(t *testing.T, html, pageURL string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	if pageURL != "" {
		doc.Url, err = url.Parse(pageURL)
		require.NoError(t, err)
	}
	return doc
}

const listingHTML = `<html><body>
<article>
  <a href="/first-post"><h2>  First
     post </h2></a>
  <p>First excerpt</p>
  <img src="https://cdn.example.com/one.png">
</article>
<article>
  <h2>Second post</h2>
  <p>Second excerpt</p>
  <p>ignored paragraph</p>
  <a href="https://blog.example.com/second">read</a>
</article>
<article>
  <div>no heading, no paragraph</div>
</article>
</body></html>`

// TestSummaries_DocumentOrder verifies one summary per container in order
func TestSummaries_DocumentOrder(t *testing.T) {
	doc := parseDoc(t, listingHTML, "https://blog.example.com/")

	summaries := Summaries(doc, scraper.DefaultScraperConfig().Listing)

	require.Len(t, summaries, 3)
	assert.Equal(t, "First post", summaries[0].Title)
	assert.Equal(t, "Second post", summaries[1].Title)
	assert.Equal(t, "Sin título", summaries[2].Title)
}

// TestSummaries_Fields verifies field extraction and URL resolution
func TestSummaries_Fields(t *testing.T) {
	doc := parseDoc(t, listingHTML, "https://blog.example.com/")

	summaries := Summaries(doc, scraper.DefaultScraperConfig().Listing)
	require.Len(t, summaries, 3)

	first := summaries[0]
	assert.Equal(t, "First excerpt", first.Excerpt)
	require.NotNil(t, first.Avatar)
	assert.Equal(t, "https://cdn.example.com/one.png", *first.Avatar)
	require.NotNil(t, first.Link)
	assert.Equal(t, "https://blog.example.com/first-post", *first.Link, "relative links are resolved")

	second := summaries[1]
	assert.Equal(t, "Second excerpt", second.Excerpt, "only the first paragraph is used")
	assert.Nil(t, second.Avatar)
	require.NotNil(t, second.Link)
	assert.Equal(t, "https://blog.example.com/second", *second.Link)
}

// TestSummaries_MissingOptionalFields verifies fallbacks for empty containers
func TestSummaries_MissingOptionalFields(t *testing.T) {
	doc := parseDoc(t, listingHTML, "https://blog.example.com/")

	summaries := Summaries(doc, scraper.DefaultScraperConfig().Listing)
	require.Len(t, summaries, 3)

	third := summaries[2]
	assert.Equal(t, "Sin título", third.Title)
	assert.Equal(t, "", third.Excerpt)
	assert.Nil(t, third.Avatar)
	assert.Nil(t, third.Link)
	assert.False(t, third.HasLink())
}

// TestSummaries_EmptyAttributes verifies empty src/href are treated as absent
func TestSummaries_EmptyAttributes(t *testing.T) {
	doc := parseDoc(t, `<article><h2>T</h2><img src=""><a>no href</a></article>`, "https://blog.example.com/")

	summaries := Summaries(doc, scraper.DefaultScraperConfig().Listing)

	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].Avatar)
	assert.Nil(t, summaries[0].Link)
}

// TestSummaries_NoContainers verifies an empty, non-nil result
func TestSummaries_NoContainers(t *testing.T) {
	doc := parseDoc(t, `<html><body><h2>Not an article</h2></body></html>`, "")

	summaries := Summaries(doc, scraper.DefaultScraperConfig().Listing)

	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

// TestSummaries_CustomSelector verifies a non-default container selector
func TestSummaries_CustomSelector(t *testing.T) {
	doc := parseDoc(t, `<div class="post"><h2>A</h2></div><div class="post"><h2>B</h2></div><div><h2>C</h2></div>`, "")

	summaries := Summaries(doc, scraper.NewListingConfig("div.post"))

	require.Len(t, summaries, 2)
	assert.Equal(t, "A", summaries[0].Title)
	assert.Equal(t, "B", summaries[1].Title)
}

// TestSummaries_NoBaseURL verifies links are kept as-is without a page URL
func TestSummaries_NoBaseURL(t *testing.T) {
	doc := parseDoc(t, `<article><a href="/relative">x</a></article>`, "")

	summaries := Summaries(doc, scraper.DefaultScraperConfig().Listing)

	require.Len(t, summaries, 1)
	require.NotNil(t, summaries[0].Link)
	assert.Equal(t, "/relative", *summaries[0].Link)
}
