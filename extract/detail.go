package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/articulos/article"
	"github.com/pevans/articulos/scraper"
)

// Detail reads the publish date, author and engagement counters from a loaded
// article page. state is the page's embedded client-side cache as raw JSON
// and may be nil.
func Detail(doc *goquery.Document, state []byte, config scraper.DetailConfig) article.Detail {
	date := normalizeSpace(doc.Find(config.DateSelector).First().Text())
	if date == "" {
		date = article.DateNotFound
	}

	authorText := ""
	if config.AuthorSelector != "" {
		content, _ := doc.Find(config.AuthorSelector).First().Attr("content")
		authorText = strings.TrimSpace(content)
	}
	if authorText == "" {
		authorText = article.UnknownAuthor
	}

	author := SplitAuthor(authorText)
	author.Avatar = firstURL(doc.Selection, config.AvatarSelector, "src", doc.Url)

	claps, comments := Engagement(state, config.StateKeyPrefix)

	return article.Detail{
		PublishDate: date,
		Claps:       claps,
		Comments:    comments,
		Author:      author,
	}
}

// SplitAuthor splits a "First Last" author string on its first space. The
// remainder, which may itself contain spaces, becomes the last name; when
// there is none the last name is "desconocido".
func SplitAuthor(authorText string) article.Author {
	first, last, _ := strings.Cut(authorText, " ")
	if last == "" {
		last = article.UnknownLastName
	}

	return article.Author{
		FirstName: first,
		LastName:  last,
	}
}
