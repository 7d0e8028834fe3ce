// Package article holds the records produced by a scrape run: the summaries
// read from a listing page, the details read from each article page and the
// final flattened record written to every export format.
package article

// Placeholder strings substituted when real data is unavailable or could not
// be fetched.
const (
	UntitledTitle     = "Sin título"
	DateUnavailable   = "No disponible"
	DateNotFound      = "Fecha no disponible"
	DateLoadFailed    = "Error al cargar"
	UnknownAuthor     = "Autor desconocido"
	PlaceholderAuthor = "Autor"
	ErrorAuthor       = "Error"
	UnknownLastName   = "desconocido"
	ZeroCount         = "0"
)

// Summary is the lightweight view of an article read from the listing page.
type Summary struct {
	Title   string
	Excerpt string
	Avatar  *string
	Link    *string
}

// Author identifies who wrote an article.
type Author struct {
	FirstName string  `json:"nombre"`
	LastName  string  `json:"apellido"`
	Avatar    *string `json:"avatar"`
}

// Detail is the data read from an article's own page.
type Detail struct {
	PublishDate string
	Claps       string
	Comments    string
	Author      Author
}

// HasLink reports whether the summary points at a detail page.
func (s Summary) HasLink() bool {
	return s.Link != nil && *s.Link != ""
}
