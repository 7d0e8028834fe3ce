package article

// Origin records which path produced a Record.
type Origin string

const (
	OriginEnriched    Origin = "enriched"
	OriginPlaceholder Origin = "placeholder"
	OriginErrored     Origin = "errored"
)

// Columns are the header titles shared by the tabular export formats, in
// the order produced by Record.Row.
var Columns = []string{
	"Título",
	"Texto",
	"Enlace",
	"Avatar",
	"Fecha",
	"Claps",
	"Comentarios",
	"Autor Nombre",
	"Autor Apellido",
	"Autor Avatar",
}

// Record is a fully populated article as exported. Every record carries the
// same fields regardless of how it was produced; only Avatar, Link and
// Author.Avatar may be nil.
type Record struct {
	Title       string  `json:"titulo"`
	Excerpt     string  `json:"texto"`
	Link        *string `json:"enlace"`
	Avatar      *string `json:"avatar"`
	PublishDate string  `json:"fecha"`
	Claps       string  `json:"claps"`
	Comments    string  `json:"comentarios"`
	Author      Author  `json:"autor"`
	Origin      Origin  `json:"-"`
}

// NewRecord merges a summary with the detail read from its article page.
func NewRecord(s Summary, d Detail) Record {
	return Record{
		Title:       s.Title,
		Excerpt:     s.Excerpt,
		Link:        s.Link,
		Avatar:      s.Avatar,
		PublishDate: orDefault(d.PublishDate, DateNotFound),
		Claps:       orDefault(d.Claps, ZeroCount),
		Comments:    orDefault(d.Comments, ZeroCount),
		Author: Author{
			FirstName: d.Author.FirstName,
			LastName:  orDefault(d.Author.LastName, UnknownLastName),
			Avatar:    d.Author.Avatar,
		},
		Origin: OriginEnriched,
	}
}

// PlaceholderRecord builds the record for a summary that has no link to
// follow.
func PlaceholderRecord(s Summary) Record {
	return fallback(s, DateUnavailable, PlaceholderAuthor, OriginPlaceholder)
}

// ErroredRecord builds the record for a summary whose article page could not
// be loaded or read.
func ErroredRecord(s Summary) Record {
	return fallback(s, DateLoadFailed, ErrorAuthor, OriginErrored)
}

func fallback(s Summary, date, firstName string, origin Origin) Record {
	return Record{
		Title:       s.Title,
		Excerpt:     s.Excerpt,
		Link:        s.Link,
		Avatar:      s.Avatar,
		PublishDate: date,
		Claps:       ZeroCount,
		Comments:    ZeroCount,
		Author: Author{
			FirstName: firstName,
			LastName:  UnknownLastName,
			Avatar:    s.Avatar,
		},
		Origin: origin,
	}
}

// Row flattens the record into the column order of Columns, with nil
// values as empty strings.
func (r Record) Row() []string {
	return []string{
		r.Title,
		r.Excerpt,
		deref(r.Link),
		deref(r.Avatar),
		r.PublishDate,
		r.Claps,
		r.Comments,
		r.Author.FirstName,
		r.Author.LastName,
		deref(r.Author.Avatar),
	}
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
