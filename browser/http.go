package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent identifies the scraper to the sites it visits.
const DefaultUserAgent = "articulos/1.0 (blog article scraper)"

// HTTPSession loads pages with plain HTTP requests. It does not run scripts,
// so the embedded state is read from the inline script that assigns it.
type HTTPSession struct {
	client    *http.Client
	userAgent string
}

// NewHTTPSession creates an HTTP session. A zero timeout means requests are
// never cut short.
func NewHTTPSession(timeout time.Duration, userAgent string) *HTTPSession {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPSession{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// NewPage returns a page backed by the session's client.
func (s *HTTPSession) NewPage(ctx context.Context) (Page, error) {
	return &httpPage{session: s}, nil
}

// Close drops idle connections; the session holds no browser.
func (s *HTTPSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

type httpPage struct {
	session *HTTPSession
	doc     *goquery.Document
}

func (p *httpPage) Goto(ctx context.Context, url string, settle time.Duration) error {
	doc, err := p.session.fetch(ctx, url)
	if err != nil {
		return err
	}
	p.doc = doc

	// Nothing renders after the response, but the settle period is kept so
	// both sessions pace requests the same way.
	return sleep(ctx, settle)
}

func (p *httpPage) Snapshot(ctx context.Context, stateVar string) (*Snapshot, error) {
	if p.doc == nil {
		return nil, ErrNotLoaded
	}

	return &Snapshot{
		Document: p.doc,
		State:    ScriptState(p.doc, stateVar),
	}, nil
}

func (p *httpPage) Close() error {
	p.doc = nil
	return nil
}

// fetch fetches HTML content from the given URL and parses it.
func (s *HTTPSession) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Redirects are followed, so resolve links against the final location.
	doc.Url = resp.Request.URL

	return doc, nil
}

// ScriptState finds the inline script that assigns the global stateVar
// (`window.NAME = {...}` or `NAME = {...}`) and returns the assigned JSON.
// It returns nil when no script assigns it.
func ScriptState(doc *goquery.Document, stateVar string) []byte {
	if stateVar == "" {
		return nil
	}

	var state []byte
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, stateVar)
		if idx < 0 {
			return true
		}

		rest := strings.TrimSpace(text[idx+len(stateVar):])
		value, ok := strings.CutPrefix(rest, "=")
		if !ok {
			return true
		}

		state = assignedJSON(value)
		return state == nil
	})

	return state
}

// assignedJSON returns the first complete JSON value at the start of src.
func assignedJSON(src string) []byte {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil
	}

	end := matchingBrace(src)
	if end < 0 {
		return nil
	}

	return bytes.Clone([]byte(src[:end+1]))
}

// matchingBrace returns the index of the brace closing the object that
// starts at src[0], skipping over string literals, or -1.
func matchingBrace(src string) int {
	if src[0] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(src); i++ {
		c := src[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
