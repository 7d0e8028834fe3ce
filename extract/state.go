package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pevans/articulos/article"
)

var (
	ErrNoState      = errors.New("page has no embedded state")
	ErrNoStateEntry = errors.New("no state entry matches prefix")
)

// FindStateEntry returns the value of the first key in the embedded state
// object that starts with prefix. Keys are visited in the order they appear
// in the serialized state, which is the page's own key order.
func FindStateEntry(state []byte, prefix string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(state)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNoState
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNoState
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read state key: %w", err)
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to read state value for %q: %w", key, err)
		}

		if strings.HasPrefix(key, prefix) {
			return value, nil
		}
	}

	return nil, ErrNoStateEntry
}

// Engagement returns the clap and comment counts of the first state entry
// matching prefix. Both default to "0" when the state, the entry or the
// fields are missing or malformed.
func Engagement(state []byte, prefix string) (claps, comments string) {
	claps, comments = article.ZeroCount, article.ZeroCount

	entry, err := FindStateEntry(state, prefix)
	if err != nil {
		return claps, comments
	}

	var post map[string]json.RawMessage
	if err := json.Unmarshal(entry, &post); err != nil || post == nil {
		return claps, comments
	}

	claps = scalarString(post["clapCount"])

	var responses map[string]json.RawMessage
	if err := json.Unmarshal(post["postResponses"], &responses); err == nil {
		comments = scalarString(responses["count"])
	}

	return claps, comments
}

// scalarString renders a JSON scalar as text. Numbers and booleans keep
// their value, strings are unquoted, anything else (including the empty
// string) is "0".
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return article.ZeroCount
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return article.ZeroCount
		}
		return s
	case 't', 'f':
		return string(raw)
	case '{', '[', 'n':
		return article.ZeroCount
	}

	literal := string(raw)
	if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
		if n == 0 {
			return article.ZeroCount
		}
		return strconv.FormatInt(n, 10)
	}
	if f, err := strconv.ParseFloat(literal, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return article.ZeroCount
}
