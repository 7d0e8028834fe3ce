package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pevans/articulos/article"
)

// EncodeJSON writes records as a pretty-printed JSON array. HTML characters
// in titles and excerpts are written as-is.
func EncodeJSON(w io.Writer, records []article.Record) error {
	if records == nil {
		records = []article.Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	return nil
}

// WriteJSON writes records to path as a JSON array.
func WriteJSON(path string, records []article.Record) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}

	if err := EncodeJSON(f, records); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
