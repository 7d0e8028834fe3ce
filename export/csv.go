package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pevans/articulos/article"
)

// EncodeCSV writes a header row followed by one row per record, in the
// column order of article.Columns.
func EncodeCSV(w io.Writer, records []article.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(article.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range records {
		if err := cw.Write(record.Row()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteCSV writes records to path as CSV.
func WriteCSV(path string, records []article.Record) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}

	if err := EncodeCSV(f, records); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
