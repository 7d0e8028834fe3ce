// Package export writes scraped records to files. Every writer reads the
// same record slice and none modifies it, so all formats hold the same
// values for a given article.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pevans/articulos/article"
)

// Paths are the files written by WriteAll.
type Paths struct {
	JSON string
	CSV  string
	XLSX string
}

// NewPaths returns the export file paths for baseName inside dir.
func NewPaths(dir, baseName string) Paths {
	base := filepath.Join(dir, baseName)
	return Paths{
		JSON: base + ".json",
		CSV:  base + ".csv",
		XLSX: base + ".xlsx",
	}
}

// WriteAll writes records as JSON, CSV and XLSX, overwriting existing
// files. It stops at the first failure.
func WriteAll(paths Paths, records []article.Record) error {
	if err := os.MkdirAll(filepath.Dir(paths.JSON), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := WriteJSON(paths.JSON, records); err != nil {
		return err
	}
	if err := WriteCSV(paths.CSV, records); err != nil {
		return err
	}
	if err := WriteXLSX(paths.XLSX, records); err != nil {
		return err
	}

	return nil
}

// createFile opens path for writing, truncating any previous content.
func createFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
