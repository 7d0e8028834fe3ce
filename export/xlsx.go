package export

import (
	"fmt"

	"github.com/pevans/articulos/article"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet of the XLSX export.
const SheetName = "Artículos"

// WriteXLSX writes records to path as a workbook with one sheet: a header row
// followed by one row per record. Nil values leave their cell empty.
func WriteXLSX(path string, records []article.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(article.Columns))
	for i, column := range article.Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}

		row := xlsxRow(record)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write XLSX row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// xlsxRow converts a record to cell values in the column order of
// article.Columns. Nil fields stay nil so their cells are left empty.
func xlsxRow(r article.Record) []any {
	return []any{
		r.Title,
		r.Excerpt,
		cellValue(r.Link),
		cellValue(r.Avatar),
		r.PublishDate,
		r.Claps,
		r.Comments,
		r.Author.FirstName,
		r.Author.LastName,
		cellValue(r.Author.Avatar),
	}
}

func cellValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
