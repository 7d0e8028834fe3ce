package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pevans/articulos/article"
	"github.com/pevans/articulos/collector"
)

const (
	titleWidth  = 50
	authorWidth = 24
	dateWidth   = 20
)

// printSummary prints one line per record. Columns are padded by display
// width so accented and wide titles stay aligned.
func printSummary(w io.Writer, result *collector.Result) {
	if len(result.Records) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}

	fmt.Fprintf(w, "%s  %s  %s  %6s  %6s  %s\n",
		pad("TÍTULO", titleWidth),
		pad("AUTOR", authorWidth),
		pad("FECHA", dateWidth),
		"CLAPS",
		"COMENT",
		"ORIGEN",
	)
	fmt.Fprintln(w, strings.Repeat("-", titleWidth+authorWidth+dateWidth+32))

	for _, record := range result.Records {
		fmt.Fprintf(w, "%s  %s  %s  %6s  %6s  %s\n",
			pad(record.Title, titleWidth),
			pad(record.Author.FirstName+" "+record.Author.LastName, authorWidth),
			pad(record.PublishDate, dateWidth),
			record.Claps,
			record.Comments,
			record.Origin,
		)
	}

	counts := result.Counts()
	fmt.Fprintf(w, "\n%d articles: %d enriched, %d without link, %d failed\n",
		len(result.Records),
		counts[article.OriginEnriched],
		counts[article.OriginPlaceholder],
		counts[article.OriginErrored],
	)
}

// pad truncates s to width display columns and fills it up to width.
func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}
