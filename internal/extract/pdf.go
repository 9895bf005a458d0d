package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// PDFExtractor reads the text layer page by page. Pages are joined with a
// newline so headings on consecutive pages never run together.
type PDFExtractor struct{}

func (PDFExtractor) Extract(ctx context.Context, path string) (doc Document, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			log.Debug().Str("source", path).Int("page", i).Err(err).Msg("page skipped")
			continue
		}
		pages = append(pages, text)
	}
	return Document{Source: path, Text: strings.Join(pages, "\n"), Pages: n}, nil
}
