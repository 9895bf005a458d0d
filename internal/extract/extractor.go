// Package extract turns submitted documents into plain text for validation.
// PDFs are read through their text layer; HTML exports and plain text files
// are accepted as well.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNoTextLayer reports a document that yields no selectable text, such as
	// a scanned PDF.
	ErrNoTextLayer = errors.New("document has no text layer")
	// ErrUnsupportedSource reports a file type no extractor handles.
	ErrUnsupportedSource = errors.New("unsupported source type")
)

// Document is the text extracted from one source file.
type Document struct {
	Source string
	Title  string
	Text   string
	Pages  int
}

// Extractor reads one file into a Document.
type Extractor interface {
	Extract(ctx context.Context, path string) (Document, error)
}

// ForPath picks the extractor for a file by its extension.
func ForPath(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDFExtractor{}, nil
	case ".html", ".htm":
		return HTMLExtractor{}, nil
	case ".txt", ".md":
		return TextExtractor{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, filepath.Base(path))
}

// File extracts path with the extractor chosen by ForPath and rejects
// documents without text.
func File(ctx context.Context, path string) (Document, error) {
	ex, err := ForPath(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := ex.Extract(ctx, path)
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return Document{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoTextLayer)
	}
	log.Debug().Str("source", path).Int("pages", doc.Pages).Int("chars", len(doc.Text)).Msg("text extracted")
	return doc, nil
}
