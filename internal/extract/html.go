package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// HTMLExtractor reads reports saved as web pages, typically exported from a
// word processor.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read html: %w", err)
	}
	doc := FromHTML(b)
	doc.Source = path
	doc.Pages = 1
	return doc, nil
}

// FromHTML extracts readable text from HTML, preferring <main> or <article>
// and falling back to <body>. Headings, paragraphs, list items and table rows
// each start a new line; scripts, navigation and repeated page headers or
// footers of word-processor exports are skipped.
func FromHTML(input []byte) Document {
	if !utf8.Valid(input) {
		enc, _, _ := charset.DetermineEncoding(input, "")
		if decoded, err := enc.NewDecoder().Bytes(input); err == nil {
			input = decoded
		}
	}
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}

	title := strings.TrimSpace(findTitle(node))
	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	var b strings.Builder
	if content != nil {
		collectText(&b, content)
	}
	return Document{Title: title, Text: normalizeWhitespace(b.String())}
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		if isRepeatedPageElement(n) {
			return
		}
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "nav", "iframe", "head":
			return
		case "br", "hr", "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol", "table", "div":
			b.WriteString("\n")
		case "td", "th":
			b.WriteString(" ")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "table":
			b.WriteString("\n\n")
		case "li", "tr":
			b.WriteString("\n")
		}
	}
}

// isRepeatedPageElement matches the header, footer and footnote blocks that
// word processors emit with an mso-element style.
func isRepeatedPageElement(n *html.Node) bool {
	for _, attr := range n.Attr {
		if !strings.EqualFold(attr.Key, "style") {
			continue
		}
		v := strings.ToLower(strings.ReplaceAll(attr.Val, " ", ""))
		for _, marker := range []string{"mso-element:header", "mso-element:footer", "mso-element:footnote"} {
			if strings.Contains(v, marker) {
				return true
			}
		}
	}
	return false
}

// normalizeWhitespace collapses runs of spaces inside lines and keeps at most
// one blank line in a row.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.Join(strings.Fields(line), " ")
		if trimmed == "" {
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, trimmed)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	return strings.Join(out, "\n")
}
