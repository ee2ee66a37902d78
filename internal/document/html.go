package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor extracts the visible text of an HTML document.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because it correctly handles malformed HTML and gives a proper
// DOM-like structure to walk.
type HTMLExtractor struct{}

// htmlExtensions are the extensions the HTML extractor accepts.
var htmlExtensions = map[string]bool{
	".html": true, ".htm": true, ".xhtml": true,
}

// skippedElements are elements whose text content is not document text.
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"head": true, "template": true,
}

// blockElements force a paragraph break in the extracted text.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "section": true, "article": true,
}

// CanExtract reports whether path is an HTML file.
func (e *HTMLExtractor) CanExtract(path string) bool {
	return htmlExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract parses the HTML file and returns its visible text. Block
// elements become paragraph breaks; inline markup collapses into the
// surrounding text.
func (e *HTMLExtractor) Extract(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open HTML document: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	doc, err := html.Parse(file)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if skippedElements[n.Data] {
				return
			}
			if blockElements[n.Data] {
				b.WriteString("\n")
			}
		case html.TextNode:
			b.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return normalizeWhitespace(b.String()), nil
}

// normalizeWhitespace collapses runs of spaces within lines and runs of
// blank lines, preserving the paragraph structure the walker produced.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
