package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedFormat is returned when no extractor handles the
	// source file's extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument is returned when extraction yields no text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrNotUTF8 is returned when a plain-text source is not valid UTF-8.
	ErrNotUTF8 = errors.New("document is not valid UTF-8")
)

// Extractor pulls plain text out of one source format.
type Extractor interface {
	// Extract reads the file at path and returns its plain text.
	Extract(path string) (string, error)

	// CanExtract reports whether this extractor handles the file.
	CanExtract(path string) bool
}

// defaultExtractors is the extractor chain in dispatch order. The text
// extractor comes last as it accepts the widest set of extensions.
var defaultExtractors = []Extractor{
	&PDFExtractor{},
	&HTMLExtractor{},
	&TextExtractor{},
}

// Extract reads the document at path with the first extractor that
// accepts it.
func Extract(path string) (string, error) {
	for _, extractor := range defaultExtractors {
		if !extractor.CanExtract(path) {
			continue
		}
		text, err := extractor.Extract(path)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("%w: %s", ErrEmptyDocument, path)
		}
		return text, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// TextExtractor reads plain text and Markdown files as-is.
type TextExtractor struct{}

// textExtensions are the extensions the plain-text extractor accepts.
// An empty extension is included so extension-less files (README,
// LICENSE-style inputs) pass through.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".text": true, "": true,
}

// CanExtract reports whether path looks like a plain text file.
func (e *TextExtractor) CanExtract(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract reads the whole file, strips a UTF-8 BOM if present, and
// validates the encoding.
func (e *TextExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	data = trimBOM(data)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotUTF8, path)
	}
	return string(data), nil
}

// trimBOM removes a leading UTF-8 byte order mark.
func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// OutputPath returns where the modified text of source should be
// written. Plain-text sources get a "_veiled" suffix before the
// extension; extracted formats (PDF, HTML) become sibling .txt files
// because the text cannot be re-embedded into the binary source.
func OutputPath(source string) string {
	ext := filepath.Ext(source)
	base := strings.TrimSuffix(source, ext)
	if textExtensions[strings.ToLower(ext)] {
		return base + "_veiled" + ext
	}
	return base + "_veiled.txt"
}

// WriteOutput writes the modified text to path.
func WriteOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
