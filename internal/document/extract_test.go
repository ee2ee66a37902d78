package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("plain text file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "input.txt", []byte("Penelitian ini penting.\n"))
		text, err := Extract(path)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if text != "Penelitian ini penting.\n" {
			t.Errorf("Extract() = %q, expected the file contents", text)
		}
	})

	t.Run("markdown file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "input.md", []byte("# Bab I\n\nPendahuluan."))
		text, err := Extract(path)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if text == "" {
			t.Error("Extract() returned empty text")
		}
	})

	t.Run("strips UTF-8 BOM", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "bom.txt", []byte("\xEF\xBB\xBFteks"))
		text, err := Extract(path)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if text != "teks" {
			t.Errorf("Extract() = %q, expected BOM stripped", text)
		}
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "latin1.txt", []byte{0x74, 0xE9, 0x78, 0x74})
		if _, err := Extract(path); !errors.Is(err, ErrNotUTF8) {
			t.Errorf("Extract() error = %v, expected ErrNotUTF8", err)
		}
	})

	t.Run("rejects empty document", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "empty.txt", []byte("   \n\t\n"))
		if _, err := Extract(path); !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Extract() error = %v, expected ErrEmptyDocument", err)
		}
	})

	t.Run("rejects unsupported format", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "image.png", []byte{0x89, 0x50})
		if _, err := Extract(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Extract() error = %v, expected ErrUnsupportedFormat", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := Extract(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
			t.Error("Extract() error = nil, expected read failure")
		}
	})
}

func TestCanExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path      string
		extractor Extractor
		expected  bool
	}{
		{path: "doc.txt", extractor: &TextExtractor{}, expected: true},
		{path: "README", extractor: &TextExtractor{}, expected: true},
		{path: "doc.pdf", extractor: &TextExtractor{}, expected: false},
		{path: "doc.PDF", extractor: &PDFExtractor{}, expected: true},
		{path: "doc.txt", extractor: &PDFExtractor{}, expected: false},
		{path: "page.html", extractor: &HTMLExtractor{}, expected: true},
		{path: "page.htm", extractor: &HTMLExtractor{}, expected: true},
		{path: "page.txt", extractor: &HTMLExtractor{}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := tt.extractor.CanExtract(tt.path); got != tt.expected {
				t.Errorf("CanExtract(%q) = %v, expected %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestPDFExtractorInvalidFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "broken.pdf", []byte("not a pdf"))
	if _, err := (&PDFExtractor{}).Extract(path); err == nil {
		t.Error("Extract() error = nil, expected a parse failure")
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source   string
		expected string
	}{
		{source: "thesis.txt", expected: "thesis_veiled.txt"},
		{source: "notes.md", expected: "notes_veiled.md"},
		{source: "paper.pdf", expected: "paper_veiled.txt"},
		{source: "page.html", expected: "page_veiled.txt"},
		{source: "dir/thesis.txt", expected: "dir/thesis_veiled.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			if got := OutputPath(tt.source); got != tt.expected {
				t.Errorf("OutputPath(%q) = %q, expected %q", tt.source, got, tt.expected)
			}
		})
	}
}

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteOutput(path, "hasil akhir"); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back output: %v", err)
	}
	if string(data) != "hasil akhir" {
		t.Errorf("output = %q, expected %q", string(data), "hasil akhir")
	}
}
