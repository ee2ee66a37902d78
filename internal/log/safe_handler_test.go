package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestEscapeInvisible tests that invisible codepoints become visible escapes.
func TestEscapeInvisible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passes through",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "empty string passes through",
			input: "",
			want:  "",
		},
		{
			name:  "zero width space is escaped",
			input: "hello​world",
			want:  "hello<U+200B>world",
		},
		{
			name:  "zero width non-joiner is escaped",
			input: "a‌b",
			want:  "a<U+200C>b",
		},
		{
			name:  "zero width joiner is escaped",
			input: "a‍b",
			want:  "a<U+200D>b",
		},
		{
			name:  "zero width no-break space is escaped",
			input: "a\uFEFFb",
			want:  "a<U+FEFF>b",
		},
		{
			name:  "thin space is escaped",
			input: "a b",
			want:  "a<U+2009>b",
		},
		{
			name:  "hair space is escaped",
			input: "a b",
			want:  "a<U+200A>b",
		},
		{
			name:  "variation selector is escaped",
			input: "a️b",
			want:  "a<U+FE0F>b",
		},
		{
			name:  "multiple invisible characters all escaped",
			input: "​‌‍",
			want:  "<U+200B><U+200C><U+200D>",
		},
		{
			name:  "cyrillic lookalike is not escaped",
			input: "аbc",
			want:  "аbc",
		},
		{
			name:  "regular space is not escaped",
			input: "a b",
			want:  "a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EscapeInvisible(tt.input)
			if got != tt.want {
				t.Errorf("EscapeInvisible(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestTruncate tests excerpt truncation.
func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{
			name:     "short string unchanged",
			input:    "abc",
			maxRunes: 10,
			want:     "abc",
		},
		{
			name:     "exact length unchanged",
			input:    "abcde",
			maxRunes: 5,
			want:     "abcde",
		},
		{
			name:     "long string truncated with marker",
			input:    "abcdefghij",
			maxRunes: 4,
			want:     "abcd" + truncationMarker,
		},
		{
			name:     "zero max disables truncation",
			input:    "abcdefghij",
			maxRunes: 0,
			want:     "abcdefghij",
		},
		{
			name:     "multibyte runes counted as runes",
			input:    "ααααα",
			maxRunes: 3,
			want:     "ααα" + truncationMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Truncate(tt.input, tt.maxRunes)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxRunes, got, tt.want)
			}
		})
	}
}

// TestSafeHandler_EscapesStringAttrs tests that string attributes are
// escaped before reaching the underlying handler.
func TestSafeHandler_EscapesStringAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSafeHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("processed", "excerpt", "he​llo")

	output := buf.String()
	if !strings.Contains(output, "<U+200B>") {
		t.Errorf("expected escaped codepoint in output, got %q", output)
	}
	if strings.Contains(output, "​") {
		t.Errorf("raw zero width space leaked into output: %q", output)
	}
}

// TestSafeHandler_EscapesMessage tests that the record message itself is escaped.
func TestSafeHandler_EscapesMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSafeHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("done‌")

	if !strings.Contains(buf.String(), "<U+200C>") {
		t.Errorf("expected escaped message, got %q", buf.String())
	}
}

// TestSafeHandler_TruncatesLongAttrs tests that oversized excerpts are bounded.
func TestSafeHandler_TruncatesLongAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSafeHandler(slog.NewTextHandler(&buf, nil)))

	long := strings.Repeat("x", MaxExcerptLen*3)
	logger.Info("processed", "excerpt", long)

	output := buf.String()
	if !strings.Contains(output, truncationMarker) {
		t.Errorf("expected truncation marker in output, got length %d", len(output))
	}
	if strings.Contains(output, long) {
		t.Errorf("full excerpt leaked into output")
	}
}

// TestSafeHandler_HandlesGroups tests that grouped attributes are escaped recursively.
func TestSafeHandler_HandlesGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSafeHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("processed", slog.Group("doc", slog.String("excerpt", "a\uFEFFb")))

	if !strings.Contains(buf.String(), "<U+FEFF>") {
		t.Errorf("expected escaped group attribute, got %q", buf.String())
	}
}

// TestSafeHandler_WithAttrs tests that pre-set attributes are escaped.
func TestSafeHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSafeHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler).With("source", "file​.txt")

	logger.Info("processed")

	if !strings.Contains(buf.String(), "<U+200B>") {
		t.Errorf("expected escaped With attribute, got %q", buf.String())
	}
}

// TestSafeHandler_NonStringAttrsUnchanged tests that numeric attributes pass through.
func TestSafeHandler_NonStringAttrsUnchanged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSafeHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("processed", "count", 42, "rate", 0.03)

	output := buf.String()
	if !strings.Contains(output, "count=42") {
		t.Errorf("expected numeric attribute preserved, got %q", output)
	}
}

// TestNewLogger_Level tests that verbosity controls the log level.
func TestNewLogger_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	quiet := NewLogger(&buf, false)
	quiet.Debug("hidden")
	quiet.Info("also hidden")
	if buf.Len() != 0 {
		t.Errorf("non-verbose logger should suppress debug/info, got %q", buf.String())
	}

	var vbuf bytes.Buffer
	verbose := NewLogger(&vbuf, true)
	verbose.Debug("visible")
	if vbuf.Len() == 0 {
		t.Error("verbose logger should emit debug output")
	}
}
