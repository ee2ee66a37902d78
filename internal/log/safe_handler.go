package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// MaxExcerptLen is the maximum length, in runes, of a string attribute
// after escaping. Longer values are truncated with a marker so that a
// single log line cannot balloon to the size of an input document.
const MaxExcerptLen = 200

// truncationMarker is appended to truncated string attributes.
const truncationMarker = "...(truncated)"

// escapedRunes contains codepoints that are escaped even though the
// unicode package does not classify them as format characters. These
// are the space variants used for minimal-width injection; printed
// verbatim they are indistinguishable from a plain space.
var escapedRunes = map[rune]bool{
	' ': true, // thin space
	' ': true, // hair space
	' ': true, // six-per-em space
	' ': true, // punctuation space
	' ': true, // no-break space
}

// SafeHandler wraps an slog.Handler to make logged text unambiguous.
// It intercepts log records and rewrites string attribute values so
// that invisible codepoints become visible escape sequences and long
// excerpts are truncated, before passing the record to the underlying
// handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components only depend on *slog.Logger, never on this package
type SafeHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler
}

// NewSafeHandler creates a new SafeHandler wrapping the given handler.
// All string attributes will be escaped before being passed through.
// If handler is nil, the returned SafeHandler will use slog.Default().Handler().
func NewSafeHandler(handler slog.Handler) *SafeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SafeHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SafeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle escapes the record's string attributes and passes the record
// to the underlying handler.
func (h *SafeHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, EscapeInvisible(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are escaped before being added.
func (h *SafeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewrittenAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewrittenAttrs[i] = h.rewriteAttr(a)
	}
	return &SafeHandler{handler: h.handler.WithAttrs(rewrittenAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SafeHandler) WithGroup(name string) slog.Handler {
	return &SafeHandler{handler: h.handler.WithGroup(name)}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *SafeHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewrittenAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewrittenAttrs[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewrittenAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, Truncate(EscapeInvisible(a.Value.String()), MaxExcerptLen))
	}

	return a
}

// EscapeInvisible replaces every invisible or format-category rune in s
// with a visible "<U+XXXX>" escape sequence. Printable text passes
// through unchanged; the returned string is therefore safe to show in
// a terminal without ambiguity about which characters it contains.
func EscapeInvisible(s string) string {
	if !needsEscaping(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isInvisible(r) {
			fmt.Fprintf(&b, "<U+%04X>", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate shortens s to at most maxRunes runes, appending a marker
// when truncation occurred. It never splits an escape sequence because
// it operates on the already-escaped string rune by rune.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + truncationMarker
}

// needsEscaping reports whether s contains at least one rune that
// EscapeInvisible would rewrite. It lets the common case (plain text)
// avoid an allocation.
func needsEscaping(s string) bool {
	for _, r := range s {
		if isInvisible(r) {
			return true
		}
	}
	return false
}

// isInvisible reports whether r should be escaped. Format-category
// runes (Cf) cover the zero-width characters and variation selectors;
// escapedRunes covers the narrow space variants that Cf does not.
func isInvisible(r rune) bool {
	if unicode.In(r, unicode.Cf) {
		return true
	}
	return escapedRunes[r]
}

// NewLogger creates a new *slog.Logger with invisible-character
// escaping. The logger writes human-readable text output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or
// passed to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewSafeHandler(textHandler))
}

// NewJSONLogger creates a new *slog.Logger with invisible-character
// escaping that outputs JSON format. Useful for structured log
// aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewSafeHandler(jsonHandler))
}
