// Package log provides structured logging helpers built on log/slog.
//
// The package exists because veiltext routinely logs fragments of the
// documents it transforms, and those fragments contain exactly the
// characters that make terminal output misleading: zero-width spaces,
// joiners, variation selectors, and visually confusable letters from
// other scripts. A log line that prints such text verbatim looks
// identical to the untouched original, which defeats the point of
// logging it.
//
// SafeHandler wraps any slog.Handler and rewrites string attributes so
// that invisible and format-category codepoints appear as visible
// escape sequences (for example "<U+200B>"), and long document
// excerpts are truncated to a bounded length. Use NewLogger to get a
// ready-to-use *slog.Logger for CLI output.
package log
