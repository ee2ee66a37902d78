// Package invisible implements zero-width character injection.
//
// The package maintains a pool of codepoints that occupy a position in
// the text stream but render no visible glyph: zero-width spaces and
// joiners, variation selectors, and minimal-width space variants. The
// Engine inserts characters from the pool after whitespace and
// punctuation boundaries at a configurable rate, never inside a word,
// and bounds consecutive insertions so that injected characters do not
// cluster into a statistical fingerprint.
//
// Random decisions draw from an injected rand source so that runs are
// reproducible under a fixed seed.
package invisible
