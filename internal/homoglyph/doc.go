// Package homoglyph implements visually-confusable character and word
// substitution.
//
// A homoglyph is a character from a different script that renders
// indistinguishably from a target character, such as Cyrillic "а"
// against Latin "a". The package ships a built-in substitution table
// covering Latin-to-Cyrillic, Latin-to-Greek, and mathematical
// alphanumeric look-alikes, plus whole-word entries for Indonesian
// academic section headings and connector words. Custom tables can be
// loaded from YAML and are validated at load time.
//
// The Engine applies the table to a text at a configurable rate with
// character-level and word-level modes, preserving the casing of the
// original text, honoring a per-paragraph change cap, and skipping
// configured safe tokens. All random decisions draw from an injected
// rand source so that runs are reproducible.
//
// Design decision: visual equivalence between two strings is decided
// by NFKC normalization followed by a confusable fold that maps known
// look-alike codepoints back to their Latin canonical form. NFKC alone
// treats Cyrillic "а" and Latin "a" as distinct, so on its own it
// cannot express "renders the same"; the fold closes that gap using
// the same confusable registry the substitution table is built from.
package homoglyph
