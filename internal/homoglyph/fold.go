package homoglyph

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// confusableFold maps known look-alike codepoints to their Latin
// canonical form. The registry covers the Cyrillic and Greek letters
// used by the built-in table; mathematical alphanumerics are already
// folded by NFKC and do not need entries here.
var confusableFold = map[rune]rune{
	// Cyrillic uppercase
	'А': 'A', 'В': 'B', 'С': 'C', 'Е': 'E', 'Н': 'H',
	'І': 'I', 'Ј': 'J', 'К': 'K', 'М': 'M', 'О': 'O',
	'Р': 'P', 'Ѕ': 'S', 'Т': 'T', 'Х': 'X', 'Ү': 'Y',

	// Cyrillic lowercase. Only the codepoints whose lowercase glyph
	// actually renders like the Latin letter are registered; в, н, к,
	// м, and т look like their Latin counterparts in uppercase only.
	'а': 'a', 'с': 'c', 'е': 'e', 'і': 'i', 'ј': 'j',
	'о': 'o', 'р': 'p', 'ѕ': 's', 'х': 'x', 'у': 'y',

	// Greek uppercase
	'Α': 'A', 'Β': 'B', 'Ε': 'E', 'Η': 'H', 'Ι': 'I',
	'Κ': 'K', 'Μ': 'M', 'Ν': 'N', 'Ο': 'O', 'Ρ': 'P',
	'Τ': 'T', 'Χ': 'X', 'Υ': 'Y', 'Ζ': 'Z',

	// Greek lowercase
	'α': 'a', 'ο': 'o', 'ρ': 'p', 'χ': 'x', 'υ': 'y',
}

// Fold returns s reduced to its visual canonical form: NFKC
// normalization followed by the confusable fold. Two strings that
// render identically fold to the same value.
func Fold(s string) string {
	normalized := norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if folded, ok := confusableFold[r]; ok {
			b.WriteRune(folded)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// VisuallyEqual reports whether a and b render identically, up to
// confusable substitution and compatibility normalization.
func VisuallyEqual(a, b string) bool {
	if a == b {
		return true
	}
	return Fold(a) == Fold(b)
}

// IsConfusable reports whether r is a registered look-alike for a
// Latin letter.
func IsConfusable(r rune) bool {
	_, ok := confusableFold[r]
	return ok
}
