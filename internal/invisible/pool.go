package invisible

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode"

	"gopkg.in/yaml.v3"
)

var (
	// ErrPoolNotFound is returned when a pool file does not exist.
	ErrPoolNotFound = errors.New("invisible character pool file not found")

	// ErrInvalidPool is returned when a pool entry fails validation.
	ErrInvalidPool = errors.New("invalid invisible character pool")
)

// Category classifies invisible codepoints by how they disappear.
type Category string

const (
	// CategoryZeroWidth covers codepoints with no advance width at all.
	CategoryZeroWidth Category = "zero_width"
	// CategoryVariationSelector covers glyph variation selectors.
	CategoryVariationSelector Category = "variation_selector"
	// CategoryMinimalWidth covers space variants narrow enough to pass
	// for kerning.
	CategoryMinimalWidth Category = "minimal_width"
)

// minimalWidthRunes are the space variants accepted in the
// minimal-width category. They are not Unicode format characters, so
// validation must allow them explicitly.
var minimalWidthRunes = map[rune]bool{
	'\u2009': true, // thin space
	'\u200A': true, // hair space
	'\u2006': true, // six-per-em space
	'\u2008': true, // punctuation space
}

// Pool holds the invisible codepoints available for injection, grouped
// by category. A Pool is immutable after construction and safe for
// unsynchronized concurrent reads.
type Pool struct {
	chars map[Category][]rune
}

// poolFile is the YAML serialization of a Pool. Codepoints are stored
// as hexadecimal strings ("200B") so the file stays editable; raw
// zero-width characters in a config file would be invisible to the
// person editing it.
type poolFile struct {
	ZeroWidth          []string `yaml:"zero_width"`
	VariationSelectors []string `yaml:"variation_selectors"`
	MinimalWidth       []string `yaml:"minimal_width"`
}

// DefaultPool returns the built-in pool: the four common zero-width
// codepoints, both variation selectors, and four narrow space variants.
func DefaultPool() *Pool {
	return &Pool{
		chars: map[Category][]rune{
			CategoryZeroWidth: {
				'\u200B', // zero width space
				'\u200C', // zero width non-joiner
				'\u200D', // zero width joiner
				'\uFEFF', // zero width no-break space
			},
			CategoryVariationSelector: {
				'\uFE0E', // variation selector-15
				'\uFE0F', // variation selector-16
			},
			CategoryMinimalWidth: {
				'\u2009', // thin space
				'\u200A', // hair space
				'\u2006', // six-per-em space
				'\u2008', // punctuation space
			},
		},
	}
}

// LoadPool loads a pool from a YAML file and validates that every
// codepoint is genuinely invisible. Callers should fall back to
// DefaultPool when loading fails.
func LoadPool(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, path)
		}
		return nil, fmt.Errorf("failed to read invisible character pool: %w", err)
	}

	var file poolFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse invisible character pool: %w", err)
	}

	p := &Pool{chars: make(map[Category][]rune, 3)}
	sections := []struct {
		category Category
		entries  []string
	}{
		{CategoryZeroWidth, file.ZeroWidth},
		{CategoryVariationSelector, file.VariationSelectors},
		{CategoryMinimalWidth, file.MinimalWidth},
	}
	for _, section := range sections {
		runes, err := parseCodepoints(section.entries)
		if err != nil {
			return nil, err
		}
		if len(runes) > 0 {
			p.chars[section.category] = runes
		}
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseCodepoints converts hexadecimal codepoint strings to runes.
func parseCodepoints(entries []string) ([]rune, error) {
	runes := make([]rune, 0, len(entries))
	for _, entry := range entries {
		value, err := strconv.ParseUint(entry, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: codepoint %q is not hexadecimal", ErrInvalidPool, entry)
		}
		runes = append(runes, rune(value))
	}
	return runes, nil
}

// validate checks that the pool is non-empty and contains only
// codepoints that render no visible glyph.
func (p *Pool) validate() error {
	total := 0
	for category, runes := range p.chars {
		for _, r := range runes {
			total++
			if !isInvisibleRune(r) {
				return fmt.Errorf("%w: U+%04X in %s renders a visible glyph", ErrInvalidPool, r, category)
			}
		}
	}
	if total == 0 {
		return fmt.Errorf("%w: pool is empty", ErrInvalidPool)
	}
	return nil
}

// isInvisibleRune reports whether r renders no visible glyph. Format
// characters (Cf) cover the zero-width codepoints; variation selectors
// are nonspacing marks and need their own range; the minimal-width
// space variants are allowed explicitly.
func isInvisibleRune(r rune) bool {
	if unicode.In(r, unicode.Cf, unicode.Variation_Selector) {
		return true
	}
	return minimalWidthRunes[r]
}

// Runes returns the codepoints in the given categories, flattened in a
// stable order. With no arguments it returns the whole pool.
func (p *Pool) Runes(categories ...Category) []rune {
	if len(categories) == 0 {
		categories = []Category{CategoryZeroWidth, CategoryVariationSelector, CategoryMinimalWidth}
	}
	var runes []rune
	for _, category := range categories {
		runes = append(runes, p.chars[category]...)
	}
	return runes
}

// Contains reports whether r is in the pool.
func (p *Pool) Contains(r rune) bool {
	for _, runes := range p.chars {
		for _, candidate := range runes {
			if candidate == r {
				return true
			}
		}
	}
	return false
}

// Size returns the total number of codepoints in the pool.
func (p *Pool) Size() int {
	total := 0
	for _, runes := range p.chars {
		total += len(runes)
	}
	return total
}

// Encode serializes the pool to YAML with hexadecimal codepoints.
func (p *Pool) Encode() ([]byte, error) {
	file := poolFile{}
	for _, r := range p.chars[CategoryZeroWidth] {
		file.ZeroWidth = append(file.ZeroWidth, fmt.Sprintf("%04X", r))
	}
	for _, r := range p.chars[CategoryVariationSelector] {
		file.VariationSelectors = append(file.VariationSelectors, fmt.Sprintf("%04X", r))
	}
	for _, r := range p.chars[CategoryMinimalWidth] {
		file.MinimalWidth = append(file.MinimalWidth, fmt.Sprintf("%04X", r))
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invisible character pool: %w", err)
	}
	return data, nil
}
