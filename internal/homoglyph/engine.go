package homoglyph

import (
	"math/rand"
	"strings"
	"unicode"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/nao1215/veiltext/internal/model"
)

// Engine applies homoglyph substitution to text. All random decisions
// draw from the injected rand source, so two engines constructed with
// the same seed produce identical output for identical input.
type Engine struct {
	// table holds the substitution mappings.
	table *Table
	// rng is the injected random source.
	rng *rand.Rand
	// wordBoost multiplies the rate for whole-word substitutions.
	wordBoost float64
	// maxChangesPerUnit caps substitutions within one paragraph.
	maxChangesPerUnit int
	// safeTokens holds lowercased words that are never substituted.
	safeTokens map[string]bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWordBoost sets the rate multiplier for word-level substitution.
func WithWordBoost(boost float64) EngineOption {
	return func(e *Engine) {
		if boost > 0 {
			e.wordBoost = boost
		}
	}
}

// WithMaxChangesPerUnit caps how many substitutions may land in a
// single paragraph. Zero or negative disables the cap.
func WithMaxChangesPerUnit(n int) EngineOption {
	return func(e *Engine) {
		e.maxChangesPerUnit = n
	}
}

// WithSafeTokens registers words that must never be substituted,
// matched case-insensitively as whole words.
func WithSafeTokens(tokens []string) EngineOption {
	return func(e *Engine) {
		for _, token := range tokens {
			token = strings.TrimSpace(strings.ToLower(token))
			if token != "" {
				e.safeTokens[token] = true
			}
		}
	}
}

// NewEngine creates a substitution engine over the given table and
// random source. If table is nil the built-in default table is used;
// if rng is nil an unseeded source is created.
func NewEngine(table *Table, rng *rand.Rand, opts ...EngineOption) *Engine {
	if table == nil {
		table = DefaultTable()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	e := &Engine{
		table:             table,
		rng:               rng,
		wordBoost:         config.DefaultWordBoost,
		maxChangesPerUnit: config.DefaultMaxChangesPerUnit,
		safeTokens:        make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Substitute applies homoglyph substitution to text at the given rate.
// Word mode replaces whole-word table matches with probability
// min(1, rate*wordBoost); char mode replaces individual codepoints
// with probability rate. Both modes preserve the casing of the
// original text and respect the per-paragraph change cap. Empty text
// or rate <= 0 is a no-op.
func (e *Engine) Substitute(text string, rate float64, mode config.SubstitutionMode) (string, []model.SubstitutionEvent) {
	if text == "" || rate <= 0 {
		return text, nil
	}
	if rate > 1 {
		rate = 1
	}

	wordMode := mode == config.ModeWord || mode == config.ModeBoth
	charMode := mode == config.ModeChar || mode == config.ModeBoth

	var (
		b       strings.Builder
		events  []model.SubstitutionEvent
		changes int
	)
	b.Grow(len(text))

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]

		// Paragraph boundary resets the per-unit counter.
		if r == '\n' {
			changes = 0
			b.WriteRune(r)
			i++
			continue
		}

		if !isWordRune(r) {
			b.WriteRune(r)
			i++
			continue
		}

		start := i
		for i < len(runes) && isWordRune(runes[i]) {
			i++
		}
		word := string(runes[start:i])

		if e.safeTokens[strings.ToLower(word)] {
			b.WriteString(word)
			continue
		}

		if wordMode {
			if replaced, event, ok := e.substituteWord(word, start, rate, changes); ok {
				b.WriteString(replaced)
				events = append(events, event)
				changes++
				continue
			}
		}

		if charMode {
			replaced, wordEvents := e.substituteChars(word, start, rate, &changes)
			b.WriteString(replaced)
			events = append(events, wordEvents...)
			continue
		}

		b.WriteString(word)
	}

	return b.String(), events
}

// substituteWord attempts a whole-word substitution. The replacement
// casing is aligned rune by rune to the matched word.
func (e *Engine) substituteWord(word string, position int, rate float64, changes int) (string, model.SubstitutionEvent, bool) {
	if e.capReached(changes) {
		return "", model.SubstitutionEvent{}, false
	}

	replacement, ok := e.table.WordReplacement(word)
	if !ok {
		return "", model.SubstitutionEvent{}, false
	}

	boosted := rate * e.wordBoost
	if boosted > 1 {
		boosted = 1
	}
	if e.rng.Float64() >= boosted {
		return "", model.SubstitutionEvent{}, false
	}

	aligned := alignCase(word, replacement)
	if aligned == word {
		return "", model.SubstitutionEvent{}, false
	}
	// Lowercasing a Cyrillic capital can yield a glyph that no longer
	// resembles its Latin counterpart (В -> в). Substitute only when
	// the case-aligned form still renders like the source word.
	if !VisuallyEqual(word, aligned) {
		return "", model.SubstitutionEvent{}, false
	}

	event := model.SubstitutionEvent{
		Position:    position,
		Original:    word,
		Replacement: aligned,
		Unit:        model.UnitWord,
		Technique:   model.TechniqueHomoglyph,
	}
	return aligned, event, true
}

// substituteChars applies character-level substitution within a word.
func (e *Engine) substituteChars(word string, position int, rate float64, changes *int) (string, []model.SubstitutionEvent) {
	var (
		b      strings.Builder
		events []model.SubstitutionEvent
	)
	b.Grow(len(word))

	for offset, r := range []rune(word) {
		if e.capReached(*changes) {
			b.WriteRune(r)
			continue
		}
		candidates := e.table.CharCandidates(r)
		if len(candidates) == 0 || e.rng.Float64() >= rate {
			b.WriteRune(r)
			continue
		}

		replacement := candidates[e.rng.Intn(len(candidates))]
		b.WriteRune(replacement)
		events = append(events, model.SubstitutionEvent{
			Position:    position + offset,
			Original:    string(r),
			Replacement: string(replacement),
			Unit:        model.UnitChar,
			Technique:   model.TechniqueHomoglyph,
		})
		*changes++
	}

	return b.String(), events
}

// capReached reports whether the per-unit change cap is exhausted.
func (e *Engine) capReached(changes int) bool {
	return e.maxChangesPerUnit > 0 && changes >= e.maxChangesPerUnit
}

// isWordRune reports whether r is part of a word token.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// alignCase maps the casing pattern of match onto replacement, rune by
// rune. The table guarantees equal rune lengths for word entries.
func alignCase(match, replacement string) string {
	matchRunes := []rune(match)
	replRunes := []rune(replacement)
	if len(matchRunes) != len(replRunes) {
		return replacement
	}

	var b strings.Builder
	b.Grow(len(replacement))
	for i, r := range replRunes {
		if unicode.IsUpper(matchRunes[i]) {
			b.WriteRune(unicode.ToUpper(r))
		} else if unicode.IsLower(matchRunes[i]) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
