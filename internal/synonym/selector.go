package synonym

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/nao1215/veiltext/internal/model"
)

// minLookupLength is the shortest cleaned word considered for
// replacement. Shorter tokens are particles and abbreviations where
// substitution reads badly.
const minLookupLength = 3

// contextRadius is the window, in tokens, inspected on each side of a
// candidate word.
const contextRadius = 5

// academicPhrases maps stock academic phrasings to rewordings. Applied
// as literal whole-phrase rewrites before token-level selection.
var academicPhrases = []struct {
	from string
	to   string
}{
	{"Berdasarkan hasil penelitian", "Merujuk pada temuan riset"},
	{"dapat disimpulkan bahwa", "dapat dinyatakan bahwa"},
	{"Penelitian ini bertujuan", "Studi ini dimaksudkan"},
	{"Metode penelitian yang digunakan", "Pendekatan riset yang diterapkan"},
	{"Hasil penelitian menunjukkan", "Temuan kajian mengindikasikan"},
	{"pengaruh signifikan terhadap", "dampak substansial pada"},
	{"keputusan pembelian konsumen", "pilihan transaksi pelanggan"},
}

// Selector picks contextual synonym replacements. All random decisions
// draw from the injected rand source.
type Selector struct {
	// table is the headword index.
	table *Table
	// rng is the injected random source.
	rng *rand.Rand
	// qualityGate is the minimum score a candidate must reach.
	qualityGate float64
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithQualityGate overrides the minimum acceptance score.
func WithQualityGate(gate float64) SelectorOption {
	return func(s *Selector) {
		if gate > 0 {
			s.qualityGate = gate
		}
	}
}

// NewSelector creates a selector over the given table and random
// source. If table is nil the built-in fallback table is used; if rng
// is nil an unseeded source is created.
func NewSelector(table *Table, rng *rand.Rand, opts ...SelectorOption) *Selector {
	if table == nil {
		table = DefaultTable()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	s := &Selector{
		table:       table,
		rng:         rng,
		qualityGate: config.DefaultQualityGate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the best synonym for word given its context window,
// or ok=false when no candidate clears the quality gate. The returned
// score is the winning candidate's composite context score.
func (s *Selector) Select(word, contextWindow string) (replacement string, score float64, ok bool) {
	entry, found := s.table.Lookup(word)
	if !found || len(entry.Synonyms) == 0 {
		return "", 0, false
	}

	type scored struct {
		candidate string
		score     float64
	}
	candidates := make([]scored, 0, len(entry.Synonyms))
	for _, candidate := range entry.Synonyms {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || strings.EqualFold(candidate, word) {
			continue
		}
		candidates = append(candidates, scored{
			candidate: candidate,
			score:     Score(word, candidate, contextWindow),
		})
	}
	if len(candidates) == 0 {
		return "", 0, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	best := candidates[0]
	if best.score < s.qualityGate {
		return "", 0, false
	}
	return best.candidate, best.score, true
}

// Paraphrase runs token-level synonym selection across text. Each
// eligible token draws an independent Bernoulli(rate) trial; on
// success the selector is consulted with a context window of
// contextRadius tokens on each side. Casing and trailing punctuation
// of the original token are preserved. The returned fraction is the
// share of original word types no longer present in the output.
func (s *Selector) Paraphrase(text string, rate float64) (string, []model.Replacement, float64) {
	if strings.TrimSpace(text) == "" || rate <= 0 {
		return text, nil, 0
	}
	if rate > 1 {
		rate = 1
	}

	words := strings.Fields(text)
	modified := make([]string, 0, len(words))
	var replacements []model.Replacement

	for i, word := range words {
		clean := cleanToken(word)
		if len([]rune(clean)) < minLookupLength || containsDigit(clean) {
			modified = append(modified, word)
			continue
		}

		if s.rng.Float64() >= rate {
			modified = append(modified, word)
			continue
		}

		window := contextWindow(words, i)
		replacement, score, ok := s.Select(clean, window)
		if !ok {
			modified = append(modified, word)
			continue
		}

		formatted := preserveFormatting(word, replacement)
		modified = append(modified, formatted)
		replacements = append(replacements, model.Replacement{
			Original:    word,
			Replacement: formatted,
			Score:       score,
			Position:    i,
		})
	}

	result := strings.Join(modified, " ")
	return result, replacements, similarityReduction(text, result)
}

// RewritePhrases applies the stock academic phrase rewrites and
// returns the rewritten text with the number of phrases replaced.
func (s *Selector) RewritePhrases(text string) (string, int) {
	rewrites := 0
	for _, phrase := range academicPhrases {
		if strings.Contains(text, phrase.from) {
			text = strings.ReplaceAll(text, phrase.from, phrase.to)
			rewrites++
		}
	}
	return text, rewrites
}

// contextWindow joins the tokens around index i within contextRadius.
func contextWindow(words []string, i int) string {
	start := i - contextRadius
	if start < 0 {
		start = 0
	}
	end := i + contextRadius + 1
	if end > len(words) {
		end = len(words)
	}
	return strings.Join(words[start:end], " ")
}

// cleanToken strips non-letter characters for table lookup.
func cleanToken(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, strings.ToLower(word))
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// preserveFormatting carries the casing and trailing punctuation of
// the original token onto the replacement.
func preserveFormatting(original, replacement string) string {
	trailing := trailingPunctuation(original)
	core := strings.TrimSuffix(original, trailing)

	// A cases.Caser carries internal state, so build one per call
	// rather than sharing a package-level instance across goroutines.
	upper := cases.Upper(language.Indonesian)
	switch {
	case isAllUpper(core):
		replacement = upper.String(replacement)
	case startsUpper(core):
		// Only the first letter follows the original's capital; a
		// multi-word replacement keeps its remaining words lowercase.
		runes := []rune(replacement)
		if len(runes) > 0 {
			replacement = upper.String(string(runes[:1])) + string(runes[1:])
		}
	}
	return replacement + trailing
}

// trailingPunctuation returns the run of non-alphanumeric characters
// at the end of word.
func trailingPunctuation(word string) string {
	runes := []rune(word)
	end := len(runes)
	for end > 0 {
		r := runes[end-1]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			break
		}
		end--
	}
	return string(runes[end:])
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return hasLetter
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// similarityReduction computes the fraction of the original word types
// absent from the modified text, in [0, 1].
func similarityReduction(original, modified string) float64 {
	originalTypes := wordTypes(original)
	if len(originalTypes) == 0 {
		return 0
	}
	modifiedTypes := wordTypes(modified)

	common := 0
	for word := range originalTypes {
		if modifiedTypes[word] {
			common++
		}
	}
	return 1 - float64(common)/float64(len(originalTypes))
}

func wordTypes(text string) map[string]bool {
	types := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		types[word] = true
	}
	return types
}
