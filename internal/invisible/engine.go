package invisible

import (
	"math/rand"
	"strings"
	"unicode"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/nao1215/veiltext/internal/model"
)

// defaultPunctuation is the boundary punctuation set used when no
// override is configured.
const defaultPunctuation = ".,;:!?"

// Engine inserts invisible characters at word boundaries. All random
// decisions draw from the injected rand source.
type Engine struct {
	// candidates is the flattened pool the engine draws from.
	candidates []rune
	// rng is the injected random source.
	rng *rand.Rand
	// punctuation is the boundary punctuation set.
	punctuation map[rune]bool
	// maxChangesPerUnit caps insertions within one paragraph.
	maxChangesPerUnit int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPunctuation overrides the boundary punctuation set.
func WithPunctuation(set string) EngineOption {
	return func(e *Engine) {
		if set == "" {
			return
		}
		e.punctuation = make(map[rune]bool, len(set))
		for _, r := range set {
			e.punctuation[r] = true
		}
	}
}

// WithCategories restricts the engine to the given pool categories.
// This option must come after any pool the engine was constructed
// with; it re-flattens from that pool.
func WithCategories(pool *Pool, categories ...Category) EngineOption {
	return func(e *Engine) {
		runes := pool.Runes(categories...)
		if len(runes) > 0 {
			e.candidates = runes
		}
	}
}

// WithMaxChangesPerUnit caps how many insertions may land in a single
// paragraph. Zero or negative disables the cap.
func WithMaxChangesPerUnit(n int) EngineOption {
	return func(e *Engine) {
		e.maxChangesPerUnit = n
	}
}

// NewEngine creates an injection engine over the given pool and random
// source. If pool is nil the built-in default pool is used; if rng is
// nil an unseeded source is created.
func NewEngine(pool *Pool, rng *rand.Rand, opts ...EngineOption) *Engine {
	if pool == nil {
		pool = DefaultPool()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	e := &Engine{
		candidates:        pool.Runes(),
		rng:               rng,
		punctuation:       make(map[rune]bool, len(defaultPunctuation)),
		maxChangesPerUnit: config.DefaultMaxChangesPerUnit,
	}
	for _, r := range defaultPunctuation {
		e.punctuation[r] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Inject inserts invisible characters into text at the given rate.
// Each whitespace or punctuation boundary draws an independent trial;
// on success one codepoint from the pool is appended after the
// boundary character. A consecutive-insertion counter suppresses
// injection once maxConsecutive boundaries in a row have been filled,
// and resets when a non-boundary character is crossed. Characters are
// never inserted inside a word. Empty text or rate <= 0 is a no-op.
func (e *Engine) Inject(text string, rate float64, maxConsecutive int) (string, []model.InjectionEvent) {
	if text == "" || rate <= 0 || len(e.candidates) == 0 {
		return text, nil
	}
	if rate > 1 {
		rate = 1
	}

	var (
		b           strings.Builder
		events      []model.InjectionEvent
		consecutive int
		unitChanges int
	)
	b.Grow(len(text) + len(text)/8)

	for position, r := range []rune(text) {
		b.WriteRune(r)

		if r == '\n' {
			unitChanges = 0
			consecutive = 0
			continue
		}

		if !e.isBoundary(r) {
			consecutive = 0
			continue
		}

		if maxConsecutive > 0 && consecutive >= maxConsecutive {
			continue
		}
		if e.maxChangesPerUnit > 0 && unitChanges >= e.maxChangesPerUnit {
			continue
		}
		if e.rng.Float64() >= rate {
			continue
		}

		codepoint := e.candidates[e.rng.Intn(len(e.candidates))]
		b.WriteRune(codepoint)
		events = append(events, model.InjectionEvent{
			Position:  position,
			Codepoint: codepoint,
		})
		consecutive++
		unitChanges++
	}

	return b.String(), events
}

// isBoundary reports whether injecting after r keeps the insertion
// outside any word.
func (e *Engine) isBoundary(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	return e.punctuation[r]
}
