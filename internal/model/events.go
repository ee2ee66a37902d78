package model

// UnitType identifies the granularity of a substitution.
type UnitType string

const (
	// UnitChar marks a single-codepoint homoglyph substitution.
	UnitChar UnitType = "char"

	// UnitWord marks a whole-word substitution (academic keyword or
	// connector word replaced by its confusable spelling).
	UnitWord UnitType = "word"
)

// Technique names attached to change events for statistics and reporting.
const (
	// TechniqueHomoglyph marks a visually-confusable character or word
	// substitution drawn from the homoglyph table.
	TechniqueHomoglyph = "homoglyph"

	// TechniqueInvisible marks a zero-width/format codepoint insertion.
	TechniqueInvisible = "invisible"

	// TechniqueSynonym marks a contextual synonym replacement.
	TechniqueSynonym = "synonym"
)

// SubstitutionEvent records a single homoglyph substitution.
// Events are immutable once produced; the engine emits one per change and the
// orchestrator aggregates them into run statistics.
type SubstitutionEvent struct {
	// Position is the codepoint offset of the substituted unit in the
	// text as it stood when the substitution was applied.
	Position int `json:"position"`

	// Original is the unit (character or word) that was replaced.
	Original string `json:"original"`

	// Replacement is the visually-confusable unit written in its place.
	Replacement string `json:"replacement"`

	// Unit is the granularity of the substitution (char or word).
	Unit UnitType `json:"unit"`

	// Technique identifies the technique that produced the event.
	Technique string `json:"technique"`
}

// InjectionEvent records a single invisible-character insertion.
type InjectionEvent struct {
	// Position is the codepoint offset after which the invisible
	// character was inserted.
	Position int `json:"position"`

	// Codepoint is the inserted invisible rune.
	Codepoint rune `json:"codepoint"`
}

// Replacement records a single contextual synonym replacement together with
// the composite context score that justified it.
type Replacement struct {
	// Original is the source word as it appeared in the text,
	// including its casing and trailing punctuation.
	Original string `json:"original"`

	// Replacement is the synonym written in its place, with the
	// original casing pattern and punctuation carried over.
	Replacement string `json:"replacement"`

	// Score is the composite context score in [0.1, 1.0] that cleared
	// the selector's quality gate.
	Score float64 `json:"score"`

	// Position is the token index of the replaced word.
	Position int `json:"position"`
}
