package model

// Stats is the explicit, caller-owned accumulator of per-run change counts.
// Each pipeline stage returns its own counts and the orchestrator merges them;
// nothing in the system keeps package-level counters.
type Stats struct {
	// WordsSubstituted counts whole-word homoglyph substitutions.
	WordsSubstituted int `json:"words_substituted"`

	// CharsSubstituted counts single-character homoglyph substitutions.
	CharsSubstituted int `json:"chars_substituted"`

	// InvisibleInserted counts invisible-character insertions.
	InvisibleInserted int `json:"invisible_inserted"`

	// SynonymReplacements counts contextual synonym replacements.
	SynonymReplacements int `json:"synonym_replacements"`

	// PhraseRewrites counts fixed academic-phrase rewrites.
	PhraseRewrites int `json:"phrase_rewrites"`
}

// Merge adds the counts of other into s and returns the result.
// Value receiver: merging never mutates an existing accumulator.
func (s Stats) Merge(other Stats) Stats {
	return Stats{
		WordsSubstituted:    s.WordsSubstituted + other.WordsSubstituted,
		CharsSubstituted:    s.CharsSubstituted + other.CharsSubstituted,
		InvisibleInserted:   s.InvisibleInserted + other.InvisibleInserted,
		SynonymReplacements: s.SynonymReplacements + other.SynonymReplacements,
		PhraseRewrites:      s.PhraseRewrites + other.PhraseRewrites,
	}
}

// TotalChanges returns the sum of all change counts.
func (s Stats) TotalChanges() int {
	return s.WordsSubstituted + s.CharsSubstituted + s.InvisibleInserted +
		s.SynonymReplacements + s.PhraseRewrites
}

// IsZero reports whether no stage produced any change. A zero-change run is
// valid output, not an error: the original text stands.
func (s Stats) IsZero() bool {
	return s.TotalChanges() == 0
}
