package model

import (
	"strings"
	"testing"
)

// TestNewTransformReport tests report initialization.
func TestNewTransformReport(t *testing.T) {
	t.Parallel()

	report := NewTransformReport("thesis.txt", "BAB I PENDAHULUAN")

	if report.Source != "thesis.txt" {
		t.Errorf("Source = %q, expected %q", report.Source, "thesis.txt")
	}
	if report.OriginalText != report.ModifiedText {
		t.Error("ModifiedText should start equal to OriginalText")
	}
	if report.Changed() {
		t.Error("fresh report should not be Changed")
	}
	if report.Fingerprint == "" {
		t.Error("Fingerprint should be set")
	}
	if report.DateProcessed.IsZero() {
		t.Error("DateProcessed should be set")
	}
}

// TestFingerprint tests document fingerprint stability and sensitivity.
func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		if Fingerprint("teks akademik") != Fingerprint("teks akademik") {
			t.Error("same text must produce the same fingerprint")
		}
	})

	t.Run("sensitive to invisible changes", func(t *testing.T) {
		t.Parallel()
		// A zero-width space changes the byte sequence, so the
		// fingerprint must change even though rendering does not.
		if Fingerprint("Hello") == Fingerprint("Hello​") {
			t.Error("fingerprint must change when invisible characters are added")
		}
	})

	t.Run("hex encoded", func(t *testing.T) {
		t.Parallel()
		fp := Fingerprint("x")
		if len(fp) != 32 {
			t.Errorf("fingerprint length = %d, expected 32 hex chars", len(fp))
		}
		if strings.ToLower(fp) != fp {
			t.Error("fingerprint should be lowercase hex")
		}
	})
}

// TestStatsMerge tests the accumulator merge semantics.
func TestStatsMerge(t *testing.T) {
	t.Parallel()

	a := Stats{WordsSubstituted: 1, CharsSubstituted: 2, InvisibleInserted: 3}
	b := Stats{CharsSubstituted: 4, SynonymReplacements: 5, PhraseRewrites: 6}

	merged := a.Merge(b)

	if merged.WordsSubstituted != 1 || merged.CharsSubstituted != 6 ||
		merged.InvisibleInserted != 3 || merged.SynonymReplacements != 5 ||
		merged.PhraseRewrites != 6 {
		t.Errorf("unexpected merge result: %+v", merged)
	}
	if merged.TotalChanges() != 21 {
		t.Errorf("TotalChanges = %d, expected 21", merged.TotalChanges())
	}

	// Merge must not mutate its receiver.
	if a.CharsSubstituted != 2 {
		t.Error("Merge mutated its receiver")
	}
}

// TestStatsIsZero tests the zero-change predicate.
func TestStatsIsZero(t *testing.T) {
	t.Parallel()

	if !(Stats{}).IsZero() {
		t.Error("empty Stats should be zero")
	}
	if (Stats{InvisibleInserted: 1}).IsZero() {
		t.Error("Stats with a change should not be zero")
	}
}

// TestRiskComponentsByName tests the name-based component accessor.
func TestRiskComponentsByName(t *testing.T) {
	t.Parallel()

	c := RiskComponents{
		UnicodeDensity:           0.1,
		ZeroWidthDensity:         0.2,
		PatternDetection:         0.3,
		ScriptMixing:             0.4,
		ModificationDistribution: 0.5,
	}

	testCases := []struct {
		name     string
		expected float64
	}{
		{ComponentUnicodeDensity, 0.1},
		{ComponentZeroWidthDensity, 0.2},
		{ComponentPatternDetection, 0.3},
		{ComponentScriptMixing, 0.4},
		{ComponentModificationDistribution, 0.5},
		{"unknown", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := c.ByName(tc.name); got != tc.expected {
				t.Errorf("ByName(%q) = %v, expected %v", tc.name, got, tc.expected)
			}
		})
	}
}
