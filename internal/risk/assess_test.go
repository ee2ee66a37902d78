package risk

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/nao1215/veiltext/internal/model"
)

func newTestScorer() *Scorer {
	return NewScorer(config.DefaultRiskWeights())
}

// TestScorer_Assess_EmptyPair tests the empty-input edge case.
func TestScorer_Assess_EmptyPair(t *testing.T) {
	t.Parallel()

	got := newTestScorer().Assess("", "")

	if got.OverallRisk != 0 {
		t.Errorf("OverallRisk = %v, want 0", got.OverallRisk)
	}
	if got.Level != model.RiskMinimal {
		t.Errorf("Level = %v, want minimal", got.Level)
	}
	if got.InvisibilityScore != 1.0 {
		t.Errorf("InvisibilityScore = %v, want 1.0", got.InvisibilityScore)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0] != model.SafeRecommendation {
		t.Errorf("Recommendations = %v, want only the safe recommendation", got.Recommendations)
	}
}

// TestScorer_Assess_ZeroWidthInsertion tests classification of a pure
// zero-width append.
func TestScorer_Assess_ZeroWidthInsertion(t *testing.T) {
	t.Parallel()

	got := newTestScorer().Assess("Hello", "Hello​")

	if got.Characters.InvisibleChanges < 1 {
		t.Errorf("InvisibleChanges = %d, want >= 1", got.Characters.InvisibleChanges)
	}
	if got.Characters.VisibleChanges != 0 {
		t.Errorf("VisibleChanges = %d, want 0", got.Characters.VisibleChanges)
	}
	if got.InvisibilityScore != 1.0 {
		t.Errorf("InvisibilityScore = %v, want 1.0", got.InvisibilityScore)
	}
	if got.Characters.ZeroWidthInsertions != 1 {
		t.Errorf("ZeroWidthInsertions = %d, want 1", got.Characters.ZeroWidthInsertions)
	}
}

// TestScorer_Assess_HomoglyphSubstitution tests that a confusable
// substitution counts as invisible.
func TestScorer_Assess_HomoglyphSubstitution(t *testing.T) {
	t.Parallel()

	// Cyrillic а replaces Latin a.
	got := newTestScorer().Assess("data", "dаta")

	if got.Characters.UnicodeSubstitutions != 1 {
		t.Errorf("UnicodeSubstitutions = %d, want 1", got.Characters.UnicodeSubstitutions)
	}
	if got.Characters.VisibleChanges != 0 {
		t.Errorf("VisibleChanges = %d, want 0", got.Characters.VisibleChanges)
	}
	if got.InvisibilityScore != 1.0 {
		t.Errorf("InvisibilityScore = %v, want 1.0", got.InvisibilityScore)
	}
	if got.Components.UnicodeDensity == 0 {
		t.Error("UnicodeDensity should be positive after a substitution")
	}
}

// TestScorer_Assess_VisibleChange tests that a real edit counts as visible.
func TestScorer_Assess_VisibleChange(t *testing.T) {
	t.Parallel()

	got := newTestScorer().Assess("kualitas", "kualitaz")

	if got.Characters.VisibleChanges != 1 {
		t.Errorf("VisibleChanges = %d, want 1", got.Characters.VisibleChanges)
	}
	if got.InvisibilityScore != 0 {
		t.Errorf("InvisibilityScore = %v, want 0", got.InvisibilityScore)
	}
}

// TestScorer_Assess_CaseMismatchedHomoglyph tests that a lowercase
// Cyrillic letter that does not resemble its Latin counterpart counts
// as a visible change, not an invisible one.
func TestScorer_Assess_CaseMismatchedHomoglyph(t *testing.T) {
	t.Parallel()

	// Cyrillic н looks nothing like Latin h.
	got := newTestScorer().Assess("hasil", "нasil")

	if got.Characters.VisibleChanges != 1 {
		t.Errorf("VisibleChanges = %d, want 1", got.Characters.VisibleChanges)
	}
	if got.Characters.InvisibleChanges != 0 {
		t.Errorf("InvisibleChanges = %d, want 0", got.Characters.InvisibleChanges)
	}
	if got.InvisibilityScore != 0 {
		t.Errorf("InvisibilityScore = %v, want 0", got.InvisibilityScore)
	}
}

// TestScorer_Assess_Pure tests that assessment is a pure function.
func TestScorer_Assess_Pure(t *testing.T) {
	t.Parallel()

	original := "BAB I PENDAHULUAN dan analisis data"
	modified := "ВАВ I PENDAHULUAN dаn​​ analisis data"

	first := newTestScorer().Assess(original, modified)
	second := newTestScorer().Assess(original, modified)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Assess() is not pure:\n%+v\n%+v", first, second)
	}
}

// TestScorer_Assess_Monotonic tests that more substitutions never
// lower the overall risk.
func TestScorer_Assess_Monotonic(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer()
	base := strings.Repeat("data ", 40)

	previous := -1.0
	for substitutions := 0; substitutions <= 3; substitutions++ {
		modified := strings.Replace(base, "a", "а", substitutions)
		risk := scorer.Assess(base, modified).OverallRisk
		if risk < previous {
			t.Errorf("risk dropped from %v to %v at %d substitutions", previous, risk, substitutions)
		}
		previous = risk
	}
}

// TestScorer_Assess_PatternComponents tests the pattern-driven components.
func TestScorer_Assess_PatternComponents(t *testing.T) {
	t.Parallel()

	t.Run("zero width cluster raises distribution", func(t *testing.T) {
		t.Parallel()

		got := newTestScorer().Assess("ab", "ab​​")
		if got.Components.ModificationDistribution != distributionRisk {
			t.Errorf("ModificationDistribution = %v, want %v", got.Components.ModificationDistribution, distributionRisk)
		}
		if len(got.DetectedPatterns) == 0 {
			t.Error("expected detected patterns for a zero-width cluster")
		}
	})

	t.Run("script mixing raises its component", func(t *testing.T) {
		t.Parallel()

		// Latin d directly followed by Cyrillic А.
		got := newTestScorer().Assess("DATA", "DАTA")
		if got.Components.ScriptMixing != scriptMixingRisk {
			t.Errorf("ScriptMixing = %v, want %v", got.Components.ScriptMixing, scriptMixingRisk)
		}
	})

	t.Run("substituted heading detected", func(t *testing.T) {
		t.Parallel()

		got := newTestScorer().Assess("BAB", "ВАВ")
		found := false
		for _, pattern := range got.DetectedPatterns {
			if strings.HasPrefix(pattern, "academic_keywords") {
				found = true
			}
		}
		if !found {
			t.Errorf("DetectedPatterns = %v, want academic_keywords match", got.DetectedPatterns)
		}
	})
}

// TestScorer_Assess_Recommendations tests threshold-driven recommendations.
func TestScorer_Assess_Recommendations(t *testing.T) {
	t.Parallel()

	// Short text saturated with zero-width characters crosses the
	// zero-width threshold.
	got := newTestScorer().Assess("a. b.", "a.​ b.‌")

	want := model.GetComponentInfo(model.ComponentZeroWidthDensity).Recommendation
	found := false
	for _, recommendation := range got.Recommendations {
		if recommendation == want {
			found = true
		}
	}
	if !found {
		t.Errorf("Recommendations = %v, want to include %q", got.Recommendations, want)
	}
}

// TestStrip tests zero-width removal.
func TestStrip(t *testing.T) {
	t.Parallel()

	if got := Strip("a\u200Bb\u200C c\uFEFF"); got != "ab c" {
		t.Errorf("Strip() = %q, want %q", got, "ab c")
	}
	if got := Strip("plain"); got != "plain" {
		t.Errorf("Strip() = %q, want unchanged", got)
	}
}
