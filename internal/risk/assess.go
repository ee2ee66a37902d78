package risk

import (
	"strings"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/nao1215/veiltext/internal/homoglyph"
	"github.com/nao1215/veiltext/internal/model"
)

// Density multipliers: a 5% substitution density or a 3% zero-width
// density saturates its component at 1.0.
const (
	unicodeDensityFactor   = 20.0
	zeroWidthDensityFactor = 33.0
	patternRiskPerMatch    = 0.2
	scriptMixingRisk       = 0.5
	distributionRisk       = 0.3
)

// zeroWidthRunes is the fixed category set counted as zero-width
// insertions.
var zeroWidthRunes = map[rune]bool{
	'\u200B': true, // zero width space
	'\u200C': true, // zero width non-joiner
	'\u200D': true, // zero width joiner
	'\uFEFF': true, // zero width no-break space
}

// Scorer computes RiskAssessments. The zero value is not usable;
// construct with NewScorer.
type Scorer struct {
	// weights holds the per-component weights for the overall score.
	weights config.RiskWeights
}

// NewScorer creates a scorer with the given component weights. Zero
// weights fall back to the defaults.
func NewScorer(weights config.RiskWeights) *Scorer {
	if weights == (config.RiskWeights{}) {
		weights = config.DefaultRiskWeights()
	}
	return &Scorer{weights: weights}
}

// Assess evaluates how detectable the transformation from original to
// modified is. It is pure and total over any two strings, including
// empty ones.
func (s *Scorer) Assess(original, modified string) model.RiskAssessment {
	characters := analyzeCharacters(original, modified)
	patternNames, described := detectPatterns(modified)
	components := s.components(characters, patternNames)
	overall := s.overallRisk(components)
	level := model.RiskLevelFromScore(overall)

	return model.RiskAssessment{
		OverallRisk:       overall,
		Level:             level,
		LevelText:         level.String(),
		InvisibilityScore: invisibilityScore(characters),
		Components:        components,
		Characters:        characters,
		DetectedPatterns:  described,
		Recommendations:   recommendations(components),
	}
}

// analyzeCharacters aligns the two texts position by position and
// classifies every difference. Aligned differences that fold to the
// same visual form count as invisible substitutions; zero-width
// codepoints in the modified text count as invisible insertions
// regardless of alignment.
func analyzeCharacters(original, modified string) model.CharacterAnalysis {
	originalRunes := []rune(original)
	modifiedRunes := []rune(modified)

	analysis := model.CharacterAnalysis{TotalChars: len(modifiedRunes)}

	limit := len(originalRunes)
	if len(modifiedRunes) < limit {
		limit = len(modifiedRunes)
	}
	for i := 0; i < limit; i++ {
		if originalRunes[i] == modifiedRunes[i] {
			continue
		}
		if homoglyph.VisuallyEqual(string(originalRunes[i]), string(modifiedRunes[i])) {
			analysis.InvisibleChanges++
			analysis.UnicodeSubstitutions++
		} else {
			analysis.VisibleChanges++
		}
	}

	for _, r := range modifiedRunes {
		if zeroWidthRunes[r] {
			analysis.ZeroWidthInsertions++
			analysis.InvisibleChanges++
		}
	}

	return analysis
}

// components folds the character analysis and matched patterns into
// the five risk components.
func (s *Scorer) components(characters model.CharacterAnalysis, patternNames []string) model.RiskComponents {
	var components model.RiskComponents

	if characters.TotalChars > 0 {
		total := float64(characters.TotalChars)
		components.UnicodeDensity = min1(float64(characters.UnicodeSubstitutions) / total * unicodeDensityFactor)
		components.ZeroWidthDensity = min1(float64(characters.ZeroWidthInsertions) / total * zeroWidthDensityFactor)
	}

	components.PatternDetection = min1(float64(len(patternNames)) * patternRiskPerMatch)

	for _, name := range patternNames {
		switch name {
		case patternMixedScripts:
			components.ScriptMixing = scriptMixingRisk
		case patternZeroWidthClusters:
			components.ModificationDistribution = distributionRisk
		}
	}

	return components
}

// overallRisk is the weighted component sum, clamped to [0,1].
func (s *Scorer) overallRisk(components model.RiskComponents) float64 {
	total := components.UnicodeDensity*s.weights.UnicodeDensity +
		components.ZeroWidthDensity*s.weights.ZeroWidthDensity +
		components.PatternDetection*s.weights.PatternDetection +
		components.ScriptMixing*s.weights.ScriptMixing +
		components.ModificationDistribution*s.weights.ModificationDistribution
	return min1(total)
}

// invisibilityScore is the invisible share of all detected changes,
// defaulting to 1.0 when nothing changed.
func invisibilityScore(characters model.CharacterAnalysis) float64 {
	total := characters.VisibleChanges + characters.InvisibleChanges
	if total == 0 {
		return 1.0
	}
	return float64(characters.InvisibleChanges) / float64(total)
}

// recommendations emits one line per component above its threshold, or
// the safe recommendation when none trigger.
func recommendations(components model.RiskComponents) []string {
	names := []string{
		model.ComponentUnicodeDensity,
		model.ComponentZeroWidthDensity,
		model.ComponentPatternDetection,
		model.ComponentScriptMixing,
		model.ComponentModificationDistribution,
	}

	var lines []string
	for _, name := range names {
		info := model.GetComponentInfo(name)
		if components.ByName(name) > info.Threshold {
			lines = append(lines, info.Recommendation)
		}
	}
	if len(lines) == 0 {
		lines = append(lines, model.SafeRecommendation)
	}
	return lines
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// Strip removes every zero-width codepoint from text. Used by callers
// that need to compare or display text without injected characters.
func Strip(text string) string {
	return strings.Map(func(r rune) rune {
		if zeroWidthRunes[r] {
			return -1
		}
		return r
	}, text)
}
