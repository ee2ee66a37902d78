package model

// RiskComponents holds the five weighted component scores that make up the
// overall risk score. Each component is in [0,1].
//
// Design decision: Named fields rather than a map, so that every component
// the scorer produces is visible in the type and a typo cannot silently
// introduce a sixth component.
type RiskComponents struct {
	// UnicodeDensity scores the density of NFKC-invisible character
	// substitutions relative to total text length.
	UnicodeDensity float64 `json:"unicode_density"`

	// ZeroWidthDensity scores the density of zero-width codepoints.
	ZeroWidthDensity float64 `json:"zero_width_density"`

	// PatternDetection scores how many suspicious regex patterns matched.
	PatternDetection float64 `json:"pattern_detection"`

	// ScriptMixing is 0.5 when Latin and Cyrillic characters appear
	// adjacent within a word, 0 otherwise.
	ScriptMixing float64 `json:"script_mixing"`

	// ModificationDistribution is 0.3 when zero-width characters appear
	// clustered (two or more consecutive), 0 otherwise.
	ModificationDistribution float64 `json:"modification_distribution"`
}

// ByName returns the component score for a component name.
// Unknown names return 0.
func (c RiskComponents) ByName(name string) float64 {
	switch name {
	case ComponentUnicodeDensity:
		return c.UnicodeDensity
	case ComponentZeroWidthDensity:
		return c.ZeroWidthDensity
	case ComponentPatternDetection:
		return c.PatternDetection
	case ComponentScriptMixing:
		return c.ScriptMixing
	case ComponentModificationDistribution:
		return c.ModificationDistribution
	default:
		return 0
	}
}

// CharacterAnalysis holds the raw character-level diff counts between the
// original and modified texts.
type CharacterAnalysis struct {
	// TotalChars is the codepoint length of the modified text.
	TotalChars int `json:"total_chars"`

	// VisibleChanges counts aligned positions whose characters differ
	// even after NFKC normalization.
	VisibleChanges int `json:"visible_changes"`

	// InvisibleChanges counts aligned positions that differ but NFKC-
	// normalize to equality, plus zero-width insertions.
	InvisibleChanges int `json:"invisible_changes"`

	// UnicodeSubstitutions counts the NFKC-equal aligned differences.
	UnicodeSubstitutions int `json:"unicode_substitutions"`

	// ZeroWidthInsertions counts zero-width codepoints present in the
	// modified text.
	ZeroWidthInsertions int `json:"zero_width_insertions"`
}

// RiskAssessment is the complete risk/invisibility evaluation of a
// (original, modified) text pair. Created once per pair; immutable.
type RiskAssessment struct {
	// OverallRisk is the weighted risk score in [0,1].
	OverallRisk float64 `json:"overall_risk"`

	// Level is OverallRisk bucketed into the five discrete levels.
	Level RiskLevel `json:"-"`

	// LevelText is the string form of Level, for serialization.
	LevelText string `json:"risk_level"`

	// InvisibilityScore is the fraction of detected changes classified
	// as invisible, defaulting to 1.0 when there are no changes.
	InvisibilityScore float64 `json:"invisibility_score"`

	// Components is the per-technique risk breakdown.
	Components RiskComponents `json:"components"`

	// Characters is the raw character-level diff analysis.
	Characters CharacterAnalysis `json:"characters"`

	// DetectedPatterns lists the suspicious patterns found in the
	// modified text, in "name: N matches" form.
	DetectedPatterns []string `json:"detected_patterns,omitempty"`

	// Recommendations are generated deterministically from the
	// components that exceed their thresholds.
	Recommendations []string `json:"recommendations"`
}
