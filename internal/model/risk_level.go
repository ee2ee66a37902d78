package model

// RiskLevel represents the discrete detection-risk bucket of a transform.
// It is derived from the continuous overall risk score in [0,1].
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type RiskLevel int

const (
	// RiskMinimal indicates an overall risk score below 0.2.
	// Modifications at this level are unlikely to trigger any detector.
	RiskMinimal RiskLevel = iota

	// RiskLow indicates an overall risk score in [0.2, 0.4).
	// Individual detectors may flag isolated changes but the document
	// as a whole reads as unmodified.
	RiskLow

	// RiskMedium indicates an overall risk score in [0.4, 0.6).
	// Statistical detectors that examine script distribution or
	// zero-width density will likely produce warnings.
	RiskMedium

	// RiskHigh indicates an overall risk score in [0.6, 0.8).
	// The modification pattern itself is a fingerprint: clustered
	// insertions or dense substitutions stand out under analysis.
	RiskHigh

	// RiskCritical indicates an overall risk score of 0.8 or above.
	// The changes are effectively self-announcing to any automated
	// Unicode or frequency analysis.
	RiskCritical
)

// String returns a human-readable representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskMinimal:
		return "MINIMAL"
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// RiskLevelFromScore buckets a continuous risk score into a RiskLevel.
// Scores are expected in [0,1]; out-of-range values clamp to the nearest bucket.
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score < 0.2:
		return RiskMinimal
	case score < 0.4:
		return RiskLow
	case score < 0.6:
		return RiskMedium
	case score < 0.8:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// ComponentInfo contains metadata about a risk component, including the
// threshold above which it warrants a recommendation and the recommendation
// text itself.
type ComponentInfo struct {
	Threshold      float64
	Recommendation string
}

// componentInfoMapping maps risk component names to their metadata.
// This centralized mapping ensures consistent recommendation text across
// the application.
//
// Design decision: We use a map rather than embedding the threshold in each
// component score because:
// 1. It allows tuning thresholds without modifying the scorer
// 2. It provides a single source of truth for recommendation wording
// 3. It makes it easy to generate documentation of the heuristics
var componentInfoMapping = map[string]ComponentInfo{
	ComponentUnicodeDensity: {
		Threshold:      0.6,
		Recommendation: "Reduce the homoglyph substitution rate; keep Unicode substitutions under 3% of total text.",
	},
	ComponentZeroWidthDensity: {
		Threshold:      0.5,
		Recommendation: "Decrease the zero-width character insertion frequency.",
	},
	ComponentPatternDetection: {
		Threshold:      0.4,
		Recommendation: "Avoid consecutive Unicode substitutions in keywords.",
	},
	ComponentScriptMixing: {
		Threshold:      0.3,
		Recommendation: "Ensure consistent script usage within words.",
	},
	ComponentModificationDistribution: {
		Threshold:      0.2,
		Recommendation: "Distribute modifications more evenly across the document.",
	},
}

// Risk component names. These are the five weighted inputs to the overall
// risk score and the keys of the per-technique breakdown.
const (
	ComponentUnicodeDensity           = "unicode_density"
	ComponentZeroWidthDensity         = "zero_width_density"
	ComponentPatternDetection         = "pattern_detection"
	ComponentScriptMixing             = "script_mixing"
	ComponentModificationDistribution = "modification_distribution"
)

// SafeRecommendation is emitted when no component exceeds its threshold.
const SafeRecommendation = "Current modification level appears safe for most detectors."

// GetComponentInfo returns the metadata for a risk component.
// Returns a zero-threshold ComponentInfo with generic text if the component
// is not in the mapping.
func GetComponentInfo(component string) ComponentInfo {
	if info, ok := componentInfoMapping[component]; ok {
		return info
	}
	return ComponentInfo{
		Threshold:      0,
		Recommendation: "Unknown risk component. Review manually.",
	}
}
