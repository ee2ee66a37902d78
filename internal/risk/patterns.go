package risk

import (
	"fmt"
	"regexp"
)

// Pattern names referenced by the component computation.
const (
	patternExcessiveUnicode  = "excessive_unicode"
	patternZeroWidthClusters = "zero_width_clusters"
	patternMixedScripts      = "mixed_scripts"
	patternAcademicKeywords  = "academic_keywords"
	patternAbnormalSpacing   = "abnormal_spacing"
)

// detectionPatterns are the signatures automated similarity checkers
// look for. Each is evaluated against the modified text; a match
// raises the pattern-detection component and two of them additionally
// drive dedicated components.
var detectionPatterns = map[string]*regexp.Regexp{
	// Runs of three or more Cyrillic capitals where Latin is expected.
	patternExcessiveUnicode: regexp.MustCompile(`[А-Я]{3,}`),

	// Two or more zero-width codepoints in a row.
	patternZeroWidthClusters: regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}]{2,}`),

	// A Latin letter directly adjacent to a Cyrillic capital.
	patternMixedScripts: regexp.MustCompile(`[a-zA-Z][А-Я]|[А-Я][a-zA-Z]`),

	// Substituted Indonesian section headings.
	patternAcademicKeywords: regexp.MustCompile(`ВАВ|РENDAHULUAN|МETODE`),

	// Three or more whitespace characters in a row.
	patternAbnormalSpacing: regexp.MustCompile(`\s{3,}`),
}

// patternOrder fixes the iteration order so that assessments are
// deterministic.
var patternOrder = []string{
	patternExcessiveUnicode,
	patternZeroWidthClusters,
	patternMixedScripts,
	patternAcademicKeywords,
	patternAbnormalSpacing,
}

// detectPatterns runs the registry over text and returns the matched
// pattern names alongside human-readable descriptions.
func detectPatterns(text string) (names []string, described []string) {
	for _, name := range patternOrder {
		matches := detectionPatterns[name].FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		names = append(names, name)
		described = append(described, describeMatches(name, len(matches)))
	}
	return names, described
}

func describeMatches(name string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%s: 1 match", name)
	}
	return fmt.Sprintf("%s: %d matches", name, count)
}
