package synonym

import (
	"strings"
	"unicode"
)

// Scoring signal weights. The composite score starts at scoreBase and
// each signal shifts it; the result is clamped to [scoreFloor, scoreCeil].
const (
	scoreBase  = 0.5
	scoreFloor = 0.1
	scoreCeil  = 1.0

	bonusPreferredAcademic   = 0.3
	penaltyUnpreferred       = 0.2
	penaltyDenied            = 0.5
	penaltyCasual            = 0.4
	bonusLengthClose         = 0.15
	bonusLengthNear          = 0.05
	penaltyLengthFar         = 0.1
	bonusDomainKeyword       = 0.1
	bonusFormalCandidate     = 0.1
	penaltyMultiword         = 0.15
	bonusAllowedCompound     = 0.1
)

// academicIndicators classify a context window as academic prose.
var academicIndicators = []string{
	"penelitian", "analisis", "berdasarkan", "menunjukkan", "hasil", "studi",
}

// preferredAcademic maps a headword to candidates curated as
// appropriate in academic register. Candidates outside the list are
// penalized when the context is academic.
var preferredAcademic = map[string][]string{
	"hasil":      {"temuan", "capaian", "pencapaian", "output", "outcome"},
	"penelitian": {"riset", "studi", "kajian", "investigasi", "eksplorasi"},
	"dapat":      {"mampu", "bisa", "sanggup"},
	"keputusan":  {"pilihan", "penetapan", "resolusi", "alternatif"},
	"produk":     {"barang", "komoditas", "item"},
	"kualitas":   {"mutu", "standar", "tingkat", "derajat"},
	"konsumen":   {"pelanggan", "klien", "customer"},
}

// deniedCandidates are archaic or otherwise inappropriate replacements
// that must never win, regardless of other signals.
var deniedCandidates = map[string]bool{
	"angsal":     true,
	"kata putus": true,
	"ketek":      true,
	"belalang":   true,
	"semut":      true,
	"burung":     true,
	"nan":        true,
	"angsana":    true,
}

// casualMarkers flag informal register; any candidate containing one
// is penalized heavily in formal text.
var casualMarkers = []string{
	"kayak", "gitu", "banget", "keren", "oke", "nggak",
}

// allowedCompounds are headwords for which a multi-word candidate is
// acceptable in academic prose.
var allowedCompounds = map[string]bool{
	"keputusan pembelian": true,
	"hasil penelitian":    true,
}

// domainPatterns group keywords that co-occur within one topical
// domain. A candidate earns a bonus for every pattern word of the
// dominant domain present in the context window.
var domainPatterns = map[string][]string{
	"research": {
		"penelitian", "riset", "studi", "kajian", "analisis", "observasi",
		"eksperimen", "telaah", "investigasi", "eksplorasi",
	},
	"business": {
		"konsumen", "pelanggan", "klien", "pembeli", "nasabah",
		"produk", "barang", "jasa", "layanan", "komoditas",
	},
	"quality": {
		"kualitas", "mutu", "standar", "tingkat", "level", "derajat",
		"taraf", "bobot", "nilai", "kapasitas",
	},
	"causal": {
		"pengaruh", "dampak", "efek", "akibat", "imbas", "konsekuensi",
		"berpengaruh", "berdampak", "menyebabkan", "mengakibatkan",
	},
}

// IsAcademicContext reports whether the context window reads as
// academic prose.
func IsAcademicContext(context string) bool {
	lower := strings.ToLower(context)
	for _, indicator := range academicIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// Score computes the composite context score for replacing original
// with candidate inside the given context window. The result is
// clamped to [0.1, 1.0].
func Score(original, candidate, context string) float64 {
	originalLower := strings.ToLower(original)
	candidateLower := strings.ToLower(candidate)
	contextLower := strings.ToLower(context)

	score := scoreBase
	academic := IsAcademicContext(context)

	if deniedCandidates[candidateLower] {
		score -= penaltyDenied
	}

	if academic {
		if preferred, ok := preferredAcademic[originalLower]; ok {
			if containsFold(preferred, candidateLower) {
				score += bonusPreferredAcademic
			} else {
				score -= penaltyUnpreferred
			}
		}
	}

	score += domainBonus(contextLower)

	// Length similarity: replacements close to the original length
	// disturb layout and rhythm the least.
	lengthDiff := abs(len([]rune(original)) - len([]rune(candidate)))
	switch {
	case lengthDiff <= 2:
		score += bonusLengthClose
	case lengthDiff <= 4:
		score += bonusLengthNear
	default:
		score -= penaltyLengthFar
	}

	if academic && isFormalShape(candidate) {
		score += bonusFormalCandidate
	}

	for _, marker := range casualMarkers {
		if strings.Contains(candidateLower, marker) {
			score -= penaltyCasual
			break
		}
	}

	if strings.Contains(candidate, " ") {
		if academic && allowedCompounds[originalLower] {
			score += bonusAllowedCompound
		} else {
			score -= penaltyMultiword
		}
	}

	return clamp(score, scoreFloor, scoreCeil)
}

// domainBonus finds the dominant topical domain of the context and
// grants a bonus per matching pattern word.
func domainBonus(contextLower string) float64 {
	bestDomain := ""
	bestHits := 0
	for domain, keywords := range domainPatterns {
		hits := 0
		for _, keyword := range keywords {
			if strings.Contains(contextLower, keyword) {
				hits++
			}
		}
		if hits > bestHits || (hits == bestHits && hits > 0 && domain < bestDomain) {
			bestDomain = domain
			bestHits = hits
		}
	}
	if bestHits == 0 {
		return 0
	}
	return bonusDomainKeyword * float64(bestHits)
}

// isFormalShape reports whether candidate looks like a formal word:
// at least four characters, no digits.
func isFormalShape(candidate string) bool {
	if len([]rune(candidate)) < 4 {
		return false
	}
	for _, r := range candidate {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func containsFold(list []string, target string) bool {
	for _, item := range list {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
