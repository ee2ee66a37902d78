package model

// ParaphraseSource identifies which path produced a paraphrase candidate.
//
// Design decision: The source repertoire is a closed set decided at selection
// time, so we use typed string constants rather than free-form labels. Strings
// (not iota) because the value is stored in the database and shown in reports,
// and a self-describing value survives schema evolution better than an int.
type ParaphraseSource string

const (
	// SourceOriginal means no candidate beat the original text; the
	// pipeline passed the input through unchanged.
	SourceOriginal ParaphraseSource = "original"

	// SourceOracle means the external paraphrase oracle's candidate won.
	SourceOracle ParaphraseSource = "oracle"

	// SourceSelector means the contextual synonym selector's candidate won.
	SourceSelector ParaphraseSource = "selector"

	// SourceHybrid means a spliced combination of oracle output and
	// high-scoring selector replacements won.
	SourceHybrid ParaphraseSource = "hybrid"
)

// ParaphraseResult is the canonical outcome of a paraphrase strategy run.
// It is created once per call, consumed by the strategy selector, and kept
// only for reporting.
//
// Design decision: The original implementation grew several near-duplicate
// result records with overlapping field sets. We define exactly one and use
// it uniformly across the oracle path, the selector path, and the hybrid
// combination.
type ParaphraseResult struct {
	// OriginalText is the input text.
	OriginalText string `json:"original_text"`

	// CandidateText is the winning paraphrase. Equal to OriginalText
	// when Source is SourceOriginal.
	CandidateText string `json:"candidate_text"`

	// Source identifies the path that produced the winning candidate.
	Source ParaphraseSource `json:"source"`

	// Quality is the externally-assessed (or heuristic) quality score
	// of the winning candidate in [0,1].
	Quality float64 `json:"quality"`

	// OracleConfidence is the oracle's self-reported confidence for its
	// candidate, zero when the oracle did not run.
	OracleConfidence float64 `json:"oracle_confidence,omitempty"`

	// Replacements are the synonym replacements applied on the selector
	// path, empty when only the oracle ran.
	Replacements []Replacement `json:"replacements,omitempty"`

	// PhraseRewrites counts the stock academic-phrase rewrites applied
	// on the selector path.
	PhraseRewrites int `json:"phrase_rewrites,omitempty"`

	// QualityBySource records the assessed quality of every candidate
	// that was scored, keyed by source name. Used for reporting.
	QualityBySource map[ParaphraseSource]float64 `json:"quality_by_source,omitempty"`

	// SimilarityReduction is the fraction, in [0,1], of original word
	// types no longer present in the candidate. A rough, local effectiveness
	// measure; the risk scorer is the authoritative evaluation.
	SimilarityReduction float64 `json:"similarity_reduction"`
}

// QualityScore is the structured result of a quality-oracle assessment.
type QualityScore struct {
	// Overall is the weighted overall quality in [0,1].
	Overall float64 `json:"overall"`

	// Naturalness scores how natural the candidate reads.
	Naturalness float64 `json:"naturalness"`

	// AcademicFit scores register appropriateness for formal text.
	AcademicFit float64 `json:"academic_fit"`

	// MeaningPreservation scores semantic fidelity to the original.
	MeaningPreservation float64 `json:"meaning_preservation"`

	// Grammar scores grammatical correctness.
	Grammar float64 `json:"grammar"`

	// FlaggedIssues lists concrete problems the assessor found.
	FlaggedIssues []string `json:"flagged_issues,omitempty"`
}
