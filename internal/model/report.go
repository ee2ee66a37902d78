package model

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"
)

// TransformReport is the main result structure for a single pipeline run.
// It accumulates the output of every stage: the paraphrase decision, the
// substitution and injection events, the final modified text, and the risk
// assessment of the finished artifact.
//
// Design decision: We use a single large struct rather than many small ones
// to simplify serialization and database storage, mirroring how each pipeline
// step receives and extends the same report value.
type TransformReport struct {
	// === Input identity ===

	// Source is the path or label of the input document ("-" for stdin).
	Source string `json:"source"`

	// Fingerprint is the hex SHAKE-256 fingerprint of the original
	// text, used as the stable document identity in the database.
	Fingerprint string `json:"fingerprint"`

	// DateProcessed is when the pipeline run started.
	DateProcessed time.Time `json:"date_processed"`

	// === Texts ===

	// OriginalText is the extracted input text.
	OriginalText string `json:"-"`

	// ModifiedText is the pipeline output. Stages read and replace it
	// in sequence; it starts equal to OriginalText.
	ModifiedText string `json:"-"`

	// === Stage results ===

	// Paraphrase is the paraphrase stage outcome, nil when the stage
	// was skipped or produced no candidate.
	Paraphrase *ParaphraseResult `json:"paraphrase,omitempty"`

	// Substitutions are the homoglyph substitution events.
	Substitutions []SubstitutionEvent `json:"substitutions,omitempty"`

	// Injections are the invisible-character insertion events.
	Injections []InjectionEvent `json:"injections,omitempty"`

	// Assessment is the risk evaluation of ModifiedText against
	// OriginalText, nil until the assess step runs.
	Assessment *RiskAssessment `json:"assessment,omitempty"`

	// Stats is the merged per-run change accumulator.
	Stats Stats `json:"stats"`

	// === Execution ===

	// PerformedSteps lists pipeline step names in execution order.
	PerformedSteps []string `json:"performed_steps"`

	// Error holds the first step error when a step failed critically.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error, for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// TimedOut is true when the run was cancelled before completion.
	TimedOut bool `json:"timed_out,omitempty"`
}

// NewTransformReport creates a report for the given source and extracted
// text. ModifiedText starts equal to the original so that a run in which
// every stage is a no-op still yields valid output.
func NewTransformReport(source, text string) *TransformReport {
	return &TransformReport{
		Source:        source,
		Fingerprint:   Fingerprint(text),
		DateProcessed: time.Now(),
		OriginalText:  text,
		ModifiedText:  text,
	}
}

// Fingerprint returns the hex SHAKE-256 (128-bit) fingerprint of a text.
// The fingerprint identifies a document across runs regardless of file path.
func Fingerprint(text string) string {
	sum := make([]byte, 16)
	sha3.ShakeSum256(sum, []byte(text))
	return hex.EncodeToString(sum)
}

// Changed reports whether the pipeline modified the text at all.
func (r *TransformReport) Changed() bool {
	return r.OriginalText != r.ModifiedText
}
