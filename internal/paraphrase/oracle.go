package paraphrase

import (
	"context"
	"errors"

	"github.com/nao1215/veiltext/internal/model"
)

var (
	// ErrOracleUnavailable is returned when an oracle cannot be reached,
	// times out, or was never configured.
	ErrOracleUnavailable = errors.New("paraphrase oracle unavailable")

	// ErrEmptyCandidate is returned when an oracle answers with no
	// usable candidate text.
	ErrEmptyCandidate = errors.New("paraphrase oracle returned empty candidate")
)

// Oracle produces an alternative phrasing of a text with a
// self-reported confidence in [0,1]. Implementations wrap external
// sequence-to-sequence models; the pipeline treats them as black
// boxes and never requires one for correctness.
type Oracle interface {
	// Generate paraphrases text. Blocking; implementations must honor
	// ctx cancellation and their own configured timeout.
	Generate(ctx context.Context, text string) (candidate string, confidence float64, err error)
}

// QualityOracle ranks a paraphrase candidate against its original.
// Used only to pick among candidates, never required to produce output.
type QualityOracle interface {
	// Assess scores candidate as a paraphrase of original. The context
	// string describes the text domain (e.g. "academic text").
	Assess(ctx context.Context, original, candidate, domain string) (model.QualityScore, error)
}
