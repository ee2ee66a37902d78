package paraphrase

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/nao1215/veiltext/internal/model"
	"github.com/nao1215/veiltext/internal/synonym"
)

// candidate is one scored paraphrase produced by a single path.
type candidate struct {
	source       model.ParaphraseSource
	text         string
	confidence   float64
	replacements []model.Replacement
	rewrites     int
	reduction    float64
	quality      float64
}

// Hybrid chooses among the oracle path and the selector path, scores
// every candidate through the quality oracle, and returns the winner.
type Hybrid struct {
	// selector is the synonym path; always available.
	selector *synonym.Selector
	// oracle is the external paraphrase path, nil when unavailable.
	oracle Oracle
	// quality ranks candidates; may fail, heuristic is the fallback.
	quality QualityOracle
	// heuristic is the always-available local quality fallback.
	heuristic *HeuristicQuality
	// logger reports degradations.
	logger *slog.Logger

	replacementRate    float64
	shortThreshold     int
	longThreshold      int
	confidenceGate     float64
	minSelectorChanges int
	spliceGate         float64
}

// HybridOption configures a Hybrid.
type HybridOption func(*Hybrid)

// WithOracle attaches an external paraphrase oracle. Passing nil keeps
// the selector-only configuration.
func WithOracle(oracle Oracle) HybridOption {
	return func(h *Hybrid) { h.oracle = oracle }
}

// WithQuality attaches an external quality oracle. The heuristic
// fallback still applies when it errors.
func WithQuality(quality QualityOracle) HybridOption {
	return func(h *Hybrid) {
		if quality != nil {
			h.quality = quality
		}
	}
}

// WithLogger sets the logger used for degradation reports.
func WithLogger(logger *slog.Logger) HybridOption {
	return func(h *Hybrid) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithReplacementRate sets the token replacement rate for the selector path.
func WithReplacementRate(rate float64) HybridOption {
	return func(h *Hybrid) {
		if rate > 0 {
			h.replacementRate = rate
		}
	}
}

// WithOracleConfidenceGate sets the confidence below which the
// oracle-first strategy also runs the selector path.
func WithOracleConfidenceGate(gate float64) HybridOption {
	return func(h *Hybrid) {
		if gate > 0 {
			h.confidenceGate = gate
		}
	}
}

// WithMinSelectorChanges sets the replacement count below which the
// selector-first strategy also consults the oracle.
func WithMinSelectorChanges(n int) HybridOption {
	return func(h *Hybrid) {
		if n > 0 {
			h.minSelectorChanges = n
		}
	}
}

// WithSpliceGate sets the minimum context score a selector replacement
// needs before best_of_both splices it into the oracle candidate.
func WithSpliceGate(gate float64) HybridOption {
	return func(h *Hybrid) {
		if gate > 0 {
			h.spliceGate = gate
		}
	}
}

// WithLengthThresholds overrides the auto-strategy length cutoffs.
func WithLengthThresholds(short, long int) HybridOption {
	return func(h *Hybrid) {
		if short > 0 {
			h.shortThreshold = short
		}
		if long > short {
			h.longThreshold = long
		}
	}
}

// NewHybrid creates a strategy selector around the synonym selector.
// With no options the oracle path is absent and quality falls back to
// local heuristics.
func NewHybrid(selector *synonym.Selector, opts ...HybridOption) *Hybrid {
	heuristic := NewHeuristicQuality()
	h := &Hybrid{
		selector:           selector,
		quality:            heuristic,
		heuristic:          heuristic,
		logger:             slog.Default(),
		replacementRate:    config.DefaultReplacementRate,
		shortThreshold:     config.DefaultShortTextThreshold,
		longThreshold:      config.DefaultLongTextThreshold,
		confidenceGate:     config.DefaultOracleConfidenceGate,
		minSelectorChanges: config.DefaultMinSelectorChanges,
		spliceGate:         config.DefaultSpliceGate,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OracleAvailable reports whether the oracle path can run.
func (h *Hybrid) OracleAvailable() bool { return h.oracle != nil }

// Paraphrase runs the chosen strategy over text. It never fails: when
// every path degrades, the original text comes back as the winning
// candidate with SourceOriginal.
func (h *Hybrid) Paraphrase(ctx context.Context, text string, strategy config.Strategy) model.ParaphraseResult {
	if strings.TrimSpace(text) == "" {
		return model.ParaphraseResult{
			OriginalText:  text,
			CandidateText: text,
			Source:        model.SourceOriginal,
		}
	}

	resolved := h.resolve(text, strategy)
	candidates := h.runPaths(ctx, text, resolved)
	h.scoreCandidates(ctx, text, candidates)

	if resolved == config.StrategyBestOfBoth {
		if spliced := h.splice(ctx, text, candidates); spliced != nil {
			candidates = append(candidates, spliced)
		}
	}

	return h.pick(text, candidates)
}

// resolve maps the auto strategy to a concrete one from the input
// length and oracle availability.
func (h *Hybrid) resolve(text string, strategy config.Strategy) config.Strategy {
	if strategy != config.StrategyAuto {
		if !h.OracleAvailable() && strategy != config.StrategySelectorFirst {
			// Without an oracle every strategy degenerates to the
			// selector path; record that rather than pretending.
			h.logger.Debug("oracle not configured, using selector only", "requested", string(strategy))
		}
		return strategy
	}

	length := len([]rune(text))
	switch {
	case length < h.shortThreshold:
		return config.StrategySelectorFirst
	case length < h.longThreshold:
		if h.OracleAvailable() {
			return config.StrategyOracleFirst
		}
		return config.StrategySelectorFirst
	default:
		if h.OracleAvailable() {
			return config.StrategyParallel
		}
		return config.StrategySelectorFirst
	}
}

// runPaths executes the paths the strategy demands and returns the raw
// candidates.
func (h *Hybrid) runPaths(ctx context.Context, text string, strategy config.Strategy) []*candidate {
	var candidates []*candidate

	switch strategy {
	case config.StrategyOracleFirst:
		oracleCand := h.runOracle(ctx, text)
		if oracleCand != nil {
			candidates = append(candidates, oracleCand)
		}
		if oracleCand == nil || oracleCand.confidence < h.confidenceGate {
			candidates = append(candidates, h.runSelector(text))
		}

	case config.StrategySelectorFirst:
		selectorCand := h.runSelector(text)
		candidates = append(candidates, selectorCand)
		if len(selectorCand.replacements) < h.minSelectorChanges && h.OracleAvailable() {
			if oracleCand := h.runOracle(ctx, text); oracleCand != nil {
				candidates = append(candidates, oracleCand)
			}
		}

	default: // parallel and best_of_both run both unconditionally.
		if oracleCand := h.runOracle(ctx, text); oracleCand != nil {
			candidates = append(candidates, oracleCand)
		}
		candidates = append(candidates, h.runSelector(text))
	}

	return candidates
}

// runOracle invokes the oracle path, degrading to nil on any failure.
func (h *Hybrid) runOracle(ctx context.Context, text string) *candidate {
	if h.oracle == nil {
		return nil
	}

	generated, confidence, err := h.oracle.Generate(ctx, text)
	if err != nil {
		h.logger.Warn("paraphrase oracle failed, continuing without it", "error", err)
		return nil
	}
	return &candidate{
		source:     model.SourceOracle,
		text:       generated,
		confidence: confidence,
	}
}

// runSelector invokes the synonym path. It never fails; the worst case
// is an unchanged text with zero replacements.
func (h *Hybrid) runSelector(text string) *candidate {
	paraphrased, replacements, reduction := h.selector.Paraphrase(text, h.replacementRate)
	rewritten, rewrites := h.selector.RewritePhrases(paraphrased)

	return &candidate{
		source:       model.SourceSelector,
		text:         rewritten,
		replacements: replacements,
		rewrites:     rewrites,
		reduction:    reduction,
	}
}

// scoreCandidates assigns a quality score to every candidate, falling
// back to the heuristic assessor when the quality oracle errors.
func (h *Hybrid) scoreCandidates(ctx context.Context, original string, candidates []*candidate) {
	for _, cand := range candidates {
		cand.quality = h.assess(ctx, original, cand.text)
	}
}

func (h *Hybrid) assess(ctx context.Context, original, candidateText string) float64 {
	score, err := h.quality.Assess(ctx, original, candidateText, "teks akademik")
	if err != nil {
		h.logger.Warn("quality oracle failed, using heuristic assessment", "error", err)
		score, _ = h.heuristic.Assess(ctx, original, candidateText, "teks akademik")
	}
	return score.Overall
}

// splice starts from the oracle candidate and applies every selector
// replacement whose context score clears the splice gate, then adopts
// the combination only when it outscores both inputs.
func (h *Hybrid) splice(ctx context.Context, original string, candidates []*candidate) *candidate {
	var oracleCand, selectorCand *candidate
	for _, cand := range candidates {
		switch cand.source {
		case model.SourceOracle:
			oracleCand = cand
		case model.SourceSelector:
			selectorCand = cand
		}
	}
	if oracleCand == nil || selectorCand == nil {
		return nil
	}

	spliced := oracleCand.text
	applied := 0
	for _, replacement := range selectorCand.replacements {
		if replacement.Score <= h.spliceGate {
			continue
		}
		from := trimToken(replacement.Original)
		to := trimToken(replacement.Replacement)
		if from == "" || to == "" {
			continue
		}
		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(from) + `\b`)
		if err != nil {
			continue
		}
		if pattern.MatchString(spliced) {
			spliced = pattern.ReplaceAllString(spliced, to)
			applied++
		}
	}
	if applied == 0 || spliced == oracleCand.text {
		return nil
	}

	quality := h.assess(ctx, original, spliced)
	if quality <= oracleCand.quality || quality <= selectorCand.quality {
		return nil
	}
	return &candidate{
		source:       model.SourceHybrid,
		text:         spliced,
		confidence:   oracleCand.confidence,
		replacements: selectorCand.replacements,
		quality:      quality,
	}
}

// pick selects the winner: highest quality, ties preferring the oracle
// candidate, and builds the canonical result.
func (h *Hybrid) pick(original string, candidates []*candidate) model.ParaphraseResult {
	qualityBySource := make(map[model.ParaphraseSource]float64, len(candidates))
	var winner *candidate
	for _, cand := range candidates {
		qualityBySource[cand.source] = cand.quality
		if winner == nil ||
			cand.quality > winner.quality ||
			(cand.quality == winner.quality && cand.source == model.SourceOracle) {
			winner = cand
		}
	}
	if winner == nil {
		return model.ParaphraseResult{
			OriginalText:  original,
			CandidateText: original,
			Source:        model.SourceOriginal,
		}
	}

	result := model.ParaphraseResult{
		OriginalText:        original,
		CandidateText:       winner.text,
		Source:              winner.source,
		Quality:             winner.quality,
		OracleConfidence:    winner.confidence,
		Replacements:        winner.replacements,
		PhraseRewrites:      winner.rewrites,
		QualityBySource:     qualityBySource,
		SimilarityReduction: winner.reduction,
	}
	if winner.text == original {
		result.Source = model.SourceOriginal
	}
	return result
}

// trimToken strips leading and trailing non-alphanumeric characters.
func trimToken(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
