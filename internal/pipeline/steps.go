package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/nao1215/veiltext/internal/homoglyph"
	"github.com/nao1215/veiltext/internal/invisible"
	"github.com/nao1215/veiltext/internal/model"
	"github.com/nao1215/veiltext/internal/paraphrase"
	"github.com/nao1215/veiltext/internal/risk"
)

// ParaphraseStep rewrites the text through the hybrid strategy selector
// before any character-level technique touches it.
//
// Design decision: Paraphrasing runs first because:
// 1. The synonym selector must see clean text; homoglyph-substituted
//    words no longer match the table's headwords
// 2. The oracle path produces natural text that the later stages then
//    modify at the character level
// 3. A failed or skipped paraphrase leaves valid text for the rest
type ParaphraseStep struct {
	// hybrid is the strategy selector; nil disables the step.
	hybrid *paraphrase.Hybrid

	// strategy selects the paraphrase strategy to run.
	strategy config.Strategy

	// logger for structured logging.
	logger *slog.Logger
}

// ParaphraseStepOption configures a ParaphraseStep.
type ParaphraseStepOption func(*ParaphraseStep)

// WithParaphraseStrategy sets the strategy the step requests.
func WithParaphraseStrategy(strategy config.Strategy) ParaphraseStepOption {
	return func(s *ParaphraseStep) {
		if strategy != "" {
			s.strategy = strategy
		}
	}
}

// WithParaphraseLogger sets a custom logger for the paraphrase step.
func WithParaphraseLogger(logger *slog.Logger) ParaphraseStepOption {
	return func(s *ParaphraseStep) {
		s.logger = logger
	}
}

// NewParaphraseStep creates a new paraphrase step around the hybrid
// strategy selector.
func NewParaphraseStep(hybrid *paraphrase.Hybrid, opts ...ParaphraseStepOption) *ParaphraseStep {
	s := &ParaphraseStep{
		hybrid:   hybrid,
		strategy: config.StrategyAuto,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ParaphraseStep) Name() string {
	return "paraphrase"
}

// Do executes the paraphrase step.
func (s *ParaphraseStep) Do(ctx context.Context, report *model.TransformReport) error {
	if s.hybrid == nil {
		s.logger.Debug("skipping paraphrase, no strategy selector configured")
		return nil
	}

	result := s.hybrid.Paraphrase(ctx, report.ModifiedText, s.strategy)
	report.Paraphrase = &result
	report.ModifiedText = result.CandidateText
	report.Stats = report.Stats.Merge(model.Stats{
		SynonymReplacements: len(result.Replacements),
		PhraseRewrites:      result.PhraseRewrites,
	})

	s.logger.Info("paraphrase completed",
		"winner", string(result.Source),
		"quality", result.Quality,
		"replacements", len(result.Replacements),
	)
	return nil
}

// SubstituteStep replaces characters and words with visually-confusable
// equivalents from the homoglyph table.
type SubstituteStep struct {
	// engine is the substitution engine.
	engine *homoglyph.Engine

	// rate is the per-codepoint substitution probability.
	rate float64

	// mode selects char-level, word-level, or combined substitution.
	mode config.SubstitutionMode

	// logger for structured logging.
	logger *slog.Logger
}

// SubstituteStepOption configures a SubstituteStep.
type SubstituteStepOption func(*SubstituteStep)

// WithSubstituteRate sets the substitution probability.
func WithSubstituteRate(rate float64) SubstituteStepOption {
	return func(s *SubstituteStep) {
		s.rate = rate
	}
}

// WithSubstituteMode selects the substitution granularity.
func WithSubstituteMode(mode config.SubstitutionMode) SubstituteStepOption {
	return func(s *SubstituteStep) {
		if mode != "" {
			s.mode = mode
		}
	}
}

// WithSubstituteLogger sets a custom logger for the substitution step.
func WithSubstituteLogger(logger *slog.Logger) SubstituteStepOption {
	return func(s *SubstituteStep) {
		s.logger = logger
	}
}

// NewSubstituteStep creates a new homoglyph substitution step.
func NewSubstituteStep(engine *homoglyph.Engine, opts ...SubstituteStepOption) *SubstituteStep {
	s := &SubstituteStep{
		engine: engine,
		rate:   config.DefaultSubstitutionRate,
		mode:   config.ModeBoth,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SubstituteStep) Name() string {
	return "substitute"
}

// Do executes the substitution step.
func (s *SubstituteStep) Do(_ context.Context, report *model.TransformReport) error {
	if s.engine == nil || s.rate <= 0 {
		s.logger.Debug("skipping substitution, stage disabled")
		return nil
	}

	modified, events := s.engine.Substitute(report.ModifiedText, s.rate, s.mode)
	report.ModifiedText = modified
	report.Substitutions = append(report.Substitutions, events...)

	var stats model.Stats
	for _, event := range events {
		switch event.Unit {
		case model.UnitWord:
			stats.WordsSubstituted++
		case model.UnitChar:
			stats.CharsSubstituted++
		}
	}
	report.Stats = report.Stats.Merge(stats)

	s.logger.Info("substitution completed",
		"words", stats.WordsSubstituted,
		"chars", stats.CharsSubstituted,
	)
	return nil
}

// InjectStep inserts invisible characters at word boundaries.
type InjectStep struct {
	// engine is the injection engine.
	engine *invisible.Engine

	// rate is the per-boundary insertion probability.
	rate float64

	// maxConsecutive caps runs of consecutively filled boundaries.
	maxConsecutive int

	// logger for structured logging.
	logger *slog.Logger
}

// InjectStepOption configures an InjectStep.
type InjectStepOption func(*InjectStep)

// WithInjectRate sets the insertion probability.
func WithInjectRate(rate float64) InjectStepOption {
	return func(s *InjectStep) {
		s.rate = rate
	}
}

// WithInjectMaxConsecutive caps consecutive insertions.
func WithInjectMaxConsecutive(n int) InjectStepOption {
	return func(s *InjectStep) {
		if n > 0 {
			s.maxConsecutive = n
		}
	}
}

// WithInjectLogger sets a custom logger for the injection step.
func WithInjectLogger(logger *slog.Logger) InjectStepOption {
	return func(s *InjectStep) {
		s.logger = logger
	}
}

// NewInjectStep creates a new invisible-character injection step.
func NewInjectStep(engine *invisible.Engine, opts ...InjectStepOption) *InjectStep {
	s := &InjectStep{
		engine:         engine,
		rate:           config.DefaultInsertionRate,
		maxConsecutive: config.DefaultMaxConsecutive,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *InjectStep) Name() string {
	return "inject"
}

// Do executes the injection step.
func (s *InjectStep) Do(_ context.Context, report *model.TransformReport) error {
	if s.engine == nil || s.rate <= 0 {
		s.logger.Debug("skipping injection, stage disabled")
		return nil
	}

	modified, events := s.engine.Inject(report.ModifiedText, s.rate, s.maxConsecutive)
	report.ModifiedText = modified
	report.Injections = append(report.Injections, events...)
	report.Stats = report.Stats.Merge(model.Stats{InvisibleInserted: len(events)})

	s.logger.Info("injection completed", "insertions", len(events))
	return nil
}

// AssessStep evaluates the finished text against the original and
// attaches the risk assessment to the report.
//
// Design decision: Assessment is a pipeline step rather than a caller
// concern because every run should carry its own evaluation; a transform
// whose output was never scored is not a finished result.
type AssessStep struct {
	// scorer computes the risk assessment.
	scorer *risk.Scorer

	// logger for structured logging.
	logger *slog.Logger
}

// AssessStepOption configures an AssessStep.
type AssessStepOption func(*AssessStep)

// WithAssessLogger sets a custom logger for the assessment step.
func WithAssessLogger(logger *slog.Logger) AssessStepOption {
	return func(s *AssessStep) {
		s.logger = logger
	}
}

// NewAssessStep creates a new risk assessment step.
func NewAssessStep(scorer *risk.Scorer, opts ...AssessStepOption) *AssessStep {
	s := &AssessStep{
		scorer: scorer,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AssessStep) Name() string {
	return "assess"
}

// Do executes the assessment step.
func (s *AssessStep) Do(_ context.Context, report *model.TransformReport) error {
	if s.scorer == nil {
		s.logger.Debug("skipping assessment, no scorer configured")
		return nil
	}

	assessment := s.scorer.Assess(report.OriginalText, report.ModifiedText)
	report.Assessment = &assessment

	s.logger.Info("assessment completed",
		"risk", assessment.OverallRisk,
		"level", assessment.LevelText,
	)
	return nil
}

// Engines bundles the per-run engines a default pipeline needs. A fresh
// Engines value must be built for every pipeline instance: the engines
// carry their own random sources and are not safe for concurrent use.
type Engines struct {
	// Hybrid is the paraphrase strategy selector, nil to skip the stage.
	Hybrid *paraphrase.Hybrid

	// Substituter is the homoglyph engine, nil to skip the stage.
	Substituter *homoglyph.Engine

	// Injector is the invisible-character engine, nil to skip the stage.
	Injector *invisible.Engine

	// Scorer is the risk scorer, nil to skip the stage.
	Scorer *risk.Scorer
}

// DefaultPipeline creates a pipeline with all default steps configured
// from cfg, in the canonical order: paraphrase, substitute, inject, assess.
//
// Design decision: We provide a default pipeline because:
// 1. Most users want the full transform
// 2. Reduces boilerplate in the CLI
// 3. Ensures consistent stage ordering
func DefaultPipeline(cfg *config.Config, engines Engines, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)

	p.AddSteps(
		NewParaphraseStep(engines.Hybrid,
			WithParaphraseStrategy(cfg.Strategy),
			WithParaphraseLogger(p.logger),
		),
		NewSubstituteStep(engines.Substituter,
			WithSubstituteRate(cfg.SubstitutionRate),
			WithSubstituteMode(cfg.Mode),
			WithSubstituteLogger(p.logger),
		),
		NewInjectStep(engines.Injector,
			WithInjectRate(cfg.InsertionRate),
			WithInjectMaxConsecutive(cfg.MaxConsecutive),
			WithInjectLogger(p.logger),
		),
		NewAssessStep(engines.Scorer,
			WithAssessLogger(p.logger),
		),
	)

	return p
}
