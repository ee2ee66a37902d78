package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values come from the heuristics that proved workable in practice:
// substitution and insertion rates low enough to stay under typical detector
// thresholds, change caps that prevent statistically visible clustering.
const (
	// DefaultSubstitutionRate is the per-codepoint homoglyph substitution
	// probability. 3% keeps Unicode density well below the ~5% level at
	// which script-distribution analysis flags a document.
	DefaultSubstitutionRate = 0.03

	// DefaultInsertionRate is the per-boundary invisible-character
	// insertion probability. 5% of eligible boundaries is enough to
	// change fingerprint n-grams without producing dense runs.
	DefaultInsertionRate = 0.05

	// DefaultWordBoost multiplies the substitution rate for whole-word
	// matches. Word-level entries (academic keywords) are rare but high
	// value, so they get a 3x higher chance than individual characters.
	DefaultWordBoost = 3.0

	// DefaultMaxConsecutive caps runs of consecutive invisible-character
	// insertions. Two or more adjacent zero-width codepoints are a known
	// statistical fingerprint, so the cap is 2.
	DefaultMaxConsecutive = 2

	// DefaultMaxChangesPerUnit caps substitutions within one text unit
	// (paragraph). Five changes per paragraph preserves readability and
	// avoids concentrating modifications in one place.
	DefaultMaxChangesPerUnit = 5

	// DefaultReplacementRate is the probability that an eligible token is
	// considered for synonym replacement during the selector pass.
	DefaultReplacementRate = 0.4

	// DefaultQualityGate is the minimum composite context score a synonym
	// candidate must reach to replace the original word.
	DefaultQualityGate = 0.65

	// DefaultSpliceGate is the minimum context score a selector
	// replacement must reach to be spliced into the oracle output in
	// best-of-both mode.
	DefaultSpliceGate = 0.8

	// DefaultOracleConfidenceGate is the oracle self-confidence below
	// which the oracle-first strategy also runs the selector path.
	DefaultOracleConfidenceGate = 0.6

	// DefaultMinSelectorChanges is the number of selector replacements
	// below which the selector-first strategy also invokes the oracle.
	DefaultMinSelectorChanges = 3

	// DefaultShortTextThreshold and DefaultLongTextThreshold are the
	// character lengths that drive automatic strategy selection:
	// below the short threshold the selector alone is faster and more
	// precise; above the long threshold both paths run in parallel.
	DefaultShortTextThreshold = 50
	DefaultLongTextThreshold  = 200

	// DefaultOracleTimeout bounds a single paraphrase-oracle call.
	// Model inference or a network round trip can be slow; on timeout
	// the oracle is treated as unavailable, never retried.
	DefaultOracleTimeout = 60 * time.Second

	// DefaultBatchSize is the number of concurrent document transforms
	// when processing multiple inputs.
	DefaultBatchSize = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "veiltext"
)

// Default risk-component weights for the overall risk score. The five
// weights sum to 1. They are heuristic calibration values, exposed as
// configuration rather than constants of nature.
const (
	DefaultWeightUnicodeDensity           = 0.30
	DefaultWeightZeroWidthDensity         = 0.20
	DefaultWeightPatternDetection         = 0.25
	DefaultWeightScriptMixing             = 0.15
	DefaultWeightModificationDistribution = 0.10
)

// SubstitutionMode selects the granularity of the substitution engine.
type SubstitutionMode string

const (
	// ModeChar substitutes individual codepoints only.
	ModeChar SubstitutionMode = "char"
	// ModeWord substitutes whole-word table entries only.
	ModeWord SubstitutionMode = "word"
	// ModeBoth applies word-level substitution first, then char-level.
	ModeBoth SubstitutionMode = "both"
)

// Strategy selects how the paraphrase stage combines the oracle and the
// contextual synonym selector.
type Strategy string

const (
	// StrategyAuto picks a strategy from the input length and the
	// availability of the oracle.
	StrategyAuto Strategy = "auto"
	// StrategyOracleFirst runs the oracle, falling back to the selector
	// when oracle confidence is low.
	StrategyOracleFirst Strategy = "oracle_first"
	// StrategySelectorFirst runs the selector, adding the oracle when
	// too few words changed.
	StrategySelectorFirst Strategy = "selector_first"
	// StrategyParallel runs both paths unconditionally.
	StrategyParallel Strategy = "parallel"
	// StrategyBestOfBoth runs both paths and additionally tries a
	// spliced combination of the two.
	StrategyBestOfBoth Strategy = "best_of_both"
)

// RiskWeights holds the component weights of the overall risk score.
type RiskWeights struct {
	UnicodeDensity           float64 `yaml:"unicodeDensity"`
	ZeroWidthDensity         float64 `yaml:"zeroWidthDensity"`
	PatternDetection         float64 `yaml:"patternDetection"`
	ScriptMixing             float64 `yaml:"scriptMixing"`
	ModificationDistribution float64 `yaml:"modificationDistribution"`
}

// DefaultRiskWeights returns the default component weights.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		UnicodeDensity:           DefaultWeightUnicodeDensity,
		ZeroWidthDensity:         DefaultWeightZeroWidthDensity,
		PatternDetection:         DefaultWeightPatternDetection,
		ScriptMixing:             DefaultWeightScriptMixing,
		ModificationDistribution: DefaultWeightModificationDistribution,
	}
}

// Config holds all configuration options for veiltext.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
type Config struct {
	// SubstitutionRate is the per-codepoint homoglyph substitution
	// probability in [0,1]. Zero disables the substitution stage.
	SubstitutionRate float64

	// WordBoost multiplies SubstitutionRate for whole-word matches.
	// The effective word probability is min(1, rate*WordBoost).
	WordBoost float64

	// Mode selects char-level, word-level, or combined substitution.
	Mode SubstitutionMode

	// InsertionRate is the per-boundary invisible-character insertion
	// probability in [0,1]. Zero disables the injection stage.
	InsertionRate float64

	// MaxConsecutive caps runs of consecutive invisible insertions.
	MaxConsecutive int

	// MaxChangesPerUnit caps substitutions within one paragraph.
	MaxChangesPerUnit int

	// SafeTokens are tokens the substitution engine must never touch
	// (citation keys, URLs, identifiers the caller wants preserved).
	SafeTokens []string

	// ReplacementRate is the per-token synonym consideration probability.
	ReplacementRate float64

	// QualityGate is the minimum synonym context score, default 0.65.
	QualityGate float64

	// SpliceGate is the best-of-both splice threshold, default 0.8.
	SpliceGate float64

	// OracleConfidenceGate triggers the selector fallback in
	// oracle-first mode when oracle confidence falls below it.
	OracleConfidenceGate float64

	// MinSelectorChanges triggers the oracle in selector-first mode
	// when fewer replacements were made.
	MinSelectorChanges int

	// ShortTextThreshold and LongTextThreshold drive StrategyAuto.
	ShortTextThreshold int
	LongTextThreshold  int

	// Strategy selects the paraphrase strategy.
	Strategy Strategy

	// OracleTimeout bounds a single oracle call.
	OracleTimeout time.Duration

	// OracleModel is the generative model used by the oracle adapters.
	// Empty disables the oracle entirely; the pipeline then runs on the
	// synonym path only.
	OracleModel string

	// Weights are the risk-score component weights.
	Weights RiskWeights

	// Seed seeds the injected random source. Zero means seed from
	// entropy; any other value makes runs reproducible.
	Seed int64

	// BatchSize is the number of concurrent transforms.
	BatchSize int

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// JSONReport and MarkdownReport select the report format.
	// Mutually exclusive; both false means the simple text report.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// OutputFile writes the modified text to a file. Empty writes it
	// next to the source with a suffix, or to stdout for stdin input.
	OutputFile string

	// DBDir enables persistence of run results under the given
	// directory. Empty disables persistence.
	DBDir string

	// SkipRecent skips documents that already have a stored run
	// younger than this window. Zero disables the check; it needs
	// persistence to be enabled.
	SkipRecent time.Duration

	// ProfilePath is the path to the .veiltext profile file. Empty
	// triggers the usual search (working directory, then home).
	ProfilePath string

	// TablePath overrides the homoglyph/invisible table file location.
	// Empty loads from the XDG config dir, falling back to the
	// compiled-in defaults.
	TablePath string

	// SynonymPath is the synonym table JSON file. Empty disables the
	// synonym selector beyond the compiled-in minimal table.
	SynonymPath string

	// Inputs are the documents to process.
	Inputs []string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (rates, thresholds, caps).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		SubstitutionRate:     DefaultSubstitutionRate,
		WordBoost:            DefaultWordBoost,
		Mode:                 ModeBoth,
		InsertionRate:        DefaultInsertionRate,
		MaxConsecutive:       DefaultMaxConsecutive,
		MaxChangesPerUnit:    DefaultMaxChangesPerUnit,
		ReplacementRate:      DefaultReplacementRate,
		QualityGate:          DefaultQualityGate,
		SpliceGate:           DefaultSpliceGate,
		OracleConfidenceGate: DefaultOracleConfidenceGate,
		MinSelectorChanges:   DefaultMinSelectorChanges,
		ShortTextThreshold:   DefaultShortTextThreshold,
		LongTextThreshold:    DefaultLongTextThreshold,
		Strategy:             StrategyAuto,
		OracleTimeout:        DefaultOracleTimeout,
		Weights:              DefaultRiskWeights(),
		BatchSize:            DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for veiltext.
// On Linux: ~/.local/share/veiltext
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for veiltext.
// On Linux: ~/.config/veiltext
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for veiltext.
// On Linux: ~/.cache/veiltext
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each point
// of use to fail fast and provide clear error messages upfront. This is
// called once after CLI parsing, before any processing begins. We return the
// first error found rather than collecting all errors because fixing one
// error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	if c.SubstitutionRate < 0 || c.SubstitutionRate > 1 {
		return ErrInvalidSubstitutionRate
	}
	if c.InsertionRate < 0 || c.InsertionRate > 1 {
		return ErrInvalidInsertionRate
	}
	if c.ReplacementRate < 0 || c.ReplacementRate > 1 {
		return ErrInvalidReplacementRate
	}
	if c.MaxConsecutive < 1 {
		return ErrInvalidMaxConsecutive
	}
	if c.MaxChangesPerUnit < 1 {
		return ErrInvalidMaxChanges
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.OracleTimeout <= 0 {
		return ErrInvalidOracleTimeout
	}
	switch c.Mode {
	case ModeChar, ModeWord, ModeBoth:
	default:
		return ErrInvalidMode
	}
	switch c.Strategy {
	case StrategyAuto, StrategyOracleFirst, StrategySelectorFirst, StrategyParallel, StrategyBestOfBoth:
	default:
		return ErrInvalidStrategy
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.SkipRecent > 0 && c.DBDir == "" {
		return ErrSkipRecentWithoutDB
	}
	return nil
}
