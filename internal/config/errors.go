package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrNoInput is returned when no input document or text is specified.
	ErrNoInput = errors.New("no input specified: provide a file path, or - for stdin")

	// ErrInvalidSubstitutionRate is returned when the homoglyph
	// substitution rate is outside [0,1].
	ErrInvalidSubstitutionRate = errors.New("invalid substitution rate: must be in [0,1]")

	// ErrInvalidInsertionRate is returned when the invisible-character
	// insertion rate is outside [0,1].
	ErrInvalidInsertionRate = errors.New("invalid insertion rate: must be in [0,1]")

	// ErrInvalidReplacementRate is returned when the synonym replacement
	// rate is outside [0,1].
	ErrInvalidReplacementRate = errors.New("invalid replacement rate: must be in [0,1]")

	// ErrInvalidMaxConsecutive is returned when the consecutive-insertion
	// cap is below one. A cap of zero would suppress all insertions.
	ErrInvalidMaxConsecutive = errors.New("invalid max consecutive insertions: must be at least 1")

	// ErrInvalidMaxChanges is returned when the per-paragraph change cap
	// is below one.
	ErrInvalidMaxChanges = errors.New("invalid max changes per paragraph: must be at least 1")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidOracleTimeout is returned when the oracle timeout is not
	// positive. A zero timeout would fail every oracle call immediately.
	ErrInvalidOracleTimeout = errors.New("invalid oracle timeout: must be positive")

	// ErrInvalidMode is returned for an unknown substitution mode.
	ErrInvalidMode = errors.New("invalid substitution mode: must be char, word, or both")

	// ErrInvalidStrategy is returned for an unknown paraphrase strategy.
	ErrInvalidStrategy = errors.New("invalid strategy: must be auto, oracle_first, selector_first, parallel, or best_of_both")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrSkipRecentWithoutDB is returned when --skip-recent is used
	// together with --no-db. The check needs the run history.
	ErrSkipRecentWithoutDB = errors.New("--skip-recent requires persistence: remove --no-db")
)
