package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/nao1215/veiltext/internal/database"
	"github.com/nao1215/veiltext/internal/document"
	"github.com/nao1215/veiltext/internal/homoglyph"
	"github.com/nao1215/veiltext/internal/invisible"
	vlog "github.com/nao1215/veiltext/internal/log"
	"github.com/nao1215/veiltext/internal/model"
	"github.com/nao1215/veiltext/internal/paraphrase"
	"github.com/nao1215/veiltext/internal/pipeline"
	"github.com/nao1215/veiltext/internal/report"
	"github.com/nao1215/veiltext/internal/risk"
	"github.com/nao1215/veiltext/internal/synonym"
	"github.com/spf13/cobra"
)

// NewTransformCmd creates the transform command.
func NewTransformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform [file|-]...",
		Short: "Apply steganographic transformations to documents",
		Long: `Transform runs the full pipeline on one or more documents:
contextual paraphrasing, homoglyph substitution, invisible-character
injection, and a final detection-risk assessment.

Input may be plain text, Markdown, HTML, or PDF files, or - for stdin.
The modified text is written next to the source with a _veiled suffix
unless --output is given.

Examples:
  # Transform a single document with default settings
  veiltext transform skripsi.txt

  # Transform from stdin to stdout
  cat bab1.txt | veiltext transform -

  # Higher substitution rate, word-level only
  veiltext transform --rate 0.08 --mode word skripsi.txt

  # Reproducible run with a fixed seed and JSON report
  veiltext transform --seed 42 --json skripsi.txt

  # Transform several chapters concurrently
  veiltext transform --batch 4 bab1.txt bab2.txt bab3.txt bab4.txt

  # Skip chapters already transformed within the last day
  veiltext transform --skip-recent 24h bab1.txt bab2.txt

  # Use a named profile from a .veiltext file
  veiltext transform --profile-name abstract abstrak.txt

Profile file (.veiltext) example:
  defaults:
    substitutionRate: 0.03
    strategy: auto
  profiles:
    abstract:
      substitutionRate: 0.01
      maxChangesPerParagraph: 3`,
		Args: cobra.ArbitraryArgs,
		RunE: runTransformCmd,
	}

	// Substitution flags
	cmd.Flags().Float64P("rate", "r", config.DefaultSubstitutionRate,
		"Homoglyph substitution probability per codepoint (0 disables)")
	cmd.Flags().StringP("mode", "m", string(config.ModeBoth),
		"Substitution mode: char, word, or both")
	cmd.Flags().Int("max-changes", config.DefaultMaxChangesPerUnit,
		"Maximum substitutions per paragraph")
	cmd.Flags().StringSlice("safe-token", nil,
		"Token the substitution engine must never modify (repeatable)")

	// Injection flags
	cmd.Flags().Float64P("insert-rate", "i", config.DefaultInsertionRate,
		"Invisible-character insertion probability per boundary (0 disables)")
	cmd.Flags().Int("max-consecutive", config.DefaultMaxConsecutive,
		"Maximum consecutive invisible insertions")

	// Paraphrase flags
	cmd.Flags().StringP("strategy", "s", string(config.StrategyAuto),
		"Paraphrase strategy: auto, oracle_first, selector_first, parallel, or best_of_both")
	cmd.Flags().Float64("replacement-rate", config.DefaultReplacementRate,
		"Synonym replacement consideration probability per token")
	cmd.Flags().String("oracle-model", "",
		"Generative model for the paraphrase oracle (empty disables the oracle)")
	cmd.Flags().Duration("oracle-timeout", config.DefaultOracleTimeout,
		"Timeout for a single oracle call")

	// Data table flags
	cmd.Flags().String("tables", "",
		"Directory holding homoglyph.yaml and invisible.yaml (default: XDG config dir)")
	cmd.Flags().String("synonyms", "",
		"Synonym table JSON file (default: built-in table)")

	// Execution flags
	cmd.Flags().Int64("seed", 0,
		"Random seed for reproducible runs (0 seeds from entropy)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent transforms for multiple inputs")
	cmd.Flags().StringP("profile", "c", "",
		"Profile file path (default: .veiltext in current or home directory)")
	cmd.Flags().String("profile-name", "",
		"Named profile to apply from the profile file")
	cmd.Flags().Bool("no-db", false,
		"Skip persisting run results to the local database")
	cmd.Flags().Duration("skip-recent", 0,
		"Skip documents with a stored run younger than this (e.g. 24h)")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Write modified text to this path (single input only)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the report to this file path instead of the terminal")

	return cmd
}

// runTransformCmd executes the transform command.
func runTransformCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildTransformConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := vlog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runTransform(ctx, cfg, logger)
}

// buildTransformConfig creates a Config from cobra command flags.
func buildTransformConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	var err error

	cfg.SubstitutionRate, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}

	mode, err := cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}
	cfg.Mode = config.SubstitutionMode(mode)

	cfg.MaxChangesPerUnit, err = cmd.Flags().GetInt("max-changes")
	if err != nil {
		return nil, err
	}

	cfg.SafeTokens, err = cmd.Flags().GetStringSlice("safe-token")
	if err != nil {
		return nil, err
	}

	cfg.InsertionRate, err = cmd.Flags().GetFloat64("insert-rate")
	if err != nil {
		return nil, err
	}

	cfg.MaxConsecutive, err = cmd.Flags().GetInt("max-consecutive")
	if err != nil {
		return nil, err
	}

	strategy, err := cmd.Flags().GetString("strategy")
	if err != nil {
		return nil, err
	}
	cfg.Strategy = config.Strategy(strategy)

	cfg.ReplacementRate, err = cmd.Flags().GetFloat64("replacement-rate")
	if err != nil {
		return nil, err
	}

	cfg.OracleModel, err = cmd.Flags().GetString("oracle-model")
	if err != nil {
		return nil, err
	}

	cfg.OracleTimeout, err = cmd.Flags().GetDuration("oracle-timeout")
	if err != nil {
		return nil, err
	}

	cfg.TablePath, err = cmd.Flags().GetString("tables")
	if err != nil {
		return nil, err
	}
	if cfg.TablePath == "" {
		cfg.TablePath = config.XDGConfigDir()
	}

	cfg.SynonymPath, err = cmd.Flags().GetString("synonyms")
	if err != nil {
		return nil, err
	}

	cfg.Seed, err = cmd.Flags().GetInt64("seed")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ProfilePath, err = cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}

	profileName, err := cmd.Flags().GetString("profile-name")
	if err != nil {
		return nil, err
	}

	// Load profile overrides. An explicitly specified profile file must
	// exist; the implicit search may come up empty without error.
	explicitProfile := cfg.ProfilePath != ""
	profilePath := config.FindProfileFile(cfg.ProfilePath)
	if profilePath != "" {
		file, err := config.LoadProfileFile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile file %s: %w", profilePath, err)
		}
		cfg.Apply(file.GetProfile(profileName))
	} else if explicitProfile {
		return nil, fmt.Errorf("profile file not found: %s", cfg.ProfilePath)
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	if !noDB {
		cfg.DBDir = config.XDGDataDir()
	}
	cfg.SkipRecent, err = cmd.Flags().GetDuration("skip-recent")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Inputs = args

	return cfg, nil
}

// tables bundles the loaded data tables shared by every pipeline.
// All three are immutable and safe for concurrent reads.
type tables struct {
	homoglyphs *homoglyph.Table
	pool       *invisible.Pool
	synonyms   *synonym.Table
}

// loadTables loads the data tables, falling back to the compiled-in
// defaults when a file is missing or invalid. Only a degradation is
// logged; the run proceeds either way.
func loadTables(cfg *config.Config, logger *slog.Logger) tables {
	t := tables{
		homoglyphs: homoglyph.DefaultTable(),
		pool:       invisible.DefaultPool(),
		synonyms:   synonym.DefaultTable(),
	}

	homoglyphPath := filepath.Join(cfg.TablePath, "homoglyph.yaml")
	if loaded, err := homoglyph.LoadTable(homoglyphPath); err == nil {
		t.homoglyphs = loaded
	} else if !errors.Is(err, homoglyph.ErrTableNotFound) {
		logger.Warn("falling back to built-in homoglyph table", "path", homoglyphPath, "error", err)
	}

	poolPath := filepath.Join(cfg.TablePath, "invisible.yaml")
	if loaded, err := invisible.LoadPool(poolPath); err == nil {
		t.pool = loaded
	} else if !errors.Is(err, invisible.ErrPoolNotFound) {
		logger.Warn("falling back to built-in invisible character pool", "path", poolPath, "error", err)
	}

	if cfg.SynonymPath != "" {
		if loaded, err := synonym.LoadTable(cfg.SynonymPath); err == nil {
			t.synonyms = loaded
		} else {
			logger.Warn("falling back to built-in synonym table", "path", cfg.SynonymPath, "error", err)
		}
	}

	return t
}

// buildOracle constructs the paraphrase oracle when a model is
// configured. A construction failure disables the oracle rather than
// failing the run; the pipeline degrades to the selector path.
func buildOracle(ctx context.Context, cfg *config.Config, logger *slog.Logger) (paraphrase.Oracle, paraphrase.QualityOracle) {
	if cfg.OracleModel == "" {
		return nil, nil
	}

	oracle, err := paraphrase.NewGeminiOracle(ctx, os.Getenv("GEMINI_API_KEY"), cfg.OracleModel, cfg.OracleTimeout)
	if err != nil {
		logger.Warn("paraphrase oracle unavailable, using selector path only", "error", err)
		return nil, nil
	}
	return oracle, paraphrase.NewGeminiQuality(oracle)
}

// newEngines builds a fresh engine set for one pipeline run. Engines
// carry their own random sources and must not be shared across
// concurrent pipelines.
func newEngines(cfg *config.Config, t tables, oracle paraphrase.Oracle, quality paraphrase.QualityOracle, seed int64, logger *slog.Logger) pipeline.Engines {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	hybridOpts := []paraphrase.HybridOption{
		paraphrase.WithLogger(logger),
		paraphrase.WithReplacementRate(cfg.ReplacementRate),
		paraphrase.WithLengthThresholds(cfg.ShortTextThreshold, cfg.LongTextThreshold),
		paraphrase.WithOracleConfidenceGate(cfg.OracleConfidenceGate),
		paraphrase.WithMinSelectorChanges(cfg.MinSelectorChanges),
		paraphrase.WithSpliceGate(cfg.SpliceGate),
	}
	if oracle != nil {
		hybridOpts = append(hybridOpts, paraphrase.WithOracle(oracle))
	}
	if quality != nil {
		hybridOpts = append(hybridOpts, paraphrase.WithQuality(quality))
	}

	selector := synonym.NewSelector(t.synonyms, rand.New(rand.NewSource(seed)),
		synonym.WithQualityGate(cfg.QualityGate),
	)

	return pipeline.Engines{
		Hybrid: paraphrase.NewHybrid(selector, hybridOpts...),
		Substituter: homoglyph.NewEngine(t.homoglyphs, rand.New(rand.NewSource(seed+1)),
			homoglyph.WithWordBoost(cfg.WordBoost),
			homoglyph.WithMaxChangesPerUnit(cfg.MaxChangesPerUnit),
			homoglyph.WithSafeTokens(cfg.SafeTokens),
		),
		Injector: invisible.NewEngine(t.pool, rand.New(rand.NewSource(seed+2)),
			invisible.WithMaxChangesPerUnit(cfg.MaxChangesPerUnit),
		),
		Scorer: risk.NewScorer(cfg.Weights),
	}
}

// runTransform executes the transform for all configured inputs.
func runTransform(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.OutputFile != "" && len(cfg.Inputs) > 1 {
		return errors.New("--output requires exactly one input")
	}

	logger.Info("starting transform",
		"inputs", cfg.Inputs,
		"strategy", cfg.Strategy,
		"mode", cfg.Mode,
		"persist", cfg.DBDir != "",
	)

	// Open database connection if persistence is enabled
	var db *database.ResultDB
	if cfg.DBDir != "" {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	t := loadTables(cfg, logger)
	oracle, quality := buildOracle(ctx, cfg, logger)

	items, err := readInputs(cfg.Inputs)
	if err != nil {
		return err
	}

	if db != nil && cfg.SkipRecent > 0 {
		items, err = dropRecentRuns(ctx, db, items, cfg.SkipRecent, logger)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			logger.Info("all inputs were transformed recently, nothing to do")
			return nil
		}
	}

	if len(items) > 1 && cfg.BatchSize > 1 {
		return runBatchTransform(ctx, cfg, t, oracle, quality, items, db, logger)
	}
	return runSequentialTransform(ctx, cfg, t, oracle, quality, items, db, logger)
}

// dropRecentRuns filters out inputs that already have a stored run
// inside the window, matched by content fingerprint so renamed or
// copied files are still recognized.
func dropRecentRuns(ctx context.Context, db *database.ResultDB, items []pipeline.Item, window time.Duration, logger *slog.Logger) ([]pipeline.Item, error) {
	kept := make([]pipeline.Item, 0, len(items))
	for _, item := range items {
		recent, err := db.HasRecentRun(ctx, model.Fingerprint(item.Text), window)
		if err != nil {
			return nil, fmt.Errorf("failed to check run history for %s: %w", item.Source, err)
		}
		if recent {
			logger.Info("skipping recently transformed document",
				"source", item.Source,
				"window", window.String(),
			)
			continue
		}
		kept = append(kept, item)
	}
	return kept, nil
}

// readInputs extracts the text of every input document. "-" reads stdin.
func readInputs(inputs []string) ([]pipeline.Item, error) {
	items := make([]pipeline.Item, 0, len(inputs))
	for _, input := range inputs {
		if input == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			items = append(items, pipeline.Item{Source: "-", Text: string(data)})
			continue
		}

		text, err := document.Extract(input)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", input, err)
		}
		items = append(items, pipeline.Item{Source: input, Text: text})
	}
	return items, nil
}

// runSequentialTransform processes inputs one at a time.
func runSequentialTransform(ctx context.Context, cfg *config.Config, t tables, oracle paraphrase.Oracle, quality paraphrase.QualityOracle, items []pipeline.Item, db *database.ResultDB, logger *slog.Logger) error {
	for i, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		engines := newEngines(cfg, t, oracle, quality, offsetSeed(cfg.Seed, i), logger)
		p := pipeline.DefaultPipeline(cfg, engines,
			pipeline.WithLogger(logger),
			pipeline.WithContinueOnError(true),
		)

		runReport := model.NewTransformReport(item.Source, item.Text)

		startTime := time.Now()
		if err := p.Execute(ctx, runReport); err != nil {
			logger.Error("transform failed", "source", item.Source, "error", err)
			fmt.Fprintf(os.Stderr, "Transform error for %s: %v\n", item.Source, err)
			continue
		}
		logger.Info("transform completed",
			"source", item.Source,
			"elapsed", time.Since(startTime).Round(time.Millisecond),
			"changes", runReport.Stats.TotalChanges(),
		)

		if err := finishRun(ctx, cfg, runReport, db, logger); err != nil {
			return err
		}
	}
	return nil
}

// runBatchTransform processes inputs concurrently using BatchProcessor.
func runBatchTransform(ctx context.Context, cfg *config.Config, t tables, oracle paraphrase.Oracle, quality paraphrase.QualityOracle, items []pipeline.Item, db *database.ResultDB, logger *slog.Logger) error {
	fmt.Fprintf(os.Stderr, "Transforming %d documents (concurrency: %d)...\n",
		len(items), cfg.BatchSize)

	// Each pipeline gets its own engine set; the seeds are offset so
	// seeded batch runs stay reproducible without sharing rand state.
	var seedIndex int
	var seedMu sync.Mutex
	factory := func() *pipeline.Pipeline {
		seedMu.Lock()
		index := seedIndex
		seedIndex++
		seedMu.Unlock()

		engines := newEngines(cfg, t, oracle, quality, offsetSeed(cfg.Seed, index), logger)
		return pipeline.DefaultPipeline(cfg, engines,
			pipeline.WithLogger(logger),
			pipeline.WithContinueOnError(true),
		)
	}

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	var firstErr error
	err := bp.ProcessBatchWithCallback(ctx, items, func(runReport *model.TransformReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(os.Stderr, "[%d/%d] transformed: %s (%d changes)\n",
			index+1, len(items), runReport.Source, runReport.Stats.TotalChanges())

		if err := finishRun(ctx, cfg, runReport, db, logger); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	if err != nil {
		return err
	}
	return firstErr
}

// offsetSeed derives a per-document seed. Zero stays zero so entropy
// seeding is preserved when no seed was requested.
func offsetSeed(seed int64, index int) int64 {
	if seed == 0 {
		return 0
	}
	return seed + int64(index)
}

// finishRun writes the modified text, outputs the report, and persists
// the run.
func finishRun(ctx context.Context, cfg *config.Config, runReport *model.TransformReport, db *database.ResultDB, logger *slog.Logger) error {
	if err := writeModifiedText(cfg, runReport); err != nil {
		return err
	}

	if err := outputReport(cfg, runReport); err != nil {
		logger.Error("report failed", "source", runReport.Source, "error", err)
	}

	if db != nil {
		id, err := db.SaveRun(ctx, runReport)
		if err != nil {
			logger.Error("failed to save run", "source", runReport.Source, "error", err)
		} else {
			logger.Info("run saved", "source", runReport.Source, "id", id)
		}
	}

	return nil
}

// writeModifiedText writes the pipeline output text. Stdin input with
// no explicit output path goes to stdout; file input goes next to the
// source with a _veiled suffix.
func writeModifiedText(cfg *config.Config, runReport *model.TransformReport) error {
	if cfg.OutputFile != "" {
		if err := document.WriteOutput(cfg.OutputFile, runReport.ModifiedText); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if runReport.Source == "-" {
		_, err := io.WriteString(os.Stdout, runReport.ModifiedText)
		return err
	}

	outPath := document.OutputPath(runReport.Source)
	if err := document.WriteOutput(outPath, runReport.ModifiedText); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Modified text written to %s\n", outPath)
	return nil
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, runReport *model.TransformReport) error {
	output, closer, err := reportDestination(cfg, runReport)
	if err != nil {
		return err
	}
	defer closer()

	writer := selectWriter(cfg, output)
	_, err = writer.Write(runReport)
	return err
}

// reportDestination decides where the report goes. When the modified
// text already occupies stdout (stdin input without --output), the
// report moves to stderr so the two streams stay separable.
func reportDestination(cfg *config.Config, runReport *model.TransformReport) (io.Writer, func(), error) {
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create report file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}

	if runReport.Source == "-" && cfg.OutputFile == "" {
		return os.Stderr, func() {}, nil
	}
	return os.Stdout, func() {}, nil
}

// selectWriter returns the report writer for the configured format.
func selectWriter(cfg *config.Config, output io.Writer) report.Writer {
	if cfg.JSONReport {
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	}
	if cfg.MarkdownReport {
		return report.NewMarkdownWriter(output)
	}
	return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
}
