package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/nao1215/veiltext/internal/database"
	"github.com/nao1215/veiltext/internal/document"
	"github.com/nao1215/veiltext/internal/model"
	"github.com/nao1215/veiltext/internal/report"
	"github.com/nao1215/veiltext/internal/risk"
	"github.com/spf13/cobra"
)

// NewAssessCmd creates the assess command.
// This command runs the risk scorer on an existing pair of documents
// without transforming anything.
func NewAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess <original> [modified]",
		Short: "Assess the detection risk of a modified document",
		Long: `Assess compares an original document with its modified version and
reports the detection risk of the differences: homoglyph density,
zero-width character density, suspicious patterns, script mixing, and
modification clustering.

No transformation is performed; the documents are read as-is.

Examples:
  # Assess a transformed document against its original
  veiltext assess skripsi.txt skripsi_veiled.txt

  # JSON output for automation
  veiltext assess --json skripsi.txt skripsi_veiled.txt

  # List stored runs for a document
  veiltext assess --history skripsi.txt

  # List every document with stored runs
  veiltext assess --list

  # Show the stored report for run 3
  veiltext assess --run 3`,
		Args: cobra.MaximumNArgs(2),
		RunE: runAssessCmd,
	}

	cmd.Flags().BoolP("history", "H", false,
		"List stored runs for the document instead of assessing")
	cmd.Flags().BoolP("list", "l", false,
		"List all documents with stored runs")
	cmd.Flags().Int64("run", 0,
		"Show the stored report for the given run ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown (mutually exclusive with --json)")

	return cmd
}

// runAssessCmd executes the assess command.
func runAssessCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	history, err := cmd.Flags().GetBool("history")
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}

	if list {
		return listDocuments(cmd.Context(), config.XDGDataDir())
	}
	if runID > 0 {
		writer := assessmentWriter(os.Stdout, jsonOutput, markdownOutput)
		return showStoredRun(cmd.Context(), config.XDGDataDir(), runID, writer)
	}

	if len(args) < 1 {
		return errors.New("original document is required (or use --list or --run)")
	}

	// An empty original is a valid input here: it produces the critical
	// sentinel assessment rather than an extraction error.
	original, err := document.Extract(args[0])
	if err != nil && !errors.Is(err, document.ErrEmptyDocument) {
		return fmt.Errorf("failed to extract %s: %w", args[0], err)
	}

	if history {
		return listRunHistory(cmd.Context(), config.XDGDataDir(), args[0], original)
	}

	if len(args) < 2 {
		return errors.New("modified document is required (or use --history)")
	}

	modified, err := document.Extract(args[1])
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", args[1], err)
	}

	assessment := assessPair(original, modified)
	writer := assessmentWriter(os.Stdout, jsonOutput, markdownOutput)
	_, err = writer.WriteAssessment(&assessment)
	return err
}

// assessPair scores modified against original. An empty original
// cannot be meaningfully compared, so it yields the critical sentinel
// instead of a score.
func assessPair(original, modified string) model.RiskAssessment {
	if strings.TrimSpace(original) == "" {
		return model.RiskAssessment{
			OverallRisk:       1.0,
			Level:             model.RiskCritical,
			LevelText:         model.RiskCritical.String(),
			InvisibilityScore: 0,
			Recommendations: []string{
				"Original document is empty; no comparison is possible",
			},
		}
	}

	scorer := risk.NewScorer(config.DefaultRiskWeights())
	return scorer.Assess(original, modified)
}

// assessmentWriter returns the writer for the requested format.
func assessmentWriter(output io.Writer, jsonOutput, markdownOutput bool) report.Writer {
	if jsonOutput {
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	}
	if markdownOutput {
		return report.NewMarkdownWriter(output)
	}
	return report.NewSimpleWriter(output)
}

// listDocuments lists every document with stored runs, newest source
// label per fingerprint.
func listDocuments(ctx context.Context, dbDir string) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	documents, err := db.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(documents) == 0 {
		fmt.Println("No stored runs found.")
		fmt.Println("\nUse 'veiltext transform' to process a document.")
		return nil
	}

	fingerprints := make([]string, 0, len(documents))
	for fingerprint := range documents {
		fingerprints = append(fingerprints, fingerprint)
	}
	sort.Strings(fingerprints)

	fmt.Printf("Stored documents (%d):\n\n", len(documents))
	fmt.Printf("  %-32s  %s\n", "Fingerprint", "Source")
	fmt.Println("  " + strings.Repeat("-", 64))
	for _, fingerprint := range fingerprints {
		fmt.Printf("  %-32s  %s\n", fingerprint, documents[fingerprint])
	}

	return nil
}

// showStoredRun renders the stored report for a run ID.
func showStoredRun(ctx context.Context, dbDir string, id int64, writer report.Writer) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	stored, err := db.GetRunByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", id, err)
	}
	if stored == nil {
		return fmt.Errorf("no stored run with ID %d", id)
	}

	_, err = writer.Write(stored)
	return err
}

// listRunHistory lists all stored runs for a document, identified by
// the fingerprint of its current text.
func listRunHistory(ctx context.Context, dbDir, source, text string) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fingerprint := model.Fingerprint(text)
	runs, err := db.GetRunHistory(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No stored runs found for %s\n", source)
		fmt.Println("\nUse 'veiltext transform' to process this document.")
		return nil
	}

	fmt.Printf("Run history for %s (%d runs):\n\n", source, len(runs))
	fmt.Printf("  %-6s  %-20s  %-8s  %-10s  %s\n", "ID", "Date", "Risk", "Level", "Changes")
	fmt.Println("  " + strings.Repeat("-", 64))

	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-8.2f  %-10s  %d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.OverallRisk,
			run.RiskLevel,
			run.Stats.TotalChanges(),
		)
	}

	// The metadata table carries only the scores; the full latest
	// report also has the matched patterns and recommendations.
	latest, err := db.GetLatestRun(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("failed to load latest run: %w", err)
	}
	if latest != nil && latest.Assessment != nil {
		if len(latest.Assessment.DetectedPatterns) > 0 {
			fmt.Println("\nDetected patterns in the latest run:")
			for _, pattern := range latest.Assessment.DetectedPatterns {
				fmt.Printf("  * %s\n", pattern)
			}
		}
		if len(latest.Assessment.Recommendations) > 0 {
			fmt.Println("\nRecommendations from the latest run:")
			for _, recommendation := range latest.Assessment.Recommendations {
				fmt.Printf("  * %s\n", recommendation)
			}
		}
	}

	return nil
}
