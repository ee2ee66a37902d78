package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/veiltext/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.TransformReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeChangeSummary(&sb, report)
	w.writeParaphrase(&sb, report)
	if report.Assessment != nil {
		w.writeAssessment(&sb, report.Assessment)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteAssessment outputs only the risk assessment in human-readable
// format.
func (w *SimpleWriter) WriteAssessment(assessment *model.RiskAssessment) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       VEILTEXT RISK ASSESSMENT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	w.writeAssessment(&sb, assessment)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.TransformReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         VEILTEXT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Document:    %s\n", report.Source))
	sb.WriteString(fmt.Sprintf("Fingerprint: %s\n", report.Fingerprint))
	sb.WriteString(fmt.Sprintf("Date:        %s\n", report.DateProcessed.Format("2006-01-02 15:04:05 MST")))

	if report.TimedOut {
		sb.WriteString("Status:      TIMED OUT (partial results)\n")
	} else if report.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:      ERROR - %s\n", report.ErrorMessage))
	} else {
		sb.WriteString("Status:      Complete\n")
	}

	sb.WriteString("\n")
}

// writeChangeSummary writes the per-technique change counts.
func (w *SimpleWriter) writeChangeSummary(sb *strings.Builder, report *model.TransformReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CHANGE SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Word substitutions:    %d\n", report.Stats.WordsSubstituted))
	sb.WriteString(fmt.Sprintf("  Char substitutions:    %d\n", report.Stats.CharsSubstituted))
	sb.WriteString(fmt.Sprintf("  Invisible insertions:  %d\n", report.Stats.InvisibleInserted))
	sb.WriteString(fmt.Sprintf("  Synonym replacements:  %d\n", report.Stats.SynonymReplacements))
	sb.WriteString(fmt.Sprintf("  Phrase rewrites:       %d\n", report.Stats.PhraseRewrites))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:                 %d changes\n", report.Stats.TotalChanges()))
	sb.WriteString("\n")
}

// writeParaphrase writes the paraphrase stage outcome.
func (w *SimpleWriter) writeParaphrase(sb *strings.Builder, report *model.TransformReport) {
	if report.Paraphrase == nil {
		if w.showEmpty {
			sb.WriteString("PARAPHRASE: stage skipped\n\n")
		}
		return
	}
	result := report.Paraphrase

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PARAPHRASE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Winner:     %s\n", result.Source))
	sb.WriteString(fmt.Sprintf("  Quality:    %.2f\n", result.Quality))
	if result.OracleConfidence > 0 {
		sb.WriteString(fmt.Sprintf("  Confidence: %.2f\n", result.OracleConfidence))
	}
	sb.WriteString(fmt.Sprintf("  Similarity reduction: %.0f%%\n", result.SimilarityReduction*100))

	if w.verbose && len(result.Replacements) > 0 {
		sb.WriteString("\n  Replacements:\n")
		for _, r := range result.Replacements {
			sb.WriteString(fmt.Sprintf("    %s -> %s (score %.2f)\n", r.Original, r.Replacement, r.Score))
		}
	}
	sb.WriteString("\n")
}

// writeAssessment writes the risk assessment section.
func (w *SimpleWriter) writeAssessment(sb *strings.Builder, assessment *model.RiskAssessment) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RISK ASSESSMENT\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Overall risk:        %.2f [%s] %s\n",
		assessment.OverallRisk, w.riskIndicator(assessment.LevelText), assessment.LevelText))
	sb.WriteString(fmt.Sprintf("  Invisibility score:  %.2f\n", assessment.InvisibilityScore))
	sb.WriteString("\n")

	sb.WriteString("  Components:\n")
	sb.WriteString(fmt.Sprintf("    Unicode density:      %.2f\n", assessment.Components.UnicodeDensity))
	sb.WriteString(fmt.Sprintf("    Zero-width density:   %.2f\n", assessment.Components.ZeroWidthDensity))
	sb.WriteString(fmt.Sprintf("    Pattern detection:    %.2f\n", assessment.Components.PatternDetection))
	sb.WriteString(fmt.Sprintf("    Script mixing:        %.2f\n", assessment.Components.ScriptMixing))
	sb.WriteString(fmt.Sprintf("    Distribution:         %.2f\n", assessment.Components.ModificationDistribution))
	sb.WriteString("\n")

	if len(assessment.DetectedPatterns) > 0 || w.showEmpty {
		sb.WriteString("  Detected patterns:\n")
		if len(assessment.DetectedPatterns) == 0 {
			sb.WriteString("    none\n")
		}
		for _, pattern := range assessment.DetectedPatterns {
			sb.WriteString(fmt.Sprintf("    * %s\n", pattern))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("  Recommendations:\n")
	for _, rec := range assessment.Recommendations {
		sb.WriteString(fmt.Sprintf("    * %s\n", rec))
	}
	sb.WriteString("\n")
}

// riskIndicator returns a visual indicator for the risk level.
func (w *SimpleWriter) riskIndicator(levelText string) string {
	switch levelText {
	case "CRITICAL":
		return "!!!"
	case "HIGH":
		return "!!"
	case "MEDIUM":
		return "!"
	case "LOW":
		return "-"
	case "MINIMAL":
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by veiltext\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
