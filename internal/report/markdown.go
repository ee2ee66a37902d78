package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/veiltext/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.TransformReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeChangeSummary(md, report)
	w.writeParaphrase(md, report)
	if report.Assessment != nil {
		w.writeAssessment(md, report.Assessment)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteAssessment outputs only the risk assessment in Markdown format.
func (w *MarkdownWriter) WriteAssessment(assessment *model.RiskAssessment) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Veiltext Risk Assessment")
	md.PlainText("")
	w.writeAssessment(md, assessment)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.TransformReport) {
	md.H1("Veiltext Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Document", "`" + report.Source + "`"},
			{"Fingerprint", "`" + report.Fingerprint + "`"},
			{"Date", report.DateProcessed.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.TransformReport) string {
	if report.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeChangeSummary writes the per-technique change counts.
func (w *MarkdownWriter) writeChangeSummary(md *markdown.Markdown, report *model.TransformReport) {
	md.H2("Change Summary")
	md.PlainText("")

	stats := report.Stats
	md.Table(markdown.TableSet{
		Header: []string{"Technique", "Count"},
		Rows: [][]string{
			{"Word substitutions", strconv.Itoa(stats.WordsSubstituted)},
			{"Character substitutions", strconv.Itoa(stats.CharsSubstituted)},
			{"Invisible insertions", strconv.Itoa(stats.InvisibleInserted)},
			{"Synonym replacements", strconv.Itoa(stats.SynonymReplacements)},
			{"Phrase rewrites", strconv.Itoa(stats.PhraseRewrites)},
			{"**Total**", "**" + strconv.Itoa(stats.TotalChanges()) + "**"},
		},
	})
	md.PlainText("")

	if !stats.IsZero() {
		w.writePieChart(md, stats)
	}
}

// writePieChart writes a mermaid pie chart for the change distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats model.Stats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Change Distribution"),
		piechart.WithShowData(true),
	)

	if stats.WordsSubstituted > 0 {
		chart.LabelAndIntValue("Word substitutions", uint64(stats.WordsSubstituted))
	}
	if stats.CharsSubstituted > 0 {
		chart.LabelAndIntValue("Char substitutions", uint64(stats.CharsSubstituted))
	}
	if stats.InvisibleInserted > 0 {
		chart.LabelAndIntValue("Invisible insertions", uint64(stats.InvisibleInserted))
	}
	if stats.SynonymReplacements > 0 {
		chart.LabelAndIntValue("Synonym replacements", uint64(stats.SynonymReplacements))
	}
	if stats.PhraseRewrites > 0 {
		chart.LabelAndIntValue("Phrase rewrites", uint64(stats.PhraseRewrites))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeParaphrase writes the paraphrase stage outcome.
func (w *MarkdownWriter) writeParaphrase(md *markdown.Markdown, report *model.TransformReport) {
	if report.Paraphrase == nil {
		return
	}
	result := report.Paraphrase

	md.H2("Paraphrase")
	md.PlainText("")

	rows := [][]string{
		{"Winner", string(result.Source)},
		{"Quality", fmt.Sprintf("%.2f", result.Quality)},
		{"Similarity reduction", fmt.Sprintf("%.0f%%", result.SimilarityReduction*100)},
	}
	if result.OracleConfidence > 0 {
		rows = append(rows, []string{"Oracle confidence", fmt.Sprintf("%.2f", result.OracleConfidence)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(result.Replacements) > 0 {
		replRows := make([][]string, len(result.Replacements))
		for i, r := range result.Replacements {
			replRows[i] = []string{
				truncateString(r.Original, 40),
				truncateString(r.Replacement, 40),
				fmt.Sprintf("%.2f", r.Score),
			}
		}
		md.PlainText("### Synonym Replacements")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Original", "Replacement", "Score"},
			Rows:   replRows,
		})
		md.PlainText("")
	}
}

// writeAssessment writes the risk assessment section.
func (w *MarkdownWriter) writeAssessment(md *markdown.Markdown, assessment *model.RiskAssessment) {
	md.H2("Risk Assessment")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Overall risk", fmt.Sprintf("%.2f", assessment.OverallRisk)},
			{"Risk level", assessment.LevelText},
			{"Invisibility score", fmt.Sprintf("%.2f", assessment.InvisibilityScore)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, assessment)

	md.PlainText("### Components")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Component", "Score"},
		Rows: [][]string{
			{"Unicode density", fmt.Sprintf("%.2f", assessment.Components.UnicodeDensity)},
			{"Zero-width density", fmt.Sprintf("%.2f", assessment.Components.ZeroWidthDensity)},
			{"Pattern detection", fmt.Sprintf("%.2f", assessment.Components.PatternDetection)},
			{"Script mixing", fmt.Sprintf("%.2f", assessment.Components.ScriptMixing)},
			{"Distribution", fmt.Sprintf("%.2f", assessment.Components.ModificationDistribution)},
		},
	})
	md.PlainText("")

	if len(assessment.DetectedPatterns) > 0 {
		md.PlainText("### Detected Patterns")
		md.PlainText("")
		md.BulletList(assessment.DetectedPatterns...)
		md.PlainText("")
	}

	if len(assessment.Recommendations) > 0 {
		md.PlainText("### Recommendations")
		md.PlainText("")
		md.BulletList(assessment.Recommendations...)
		md.PlainText("")
	}
}

// writeAlert writes an appropriate alert based on the risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, assessment *model.RiskAssessment) {
	switch assessment.LevelText {
	case "CRITICAL":
		md.Cautionf(
			"Critical detection risk (%.2f). The modified text is very likely to be flagged.",
			assessment.OverallRisk,
		)
	case "HIGH":
		md.Warningf(
			"High detection risk (%.2f). Reduce insertion and substitution rates.",
			assessment.OverallRisk,
		)
	case "MEDIUM":
		md.Importantf(
			"Medium detection risk (%.2f). Review the component breakdown below.",
			assessment.OverallRisk,
		)
	case "LOW":
		md.Note("Low detection risk. Minor adjustments may still help.")
	default:
		md.Tip("Minimal detection risk. Current parameters look safe.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by veiltext*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
