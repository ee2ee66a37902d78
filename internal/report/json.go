package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/veiltext/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is suitable for programmatic processing and integration
// with other tools.
//
// Design decision: We use the standard library's encoding/json rather
// than a faster third-party encoder because reports are written once
// per run and the throughput difference is irrelevant at that rate,
// while the standard encoder's behavior is universally understood.
type JSONWriter struct {
	baseWriter

	// indent controls JSON indentation. Empty string means compact output.
	indent string

	// prefix is the line prefix for indented output.
	prefix string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent configures JSON indentation for pretty-printing.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint enables standard pretty-printing with 2-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// By default, output is compact (no indentation).
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report as JSON.
func (w *JSONWriter) Write(report *model.TransformReport) (int, error) {
	return w.writeJSON(report)
}

// WriteAssessment outputs only the risk assessment as JSON.
func (w *JSONWriter) WriteAssessment(assessment *model.RiskAssessment) (int, error) {
	return w.writeJSON(assessment)
}

// writeJSON marshals and writes any value as JSON.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent != "" || w.prefix != "" {
		data, err = json.MarshalIndent(v, w.prefix, w.indent)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output.
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a transform report with metadata for the full JSON output.
type JSONReport struct {
	// Version is the report format version.
	Version string `json:"version"`

	// Report is the full transform report.
	Report *model.TransformReport `json:"report"`

	// Summary contains high-level run statistics.
	Summary *JSONSummary `json:"summary,omitempty"`
}

// JSONSummary contains summary statistics for quick access without parsing
// the full report.
type JSONSummary struct {
	// Source is the input document path or label.
	Source string `json:"source"`

	// TotalChanges is the sum of all change counts.
	TotalChanges int `json:"total_changes"`

	// OverallRisk is the assessed risk score, present when the assess
	// step ran.
	OverallRisk float64 `json:"overall_risk,omitempty"`

	// RiskLevel is the bucketed risk level text.
	RiskLevel string `json:"risk_level,omitempty"`

	// InvisibilityScore is the fraction of changes classified invisible.
	InvisibilityScore float64 `json:"invisibility_score,omitempty"`

	// ParaphraseSource names the winning paraphrase path.
	ParaphraseSource string `json:"paraphrase_source,omitempty"`
}

// FullJSONWriter outputs reports with additional metadata wrapping.
type FullJSONWriter struct {
	*JSONWriter

	// version is the report format version to include.
	version string
}

// NewFullJSONWriter creates a FullJSONWriter with metadata wrapping.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with version and summary metadata.
func (w *FullJSONWriter) Write(report *model.TransformReport) (int, error) {
	wrapped := JSONReport{
		Version: w.version,
		Report:  report,
		Summary: buildSummary(report),
	}
	return w.writeJSON(wrapped)
}

// buildSummary extracts summary statistics from a report.
func buildSummary(report *model.TransformReport) *JSONSummary {
	summary := &JSONSummary{
		Source:       report.Source,
		TotalChanges: report.Stats.TotalChanges(),
	}

	if report.Assessment != nil {
		summary.OverallRisk = report.Assessment.OverallRisk
		summary.RiskLevel = report.Assessment.LevelText
		summary.InvisibilityScore = report.Assessment.InvisibilityScore
	}

	if report.Paraphrase != nil {
		summary.ParaphraseSource = string(report.Paraphrase.Source)
	}

	return summary
}
