package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/veiltext/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.TransformReport {
	report := model.NewTransformReport(
		"skripsi.txt",
		"Penelitian ini bertujuan untuk menganalisis kualitas data.",
	)
	report.ModifiedText = "Penelitian ini bertujuan untuk menganalisis mutu d​ata."
	report.Stats = model.Stats{
		WordsSubstituted:    2,
		CharsSubstituted:    3,
		InvisibleInserted:   5,
		SynonymReplacements: 1,
		PhraseRewrites:      1,
	}
	report.Paraphrase = &model.ParaphraseResult{
		OriginalText:  report.OriginalText,
		CandidateText: report.ModifiedText,
		Source:        model.SourceSelector,
		Quality:       0.78,
		Replacements: []model.Replacement{
			{Original: "kualitas", Replacement: "mutu", Score: 0.85, Position: 6},
		},
		SimilarityReduction: 0.12,
	}
	report.Assessment = &model.RiskAssessment{
		OverallRisk:       0.45,
		Level:             model.RiskMedium,
		LevelText:         "MEDIUM",
		InvisibilityScore: 0.9,
		Components: model.RiskComponents{
			UnicodeDensity:   0.3,
			ZeroWidthDensity: 0.6,
		},
		DetectedPatterns: []string{"zero_width_run: 2 matches"},
		Recommendations:  []string{"Reduce invisible character insertion rate"},
	}
	report.PerformedSteps = []string{"paraphrase", "substitute", "inject", "assess"}
	return report
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "VEILTEXT REPORT") {
			t.Error("expected output to contain header")
		}
		if !strings.Contains(output, "skripsi.txt") {
			t.Error("expected output to contain document path")
		}
		if !strings.Contains(output, report.Fingerprint) {
			t.Error("expected output to contain fingerprint")
		}
		if !strings.Contains(output, "Status:      Complete") {
			t.Error("expected output to contain complete status")
		}
	})

	t.Run("writes change summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "CHANGE SUMMARY") {
			t.Error("expected output to contain change summary section")
		}
		if !strings.Contains(output, "TOTAL:                 12 changes") {
			t.Errorf("expected total of 12 changes, got output:\n%s", output)
		}
	})

	t.Run("writes risk assessment", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "RISK ASSESSMENT") {
			t.Error("expected output to contain risk assessment section")
		}
		if !strings.Contains(output, "MEDIUM") {
			t.Error("expected output to contain risk level")
		}
		if !strings.Contains(output, "zero_width_run: 2 matches") {
			t.Error("expected output to contain detected pattern")
		}
		if !strings.Contains(output, "Reduce invisible character insertion rate") {
			t.Error("expected output to contain recommendation")
		}
	})

	t.Run("hides replacements without verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "kualitas -> mutu") {
			t.Error("expected replacements to be hidden without verbose")
		}
	})

	t.Run("shows replacements with verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))
		report := createTestReport()

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "kualitas -> mutu") {
			t.Error("expected replacements to be listed with verbose")
		}
	})

	t.Run("reports timed out status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()
		report.TimedOut = true

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "TIMED OUT") {
			t.Error("expected output to contain timed out status")
		}
	})

	t.Run("reports step error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()
		report.ErrorMessage = "oracle unavailable"

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "ERROR - oracle unavailable") {
			t.Error("expected output to contain error status")
		}
	})

	t.Run("writes assessment only", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.WriteAssessment(report.Assessment)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "VEILTEXT RISK ASSESSMENT") {
			t.Error("expected output to contain assessment header")
		}
		if strings.Contains(output, "CHANGE SUMMARY") {
			t.Error("expected assessment-only output to omit change summary")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid compact JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.TransformReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Source != "skripsi.txt" {
			t.Errorf("expected source skripsi.txt, got %s", decoded.Source)
		}
		if decoded.Stats.InvisibleInserted != 5 {
			t.Errorf("expected 5 invisible insertions, got %d", decoded.Stats.InvisibleInserted)
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("pretty print uses indentation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		report := createTestReport()

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  \"") {
			t.Error("expected indented output")
		}
	})

	t.Run("writes assessment only", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		if _, err := w.WriteAssessment(report.Assessment); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.RiskAssessment
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.LevelText != "MEDIUM" {
			t.Errorf("expected risk level MEDIUM, got %s", decoded.LevelText)
		}
	})
}

// TestFullJSONWriter tests the metadata-wrapped JSON writer.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewFullJSONWriter(&buf, "1.0.0", WithPrettyPrint())
	report := createTestReport()

	_, err := w.Write(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded JSONReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", decoded.Version)
	}
	if decoded.Summary == nil {
		t.Fatal("expected summary to be present")
	}
	if decoded.Summary.TotalChanges != 12 {
		t.Errorf("expected 12 total changes, got %d", decoded.Summary.TotalChanges)
	}
	if decoded.Summary.RiskLevel != "MEDIUM" {
		t.Errorf("expected MEDIUM risk level, got %s", decoded.Summary.RiskLevel)
	}
	if decoded.Summary.ParaphraseSource != "selector" {
		t.Errorf("expected selector paraphrase source, got %s", decoded.Summary.ParaphraseSource)
	}
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes full report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Veiltext Report") {
			t.Error("expected H1 header")
		}
		if !strings.Contains(output, "## Change Summary") {
			t.Error("expected change summary section")
		}
		if !strings.Contains(output, "## Risk Assessment") {
			t.Error("expected risk assessment section")
		}
		if !strings.Contains(output, "```mermaid") {
			t.Error("expected mermaid pie chart for non-zero stats")
		}
		if !strings.Contains(output, "kualitas") {
			t.Error("expected replacement table")
		}
	})

	t.Run("medium risk uses important alert", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[!IMPORTANT]") {
			t.Error("expected IMPORTANT alert for medium risk")
		}
	})

	t.Run("critical risk uses caution alert", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()
		report.Assessment.OverallRisk = 0.95
		report.Assessment.LevelText = "CRITICAL"

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[!CAUTION]") {
			t.Error("expected CAUTION alert for critical risk")
		}
	})

	t.Run("omits pie chart with zero changes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()
		report.Stats = model.Stats{}

		if _, err := w.Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "```mermaid") {
			t.Error("expected no pie chart for zero-change run")
		}
	})

	t.Run("writes assessment only", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		if _, err := w.WriteAssessment(report.Assessment); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Veiltext Risk Assessment") {
			t.Error("expected assessment header")
		}
		if strings.Contains(output, "## Change Summary") {
			t.Error("expected assessment-only output to omit change summary")
		}
	})
}

// TestMultiWriter tests writing to multiple formats simultaneously.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var simpleBuf, jsonBuf bytes.Buffer
		mw := NewMultiWriter(
			NewSimpleWriter(&simpleBuf),
			NewJSONWriter(&jsonBuf),
		)
		report := createTestReport()

		n, err := mw.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if simpleBuf.Len() == 0 {
			t.Error("expected simple output")
		}
		if jsonBuf.Len() == 0 {
			t.Error("expected JSON output")
		}
		if n != simpleBuf.Len()+jsonBuf.Len() {
			t.Errorf("expected total bytes %d, got %d", simpleBuf.Len()+jsonBuf.Len(), n)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("write failed")
		var buf bytes.Buffer
		mw := NewMultiWriter(
			&failingWriter{err: wantErr},
			NewSimpleWriter(&buf),
		)
		report := createTestReport()

		_, err := mw.Write(report)
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected write error, got %v", err)
		}
		if buf.Len() != 0 {
			t.Error("expected no output after failing writer")
		}
	})
}

// failingWriter always returns an error.
type failingWriter struct {
	err error
}

func (w *failingWriter) Write(_ *model.TransformReport) (int, error) {
	return 0, w.err
}

func (w *failingWriter) WriteAssessment(_ *model.RiskAssessment) (int, error) {
	return 0, w.err
}

// TestTruncateString tests the string truncation helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short string unchanged", input: "abc", maxLen: 10, want: "abc"},
		{name: "exact length unchanged", input: "abcde", maxLen: 5, want: "abcde"},
		{name: "long string truncated", input: "abcdefghij", maxLen: 8, want: "abcde..."},
		{name: "tiny max length", input: "abcdef", maxLen: 2, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
