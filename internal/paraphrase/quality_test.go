package paraphrase

import (
	"context"
	"strings"
	"testing"
)

func TestHeuristicQualityAssess(t *testing.T) {
	t.Parallel()

	heuristic := NewHeuristicQuality()

	t.Run("clean academic paraphrase scores well", func(t *testing.T) {
		t.Parallel()

		original := "Penelitian ini menunjukkan bahwa kualitas produk sangat menentukan."
		candidate := "Riset ini memperlihatkan bahwa mutu barang sangat menentukan."
		score, err := heuristic.Assess(context.Background(), original, candidate, "teks akademik")
		if err != nil {
			t.Fatalf("Assess() error = %v", err)
		}

		if score.Overall <= 0.6 {
			t.Errorf("Overall = %v, expected above 0.6", score.Overall)
		}
		if score.AcademicFit <= 0.7 {
			t.Errorf("AcademicFit = %v, expected the academic marker bonus", score.AcademicFit)
		}
		if score.Grammar != 0.9 {
			t.Errorf("Grammar = %v, expected 0.9", score.Grammar)
		}
	})

	t.Run("awkward synonym is flagged", func(t *testing.T) {
		t.Parallel()

		score, err := heuristic.Assess(context.Background(),
			"Metode ini dapat diterapkan secara luas.",
			"Metode ini angsal diterapkan secara luas.",
			"teks akademik")
		if err != nil {
			t.Fatalf("Assess() error = %v", err)
		}

		found := false
		for _, issue := range score.FlaggedIssues {
			if strings.Contains(issue, "angsal") {
				found = true
			}
		}
		if !found {
			t.Errorf("FlaggedIssues = %v, expected the awkward synonym flagged", score.FlaggedIssues)
		}
		if score.Naturalness >= 0.8 {
			t.Errorf("Naturalness = %v, expected the awkward-word penalty", score.Naturalness)
		}
	})

	t.Run("casual register lowers academic fit", func(t *testing.T) {
		t.Parallel()

		score, err := heuristic.Assess(context.Background(),
			"Hasil pengujian ini sangat baik.",
			"Hasil pengujian ini keren banget.",
			"teks akademik")
		if err != nil {
			t.Fatalf("Assess() error = %v", err)
		}

		if score.AcademicFit >= 0.6 {
			t.Errorf("AcademicFit = %v, expected the casual-word penalty", score.AcademicFit)
		}
		found := false
		for _, issue := range score.FlaggedIssues {
			if strings.Contains(issue, "informal") {
				found = true
			}
		}
		if !found {
			t.Errorf("FlaggedIssues = %v, expected an informal-register flag", score.FlaggedIssues)
		}
	})

	t.Run("missing terminal punctuation lowers grammar", func(t *testing.T) {
		t.Parallel()

		score, err := heuristic.Assess(context.Background(),
			"Kajian ini berjalan lancar.",
			"Kajian ini berjalan lancar",
			"teks akademik")
		if err != nil {
			t.Fatalf("Assess() error = %v", err)
		}
		if score.Grammar != 0.8 {
			t.Errorf("Grammar = %v, expected 0.8", score.Grammar)
		}
	})

	t.Run("meaning preservation floors at 0.4", func(t *testing.T) {
		t.Parallel()

		score, err := heuristic.Assess(context.Background(),
			"Penelitian ini menilai kualitas produk.",
			"Zzz.",
			"teks akademik")
		if err != nil {
			t.Fatalf("Assess() error = %v", err)
		}
		if score.MeaningPreservation != 0.4 {
			t.Errorf("MeaningPreservation = %v, expected floor 0.4", score.MeaningPreservation)
		}
	})
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		answer   string
		expected string
	}{
		{
			name:     "bare object",
			answer:   `{"paraphrase": "x", "confidence": 0.8}`,
			expected: `{"paraphrase": "x", "confidence": 0.8}`,
		},
		{
			name:     "markdown fenced",
			answer:   "```json\n{\"paraphrase\": \"x\"}\n```",
			expected: `{"paraphrase": "x"}`,
		},
		{
			name:     "surrounding prose",
			answer:   `Berikut jawabannya: {"overall": 0.9} Semoga membantu.`,
			expected: `{"overall": 0.9}`,
		},
		{
			name:     "no object returns input",
			answer:   "maaf, saya tidak bisa",
			expected: "maaf, saya tidak bisa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := extractJSON(tt.answer); got != tt.expected {
				t.Errorf("extractJSON() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       float64
		expected float64
	}{
		{in: -0.5, expected: 0},
		{in: 0, expected: 0},
		{in: 0.42, expected: 0.42},
		{in: 1, expected: 1},
		{in: 3.7, expected: 1},
	}
	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.expected {
			t.Errorf("clamp01(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}
