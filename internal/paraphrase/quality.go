package paraphrase

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/veiltext/internal/model"
)

// HeuristicQuality is the local fallback quality oracle. It scores
// candidates with register and word-overlap heuristics and never
// fails, so the pipeline always has a ranking even with no external
// model configured.
type HeuristicQuality struct{}

// NewHeuristicQuality creates the heuristic quality oracle.
func NewHeuristicQuality() *HeuristicQuality {
	return &HeuristicQuality{}
}

// awkwardWords are replacements that read wrong in any register.
var awkwardWords = []string{"angsal", "kata putus", "ketek", "belalang", " nan ", "nan "}

// casualWords are informal-register markers penalized in academic text.
var casualWords = []string{"kayak", "gitu", "banget", "oke"}

// academicWords raise the register score when present.
var academicWords = []string{"penelitian", "analisis", "riset", "studi", "kajian", "eksplorasi"}

// Assess scores candidate locally. It never returns an error.
func (h *HeuristicQuality) Assess(_ context.Context, original, candidate, _ string) (model.QualityScore, error) {
	naturalness := h.naturalness(candidate)
	academic := h.academicFit(candidate)
	meaning := h.meaningPreservation(original, candidate)
	grammar := h.grammar(candidate)

	var issues []string
	for _, word := range awkwardWords {
		trimmed := strings.TrimSpace(word)
		if strings.Contains(strings.ToLower(candidate), trimmed) {
			issues = append(issues, fmt.Sprintf("inappropriate synonym: %q", trimmed))
		}
	}
	if meaning < 0.7 {
		issues = append(issues, "potential meaning loss")
	}
	if academic < 0.6 {
		issues = append(issues, "register may be too informal for academic text")
	}

	return model.QualityScore{
		Overall:             (naturalness + academic + meaning + grammar) / 4,
		Naturalness:         naturalness,
		AcademicFit:         academic,
		MeaningPreservation: meaning,
		Grammar:             grammar,
		FlaggedIssues:       issues,
	}, nil
}

func (h *HeuristicQuality) naturalness(text string) float64 {
	score := 0.8
	lower := strings.ToLower(text)

	awkward := false
	for _, word := range awkwardWords {
		if strings.Contains(lower, word) {
			score -= 0.2
			awkward = true
		}
	}
	if len(strings.Fields(text)) > 5 && !awkward {
		score += 0.1
	}
	return clamp01(score)
}

func (h *HeuristicQuality) academicFit(text string) float64 {
	score := 0.7
	lower := strings.ToLower(text)

	for _, word := range academicWords {
		if strings.Contains(lower, word) {
			score += 0.2
			break
		}
	}
	for _, word := range casualWords {
		if strings.Contains(lower, word) {
			score -= 0.3
		}
	}
	return clamp01(score)
}

// meaningPreservation approximates semantic fidelity from word-type
// overlap and length similarity. Floored at 0.4: a paraphrase is
// supposed to change words, so low overlap alone is not evidence of
// meaning loss.
func (h *HeuristicQuality) meaningPreservation(original, candidate string) float64 {
	originalTypes := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(original)) {
		originalTypes[word] = true
	}
	if len(originalTypes) == 0 {
		return 0.4
	}

	common := 0
	for _, word := range strings.Fields(strings.ToLower(candidate)) {
		if originalTypes[word] {
			common++
			delete(originalTypes, word)
		}
	}
	overlap := float64(common) / float64(common+len(originalTypes))

	longer := len(original)
	shorter := len(candidate)
	if shorter > longer {
		longer, shorter = shorter, longer
	}
	lengthRatio := 0.0
	if longer > 0 {
		lengthRatio = float64(shorter) / float64(longer)
	}

	score := overlap*0.6 + lengthRatio*0.4
	if score < 0.4 {
		return 0.4
	}
	return clamp01(score)
}

func (h *HeuristicQuality) grammar(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	score := 0.9
	if !strings.HasSuffix(trimmed, ".") && !strings.HasSuffix(trimmed, "!") && !strings.HasSuffix(trimmed, "?") {
		score -= 0.1
	}
	if strings.Contains(text, "  ") {
		score -= 0.1
	}
	return clamp01(score)
}
