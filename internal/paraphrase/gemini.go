package paraphrase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/nao1215/veiltext/internal/model"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// paraphrasePrompt instructs the model to answer in strict JSON so the
// adapter can parse a confidence alongside the candidate.
const paraphrasePrompt = `Kamu adalah ahli parafrase bahasa Indonesia untuk teks akademik.
Parafrasekan teks berikut tanpa mengubah maknanya, dengan register akademik formal.
Jawab HANYA dengan JSON pada format berikut, tanpa teks lain:
{"paraphrase": "...", "confidence": 0.0}
confidence adalah keyakinanmu (0.0-1.0) bahwa parafrase mempertahankan makna.

Teks:
%s`

// qualityPrompt instructs the model to grade a candidate paraphrase.
const qualityPrompt = `Kamu adalah expert linguist dan academic writing specialist untuk bahasa Indonesia.
Nilai kualitas parafrase berikut dalam konteks: %s.
Jawab HANYA dengan JSON pada format berikut, tanpa teks lain:
{"naturalness": 0.0, "academic_fit": 0.0, "meaning_preservation": 0.0, "grammar": 0.0, "overall": 0.0, "flagged_issues": []}

Teks asli:
%s

Parafrase:
%s`

// GeminiOracle adapts the Gemini API to the Oracle interface.
type GeminiOracle struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiOracle creates a Gemini-backed paraphrase oracle. With an
// empty apiKey the client falls back to Application Default
// Credentials. Construction fails when no credentials resolve, which
// is how availability is decided once up front.
func NewGeminiOracle(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiOracle, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiOracle{client: client, model: modelName, timeout: timeout}, nil
}

// Generate asks the model for a paraphrase and parses its JSON answer.
func (g *GeminiOracle) Generate(ctx context.Context, text string) (string, float64, error) {
	answer, err := g.ask(ctx, fmt.Sprintf(paraphrasePrompt, text))
	if err != nil {
		return "", 0, err
	}

	var parsed struct {
		Paraphrase string  `json:"paraphrase"`
		Confidence float64 `json:"confidence"`
	}
	if err := sonic.Unmarshal([]byte(extractJSON(answer)), &parsed); err != nil {
		return "", 0, fmt.Errorf("failed to parse oracle answer: %w", err)
	}
	if strings.TrimSpace(parsed.Paraphrase) == "" {
		return "", 0, ErrEmptyCandidate
	}
	return parsed.Paraphrase, clamp01(parsed.Confidence), nil
}

// ask sends one prompt under the configured timeout and concatenates
// the text parts of the first candidate.
func (g *GeminiOracle) ask(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	content := genai.NewContentFromText(prompt, genai.RoleUser)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCandidate
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

// GeminiQuality adapts the Gemini API to the QualityOracle interface.
type GeminiQuality struct {
	oracle *GeminiOracle
}

// NewGeminiQuality creates a Gemini-backed quality oracle sharing the
// given oracle's client and timeout.
func NewGeminiQuality(oracle *GeminiOracle) *GeminiQuality {
	return &GeminiQuality{oracle: oracle}
}

// Assess asks the model to grade candidate and parses the JSON answer.
func (g *GeminiQuality) Assess(ctx context.Context, original, candidate, domain string) (model.QualityScore, error) {
	if domain == "" {
		domain = "teks akademik"
	}
	answer, err := g.oracle.ask(ctx, fmt.Sprintf(qualityPrompt, domain, original, candidate))
	if err != nil {
		return model.QualityScore{}, err
	}

	var parsed struct {
		Naturalness         float64  `json:"naturalness"`
		AcademicFit         float64  `json:"academic_fit"`
		MeaningPreservation float64  `json:"meaning_preservation"`
		Grammar             float64  `json:"grammar"`
		Overall             float64  `json:"overall"`
		FlaggedIssues       []string `json:"flagged_issues"`
	}
	if err := sonic.Unmarshal([]byte(extractJSON(answer)), &parsed); err != nil {
		return model.QualityScore{}, fmt.Errorf("failed to parse quality answer: %w", err)
	}

	return model.QualityScore{
		Overall:             clamp01(parsed.Overall),
		Naturalness:         clamp01(parsed.Naturalness),
		AcademicFit:         clamp01(parsed.AcademicFit),
		MeaningPreservation: clamp01(parsed.MeaningPreservation),
		Grammar:             clamp01(parsed.Grammar),
		FlaggedIssues:       parsed.FlaggedIssues,
	}, nil
}

// extractJSON trims markdown fences and surrounding prose from a model
// answer, keeping the outermost JSON object.
func extractJSON(answer string) string {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return answer
	}
	return answer[start : end+1]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
