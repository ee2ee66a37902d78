package synonym

import (
	"math/rand"
	"strings"
	"testing"
)

func newTestSelector(seed int64, opts ...SelectorOption) *Selector {
	return NewSelector(DefaultTable(), rand.New(rand.NewSource(seed)), opts...)
}

// TestScore_Clamped tests that scores stay inside [0.1, 1.0].
func TestScore_Clamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		original  string
		candidate string
		context   string
	}{
		{name: "denied archaic candidate", original: "dapat", candidate: "angsal", context: "hasil penelitian menunjukkan"},
		{name: "casual candidate", original: "bagus", candidate: "keren banget", context: "penelitian ini"},
		{name: "preferred academic candidate", original: "kualitas", candidate: "mutu", context: "penelitian kualitas mutu standar tingkat analisis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Score(tt.original, tt.candidate, tt.context)
			if got < 0.1 || got > 1.0 {
				t.Errorf("Score() = %v, want within [0.1, 1.0]", got)
			}
		})
	}
}

// TestSelector_Select_QualityGate tests that no replacement below the
// gate is ever returned.
func TestSelector_Select_QualityGate(t *testing.T) {
	t.Parallel()

	selector := newTestSelector(1)

	words := []string{"kualitas", "penelitian", "hasil", "dapat", "produk", "konsumen"}
	contexts := []string{
		"",
		"penelitian ini menunjukkan hasil analisis",
		"kayak gitu aja",
	}

	for _, word := range words {
		for _, context := range contexts {
			if replacement, score, ok := selector.Select(word, context); ok {
				if score < 0.65 {
					t.Errorf("Select(%q, %q) returned %q with score %v below gate", word, context, replacement, score)
				}
			}
		}
	}
}

// TestSelector_Select_PrefersAcademic tests the curated preference in
// an academic context window.
func TestSelector_Select_PrefersAcademic(t *testing.T) {
	t.Parallel()

	selector := newTestSelector(2)
	replacement, score, ok := selector.Select("kualitas", "penelitian tentang kualitas produk menunjukkan hasil")

	if !ok {
		t.Fatal("expected a replacement for kualitas in academic context")
	}
	if replacement != "mutu" {
		t.Errorf("Select() = %q, want mutu", replacement)
	}
	if score < 0.65 {
		t.Errorf("score = %v, want >= 0.65", score)
	}
}

// TestSelector_Select_RejectsDenied tests that denylisted candidates
// never win even when the headword has few alternatives.
func TestSelector_Select_RejectsDenied(t *testing.T) {
	t.Parallel()

	selector := newTestSelector(3)
	if replacement, _, ok := selector.Select("dapat", "hasil penelitian menunjukkan bahwa metode ini dapat"); ok {
		if deniedCandidates[strings.ToLower(replacement)] {
			t.Errorf("Select() returned denylisted candidate %q", replacement)
		}
	}
}

// TestSelector_Select_UnknownWord tests the miss path.
func TestSelector_Select_UnknownWord(t *testing.T) {
	t.Parallel()

	selector := newTestSelector(4)
	if _, _, ok := selector.Select("zzzzz", "penelitian"); ok {
		t.Error("Select() should miss for a word outside the table")
	}
}

// TestPreserveFormatting tests casing and punctuation carry-over.
func TestPreserveFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		original    string
		replacement string
		want        string
	}{
		{name: "lowercase stays lowercase", original: "kualitas", replacement: "mutu", want: "mutu"},
		{name: "initial capital carried", original: "Kualitas", replacement: "mutu", want: "Mutu"},
		{name: "all caps carried", original: "KUALITAS", replacement: "mutu", want: "MUTU"},
		{name: "trailing period carried", original: "kualitas.", replacement: "mutu", want: "mutu."},
		{name: "trailing comma and capital", original: "Kualitas,", replacement: "mutu", want: "Mutu,"},
		{name: "double punctuation carried", original: "kualitas?!", replacement: "mutu", want: "mutu?!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := preserveFormatting(tt.original, tt.replacement); got != tt.want {
				t.Errorf("preserveFormatting(%q, %q) = %q, want %q", tt.original, tt.replacement, got, tt.want)
			}
		})
	}
}

// TestSelector_Paraphrase_NoOps tests the documented no-op edge cases.
func TestSelector_Paraphrase_NoOps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		rate float64
	}{
		{name: "empty text", text: "", rate: 1.0},
		{name: "whitespace only", text: "   ", rate: 1.0},
		{name: "rate zero", text: "kualitas produk penelitian", rate: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			selector := newTestSelector(5)
			got, replacements, reduction := selector.Paraphrase(tt.text, tt.rate)
			if got != tt.text {
				t.Errorf("Paraphrase() = %q, want unchanged %q", got, tt.text)
			}
			if len(replacements) != 0 {
				t.Errorf("got %d replacements, want 0", len(replacements))
			}
			if reduction != 0 {
				t.Errorf("similarity reduction = %v, want 0", reduction)
			}
		})
	}
}

// TestSelector_Paraphrase_Replaces tests end-to-end token replacement.
func TestSelector_Paraphrase_Replaces(t *testing.T) {
	t.Parallel()

	selector := newTestSelector(6)
	input := "Penelitian ini menunjukkan bahwa kualitas produk berpengaruh terhadap keputusan konsumen dalam analisis hasil studi."
	got, replacements, reduction := selector.Paraphrase(input, 1.0)

	if len(replacements) == 0 {
		t.Fatal("expected replacements at rate=1.0 on table headwords")
	}
	if got == input {
		t.Error("output should differ from input")
	}
	if reduction <= 0 || reduction > 1 {
		t.Errorf("similarity reduction = %v, want in (0, 1]", reduction)
	}
	for _, replacement := range replacements {
		if replacement.Score < 0.65 {
			t.Errorf("replacement %q scored %v below gate", replacement.Replacement, replacement.Score)
		}
		if replacement.Position < 0 || replacement.Position >= len(strings.Fields(input)) {
			t.Errorf("replacement position %d out of range", replacement.Position)
		}
	}
}

// TestSelector_Paraphrase_SkipsShortAndNumeric tests token eligibility.
func TestSelector_Paraphrase_SkipsShortAndNumeric(t *testing.T) {
	t.Parallel()

	selector := newTestSelector(7)
	input := "di ke 42 x1 ab"
	got, replacements, _ := selector.Paraphrase(input, 1.0)

	if got != input {
		t.Errorf("Paraphrase() = %q, want unchanged %q", got, input)
	}
	if len(replacements) != 0 {
		t.Errorf("got %d replacements, want 0", len(replacements))
	}
}

// TestSelector_Paraphrase_Reproducible tests that equal seeds give
// equal output.
func TestSelector_Paraphrase_Reproducible(t *testing.T) {
	t.Parallel()

	input := "Penelitian ini menunjukkan bahwa kualitas produk berpengaruh terhadap keputusan pembelian konsumen."

	first, firstReplacements, _ := newTestSelector(42).Paraphrase(input, 0.5)
	second, secondReplacements, _ := newTestSelector(42).Paraphrase(input, 0.5)

	if first != second {
		t.Errorf("same seed produced different output:\n%q\n%q", first, second)
	}
	if len(firstReplacements) != len(secondReplacements) {
		t.Errorf("same seed produced different replacement counts: %d vs %d", len(firstReplacements), len(secondReplacements))
	}
}

// TestSelector_RewritePhrases tests stock academic phrase rewrites.
func TestSelector_RewritePhrases(t *testing.T) {
	t.Parallel()

	selector := newTestSelector(8)
	input := "Berdasarkan hasil penelitian yang dilakukan, dapat disimpulkan bahwa metode ini efektif."
	got, rewrites := selector.RewritePhrases(input)

	if rewrites != 2 {
		t.Errorf("got %d rewrites, want 2", rewrites)
	}
	if !strings.Contains(got, "Merujuk pada temuan riset") {
		t.Errorf("missing first rewrite in %q", got)
	}
	if !strings.Contains(got, "dapat dinyatakan bahwa") {
		t.Errorf("missing second rewrite in %q", got)
	}

	unchanged, none := selector.RewritePhrases("Tidak ada frasa baku di sini.")
	if none != 0 || unchanged != "Tidak ada frasa baku di sini." {
		t.Errorf("RewritePhrases() rewrote text without stock phrases: %q (%d)", unchanged, none)
	}
}
