package confidence

import (
	"testing"
	"time"

	"github.com/muttrapp/muttr/pkg/stt"
)

func TestWordInfoTierBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		probability float64
		want        Tier
	}{
		{1.0, TierHigh},
		{0.70, TierHigh},
		{0.699, TierMedium},
		{0.40, TierMedium},
		{0.399, TierLow},
		{0.0, TierLow},
	}
	for _, tt := range tests {
		w := WordInfo{Text: "word", Probability: tt.probability}
		if got := w.Tier(); got != tt.want {
			t.Errorf("Tier(probability=%v) = %q, want %q", tt.probability, got, tt.want)
		}
	}
}

func TestHasLowConfidenceWords(t *testing.T) {
	t.Parallel()

	allHigh := TranscriptionResult{
		Words: []WordInfo{{Text: "a", Probability: 0.9}, {Text: "b", Probability: 0.71}},
	}
	if allHigh.HasLowConfidenceWords() {
		t.Error("HasLowConfidenceWords() = true for all-high result")
	}

	mixed := TranscriptionResult{
		Words: []WordInfo{{Text: "a", Probability: 0.9}, {Text: "b", Probability: 0.5}},
	}
	if !mixed.HasLowConfidenceWords() {
		t.Error("HasLowConfidenceWords() = false for mixed result")
	}
	if got := mixed.LowConfidenceWords(); len(got) != 1 || got[0].Text != "b" {
		t.Errorf("LowConfidenceWords() = %v, want the single medium word", got)
	}
}

func TestReplaceWord(t *testing.T) {
	t.Parallel()

	r := TranscriptionResult{
		Text: "helo world",
		Words: []WordInfo{
			{Text: "helo", Start: 0, End: 0.4, Probability: 0.3},
			{Text: "world", Start: 0.4, End: 0.9, Probability: 0.95},
		},
		HasWordConfidence: true,
	}

	r.ReplaceWord(0, "hello")

	if r.Words[0].Text != "hello" {
		t.Errorf("Words[0].Text = %q, want %q", r.Words[0].Text, "hello")
	}
	if r.Words[0].Probability != 1.0 {
		t.Errorf("Words[0].Probability = %v, want 1.0 after correction", r.Words[0].Probability)
	}
	if r.Words[0].Start != 0 || r.Words[0].End != 0.4 {
		t.Error("ReplaceWord should keep the original timing")
	}
	if r.Text != "hello world" {
		t.Errorf("Text = %q, want resynthesized %q", r.Text, "hello world")
	}
}

func TestReplaceWordOutOfRange(t *testing.T) {
	t.Parallel()

	r := TranscriptionResult{
		Text:  "hello",
		Words: []WordInfo{{Text: "hello", Probability: 0.9}},
	}
	r.ReplaceWord(-1, "x")
	r.ReplaceWord(1, "x")
	r.ReplaceWord(100, "x")

	if r.Text != "hello" || r.Words[0].Text != "hello" {
		t.Errorf("out-of-range ReplaceWord mutated the result: %+v", r)
	}
}

func TestWordTiersWithoutWordData(t *testing.T) {
	t.Parallel()

	r := TranscriptionResult{Text: "plain text"}
	got := r.WordTiers()
	if len(got) != 1 || got[0].Text != "plain text" || got[0].Tier != TierHigh {
		t.Errorf("WordTiers() = %v, want single high-tier span", got)
	}
}

func TestFromTranscript(t *testing.T) {
	t.Parallel()

	tr := stt.Transcript{
		Text: "hello world",
		Words: []stt.WordDetail{
			{Word: " hello", Start: 0, End: 400 * time.Millisecond, Probability: 0.9},
			{Word: "world ", Start: 400 * time.Millisecond, End: 900 * time.Millisecond, Probability: 0.6},
			{Word: "  ", Probability: 0.5},
		},
	}

	r := FromTranscript(tr)
	if !r.HasWordConfidence {
		t.Error("HasWordConfidence = false, want true")
	}
	if len(r.Words) != 2 {
		t.Fatalf("len(Words) = %d, want 2 (blank token dropped)", len(r.Words))
	}
	if r.Words[0].Text != "hello" || r.Words[1].Text != "world" {
		t.Errorf("Words = %+v, want trimmed tokens", r.Words)
	}
	if r.Words[1].Start != 0.4 {
		t.Errorf("Words[1].Start = %v, want 0.4", r.Words[1].Start)
	}

	plain := FromTranscript(stt.Transcript{Text: "no words"})
	if plain.HasWordConfidence {
		t.Error("HasWordConfidence = true for transcript without word data")
	}
}

func TestShouldShowReview(t *testing.T) {
	t.Parallel()

	lowWords := &TranscriptionResult{
		Words:             []WordInfo{{Text: "a", Probability: 0.5}},
		HasWordConfidence: true,
	}
	highWords := &TranscriptionResult{
		Words:             []WordInfo{{Text: "a", Probability: 0.9}},
		HasWordConfidence: true,
	}
	noWords := &TranscriptionResult{Text: "plain"}

	tests := []struct {
		name    string
		result  *TranscriptionResult
		enabled bool
		want    bool
	}{
		{"low words, enabled", lowWords, true, true},
		{"low words, disabled", lowWords, false, false},
		{"all high, enabled", highWords, true, false},
		{"no word data, enabled", noWords, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ShouldShowReview(tt.result, tt.enabled); got != tt.want {
				t.Errorf("ShouldShowReview() = %v, want %v", got, tt.want)
			}
		})
	}
}
