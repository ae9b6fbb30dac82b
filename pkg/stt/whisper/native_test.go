package whisper

import (
	"testing"
	"time"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

func TestNewNative_RequiresModelPath(t *testing.T) {
	if _, err := NewNative(""); err == nil {
		t.Fatal("NewNative(\"\") should fail")
	}
}

func TestWordsFromTokens(t *testing.T) {
	tokens := []whisperlib.Token{
		{Text: "[_BEG_]", P: 0.99},
		{Text: " Hello", P: 0.9, Start: 0, End: 200 * time.Millisecond},
		{Text: " wor", P: 0.8, Start: 250 * time.Millisecond, End: 400 * time.Millisecond},
		{Text: "ld", P: 0.6, Start: 400 * time.Millisecond, End: 500 * time.Millisecond},
		{Text: "[_TT_50]", P: 0.99},
	}

	words := wordsFromTokens(tokens)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2: %+v", len(words), words)
	}

	if words[0].Word != "Hello" {
		t.Errorf("words[0].Word = %q, want Hello", words[0].Word)
	}
	if diff := words[0].Probability - 0.9; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("words[0].Probability = %v, want 0.9", words[0].Probability)
	}

	if words[1].Word != "world" {
		t.Errorf("words[1].Word = %q, want subword tokens joined", words[1].Word)
	}
	// Mean of the two subword token probabilities.
	if diff := words[1].Probability - 0.7; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("words[1].Probability = %v, want 0.7", words[1].Probability)
	}
	if words[1].Start != 250*time.Millisecond || words[1].End != 500*time.Millisecond {
		t.Errorf("words[1] timing = [%v, %v], want token span", words[1].Start, words[1].End)
	}
}

func TestWordsFromTokens_Empty(t *testing.T) {
	if words := wordsFromTokens(nil); len(words) != 0 {
		t.Errorf("wordsFromTokens(nil) = %v, want none", words)
	}
	specials := []whisperlib.Token{{Text: "[_BEG_]"}, {Text: "[_EOT_]"}}
	if words := wordsFromTokens(specials); len(words) != 0 {
		t.Errorf("wordsFromTokens(specials) = %v, want none", words)
	}
}
