// Package confidence classifies per-word transcription probabilities into
// coarse tiers and decides whether a low-confidence review should be shown.
package confidence

import (
	"strings"

	"github.com/muttrapp/muttr/pkg/stt"
)

// Tier buckets a per-word probability for heatmap display.
type Tier string

const (
	TierHigh   Tier = "high"   // normal rendering
	TierMedium Tier = "medium" // amber
	TierLow    Tier = "low"    // red
)

// Tier thresholds, inclusive on the high side of each band.
const (
	highThreshold = 0.70
	lowThreshold  = 0.40
)

// WordInfo is one transcribed word with timing and probability.
type WordInfo struct {
	Text        string
	Start       float64
	End         float64
	Probability float64
}

// Tier classifies the word's probability.
func (w WordInfo) Tier() Tier {
	switch {
	case w.Probability >= highThreshold:
		return TierHigh
	case w.Probability >= lowThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// TranscriptionResult is a full transcription with optional per-word data.
// When HasWordConfidence is true, Text is the space-joined concatenation of
// the word texts and stays that way across corrections.
type TranscriptionResult struct {
	Text              string
	Words             []WordInfo
	HasWordConfidence bool
}

// FromTranscript converts an STT transcript into a TranscriptionResult,
// carrying per-word probabilities when the engine produced them.
func FromTranscript(tr stt.Transcript) TranscriptionResult {
	result := TranscriptionResult{Text: tr.Text}
	for _, w := range tr.Words {
		word := strings.TrimSpace(w.Word)
		if word == "" {
			continue
		}
		result.Words = append(result.Words, WordInfo{
			Text:        word,
			Start:       w.Start.Seconds(),
			End:         w.End.Seconds(),
			Probability: w.Probability,
		})
	}
	result.HasWordConfidence = len(result.Words) > 0
	return result
}

// HasLowConfidenceWords reports whether any word sits below the high tier.
func (r *TranscriptionResult) HasLowConfidenceWords() bool {
	for _, w := range r.Words {
		if w.Tier() != TierHigh {
			return true
		}
	}
	return false
}

// LowConfidenceWords returns the words below the high tier.
func (r *TranscriptionResult) LowConfidenceWords() []WordInfo {
	var low []WordInfo
	for _, w := range r.Words {
		if w.Tier() != TierHigh {
			low = append(low, w)
		}
	}
	return low
}

// WordTier pairs a rendered token with its tier.
type WordTier struct {
	Text string
	Tier Tier
}

// WordTiers returns (word, tier) pairs for rendering. Without per-word data
// the whole text is returned as a single high-tier span.
func (r *TranscriptionResult) WordTiers() []WordTier {
	if len(r.Words) == 0 {
		return []WordTier{{Text: r.Text, Tier: TierHigh}}
	}
	tiers := make([]WordTier, len(r.Words))
	for i, w := range r.Words {
		tiers[i] = WordTier{Text: w.Text, Tier: w.Tier()}
	}
	return tiers
}

// ReplaceWord swaps the word at index for a user correction: probability
// becomes 1.0 and Text is resynthesized. Out-of-range indexes are a no-op.
func (r *TranscriptionResult) ReplaceWord(index int, newText string) {
	if index < 0 || index >= len(r.Words) {
		return
	}
	r.Words[index] = WordInfo{
		Text:        newText,
		Start:       r.Words[index].Start,
		End:         r.Words[index].End,
		Probability: 1.0,
	}
	texts := make([]string, len(r.Words))
	for i, w := range r.Words {
		texts[i] = w.Text
	}
	r.Text = strings.Join(texts, " ")
}

// ShouldShowReview decides whether the review overlay should appear. It is a
// pure function: false without per-word data or low-tier words, otherwise
// the enabled flag decides.
func ShouldShowReview(r *TranscriptionResult, enabled bool) bool {
	if !r.HasWordConfidence || !r.HasLowConfidenceWords() {
		return false
	}
	return enabled
}
