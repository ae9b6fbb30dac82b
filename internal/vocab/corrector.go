package vocab

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/muttrapp/muttr/internal/confidence"
)

const defaultMinProbability = 0.70

// Correction records one vocabulary substitution applied to a transcription.
type Correction struct {
	Index     int
	Original  string
	Corrected string
	Score     float64
}

// CorrectorOption configures a [Corrector].
type CorrectorOption func(*Corrector)

// WithMinProbability sets the word probability below which a word is
// considered for correction. Default 0.70, the high-confidence floor.
func WithMinProbability(p float64) CorrectorOption {
	return func(c *Corrector) { c.minProbability = p }
}

// Corrector replaces low-probability words in a transcription with matching
// vocabulary terms. High-confidence words are never touched, so a clear
// "matter" survives even when "MuttR" is in the vocabulary.
type Corrector struct {
	matcher        *Matcher
	minProbability float64
}

// NewCorrector returns a corrector using matcher for term lookup.
func NewCorrector(matcher *Matcher, opts ...CorrectorOption) *Corrector {
	c := &Corrector{matcher: matcher, minProbability: defaultMinProbability}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Correct rewrites low-probability words in result that match a vocabulary
// term, preserving surrounding punctuation. It returns the substitutions
// applied, in word order. Results without word detail are left untouched.
func (c *Corrector) Correct(result *confidence.TranscriptionResult, terms []string) []Correction {
	if result == nil || len(result.Words) == 0 || len(terms) == 0 {
		return nil
	}

	var applied []Correction
	for i, w := range result.Words {
		if w.Probability >= c.minProbability {
			continue
		}
		core, prefix, suffix := splitPunct(w.Text)
		if core == "" {
			continue
		}
		term, score, ok := c.matcher.Match(core, terms)
		if !ok || strings.EqualFold(term, core) {
			continue
		}
		result.ReplaceWord(i, prefix+term+suffix)
		applied = append(applied, Correction{
			Index:     i,
			Original:  w.Text,
			Corrected: term,
			Score:     score,
		})
		slog.Debug("vocabulary correction",
			"original", core, "corrected", term, "score", score)
	}
	return applied
}

// splitPunct separates leading and trailing punctuation from a word so a
// match on `"mutter,"` replaces only the word and keeps the comma.
func splitPunct(word string) (core, prefix, suffix string) {
	runes := []rune(word)
	start, end := 0, len(runes)
	for start < end && !isWordRune(runes[start]) {
		start++
	}
	for end > start && !isWordRune(runes[end-1]) {
		end--
	}
	return string(runes[start:end]), string(runes[:start]), string(runes[end:])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}
