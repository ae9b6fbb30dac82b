// Package vocab aligns misheard words with the user's custom vocabulary.
// Speech-to-text engines reliably butcher names and jargon ("mutter" for
// "MuttR"); this package finds the intended term by phonetic encoding and
// string similarity, then patches the transcription before cleanup runs.
package vocab

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85
)

// MatcherOption configures a [Matcher].
type MatcherOption func(*Matcher)

// WithPhoneticThreshold sets the minimum Jaro-Winkler score for a term that
// already overlaps phonetically. Default 0.70.
func WithPhoneticThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) { m.phoneticThreshold = threshold }
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score when no phonetic
// overlap exists. Default 0.85.
func WithFuzzyThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) { m.fuzzyThreshold = threshold }
}

// Matcher finds the vocabulary term most phonetically similar to a spoken
// word. Candidates are filtered by Double Metaphone code overlap and ranked
// by Jaro-Winkler similarity; without phonetic overlap a stricter pure
// similarity threshold applies. Read-only after construction, safe for
// concurrent use.
type Matcher struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// NewMatcher returns a matcher with the supplied options applied.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Match returns the best-scoring term for word, its similarity score, and
// whether any term cleared its threshold. When matched is false, the
// returned string is word unchanged.
func (m *Matcher) Match(word string, terms []string) (string, float64, bool) {
	wordLower := strings.ToLower(strings.TrimSpace(word))
	if wordLower == "" || len(terms) == 0 {
		return word, 0, false
	}
	wordCodes := metaphoneCodes(strings.Fields(wordLower))

	var (
		bestTerm     string
		bestScore    float64
		bestPhonetic bool
	)
	for _, term := range terms {
		termLower := strings.ToLower(strings.TrimSpace(term))
		if termLower == "" {
			continue
		}
		score := similarity(wordLower, termLower)
		phonetic := codesOverlap(wordCodes, metaphoneCodes(strings.Fields(termLower)))

		switch {
		case phonetic && score >= m.phoneticThreshold:
			if !bestPhonetic || score > bestScore {
				bestTerm, bestScore, bestPhonetic = term, score, true
			}
		case !phonetic && !bestPhonetic && score >= m.fuzzyThreshold && score > bestScore:
			bestTerm, bestScore = term, score
		}
	}

	if bestTerm == "" {
		return word, 0, false
	}
	return bestTerm, bestScore, true
}

// similarity returns the highest Jaro-Winkler score across full-string,
// space-stripped, and pairwise token comparisons, so "new trow" can still
// reach "Nutro".
func similarity(a, b string) float64 {
	score := matchr.JaroWinkler(a, b, false)

	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) > 1 || len(bTokens) > 1 {
		if s := matchr.JaroWinkler(strings.Join(aTokens, ""), strings.Join(bTokens, ""), false); s > score {
			score = s
		}
	}
	for _, at := range aTokens {
		for _, bt := range bTokens {
			if s := matchr.JaroWinkler(at, bt, false); s > score {
				score = s
			}
		}
	}
	return score
}

// metaphoneCodes unions the Double Metaphone codes of all tokens. Empty
// codes from short or vowel-only tokens are dropped.
func metaphoneCodes(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, 2*len(tokens))
	for _, t := range tokens {
		primary, secondary := matchr.DoubleMetaphone(t)
		if primary != "" {
			codes[primary] = struct{}{}
		}
		if secondary != "" {
			codes[secondary] = struct{}{}
		}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
