// Package cleanup turns raw dictation transcripts into polished text with
// deterministic regex and token rules. No model calls, no randomness: the
// same input at the same level always produces the same output.
//
// Aggressiveness levels:
//
//	0  Light      - whitespace, repeated words, sentence case, punctuation,
//	               paragraph/line-break commands, proper-noun capitalization
//	1  Moderate   - Light + filler removal + list formatting
//	2  Aggressive - Moderate + false-start removal + punctuation smoothing
package cleanup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cleanup levels accepted by [Pipeline.Clean]. Out-of-range values are
// clamped.
const (
	LevelLight      = 0
	LevelModerate   = 1
	LevelAggressive = 2
)

// Pipeline applies the staged cleanup rules. Safe for concurrent use; the
// only mutable state lives in the noun registry's atomic snapshot.
type Pipeline struct {
	registry *Registry
}

// NewPipeline returns a pipeline backed by the given proper-noun registry.
func NewPipeline(registry *Registry) *Pipeline {
	return &Pipeline{registry: registry}
}

// Registry exposes the pipeline's proper-noun registry.
func (p *Pipeline) Registry() *Registry { return p.registry }

// Clean applies cleanup rules to a raw transcript at the given level.
// Whitespace-only input yields ""; for any other input the result is never
// empty — if the rules strip everything, the trimmed raw text is returned
// instead.
func (p *Pipeline) Clean(text string, level int) string {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return ""
	}
	level = min(max(level, LevelLight), LevelAggressive)

	// Shield URLs, emails, and code spans from every stage below.
	result, preserved := extractPreserved(raw)

	result = processStructuralCommands(result)
	result = p.registry.Capitalize(result)

	result = normalizeWhitespace(result)
	result = collapseRepeatedWords(result)

	if level >= LevelModerate {
		result = removeFillers(result)
		// Markers are checked before any stage can normalize them away.
		if hasBulletMarkers(result) {
			result = formatBulletList(result)
		} else if hasNumberedMarkers(result) {
			result = formatNumberedList(result)
		}
	}

	if level >= LevelAggressive {
		result = collapseFalseStarts(result)
		result = smoothPunctuation(result)
	}

	result = normalizeWhitespace(result)
	result = sentenceCase(result)
	result = ensureTerminalPunctuation(result)

	result = restorePreserved(result, preserved)

	if strings.TrimSpace(result) == "" {
		return raw
	}
	return result
}

var (
	spaceRunRE   = regexp.MustCompile(`[ \t]+`)
	blankLinesRE = regexp.MustCompile(`\n{3,}`)
)

// normalizeWhitespace collapses runs of spaces while preserving explicit
// newlines, and caps consecutive blank lines at one.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRE.ReplaceAllString(line, " "))
	}
	result := blankLinesRE.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

var wordTokenRE = regexp.MustCompile(`[0-9A-Za-z_]+`)

// collapseRepeatedWords collapses immediate repeats: "the the" -> "the".
// Comparison is case-insensitive and the first occurrence's casing wins.
// Go's regexp has no backreferences, so this is a token scan rather than
// the (\w+)\s+\1 pattern the rule naturally reads as.
func collapseRepeatedWords(text string) string {
	locs := wordTokenRE.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	prevEnd := 0
	prev := ""
	for _, loc := range locs {
		tok := text[loc[0]:loc[1]]
		lower := strings.ToLower(tok)
		gap := text[prevEnd:loc[0]]
		if prev != "" && lower == prev && isSpaceGap(gap) {
			prevEnd = loc[1]
			continue
		}
		b.WriteString(gap)
		b.WriteString(tok)
		prevEnd = loc[1]
		prev = lower
	}
	b.WriteString(text[prevEnd:])
	return b.String()
}

// collapseFalseStarts removes repeated one- or two-word phrases:
// "I was I was going" -> "I was going". Two-word repeats are tried first,
// mirroring a greedy (\w+(?:\s+\w+)?)\s+\1 match.
func collapseFalseStarts(text string) string {
	locs := wordTokenRE.FindAllStringIndex(text, -1)
	n := len(locs)
	if n < 2 {
		return text
	}
	toks := make([]string, n)
	for i, loc := range locs {
		toks[i] = strings.ToLower(text[loc[0]:loc[1]])
	}
	gapOK := func(i int) bool {
		return isSpaceGap(text[locs[i][1]:locs[i+1][0]])
	}

	var b strings.Builder
	b.Grow(len(text))
	prevEnd := 0
	for i := 0; i < n; {
		if i+3 < n && toks[i] == toks[i+2] && toks[i+1] == toks[i+3] &&
			gapOK(i) && gapOK(i+1) && gapOK(i+2) {
			b.WriteString(text[prevEnd:locs[i+1][1]])
			prevEnd = locs[i+3][1]
			i += 4
			continue
		}
		if i+1 < n && toks[i] == toks[i+1] && gapOK(i) {
			b.WriteString(text[prevEnd:locs[i][1]])
			prevEnd = locs[i+1][1]
			i += 2
			continue
		}
		b.WriteString(text[prevEnd:locs[i][1]])
		prevEnd = locs[i][1]
		i++
	}
	b.WriteString(text[prevEnd:])
	return b.String()
}

func isSpaceGap(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}

var capAfterBreakRE = regexp.MustCompile(`([.!?])\s+([a-z])`)

// sentenceCase capitalizes the first letter of each line and of each
// sentence within a line.
func sentenceCase(text string) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			line = upperFirst(line)
			line = capAfterBreakRE.ReplaceAllStringFunc(line, func(m string) string {
				return m[:1] + " " + strings.ToUpper(m[len(m)-1:])
			})
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

var numberedLineRE = regexp.MustCompile(`^\d+\.\s`)

// ensureTerminalPunctuation appends a period to lines that end without
// sentence punctuation. Bullet and numbered list items are left alone.
func ensureTerminalPunctuation(text string) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		stripped := strings.TrimRight(line, " \t")
		switch {
		case stripped == "":
		case strings.HasPrefix(stripped, "- ") || strings.HasPrefix(stripped, "* "):
		case numberedLineRE.MatchString(stripped):
		case !strings.ContainsRune(".!?", rune(stripped[len(stripped)-1])):
			stripped += "."
		}
		lines[i] = stripped
	}
	return strings.Join(lines, "\n")
}

var (
	doublePeriodRE     = regexp.MustCompile(`\.{2,}`)
	spaceBeforePunctRE = regexp.MustCompile(`\s+([.!?,;:])`)
	missingSpaceRE     = regexp.MustCompile(`([.!?])([A-Z])`)
	commaPeriodRE      = regexp.MustCompile(`,\.`)
	periodCommaRE      = regexp.MustCompile(`\.,`)
)

// smoothPunctuation fixes punctuation artifacts common in dictated text.
func smoothPunctuation(text string) string {
	text = doublePeriodRE.ReplaceAllString(text, ".")
	text = spaceBeforePunctRE.ReplaceAllString(text, "$1")
	text = missingSpaceRE.ReplaceAllString(text, "$1 $2")
	text = commaPeriodRE.ReplaceAllString(text, ".")
	text = periodCommaRE.ReplaceAllString(text, ",")
	return text
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
