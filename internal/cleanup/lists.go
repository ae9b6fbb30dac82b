package cleanup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Spoken list markers. Bullet items split on "bullet [point] [one..ten]",
// "dash", and "next item"; numbered items come in five shapes, tried in a
// fixed order by formatNumberedList.
var (
	bulletItemRE = regexp.MustCompile(
		`(?i)\s*\bbullet\s*(?:point)?\s*(?:(?:one|two|three|four|five|six|seven|eight|nine|ten|10|[1-9])\s+)?`,
	)
	dashItemRE = regexp.MustCompile(`(?i)\s*\bdash\b\s*`)
	nextItemRE = regexp.MustCompile(`(?i)\s*\bnext\s+item\b\s*`)

	numberWordItemRE = regexp.MustCompile(
		`(?i)\s*\bnumber\s+(one|two|three|four|five|six|seven|eight|nine|ten)\b[.,):\s]*`,
	)
	numberDigitItemRE = regexp.MustCompile(`(?i)\s*\bnumber\s+(\d{1,2})\b[.,):\s]*`)
	ordinalItemRE     = regexp.MustCompile(
		`(?i)\s*\b(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\b[.,):\s]*`,
	)
	digitDotItemRE     = regexp.MustCompile(`\s*(\d{1,2})\s*[.)]\s*`)
	cardinalParenItemRE = regexp.MustCompile(
		`(?i)\s*\b(one|two|three|four|five|six|seven|eight|nine|ten)\s*\)\s*`,
	)
)

var ordinalMap = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

var cardinalMap = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// hasBulletMarkers reports whether text contains at least two spoken
// bullet-list markers. A single "bullet" or "dash" is kept as prose.
func hasBulletMarkers(text string) bool {
	bullets := len(bulletItemRE.FindAllString(text, -1))
	dashes := len(dashItemRE.FindAllString(text, -1))
	return bullets >= 2 || dashes >= 2
}

func hasNumberedMarkers(text string) bool {
	return numberWordItemRE.MatchString(text) ||
		numberDigitItemRE.MatchString(text) ||
		ordinalItemRE.MatchString(text) ||
		digitDotItemRE.MatchString(text) ||
		cardinalParenItemRE.MatchString(text)
}

// formatBulletList converts spoken bullet markers into "- item" lines.
// Fewer than two surviving items means the markers were incidental and the
// text is returned unchanged.
func formatBulletList(text string) string {
	var expanded []string
	for _, part := range bulletItemRE.Split(text, -1) {
		for _, sub := range dashItemRE.Split(part, -1) {
			expanded = append(expanded, nextItemRE.Split(sub, -1)...)
		}
	}

	var items []string
	for _, p := range expanded {
		if item := trimItem(p); item != "" {
			items = append(items, item)
		}
	}
	if len(items) < 2 {
		return text
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimRight(upperFirst(item), ".")
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

type numberedItem struct {
	num     int
	content string
}

// formatNumberedList converts spoken number markers into "N. item" lines.
// The five marker shapes are tried in order and the first that yields items
// wins; mixed marker styles are not merged.
func formatNumberedList(text string) string {
	if out, ok := formatWordMarkers(text, numberWordItemRE, cardinalMap, 1); ok {
		return out
	}
	if out, ok := formatDigitMarkers(text, numberDigitItemRE, 1); ok {
		return out
	}
	if out, ok := formatWordMarkers(text, ordinalItemRE, ordinalMap, 2); ok {
		return out
	}
	if out, ok := formatWordMarkers(text, cardinalParenItemRE, cardinalMap, 1); ok {
		return out
	}
	if out, ok := formatDigitMarkers(text, digitDotItemRE, 2); ok {
		return out
	}
	return text
}

func formatWordMarkers(text string, re *regexp.Regexp, numbers map[string]int, minItems int) (string, bool) {
	chunks := splitKeep(re, text)
	if len(chunks) <= minItems {
		return "", false
	}
	preamble := strings.TrimSpace(chunks[0])
	var items []numberedItem
	for i := 1; i+1 < len(chunks); i += 2 {
		num, ok := numbers[strings.ToLower(chunks[i])]
		content := trimItem(chunks[i+1])
		if ok && content != "" {
			items = append(items, numberedItem{num: num, content: content})
		}
	}
	if len(items) < minItems {
		return "", false
	}
	return renderNumbered(preamble, items), true
}

func formatDigitMarkers(text string, re *regexp.Regexp, minItems int) (string, bool) {
	chunks := splitKeep(re, text)
	if len(chunks) <= minItems {
		return "", false
	}
	preamble := strings.TrimSpace(chunks[0])
	var items []numberedItem
	for i := 1; i+1 < len(chunks); i += 2 {
		num, err := strconv.Atoi(chunks[i])
		content := trimItem(chunks[i+1])
		if err == nil && content != "" {
			items = append(items, numberedItem{num: num, content: content})
		}
	}
	if len(items) < minItems {
		return "", false
	}
	return renderNumbered(preamble, items), true
}

func renderNumbered(preamble string, items []numberedItem) string {
	var lines []string
	if preamble != "" {
		lines = append(lines, preamble)
	}
	for _, it := range items {
		content := strings.TrimRight(upperFirst(it.content), ".")
		lines = append(lines, fmt.Sprintf("%d. %s", it.num, content))
	}
	return strings.Join(lines, "\n")
}

// splitKeep splits text on re while keeping the first capture group of each
// match, yielding [preamble, marker1, content1, marker2, content2, ...].
func splitKeep(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}
	chunks := make([]string, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		chunks = append(chunks, text[last:m[0]], text[m[2]:m[3]])
		last = m[1]
	}
	return append(chunks, text[last:])
}

func trimItem(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ","))
}
