package cleanup

import (
	"regexp"
	"strings"
)

// fillerPattern strips hedge words along with the commas and whitespace that
// surround them. Bare "like" is excluded here; it needs context handling.
var fillerPattern = regexp.MustCompile(
	`(?i),?\s*(?:\bum\b|\buh\b|\byou know\b|\bbasically\b|\bactually\b|\bliterally\b|\bI mean\b|\bsort of\b|\bkind of\b)\s*,?\s*`,
)

// "like" is a filler in "I was like going" but not in "looks like a cat" or
// "I like pizza". Known non-filler uses are masked with a sentinel, the rest
// stripped, then the sentinel is restored.
var (
	likeProtectRE = regexp.MustCompile(
		`(?i)\b(looks?|looking|feels?|felt|feeling|seems?|seemed|seeming` +
			`|sounds?|sounded|sounding|smells?|smelled|tastes?|tasted` +
			`|just|more|much` +
			`|something|anything|nothing|everything` +
			`|[Ii]|you|we|they|he|she|it)\s+(like)\b`,
	)
	likeFillerRE = regexp.MustCompile(`(?i),?\s*\blike\b\s*,?\s*`)
)

const likeSentinel = "\x00COMP\x00"

func removeFillers(text string) string {
	text = fillerPattern.ReplaceAllString(text, " ")
	text = likeProtectRE.ReplaceAllString(text, "${1} "+likeSentinel)
	text = likeFillerRE.ReplaceAllString(text, " ")
	return strings.ReplaceAll(text, likeSentinel, "like")
}
