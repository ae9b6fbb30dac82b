package cleanup

import (
	"fmt"
	"regexp"
	"strings"
)

// preservePattern matches tokens that must survive cleanup untouched:
// URLs, email addresses, and backtick-quoted code spans.
var preservePattern = regexp.MustCompile("(?:https?://\\S+|www\\.\\S+|\\S+@\\S+\\.\\S+|`[^`]+`)")

type preservedToken struct {
	placeholder string
	original    string
}

// extractPreserved swaps protected tokens for NUL-delimited placeholders so
// no regex stage can touch them. restorePreserved puts them back at the end.
func extractPreserved(text string) (string, []preservedToken) {
	var tokens []preservedToken
	counter := 0
	modified := preservePattern.ReplaceAllStringFunc(text, func(match string) string {
		placeholder := fmt.Sprintf("\x00PRESERVE%d\x00", counter)
		tokens = append(tokens, preservedToken{placeholder: placeholder, original: match})
		counter++
		return placeholder
	})
	return modified, tokens
}

func restorePreserved(text string, tokens []preservedToken) string {
	for _, tok := range tokens {
		text = strings.ReplaceAll(text, tok.placeholder, tok.original)
	}
	return text
}
