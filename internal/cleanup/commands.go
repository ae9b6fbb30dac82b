package cleanup

import "regexp"

// Spoken paragraph and line-break commands.
var (
	// "period new paragraph" including any punctuation the recognizer
	// already emitted before it.
	periodNewParaRE = regexp.MustCompile(`(?i)[.\s]*\bperiod\s+new\s+paragraph\b`)

	newParagraphRE = regexp.MustCompile(`(?i)\s*\b(?:new|next)\s+paragraph\b\s*`)

	newLineRE = regexp.MustCompile(`(?i)\s*\b(?:new|next)\s+line\b\s*`)
)

// processStructuralCommands replaces spoken paragraph/line commands with the
// whitespace they stand for. Order matters: "period new paragraph" must win
// over the bare "new paragraph" suffix it contains.
func processStructuralCommands(text string) string {
	text = periodNewParaRE.ReplaceAllString(text, ".\n\n")
	text = newParagraphRE.ReplaceAllString(text, "\n\n")
	text = newLineRE.ReplaceAllString(text, "\n")
	return text
}
