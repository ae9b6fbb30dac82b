// Package contextprompt assembles an initial prompt for the speech engine
// from local context: clipboard text, recent transcriptions, and the user's
// custom vocabulary. Priming the engine with nearby vocabulary measurably
// improves recognition of names and jargon. All sources are local.
package contextprompt

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Character caps per source. The final prompt stays well under the engine's
// ~224 token initial-prompt limit.
const (
	clipboardMaxChars = 200
	historyMaxChars   = 200
	promptMaxChars    = 400

	historyEntries = 2
	maxTerms       = 30
)

var urlPrefixRE = regexp.MustCompile(`^https?://`)

// Builder gathers context sources and renders the prompt. All sources are
// optional; a builder with no sources always produces an empty prompt.
type Builder struct {
	clipboard func(context.Context) (string, error)
	recent    func(context.Context, int) ([]string, error)
	terms     func() []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithClipboard supplies the clipboard reader.
func WithClipboard(read func(context.Context) (string, error)) Option {
	return func(b *Builder) { b.clipboard = read }
}

// WithRecentTexts supplies recent transcription texts, newest first.
func WithRecentTexts(recent func(context.Context, int) ([]string, error)) Option {
	return func(b *Builder) { b.recent = recent }
}

// WithTerms supplies the user's custom vocabulary terms.
func WithTerms(terms func() []string) Option {
	return func(b *Builder) { b.terms = terms }
}

// NewBuilder returns a Builder with the supplied sources.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build assembles the prompt. Source failures degrade to omission rather
// than error: a broken clipboard must never block a transcription.
func (b *Builder) Build(ctx context.Context) string {
	var clip, recent string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if b.clipboard == nil {
			return nil
		}
		text, err := b.clipboard(gctx)
		if err != nil {
			slog.Debug("context prompt: clipboard read failed", "error", err)
			return nil
		}
		clip = text
		return nil
	})
	g.Go(func() error {
		if b.recent == nil {
			return nil
		}
		texts, err := b.recent(gctx, historyEntries)
		if err != nil {
			slog.Debug("context prompt: history read failed", "error", err)
			return nil
		}
		var kept []string
		for _, t := range texts {
			if t = strings.TrimSpace(t); t != "" {
				kept = append(kept, t)
			}
		}
		recent = strings.Join(kept, " ")
		return nil
	})
	g.Wait()

	var parts []string
	if isProse(clip) {
		parts = append(parts, tail(clip, clipboardMaxChars))
	}
	if recent != "" {
		parts = append(parts, tail(recent, historyMaxChars))
	}
	if b.terms != nil {
		if hint := termsHint(b.terms()); hint != "" {
			parts = append(parts, hint)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	return "Continue: " + tail(strings.Join(parts, " "), promptMaxChars)
}

// termsHint renders up to maxTerms vocabulary terms as a "Names:" hint.
func termsHint(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	if len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}
	return "Names: " + strings.Join(terms, ", ")
}

// isProse reports whether text looks like natural language rather than
// code, a URL, or a stray token.
func isProse(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 5 {
		return false
	}
	special := 0
	for _, r := range text {
		if strings.ContainsRune("{}[]()<>|&;$#@!~`^\\=+*", r) {
			special++
		}
	}
	if float64(special)/float64(max(len(text), 1)) > 0.15 {
		return false
	}
	if !strings.Contains(trimmed, " ") {
		return false
	}
	return !urlPrefixRE.MatchString(trimmed)
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
