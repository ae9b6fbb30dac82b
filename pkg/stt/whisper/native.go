// Package whisper provides stt.Provider implementations backed by
// whisper.cpp: an in-process native backend via the CGO bindings and an HTTP
// backend for a running whisper.cpp server.
//
// For the native backend the whisper.cpp static library (libwhisper.a) and
// headers (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH environment variables.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/muttrapp/muttr/pkg/stt"
)

// SampleRate is the only sample rate whisper.cpp accepts.
const SampleRate = 16000

const defaultLanguage = "en"

// Compile-time assertion that Native satisfies stt.Provider.
var _ stt.Provider = (*Native)(nil)

// Native implements stt.Provider using the whisper.cpp Go bindings (CGO),
// eliminating server overhead entirely. The model is loaded once and shared
// across all transcriptions; each call creates its own whisper context, so
// concurrent calls do not interfere.
type Native struct {
	model    whisperlib.Model
	language string
}

// NativeOption is a functional option for configuring a Native provider.
type NativeOption func(*Native)

// WithNativeLanguage sets the default language code for transcription
// (e.g., "en", "de"). Defaults to "en".
func WithNativeLanguage(lang string) NativeOption {
	return func(p *Native) { p.language = lang }
}

// NewNative creates a Native provider that loads the whisper.cpp model from
// the given file path. The caller must call Close when the provider is no
// longer needed.
func NewNative(modelPath string, opts ...NativeOption) (*Native, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}

	p := &Native{model: model, language: defaultLanguage}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Name returns the engine identifier.
func (p *Native) Name() string { return "whisper" }

// Close releases the whisper model.
func (p *Native) Close() error {
	if p.model != nil {
		return p.model.Close()
	}
	return nil
}

// Transcribe runs whisper.cpp inference over samples (16 kHz mono float32)
// and returns the transcript. When opts.WordTimestamps is set, per-word
// timing and probability are assembled from token-level data.
func (p *Native) Transcribe(ctx context.Context, samples []float32, opts stt.TranscribeOptions) (*stt.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("whisper: context already cancelled: %w", err)
	}
	if len(samples) == 0 {
		return &stt.Transcript{}, nil
	}

	// Each context is NOT thread-safe, but the model can be shared across
	// goroutines.
	wctx, err := p.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("whisper: create context: %w", err)
	}

	lang := opts.Language
	if lang == "" {
		lang = p.language
	}
	if err := wctx.SetLanguage(lang); err != nil {
		slog.Warn("whisper: failed to set language, using default", "language", lang, "error", err)
	}
	if opts.InitialPrompt != "" {
		wctx.SetInitialPrompt(opts.InitialPrompt)
	}
	if opts.WordTimestamps {
		wctx.SetTokenTimestamps(true)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("whisper: process audio: %w", err)
	}

	tr := &stt.Transcript{
		Duration: time.Duration(len(samples)) * time.Second / SampleRate,
	}
	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("whisper: read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
		if opts.WordTimestamps {
			tr.Words = append(tr.Words, wordsFromTokens(segment.Tokens)...)
		}
	}
	tr.Text = strings.Join(parts, " ")
	return tr, nil
}

// wordsFromTokens groups whisper subword tokens into words. Whisper marks a
// word boundary with a leading space on the first token of each word;
// bracketed special tokens ("[_BEG_]" and friends) carry no text. A word's
// probability is the mean of its token probabilities.
func wordsFromTokens(tokens []whisperlib.Token) []stt.WordDetail {
	var (
		words   []stt.WordDetail
		current stt.WordDetail
		probSum float64
		nTokens int
	)
	flush := func() {
		word := strings.TrimSpace(current.Word)
		if word == "" || nTokens == 0 {
			current, probSum, nTokens = stt.WordDetail{}, 0, 0
			return
		}
		current.Word = word
		current.Probability = probSum / float64(nTokens)
		words = append(words, current)
		current, probSum, nTokens = stt.WordDetail{}, 0, 0
	}

	for _, tok := range tokens {
		if strings.HasPrefix(tok.Text, "[_") {
			continue
		}
		if strings.HasPrefix(tok.Text, " ") && nTokens > 0 {
			flush()
		}
		if nTokens == 0 {
			current.Start = tok.Start
		}
		current.Word += tok.Text
		current.End = tok.End
		probSum += float64(tok.P)
		nTokens++
	}
	flush()
	return words
}
