// Package stt defines the speech-to-text provider abstraction the dictation
// core consumes. Providers transcribe one complete recording at a time;
// streaming recognition is out of scope for a push-to-talk workflow.
package stt

import (
	"context"
	"time"
)

// Transcript is the result of transcribing one recording.
type Transcript struct {
	// Text is the transcribed speech content.
	Text string

	// Words contains per-word detail when word timestamps were requested
	// and the engine supports them. Nil otherwise.
	Words []WordDetail

	// Duration is the length of the transcribed audio.
	Duration time.Duration
}

// WordDetail holds per-word metadata from engines that support it.
type WordDetail struct {
	Word        string
	Start       time.Duration
	End         time.Duration
	Probability float64
}

// TranscribeOptions tune a single transcription call.
type TranscribeOptions struct {
	// Language is an ISO 639-1 hint ("en", "de", ...). Empty means the
	// provider's configured default.
	Language string

	// InitialPrompt biases decoding toward the given context, typically
	// stitched from clipboard text, recent history, and custom vocabulary.
	InitialPrompt string

	// WordTimestamps requests per-word timing and probability output.
	WordTimestamps bool
}

// Provider transcribes complete float32 PCM recordings (16 kHz mono).
type Provider interface {
	// Transcribe converts the samples to text. The returned transcript is
	// never nil on success.
	Transcribe(ctx context.Context, samples []float32, opts TranscribeOptions) (*Transcript, error)

	// Name identifies the provider implementation, e.g. "whisper".
	Name() string

	// Close releases model handles and other resources.
	Close() error
}
