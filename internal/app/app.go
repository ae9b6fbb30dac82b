// Package app wires the recording pipeline together: budget check, murmur
// preprocessing, context priming, transcription, confidence extraction,
// vocabulary correction, cleanup, and the post-insert side effects (history,
// budget, coaching, metrics).
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/muttrapp/muttr/internal/budget"
	"github.com/muttrapp/muttr/internal/cadence"
	"github.com/muttrapp/muttr/internal/cleanup"
	"github.com/muttrapp/muttr/internal/config"
	"github.com/muttrapp/muttr/internal/confidence"
	"github.com/muttrapp/muttr/internal/contextprompt"
	"github.com/muttrapp/muttr/internal/history"
	"github.com/muttrapp/muttr/internal/murmur"
	"github.com/muttrapp/muttr/internal/observe"
	"github.com/muttrapp/muttr/internal/vocab"
	"github.com/muttrapp/muttr/pkg/stt"
)

// sampleRate is the capture rate the recording pipeline operates at.
const sampleRate = 16000

// minRecordingSamples is 100 ms of audio; anything shorter is a key tap,
// not speech.
const minRecordingSamples = sampleRate / 10

// ErrOverBudget is returned when the daily word budget is exhausted.
var ErrOverBudget = errors.New("app: daily word budget exhausted")

// ErrAudioTooShort is returned for recordings too short to transcribe.
var ErrAudioTooShort = errors.New("app: recording too short")

// App owns the full recording-to-text flow.
type App struct {
	cfg      *config.Config
	provider stt.Provider

	pipeline  *cleanup.Pipeline
	corrector *vocab.Corrector
	murmur    *murmur.Mode
	cadStore  *cadence.Store

	history *history.Store
	budget  *budget.Tracker
	prompt  *contextprompt.Builder
	met     *observe.Metrics
}

// Option configures optional App collaborators.
type Option func(*App)

// WithHistory attaches a transcription history store.
func WithHistory(s *history.Store) Option {
	return func(a *App) { a.history = s }
}

// WithBudget attaches a word budget tracker.
func WithBudget(t *budget.Tracker) Option {
	return func(a *App) { a.budget = t }
}

// WithPromptBuilder attaches a context prompt builder.
func WithPromptBuilder(b *contextprompt.Builder) Option {
	return func(a *App) { a.prompt = b }
}

// WithMetrics replaces the default metrics instance, for tests.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.met = m }
}

// New assembles an App from the configuration and a transcription provider.
func New(cfg *config.Config, provider stt.Provider, opts ...Option) *App {
	registry := cleanup.NewRegistry()
	if len(cfg.ProperNouns) > 0 {
		registry.AddNouns(cfg.ProperNouns)
	}

	a := &App{
		cfg:       cfg,
		provider:  provider,
		pipeline:  cleanup.NewPipeline(registry),
		corrector: vocab.NewCorrector(vocab.NewMatcher()),
		murmur: murmur.NewMode(murmur.Settings{
			Gain:           cfg.Murmur.Gain,
			NoiseGateDB:    cfg.Murmur.NoiseGateDB,
			MinUtteranceMS: cfg.Murmur.MinUtteranceMS,
		}),
		cadStore: cadence.NewStore(cfg.DataDir),
	}
	for _, o := range opts {
		o(a)
	}
	if a.met == nil {
		a.met = observe.DefaultMetrics()
	}
	return a
}

// Pipeline exposes the cleanup pipeline, mainly for vocabulary management.
func (a *App) Pipeline() *cleanup.Pipeline { return a.pipeline }

// Murmur exposes the murmur mode toggle.
func (a *App) Murmur() *murmur.Mode { return a.murmur }

// NewSession returns a cadence tracker for a recording session. Feed it
// live RMS levels during recording and pass it to [App.ProcessRecording].
func (a *App) NewSession() *cadence.Tracker {
	return cadence.NewTracker(a.cadStore)
}

// AutoStopThreshold returns the silence duration after which recording
// should stop, adapted to the user's learned pause cadence.
func (a *App) AutoStopThreshold() time.Duration {
	return cadence.AutoStopThreshold(a.cadStore.LoadCadence(), a.cfg.AdaptiveSilence)
}

// Result is the outcome of one processed recording.
type Result struct {
	RawText     string
	CleanedText string

	// Confidence carries per-word probability data when the engine
	// produced it, after any vocabulary corrections.
	Confidence confidence.TranscriptionResult

	// Corrections lists vocabulary substitutions that were applied.
	Corrections []vocab.Correction

	// ShowReview indicates the low-confidence review overlay should appear.
	ShowReview bool

	// Feedback is the coaching label for this session, empty when the
	// session matched the user's baseline or coaching is disabled.
	Feedback string

	// Metrics is the speech-quality snapshot used for coaching.
	Metrics cadence.Metrics

	Duration time.Duration
}

// ProcessRecording turns a finished recording into cleaned text. Ancillary
// work (history, budget accounting, coaching, metrics) runs after the text
// is ready and never fails the call: losing a history row must not lose the
// user's words.
func (a *App) ProcessRecording(ctx context.Context, samples []float32, session *cadence.Tracker) (*Result, error) {
	a.met.ActiveRecordings.Add(ctx, 1)
	defer a.met.ActiveRecordings.Add(ctx, -1)

	if a.budget != nil {
		over, err := a.budget.IsOverBudget()
		if err != nil {
			slog.Warn("budget check failed, allowing recording", "error", err)
		} else if over {
			return nil, ErrOverBudget
		}
	}

	minSamples := minRecordingSamples
	proc := a.murmur.Processor()
	if proc != nil {
		if ms := a.murmur.MinUtteranceMS(); ms > 0 {
			minSamples = sampleRate * ms / 1000
		}
	}
	if len(samples) < minSamples {
		return nil, ErrAudioTooShort
	}
	if proc != nil {
		samples = proc.Process(samples)
	}

	var initialPrompt string
	if a.cfg.ContextStitching && a.prompt != nil {
		initialPrompt = a.prompt.Build(ctx)
	}

	start := time.Now()
	tr, err := a.provider.Transcribe(ctx, samples, stt.TranscribeOptions{
		Language:       a.cfg.STT.Language,
		InitialPrompt:  initialPrompt,
		WordTimestamps: true,
	})
	a.met.TranscriptionDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		a.met.RecordTranscription(ctx, a.provider.Name(), "error")
		return nil, fmt.Errorf("app: transcribe: %w", err)
	}

	result := confidence.FromTranscript(*tr)
	res := &Result{
		RawText:  strings.TrimSpace(tr.Text),
		Duration: tr.Duration,
	}
	if res.RawText == "" {
		a.met.RecordTranscription(ctx, a.provider.Name(), "empty")
		res.Confidence = result
		return res, nil
	}

	res.Corrections = a.corrector.Correct(&result, a.pipeline.Registry().CustomNouns())
	res.Confidence = result
	res.ShowReview = confidence.ShouldShowReview(&result, a.cfg.ConfidenceReview)

	cleanStart := time.Now()
	res.CleanedText = a.pipeline.Clean(result.Text, a.cfg.CleanupLevel)
	a.met.CleanupDuration.Record(ctx, time.Since(cleanStart).Seconds())

	a.finishRecording(ctx, samples, res, session)
	return res, nil
}

// finishRecording runs the side effects of a completed recording. Failures
// are logged and swallowed.
func (a *App) finishRecording(ctx context.Context, samples []float32, res *Result, session *cadence.Tracker) {
	if session != nil {
		session.FinishSession()
	}

	m := cadence.Analyze(samples, res.RawText, res.Duration.Seconds(), meanProbability(res.Confidence))
	res.Metrics = m
	if a.cfg.CadenceFeedback {
		profile := a.cadStore.LoadSpeech()
		if profile.HasBaseline() {
			res.Feedback = profile.Feedback(m)
		}
		profile.Update(m)
		a.cadStore.SaveSpeech(profile)
	}

	wordCount := len(strings.Fields(res.CleanedText))
	if a.history != nil {
		if _, err := a.history.Add(res.RawText, res.CleanedText, a.provider.Name(), res.Duration.Seconds()); err != nil {
			slog.Warn("failed to record history entry", "error", err)
		}
	}
	if a.budget != nil {
		if err := a.budget.Record(wordCount); err != nil {
			slog.Warn("failed to record word usage", "error", err)
		}
	}

	a.met.RecordTranscription(ctx, a.provider.Name(), "ok")
	a.met.AddWords(ctx, wordCount)
	a.met.FillerWords.Add(ctx, int64(m.FillerCount))
	a.met.VocabCorrections.Add(ctx, int64(len(res.Corrections)))
}

// meanProbability averages per-word probabilities, zero without word data.
func meanProbability(r confidence.TranscriptionResult) float64 {
	if len(r.Words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range r.Words {
		sum += w.Probability
	}
	return sum / float64(len(r.Words))
}

// Close releases the provider and any attached stores.
func (a *App) Close() error {
	var errs []error
	if err := a.provider.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.budget != nil {
		if err := a.budget.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
