// Command muttr is the headless MuttR dictation pipeline: it transcribes a
// recorded WAV file (or cleans already-transcribed text) using the same
// engine the desktop app embeds.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muttrapp/muttr/internal/app"
	"github.com/muttrapp/muttr/internal/budget"
	"github.com/muttrapp/muttr/internal/cleanup"
	"github.com/muttrapp/muttr/internal/config"
	"github.com/muttrapp/muttr/internal/contextprompt"
	"github.com/muttrapp/muttr/internal/history"
	"github.com/muttrapp/muttr/internal/observe"
	"github.com/muttrapp/muttr/pkg/audio"
	"github.com/muttrapp/muttr/pkg/stt"
	"github.com/muttrapp/muttr/pkg/stt/whisper"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	audioPath := flag.String("audio", "", "WAV file (16 kHz mono) to transcribe and clean")
	text := flag.String("text", "", "raw transcript text to clean without transcription")
	level := flag.Int("level", -1, "override the configured cleanup level (0-2)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "muttr: %v\n", err)
		return 1
	}
	if *level >= 0 && *level <= 2 {
		cfg.CleanupLevel = *level
	}

	slog.SetDefault(newLogger(cfg.LogLevel))

	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			slog.Error("cannot determine data directory", "err", err)
			return 1
		}
		cfg.DataDir = filepath.Join(base, "muttr")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	if addr := cfg.Telemetry.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			slog.Info("metrics endpoint listening", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				slog.Warn("metrics endpoint error", "err", err)
			}
		}()
	}

	// Text-only mode needs no transcription engine.
	if *text != "" {
		registry := cleanup.NewRegistry()
		registry.AddNouns(cfg.ProperNouns)
		fmt.Println(cleanup.NewPipeline(registry).Clean(*text, cfg.CleanupLevel))
		return 0
	}

	if *audioPath == "" {
		fmt.Fprintln(os.Stderr, "muttr: nothing to do — pass -audio <file.wav> or -text <transcript>")
		return 2
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		slog.Error("failed to build transcription engine", "err", err)
		return 1
	}

	application, err := buildApp(cfg, provider)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Warn("close error", "err", err)
		}
	}()

	samples, rate, err := audio.LoadWAV(*audioPath)
	if err != nil {
		slog.Error("failed to load audio", "path", *audioPath, "err", err)
		return 1
	}
	if rate != whisper.SampleRate {
		slog.Warn("unexpected sample rate, transcription quality may suffer",
			"rate", rate, "want", whisper.SampleRate)
	}

	res, err := application.ProcessRecording(ctx, samples, application.NewSession())
	if err != nil {
		switch {
		case errors.Is(err, app.ErrOverBudget):
			fmt.Fprintln(os.Stderr, "muttr: daily word budget exhausted")
		case errors.Is(err, app.ErrAudioTooShort):
			fmt.Fprintln(os.Stderr, "muttr: recording too short to transcribe")
		default:
			slog.Error("processing failed", "err", err)
		}
		return 1
	}

	fmt.Println(res.CleanedText)
	if res.Feedback != "" {
		slog.Info("coaching", "feedback", res.Feedback)
	}
	if res.ShowReview {
		for _, w := range res.Confidence.LowConfidenceWords() {
			slog.Info("low confidence word", "word", w.Text, "probability", w.Probability)
		}
	}
	for _, c := range res.Corrections {
		slog.Info("vocabulary correction", "original", c.Original, "corrected", c.Corrected)
	}
	return 0
}

// loadConfig reads the config file, falling back to built-in defaults when
// the default path does not exist. An explicitly passed -config that is
// missing is still an error.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && !flagPassed("config") {
		return config.Default(), nil
	}
	return nil, err
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

// buildProvider constructs the configured transcription engine. When the
// native engine fails to load and a server URL is configured, the server
// backend is used as a fallback.
func buildProvider(cfg *config.Config) (stt.Provider, error) {
	switch cfg.STT.Engine {
	case config.EngineWhisperServer:
		return whisper.NewServer(cfg.STT.ServerURL, whisper.WithServerLanguage(cfg.STT.Language))
	default:
		p, err := whisper.NewNative(cfg.STT.ModelPath, whisper.WithNativeLanguage(cfg.STT.Language))
		if err != nil && cfg.STT.ServerURL != "" {
			slog.Warn("native engine unavailable, falling back to whisper server", "err", err)
			return whisper.NewServer(cfg.STT.ServerURL, whisper.WithServerLanguage(cfg.STT.Language))
		}
		return p, err
	}
}

// buildApp wires the optional collaborators around the core pipeline.
func buildApp(cfg *config.Config, provider stt.Provider) (*app.App, error) {
	var opts []app.Option

	var hist *history.Store
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			path = filepath.Join(cfg.DataDir, "history.db")
		}
		var err error
		hist, err = history.Open(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithHistory(hist))
	}

	if cfg.Budget.DailyWordLimit > 0 {
		tracker, err := budget.Open(filepath.Join(cfg.DataDir, "budget.db"), cfg.Budget.DailyWordLimit)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithBudget(tracker))
	}

	// The prompt sources read from the application being built, so they are
	// captured lazily and resolved on first use.
	var application *app.App
	if cfg.ContextStitching {
		promptOpts := []contextprompt.Option{
			contextprompt.WithTerms(func() []string {
				return application.Pipeline().Registry().CustomNouns()
			}),
		}
		if hist != nil {
			promptOpts = append(promptOpts, contextprompt.WithRecentTexts(
				func(_ context.Context, limit int) ([]string, error) {
					entries, err := hist.Recent(limit, 0)
					if err != nil {
						return nil, err
					}
					texts := make([]string, 0, len(entries))
					for _, e := range entries {
						if e.CleanedText != "" {
							texts = append(texts, e.CleanedText)
						} else {
							texts = append(texts, e.RawText)
						}
					}
					return texts, nil
				},
			))
		}
		opts = append(opts, app.WithPromptBuilder(contextprompt.NewBuilder(promptOpts...)))
	}

	application = app.New(cfg, provider, opts...)
	return application, nil
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
