package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over [Default] and validates
// the result. Useful in tests where configs are constructed from string
// literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values and clamps
// soft settings into range. It returns a joined error listing all hard
// validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	// Cleanup level is a soft setting: out-of-range values are clamped, not
	// rejected, so a hand-edited file never blocks startup.
	if cfg.CleanupLevel < 0 || cfg.CleanupLevel > 2 {
		clamped := min(max(cfg.CleanupLevel, 0), 2)
		slog.Warn("cleanup_level out of range, clamping",
			"configured", cfg.CleanupLevel, "clamped", clamped)
		cfg.CleanupLevel = clamped
	}

	if cfg.STT.Engine != "" && !cfg.STT.Engine.IsValid() {
		errs = append(errs, fmt.Errorf("stt.engine %q is invalid; valid values: whisper, whisper-server", cfg.STT.Engine))
	}
	if cfg.STT.Engine == EngineWhisper && cfg.STT.ModelPath == "" {
		errs = append(errs, errors.New("stt.model_path is required when stt.engine is whisper"))
	}
	if cfg.STT.Engine == EngineWhisperServer {
		if cfg.STT.ServerURL == "" {
			errs = append(errs, errors.New("stt.server_url is required when stt.engine is whisper-server"))
		} else if !strings.HasPrefix(cfg.STT.ServerURL, "http://") && !strings.HasPrefix(cfg.STT.ServerURL, "https://") {
			errs = append(errs, fmt.Errorf("stt.server_url %q must start with http:// or https://", cfg.STT.ServerURL))
		}
	}

	if cfg.Murmur.Gain <= 0 || cfg.Murmur.Gain > 20 {
		errs = append(errs, fmt.Errorf("murmur.gain %.2f is out of range (0, 20]", cfg.Murmur.Gain))
	}
	if cfg.Murmur.NoiseGateDB < -90 || cfg.Murmur.NoiseGateDB >= 0 {
		errs = append(errs, fmt.Errorf("murmur.noise_gate_db %.1f is out of range [-90, 0)", cfg.Murmur.NoiseGateDB))
	}
	if cfg.Murmur.MinUtteranceMS < 0 {
		errs = append(errs, fmt.Errorf("murmur.min_utterance_ms %d must not be negative", cfg.Murmur.MinUtteranceMS))
	}

	if cfg.Budget.DailyWordLimit < 0 {
		errs = append(errs, fmt.Errorf("budget.daily_word_limit %d must not be negative", cfg.Budget.DailyWordLimit))
	}

	for trigger, cased := range cfg.ProperNouns {
		if strings.TrimSpace(trigger) == "" || strings.TrimSpace(cased) == "" {
			errs = append(errs, fmt.Errorf("proper_nouns entry %q: %q has an empty side", trigger, cased))
		}
	}

	if cfg.History.Path != "" && !cfg.History.Enabled {
		slog.Warn("history.path is set but history is disabled; the path will be ignored")
	}

	return errors.Join(errs...)
}
