package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromReaderDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader() error: %v", err)
	}

	if cfg.LogLevel != LogInfo {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.CleanupLevel != 1 {
		t.Errorf("CleanupLevel = %d, want 1", cfg.CleanupLevel)
	}
	if cfg.STT.Engine != EngineWhisper {
		t.Errorf("STT.Engine = %q, want whisper", cfg.STT.Engine)
	}
	if !cfg.AdaptiveSilence || !cfg.CadenceFeedback || !cfg.ConfidenceReview || !cfg.ContextStitching {
		t.Error("feature toggles should default to enabled")
	}
	if cfg.Murmur.Gain != 3.0 || cfg.Murmur.NoiseGateDB != -50.0 || cfg.Murmur.MinUtteranceMS != 80 {
		t.Errorf("Murmur defaults = %+v", cfg.Murmur)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should default to true")
	}
	if cfg.Budget.DailyWordLimit != 0 {
		t.Errorf("Budget.DailyWordLimit = %d, want 0 (unlimited)", cfg.Budget.DailyWordLimit)
	}
}

func TestLoadFromReaderOverrides(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFromReader(strings.NewReader(`
log_level: debug
cleanup_level: 2
adaptive_silence: false
stt:
  engine: whisper-server
  server_url: http://127.0.0.1:8080
budget:
  daily_word_limit: 5000
proper_nouns:
  muttr: MuttR
  acme corp: Acme Corp
`))
	if err != nil {
		t.Fatalf("LoadFromReader() error: %v", err)
	}

	if cfg.LogLevel != LogDebug {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.CleanupLevel != 2 {
		t.Errorf("CleanupLevel = %d, want 2", cfg.CleanupLevel)
	}
	if cfg.AdaptiveSilence {
		t.Error("AdaptiveSilence = true, want explicit false to stick")
	}
	if cfg.CadenceFeedback != true {
		t.Error("CadenceFeedback should keep its default when omitted")
	}
	if cfg.STT.Engine != EngineWhisperServer || cfg.STT.ServerURL != "http://127.0.0.1:8080" {
		t.Errorf("STT = %+v", cfg.STT)
	}
	if cfg.Budget.DailyWordLimit != 5000 {
		t.Errorf("DailyWordLimit = %d, want 5000", cfg.Budget.DailyWordLimit)
	}
	if cfg.ProperNouns["acme corp"] != "Acme Corp" {
		t.Errorf("ProperNouns = %v", cfg.ProperNouns)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	_, err := LoadFromReader(strings.NewReader("no_such_key: 1\n"))
	if err == nil {
		t.Fatal("LoadFromReader() accepted an unknown field")
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantSub: "log_level",
		},
		{
			name:    "bad engine",
			mutate:  func(c *Config) { c.STT.Engine = "deepgram" },
			wantSub: "stt.engine",
		},
		{
			name:    "native engine without model",
			mutate:  func(c *Config) { c.STT.ModelPath = "" },
			wantSub: "stt.model_path",
		},
		{
			name: "server engine without url",
			mutate: func(c *Config) {
				c.STT.Engine = EngineWhisperServer
				c.STT.ServerURL = ""
			},
			wantSub: "stt.server_url",
		},
		{
			name: "server url without scheme",
			mutate: func(c *Config) {
				c.STT.Engine = EngineWhisperServer
				c.STT.ServerURL = "127.0.0.1:8080"
			},
			wantSub: "http://",
		},
		{
			name:    "murmur gain zero",
			mutate:  func(c *Config) { c.Murmur.Gain = 0 },
			wantSub: "murmur.gain",
		},
		{
			name:    "murmur gate positive",
			mutate:  func(c *Config) { c.Murmur.NoiseGateDB = 3 },
			wantSub: "murmur.noise_gate_db",
		},
		{
			name:    "negative budget",
			mutate:  func(c *Config) { c.Budget.DailyWordLimit = -1 },
			wantSub: "budget.daily_word_limit",
		},
		{
			name:    "empty proper noun value",
			mutate:  func(c *Config) { c.ProperNouns = map[string]string{"muttr": " "} },
			wantSub: "proper_nouns",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("Validate() error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestValidateClampsCleanupLevel(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.CleanupLevel = 7
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.CleanupLevel != 2 {
		t.Errorf("CleanupLevel = %d, want clamped to 2", cfg.CleanupLevel)
	}

	cfg.CleanupLevel = -3
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.CleanupLevel != 0 {
		t.Errorf("CleanupLevel = %d, want clamped to 0", cfg.CleanupLevel)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.Murmur.Gain = -1
	cfg.Budget.DailyWordLimit = -5

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() = nil, want joined errors")
	}
	for _, sub := range []string{"log_level", "murmur.gain", "budget.daily_word_limit"} {
		if !strings.Contains(err.Error(), sub) {
			t.Errorf("joined error %q missing %q", err, sub)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cleanup_level: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CleanupLevel != 0 {
		t.Errorf("CleanupLevel = %d, want 0", cfg.CleanupLevel)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}
