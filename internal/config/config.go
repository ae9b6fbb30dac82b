// Package config provides the configuration schema and loader for MuttR.
package config

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Engine selects the transcription backend.
type Engine string

const (
	// EngineWhisper runs whisper.cpp in-process via the native bindings.
	EngineWhisper Engine = "whisper"

	// EngineWhisperServer sends audio to a whisper.cpp server over HTTP.
	EngineWhisperServer Engine = "whisper-server"
)

// IsValid reports whether e is a recognised engine.
func (e Engine) IsValid() bool {
	return e == EngineWhisper || e == EngineWhisperServer
}

// Config is the root configuration structure for MuttR.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// DataDir is where profiles and databases live. When empty, the
	// application picks a per-user data directory.
	DataDir string `yaml:"data_dir"`

	// CleanupLevel is the cleanup aggressiveness, 0 (light) to 2 (aggressive).
	CleanupLevel int `yaml:"cleanup_level"`

	// STT configures the transcription backend.
	STT STTConfig `yaml:"stt"`

	// AdaptiveSilence learns the user's pause cadence to adapt the
	// silence-based auto-stop threshold.
	AdaptiveSilence bool `yaml:"adaptive_silence"`

	// CadenceFeedback enables post-session speech coaching labels.
	CadenceFeedback bool `yaml:"cadence_feedback"`

	// ConfidenceReview enables the low-confidence word review overlay.
	ConfidenceReview bool `yaml:"confidence_review"`

	// ContextStitching primes the engine with clipboard and history context.
	ContextStitching bool `yaml:"context_stitching"`

	// Murmur configures low-volume dictation preprocessing.
	Murmur MurmurConfig `yaml:"murmur"`

	// History configures transcription history persistence.
	History HistoryConfig `yaml:"history"`

	// Budget configures the daily word budget.
	Budget BudgetConfig `yaml:"budget"`

	// Telemetry configures the metrics endpoint.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// ProperNouns maps lowercase spoken triggers to canonical casing,
	// merged over the built-in dictionary (e.g. "muttr: MuttR").
	ProperNouns map[string]string `yaml:"proper_nouns"`
}

// STTConfig selects and configures the transcription backend.
type STTConfig struct {
	// Engine selects the backend.
	Engine Engine `yaml:"engine"`

	// ModelPath is the whisper.cpp model file for the native engine
	// (e.g., "models/ggml-base.en.bin").
	ModelPath string `yaml:"model_path"`

	// ServerURL is the whisper.cpp server endpoint for the server engine
	// (e.g., "http://127.0.0.1:8080").
	ServerURL string `yaml:"server_url"`

	// Language is the spoken language hint (e.g., "en"). Empty lets the
	// model decide.
	Language string `yaml:"language"`
}

// MurmurConfig holds low-volume dictation parameters.
type MurmurConfig struct {
	// Gain multiplies the signal before soft clipping. Range (0, 20].
	Gain float64 `yaml:"gain"`

	// NoiseGateDB is the gate threshold in dBFS. Range [-90, 0).
	NoiseGateDB float64 `yaml:"noise_gate_db"`

	// MinUtteranceMS is the shortest utterance kept, in milliseconds.
	MinUtteranceMS int `yaml:"min_utterance_ms"`
}

// HistoryConfig controls transcription history persistence.
type HistoryConfig struct {
	// Enabled turns history recording on.
	Enabled bool `yaml:"enabled"`

	// Path overrides the database location. When empty, history.db inside
	// DataDir is used.
	Path string `yaml:"path"`
}

// BudgetConfig controls the daily word budget.
type BudgetConfig struct {
	// DailyWordLimit caps words transcribed per day, with unused budget
	// rolling over for a week. Zero means unlimited.
	DailyWordLimit int `yaml:"daily_word_limit"`
}

// TelemetryConfig controls the Prometheus metrics endpoint.
type TelemetryConfig struct {
	// MetricsAddr is the listen address for /metrics (e.g., "127.0.0.1:9464").
	// Empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the configuration used when a field is omitted from the
// YAML file. Decoding happens over this value, so absent keys keep their
// defaults.
func Default() *Config {
	return &Config{
		LogLevel:     LogInfo,
		CleanupLevel: 1,
		STT: STTConfig{
			Engine:    EngineWhisper,
			ModelPath: "models/ggml-base.en.bin",
			Language:  "en",
		},
		AdaptiveSilence:  true,
		CadenceFeedback:  true,
		ConfidenceReview: true,
		ContextStitching: true,
		Murmur: MurmurConfig{
			Gain:           3.0,
			NoiseGateDB:    -50.0,
			MinUtteranceMS: 80,
		},
		History: HistoryConfig{Enabled: true},
	}
}
