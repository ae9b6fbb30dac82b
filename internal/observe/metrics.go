// Package observe provides observability primitives for MuttR: OpenTelemetry
// metrics with a Prometheus exporter bridge so the standard /metrics endpoint
// keeps working.
//
// A package-level default [Metrics] instance ([DefaultMetrics]) is provided
// for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all MuttR metrics.
const meterName = "github.com/muttrapp/muttr"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// TranscriptionDuration tracks speech-to-text latency.
	TranscriptionDuration metric.Float64Histogram

	// CleanupDuration tracks text cleanup pipeline latency.
	CleanupDuration metric.Float64Histogram

	// Transcriptions counts completed recordings. Use with attributes:
	//   attribute.String("engine", ...), attribute.String("status", ...)
	Transcriptions metric.Int64Counter

	// WordsTranscribed counts words produced across all recordings.
	WordsTranscribed metric.Int64Counter

	// FillerWords counts filler words detected in raw transcripts.
	FillerWords metric.Int64Counter

	// VocabCorrections counts phonetic vocabulary substitutions applied.
	VocabCorrections metric.Int64Counter

	// ActiveRecordings tracks recordings currently in progress.
	ActiveRecordings metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for local transcription latencies.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TranscriptionDuration, err = m.Float64Histogram("muttr.stt.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CleanupDuration, err = m.Float64Histogram("muttr.cleanup.duration",
		metric.WithDescription("Latency of the text cleanup pipeline."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.Transcriptions, err = m.Int64Counter("muttr.transcriptions",
		metric.WithDescription("Total completed recordings by engine and status."),
	); err != nil {
		return nil, err
	}
	if met.WordsTranscribed, err = m.Int64Counter("muttr.words.transcribed",
		metric.WithDescription("Total words produced across all recordings."),
	); err != nil {
		return nil, err
	}
	if met.FillerWords, err = m.Int64Counter("muttr.filler.words",
		metric.WithDescription("Total filler words detected in raw transcripts."),
	); err != nil {
		return nil, err
	}
	if met.VocabCorrections, err = m.Int64Counter("muttr.vocab.corrections",
		metric.WithDescription("Total phonetic vocabulary substitutions applied."),
	); err != nil {
		return nil, err
	}

	if met.ActiveRecordings, err = m.Int64UpDownCounter("muttr.active_recordings",
		metric.WithDescription("Number of recordings currently in progress."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordTranscription records a completed recording with the standard
// attribute set.
func (m *Metrics) RecordTranscription(ctx context.Context, engine, status string) {
	m.Transcriptions.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("engine", engine),
			attribute.String("status", status),
		),
	)
}

// AddWords records words produced by one recording.
func (m *Metrics) AddWords(ctx context.Context, n int) {
	m.WordsTranscribed.Add(ctx, int64(n))
}
