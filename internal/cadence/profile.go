// Package cadence learns the user's dictation rhythm: a pause-timing
// fingerprint that adapts the silence auto-stop threshold, and a rolling
// speech-quality baseline that powers micro-feedback after each recording.
// Only numeric timing data is kept; no audio or transcript content is
// persisted.
package cadence

import (
	"sort"
	"time"
)

const (
	// rmsFloor separates speech from silence in the pause tracker.
	rmsFloor = 0.005

	// minPauseMS is the shortest silence counted as an intra-speech pause.
	minPauseMS = 100.0

	// emaAlpha blends session stats into the profile, adapting slowly.
	emaAlpha = 0.1

	// minSamples is the pause count at which the profile counts as trained.
	minSamples = 20

	floorAutoStopMS   = 800
	ceilingAutoStopMS = 3000
	defaultAutoStopMS = 2000
)

// Speaking pace categories derived from the mean pause length.
const (
	PaceFast       = "Fast"
	PaceAverage    = "Average"
	PaceDeliberate = "Deliberate"
)

// Profile holds the persistent cadence statistics for one user.
type Profile struct {
	MeanPauseMS float64 `json:"mean_pause_ms"`
	P75PauseMS  float64 `json:"p75_pause_ms"`
	P90PauseMS  float64 `json:"p90_pause_ms"`
	SampleCount int     `json:"sample_count"`
}

// IsTrained reports whether enough pauses have been observed for the
// profile to drive adaptive behavior.
func (p Profile) IsTrained() bool {
	return p.SampleCount >= minSamples
}

// PaceLabel buckets the user's speaking pace. Untrained profiles read as
// average.
func (p Profile) PaceLabel() string {
	switch {
	case !p.IsTrained():
		return PaceAverage
	case p.MeanPauseMS < 300:
		return PaceFast
	case p.MeanPauseMS <= 600:
		return PaceAverage
	default:
		return PaceDeliberate
	}
}

// SessionStats summarizes the pauses of one recording session.
type SessionStats struct {
	MeanMS float64
	P75MS  float64
	P90MS  float64
	Count  int
}

// ComputeSessionStats aggregates pause durations (ms) into session
// statistics. Percentiles need enough data to be meaningful: p75 requires at
// least 4 samples and falls back to the mean below that, p90 requires at
// least 10 and falls back to p75.
func ComputeSessionStats(pausesMS []float64) SessionStats {
	n := len(pausesMS)
	if n == 0 {
		return SessionStats{}
	}
	sorted := make([]float64, n)
	copy(sorted, pausesMS)
	sort.Float64s(sorted)

	var sum float64
	for _, p := range sorted {
		sum += p
	}
	stats := SessionStats{MeanMS: sum / float64(n), Count: n}

	stats.P75MS = stats.MeanMS
	if n >= 4 {
		stats.P75MS = sorted[n*75/100]
	}
	stats.P90MS = stats.P75MS
	if n >= 10 {
		stats.P90MS = sorted[n*90/100]
	}
	return stats
}

// Merge blends session statistics into the profile and returns the result.
// An empty profile adopts the session stats outright; otherwise each
// statistic moves by an exponential moving average. The sample count grows
// by the number of pauses in the session, not by one per session.
func (p Profile) Merge(s SessionStats) Profile {
	if s.Count == 0 {
		return p
	}
	if p.SampleCount == 0 {
		p.MeanPauseMS = s.MeanMS
		p.P75PauseMS = s.P75MS
		p.P90PauseMS = s.P90MS
	} else {
		p.MeanPauseMS = (1-emaAlpha)*p.MeanPauseMS + emaAlpha*s.MeanMS
		p.P75PauseMS = (1-emaAlpha)*p.P75PauseMS + emaAlpha*s.P75MS
		p.P90PauseMS = (1-emaAlpha)*p.P90PauseMS + emaAlpha*s.P90MS
	}
	p.SampleCount += s.Count
	return p
}

// AutoStopThreshold returns the silence duration after which recording
// should stop: twice the 90th-percentile pause, clamped to [800ms, 3000ms].
// Untrained profiles and disabled adaptation both yield the 2s default.
func AutoStopThreshold(p Profile, adaptive bool) time.Duration {
	if !adaptive || !p.IsTrained() {
		return defaultAutoStopMS * time.Millisecond
	}
	ms := int(p.P90PauseMS * 2)
	ms = min(max(ms, floorAutoStopMS), ceilingAutoStopMS)
	return time.Duration(ms) * time.Millisecond
}
