// Package murmur implements whisper-quiet dictation for shared spaces:
// gain boost, ambient-calibrated noise gating, and a lowered minimum
// utterance threshold so users can dictate at a murmur.
package murmur

import (
	"math"
	"sort"
	"sync"
)

// Defaults applied when the configuration leaves murmur settings unset.
const (
	DefaultGain           = 3.0
	DefaultNoiseGateDB    = -50.0
	DefaultMinUtteranceMS = 80

	// CalibrationSamples is the ambient chunk length used for noise-floor
	// estimation: 500ms at 16kHz.
	CalibrationSamples = 8000
)

// Processor applies low-volume preprocessing to float32 PCM chunks. Call
// [Processor.Calibrate] with an initial silence chunk before processing real
// audio so the gate can sit above the ambient floor.
type Processor struct {
	gain          float64
	gateThreshold float64
	noiseFloor    float64
	calibrated    bool
}

// NewProcessor returns a processor with the given gain multiplier and noise
// gate level in dBFS.
func NewProcessor(gain, noiseGateDB float64) *Processor {
	return &Processor{
		gain:          gain,
		gateThreshold: math.Pow(10, noiseGateDB/20),
	}
}

// Calibrate estimates the ambient noise floor from a silence chunk using the
// 85th percentile of absolute sample values, which captures the ambient
// level without being skewed by outliers. Empty chunks are ignored.
func (p *Processor) Calibrate(chunk []float32) {
	if len(chunk) == 0 {
		return
	}
	abs := make([]float64, len(chunk))
	for i, s := range chunk {
		abs[i] = math.Abs(float64(s))
	}
	sort.Float64s(abs)
	p.noiseFloor = percentile(abs, 85)
	p.calibrated = true
}

// NoiseFloor returns the calibrated ambient floor and whether calibration
// has happened.
func (p *Processor) NoiseFloor() (float64, bool) {
	return p.noiseFloor, p.calibrated
}

// Process gates, boosts, and soft-clips one audio chunk:
//
//  1. Noise gate: samples below the threshold are zeroed. The threshold is
//     the larger of the configured gate and 1.5x the calibrated floor.
//  2. Gain multiply.
//  3. tanh soft clip to prevent distortion.
func (p *Processor) Process(chunk []float32) []float32 {
	if len(chunk) == 0 {
		return chunk
	}
	gate := math.Max(p.gateThreshold, p.noiseFloor*1.5)
	out := make([]float32, len(chunk))
	for i, s := range chunk {
		v := float64(s)
		if math.Abs(v) < gate {
			continue
		}
		out[i] = float32(math.Tanh(v * p.gain))
	}
	return out
}

// percentile computes the q-th percentile of sorted values with linear
// interpolation between ranks.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q / 100 * float64(len(sorted)-1)
	lower := int(rank)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// Settings carry the configured murmur parameters into a [Mode].
type Settings struct {
	Gain           float64
	NoiseGateDB    float64
	MinUtteranceMS int
}

// Mode manages the murmur toggle lifecycle. It always starts inactive; the
// calibration estimate lives in the processor and is discarded on
// deactivation.
type Mode struct {
	mu       sync.Mutex
	settings Settings
	active   bool
	proc     *Processor
}

// NewMode returns an inactive murmur mode. Zero-valued settings fall back to
// the package defaults.
func NewMode(settings Settings) *Mode {
	if settings.Gain == 0 {
		settings.Gain = DefaultGain
	}
	if settings.NoiseGateDB == 0 {
		settings.NoiseGateDB = DefaultNoiseGateDB
	}
	if settings.MinUtteranceMS == 0 {
		settings.MinUtteranceMS = DefaultMinUtteranceMS
	}
	return &Mode{settings: settings}
}

// Toggle flips the mode and returns the new state. Activation creates a
// fresh, uncalibrated processor.
func (m *Mode) Toggle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = !m.active
	if m.active {
		m.proc = NewProcessor(m.settings.Gain, m.settings.NoiseGateDB)
	} else {
		m.proc = nil
	}
	return m.active
}

// Activate switches murmur mode on if it is off.
func (m *Mode) Activate() {
	if !m.Active() {
		m.Toggle()
	}
}

// Deactivate switches murmur mode off if it is on.
func (m *Mode) Deactivate() {
	if m.Active() {
		m.Toggle()
	}
}

// Active reports whether murmur mode is on.
func (m *Mode) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Processor returns the active processor, or nil when murmur mode is off.
func (m *Mode) Processor() *Processor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return nil
	}
	return m.proc
}

// MinUtteranceMS returns the minimum utterance duration while murmuring.
func (m *Mode) MinUtteranceMS() int {
	return m.settings.MinUtteranceMS
}
