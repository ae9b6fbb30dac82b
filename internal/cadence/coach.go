package cadence

import (
	"math"
	"regexp"
	"strings"

	"github.com/muttrapp/muttr/pkg/audio"
)

// coachFillerRE counts disfluencies for coaching metrics. Deliberately
// independent from the cleanup filler list: coaching wants a signal, cleanup
// wants safe removal, so this one counts bare "like" too.
var coachFillerRE = regexp.MustCompile(
	`(?i)\bum\b|\buh\b|\blike\b|\byou know\b|\bbasically\b|\bactually\b|\bliterally\b|\bI mean\b|\bsort of\b|\bkind of\b`,
)

// Micro-feedback labels emitted after a transcription.
const (
	FeedbackFast   = "Fast"
	FeedbackQuiet  = "Quiet"
	FeedbackClear  = "Clear"
	FeedbackSteady = "Steady"
)

const (
	speechProfileWindow     = 100
	speechProfileMinEntries = 5
)

// Metrics is one session's speech-quality snapshot.
type Metrics struct {
	WPM         float64 `json:"wpm"`
	EnergyRMS   float64 `json:"energy_rms"`
	Confidence  float64 `json:"confidence"`
	FillerCount int     `json:"filler_count"`
	WordCount   int     `json:"word_count"`
}

// Analyze computes speech-quality metrics for one completed transcription.
// All inputs are handled defensively: a blank transcript yields zero words,
// a non-positive duration yields zero WPM, an empty buffer yields zero
// energy.
func Analyze(samples []float32, transcript string, durationS, confidence float64) Metrics {
	wordCount := 0
	if strings.TrimSpace(transcript) != "" {
		wordCount = len(strings.Fields(transcript))
	}
	wpm := 0.0
	if durationS > 0 {
		wpm = float64(wordCount) / durationS * 60
	}
	return Metrics{
		WPM:         roundTo(wpm, 1),
		EnergyRMS:   roundTo(audio.RMS(samples), 4),
		Confidence:  roundTo(confidence, 3),
		FillerCount: len(coachFillerRE.FindAllString(transcript, -1)),
		WordCount:   wordCount,
	}
}

// SpeechProfile keeps a rolling window of metric snapshots and the baselines
// derived from them.
type SpeechProfile struct {
	Entries        []Metrics `json:"entries"`
	BaselineWPM    float64   `json:"baseline_wpm"`
	BaselineEnergy float64   `json:"baseline_energy"`
}

// Update appends a snapshot, evicts beyond the 100-entry window, and
// recomputes the baselines.
func (p *SpeechProfile) Update(m Metrics) {
	p.Entries = append(p.Entries, m)
	if len(p.Entries) > speechProfileWindow {
		p.Entries = p.Entries[len(p.Entries)-speechProfileWindow:]
	}
	p.recomputeBaselines()
}

// Baselines average only entries with a positive value in the respective
// field, so silence-dominated sessions don't drag them toward zero.
func (p *SpeechProfile) recomputeBaselines() {
	if len(p.Entries) == 0 {
		return
	}
	var wpmSum, energySum float64
	var wpmN, energyN int
	for _, e := range p.Entries {
		if e.WPM > 0 {
			wpmSum += e.WPM
			wpmN++
		}
		if e.EnergyRMS > 0 {
			energySum += e.EnergyRMS
			energyN++
		}
	}
	p.BaselineWPM = 0
	if wpmN > 0 {
		p.BaselineWPM = wpmSum / float64(wpmN)
	}
	p.BaselineEnergy = 0
	if energyN > 0 {
		p.BaselineEnergy = energySum / float64(energyN)
	}
}

// HasBaseline reports whether enough sessions have been recorded for
// feedback to be meaningful.
func (p *SpeechProfile) HasBaseline() bool {
	return len(p.Entries) >= speechProfileMinEntries
}

// Feedback compares current metrics against the personal baseline and
// returns a label, or "" when speech is unremarkable or the baseline is not
// yet established. All thresholds are exclusive: a value exactly at the
// boundary does not trigger.
func (p *SpeechProfile) Feedback(m Metrics) string {
	if !p.HasBaseline() {
		return ""
	}
	if p.BaselineWPM > 0 && m.WPM > p.BaselineWPM*1.25 {
		return FeedbackFast
	}
	if p.BaselineEnergy > 0 && m.EnergyRMS < p.BaselineEnergy*0.4 {
		return FeedbackQuiet
	}
	if m.Confidence > 0.92 && m.FillerCount == 0 {
		return FeedbackClear
	}
	if m.Confidence > 0.80 {
		return FeedbackSteady
	}
	return ""
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
