package cadence

import "time"

// Tracker collects intra-speech pauses during one recording session. Feed it
// RMS levels via [Tracker.Update] for each audio block, then call
// [Tracker.FinishSession] once recording has stopped. Update must not be
// called after FinishSession.
//
// The tracker measures wall-clock deltas, not call counts, so it tolerates
// jitter in the block cadence. Leading silence before the first speech block
// never counts as a pause.
type Tracker struct {
	store *Store
	now   func() time.Time

	inPause    bool
	pauseStart time.Time
	hadSpeech  bool
	pausesMS   []float64
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// NewTracker returns a tracker whose finished sessions merge into the
// profile persisted by store.
func NewTracker(store *Store, opts ...TrackerOption) *Tracker {
	t := &Tracker{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update advances the speech/silence state machine with the current RMS
// level. A silence run of at least 100ms bounded by speech on both sides is
// recorded as a pause.
func (t *Tracker) Update(rms float64) {
	now := t.now()
	if rms < rmsFloor {
		if !t.inPause {
			t.inPause = true
			t.pauseStart = now
		}
		return
	}
	if t.inPause && t.hadSpeech {
		pauseMS := float64(now.Sub(t.pauseStart)) / float64(time.Millisecond)
		if pauseMS >= minPauseMS {
			t.pausesMS = append(t.pausesMS, pauseMS)
		}
	}
	t.inPause = false
	t.hadSpeech = true
}

// SessionPauses returns a copy of the pause durations (ms) collected so far.
func (t *Tracker) SessionPauses() []float64 {
	out := make([]float64, len(t.pausesMS))
	copy(out, t.pausesMS)
	return out
}

// FinishSession merges this session's pauses into the persisted profile and
// returns the updated profile. Sessions without qualifying pauses leave the
// stored profile untouched.
func (t *Tracker) FinishSession() Profile {
	profile := t.store.LoadCadence()
	if len(t.pausesMS) == 0 {
		return profile
	}
	profile = profile.Merge(ComputeSessionStats(t.pausesMS))
	t.store.SaveCadence(profile)
	return profile
}
