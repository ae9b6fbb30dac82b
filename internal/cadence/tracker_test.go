package cadence

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(t *testing.T) (*Tracker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(0, 0)}
	return NewTracker(NewStore(t.TempDir()), WithClock(clock.now)), clock
}

func TestTrackerRecordsPause(t *testing.T) {
	t.Parallel()
	tr, clock := newTestTracker(t)

	tr.Update(0.1) // speech
	clock.advance(64 * time.Millisecond)
	tr.Update(0.001) // silence begins
	clock.advance(300 * time.Millisecond)
	tr.Update(0.1) // speech resumes

	pauses := tr.SessionPauses()
	if len(pauses) != 1 {
		t.Fatalf("SessionPauses() = %v, want one pause", pauses)
	}
	if pauses[0] != 300 {
		t.Errorf("pause = %vms, want 300ms", pauses[0])
	}
}

func TestTrackerIgnoresLeadingSilence(t *testing.T) {
	t.Parallel()
	tr, clock := newTestTracker(t)

	tr.Update(0.001) // silence before any speech
	clock.advance(2 * time.Second)
	tr.Update(0.1) // first speech

	if pauses := tr.SessionPauses(); len(pauses) != 0 {
		t.Errorf("SessionPauses() = %v, leading silence must not count", pauses)
	}
}

func TestTrackerIgnoresShortGaps(t *testing.T) {
	t.Parallel()
	tr, clock := newTestTracker(t)

	tr.Update(0.1)
	clock.advance(64 * time.Millisecond)
	tr.Update(0.001)
	clock.advance(99 * time.Millisecond) // below the 100ms minimum
	tr.Update(0.1)

	if pauses := tr.SessionPauses(); len(pauses) != 0 {
		t.Errorf("SessionPauses() = %v, sub-100ms gap must not count", pauses)
	}
}

func TestTrackerContinuousSilenceIsOnePause(t *testing.T) {
	t.Parallel()
	tr, clock := newTestTracker(t)

	tr.Update(0.1)
	for i := 0; i < 5; i++ {
		clock.advance(64 * time.Millisecond)
		tr.Update(0.001)
	}
	clock.advance(64 * time.Millisecond)
	tr.Update(0.1)

	pauses := tr.SessionPauses()
	if len(pauses) != 1 {
		t.Fatalf("SessionPauses() = %v, want one merged pause", pauses)
	}
	if pauses[0] != 6*64 {
		t.Errorf("pause = %vms, want %vms", pauses[0], 6*64)
	}
}

func TestFinishSessionPersistsProfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := NewStore(dir)
	clock := &fakeClock{t: time.Unix(0, 0)}
	tr := NewTracker(store, WithClock(clock.now))

	tr.Update(0.1)
	clock.advance(10 * time.Millisecond)
	tr.Update(0.001)
	clock.advance(400 * time.Millisecond)
	tr.Update(0.1)

	profile := tr.FinishSession()
	if profile.SampleCount != 1 {
		t.Fatalf("SampleCount = %d, want 1", profile.SampleCount)
	}
	if profile.MeanPauseMS != 400 {
		t.Errorf("MeanPauseMS = %v, want 400", profile.MeanPauseMS)
	}

	if reloaded := store.LoadCadence(); reloaded != profile {
		t.Errorf("LoadCadence() = %+v, want persisted %+v", reloaded, profile)
	}
}

func TestFinishSessionWithoutPausesLeavesStoreUntouched(t *testing.T) {
	t.Parallel()
	store := NewStore(t.TempDir())
	seed := Profile{MeanPauseMS: 250, P75PauseMS: 300, P90PauseMS: 350, SampleCount: 25}
	store.SaveCadence(seed)

	tr := NewTracker(store)
	tr.Update(0.1) // speech only, no pauses

	if got := tr.FinishSession(); got != seed {
		t.Errorf("FinishSession() = %+v, want stored profile %+v unchanged", got, seed)
	}
}
