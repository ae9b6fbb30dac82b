package cadence

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()
	s := NewStore(t.TempDir())

	p := Profile{MeanPauseMS: 312.34, P75PauseMS: 420.56, P90PauseMS: 510.78, SampleCount: 42}
	s.SaveCadence(p)

	got := s.LoadCadence()
	want := Profile{MeanPauseMS: 312.3, P75PauseMS: 420.6, P90PauseMS: 510.8, SampleCount: 42}
	if got != want {
		t.Errorf("LoadCadence() = %+v, want rounded %+v", got, want)
	}
}

func TestStoreMissingFileLoadsEmpty(t *testing.T) {
	t.Parallel()
	s := NewStore(t.TempDir())

	if got := s.LoadCadence(); got != (Profile{}) {
		t.Errorf("LoadCadence() = %+v, want empty profile", got)
	}
	if got := s.LoadSpeech(); len(got.Entries) != 0 || got.BaselineWPM != 0 {
		t.Errorf("LoadSpeech() = %+v, want empty profile", got)
	}
}

func TestStoreCorruptFileLoadsEmpty(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := NewStore(dir)

	for _, name := range []string{"cadence.json", "speech_profile.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if got := s.LoadCadence(); got != (Profile{}) {
		t.Errorf("LoadCadence() on corrupt file = %+v, want empty profile", got)
	}
	if got := s.LoadSpeech(); len(got.Entries) != 0 {
		t.Errorf("LoadSpeech() on corrupt file = %+v, want empty profile", got)
	}
}

func TestStoreSpeechRoundTrip(t *testing.T) {
	t.Parallel()
	s := NewStore(t.TempDir())

	p := &SpeechProfile{}
	p.Update(Metrics{WPM: 120, EnergyRMS: 0.25, Confidence: 0.9, WordCount: 10})
	p.Update(Metrics{WPM: 140, EnergyRMS: 0.35, Confidence: 0.8, WordCount: 12})
	s.SaveSpeech(p)

	got := s.LoadSpeech()
	if len(got.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(got.Entries))
	}
	if got.Entries[1].WPM != 140 {
		t.Errorf("Entries[1].WPM = %v, want 140", got.Entries[1].WPM)
	}
	if got.BaselineWPM != 130 {
		t.Errorf("BaselineWPM = %v, want 130", got.BaselineWPM)
	}
}

func TestStoreReset(t *testing.T) {
	t.Parallel()
	s := NewStore(t.TempDir())

	s.SaveCadence(Profile{MeanPauseMS: 300, SampleCount: 30})
	s.ResetCadence()
	if got := s.LoadCadence(); got != (Profile{}) {
		t.Errorf("LoadCadence() after reset = %+v, want empty", got)
	}

	// Resetting files that don't exist must not panic or warn loudly.
	s.ResetCadence()
	s.ResetSpeech()
}
