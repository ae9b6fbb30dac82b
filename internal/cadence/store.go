package cadence

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	cadenceFile = "cadence.json"
	speechFile  = "speech_profile.json"
)

// Store persists the cadence and speech profiles as two JSON documents in
// the data directory. Profiles are best-effort personalization: corrupt or
// missing files load as empty profiles and save failures are logged, never
// surfaced.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on first
// save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// LoadCadence reads the persisted cadence profile, or an empty profile when
// none exists or the file is unreadable.
func (s *Store) LoadCadence() Profile {
	var p Profile
	if !s.load(cadenceFile, &p) {
		return Profile{}
	}
	return p
}

// SaveCadence overwrites the persisted cadence profile. Statistics are
// rounded to one decimal to keep the document stable across sessions.
func (s *Store) SaveCadence(p Profile) {
	p.MeanPauseMS = roundTo(p.MeanPauseMS, 1)
	p.P75PauseMS = roundTo(p.P75PauseMS, 1)
	p.P90PauseMS = roundTo(p.P90PauseMS, 1)
	s.save(cadenceFile, p)
}

// ResetCadence deletes the stored cadence profile.
func (s *Store) ResetCadence() {
	s.remove(cadenceFile)
}

// LoadSpeech reads the persisted speech profile, or an empty profile when
// none exists or the file is unreadable. The entry window is re-trimmed on
// load in case the file predates a smaller window.
func (s *Store) LoadSpeech() *SpeechProfile {
	p := &SpeechProfile{}
	if !s.load(speechFile, p) {
		return &SpeechProfile{}
	}
	if len(p.Entries) > speechProfileWindow {
		p.Entries = p.Entries[len(p.Entries)-speechProfileWindow:]
	}
	return p
}

// SaveSpeech overwrites the persisted speech profile.
func (s *Store) SaveSpeech(p *SpeechProfile) {
	saved := SpeechProfile{
		Entries:        p.Entries,
		BaselineWPM:    roundTo(p.BaselineWPM, 1),
		BaselineEnergy: roundTo(p.BaselineEnergy, 4),
	}
	if len(saved.Entries) > speechProfileWindow {
		saved.Entries = saved.Entries[len(saved.Entries)-speechProfileWindow:]
	}
	s.save(speechFile, saved)
}

// ResetSpeech deletes the stored speech profile.
func (s *Store) ResetSpeech() {
	s.remove(speechFile)
}

func (s *Store) load(name string, v any) bool {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Debug("cadence: profile unreadable, using defaults", "path", path, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Debug("cadence: profile corrupt, using defaults", "path", path, "error", err)
		return false
	}
	return true
}

func (s *Store) save(name string, v any) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		slog.Warn("cadence: could not create data dir", "dir", s.dir, "error", err)
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Warn("cadence: could not encode profile", "file", name, "error", err)
		return
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Warn("cadence: could not write profile", "path", path, "error", err)
	}
}

func (s *Store) remove(name string) {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		slog.Warn("cadence: could not delete profile", "file", name, "error", err)
	}
}
