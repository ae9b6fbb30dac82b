package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndRecent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ticks := 0
	s.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Minute)
	}

	if _, err := s.Add("raw one", "Clean one.", "whisper", 1.5); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	id, err := s.Add("raw two", "Clean two.", "", 2.0)
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if id == 0 {
		t.Error("Add() returned zero id")
	}

	entries, err := s.Recent(10, 0)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent() returned %d entries, want 2", len(entries))
	}
	if entries[0].RawText != "raw two" {
		t.Errorf("Recent()[0].RawText = %q, want newest first", entries[0].RawText)
	}
	if entries[0].Engine != "whisper" {
		t.Errorf("Engine = %q, want default whisper", entries[0].Engine)
	}
}

func TestRecentPagination(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		stamp := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return stamp }
		if _, err := s.Add("raw", "clean", "whisper", 0); err != nil {
			t.Fatal(err)
		}
	}

	page, err := s.Recent(2, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("Recent(2, 2) returned %d entries, want 2", len(page))
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if _, err := s.Add("meeting with sarah", "Meeting with Sarah.", "whisper", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("grocery list", "Grocery list.", "whisper", 0); err != nil {
		t.Fatal(err)
	}

	got, err := s.Search("SARAH", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != 1 || got[0].RawText != "meeting with sarah" {
		t.Errorf("Search(SARAH) = %v, want the single matching entry", got)
	}

	none, err := s.Search("nothing", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Search(nothing) = %v, want no results", none)
	}
}

func TestDeleteAndClear(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	id, err := s.Add("one", "One.", "whisper", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("two", "Two.", "whisper", 0); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if n, _ := s.Count(); n != 1 {
		t.Errorf("Count() after delete = %d, want 1", n)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count() after clear = %d, want 0", n)
	}
}
