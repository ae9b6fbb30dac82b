package budget

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestTracker(t *testing.T, dailyLimit int, now *time.Time) *Tracker {
	t.Helper()
	tr, err := Open(
		filepath.Join(t.TempDir(), "budget.db"),
		dailyLimit,
		WithNow(func() time.Time { return *now }),
	)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestRecordAccumulates(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tr := openTestTracker(t, 1000, &now)

	if err := tr.Record(100); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := tr.Record(50); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	used, err := tr.TodayUsage()
	if err != nil {
		t.Fatalf("TodayUsage() error: %v", err)
	}
	if used != 150 {
		t.Errorf("TodayUsage() = %d, want 150", used)
	}
}

func TestRemainingTodaySimple(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tr := openTestTracker(t, 1000, &now)

	if err := tr.Record(300); err != nil {
		t.Fatal(err)
	}
	remaining, limited, err := tr.RemainingToday()
	if err != nil {
		t.Fatalf("RemainingToday() error: %v", err)
	}
	if !limited {
		t.Fatal("limited = false, want true")
	}
	if remaining != 700 {
		t.Errorf("RemainingToday() = %d, want 700", remaining)
	}
}

func TestRolloverCountsOnlyRecordedDays(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	tr := openTestTracker(t, 1000, &now)

	// Two active days in the window: 400 and 900 unused.
	if err := tr.Record(600); err != nil {
		t.Fatal(err)
	}
	now = now.AddDate(0, 0, 2)
	if err := tr.Record(100); err != nil {
		t.Fatal(err)
	}

	// Today: 5 days later, still inside the 7-day window for both.
	now = now.AddDate(0, 0, 1)
	remaining, _, err := tr.RemainingToday()
	if err != nil {
		t.Fatalf("RemainingToday() error: %v", err)
	}
	// 1000 today + 400 + 900 rollover, nothing used yet.
	if remaining != 2300 {
		t.Errorf("RemainingToday() = %d, want 2300", remaining)
	}
}

func TestRolloverWindowExpires(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tr := openTestTracker(t, 1000, &now)

	if err := tr.Record(0); err != nil {
		t.Fatal(err)
	}

	// 8 days later the unused day has aged out of the window.
	now = now.AddDate(0, 0, 8)
	remaining, _, err := tr.RemainingToday()
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 1000 {
		t.Errorf("RemainingToday() = %d, want 1000 (rollover expired)", remaining)
	}
}

func TestOverBudget(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tr := openTestTracker(t, 100, &now)

	over, err := tr.IsOverBudget()
	if err != nil {
		t.Fatal(err)
	}
	if over {
		t.Error("IsOverBudget() = true before any usage")
	}

	if err := tr.Record(120); err != nil {
		t.Fatal(err)
	}
	over, err = tr.IsOverBudget()
	if err != nil {
		t.Fatal(err)
	}
	if !over {
		t.Error("IsOverBudget() = false after exceeding the limit")
	}

	remaining, _, err := tr.RemainingToday()
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("RemainingToday() = %d, want floor at 0", remaining)
	}
}

func TestUnlimitedTracker(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tr := openTestTracker(t, 0, &now)

	if tr.Limited() {
		t.Error("Limited() = true for zero limit")
	}
	if err := tr.Record(1_000_000); err != nil {
		t.Fatal(err)
	}
	over, err := tr.IsOverBudget()
	if err != nil {
		t.Fatal(err)
	}
	if over {
		t.Error("IsOverBudget() = true for unlimited tracker")
	}
	if _, limited, _ := tr.RemainingToday(); limited {
		t.Error("RemainingToday() limited = true for unlimited tracker")
	}
}
