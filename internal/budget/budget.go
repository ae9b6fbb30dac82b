// Package budget tracks daily word usage with a 7-day rollover: budget left
// unused on a day the app was actually used carries forward for a week.
package budget

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const rolloverDays = 7

// Usage is one day's word count. Date is an ISO date string (YYYY-MM-DD).
type Usage struct {
	Date      string `gorm:"primaryKey"`
	WordsUsed int    `gorm:"not null;default:0"`
}

// TableName keeps the table compatible with earlier database layouts.
func (Usage) TableName() string { return "word_usage" }

// Tracker records word usage and answers budget questions. A daily limit of
// zero or less means unlimited.
type Tracker struct {
	db         *gorm.DB
	dailyLimit int
	now        func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithNow replaces the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Open creates or opens the budget database at path.
func Open(path string, dailyLimit int, opts ...Option) (*Tracker, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("budget: create data dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("budget: open database: %w", err)
	}
	if err := db.AutoMigrate(&Usage{}); err != nil {
		return nil, fmt.Errorf("budget: migrate schema: %w", err)
	}
	t := &Tracker{db: db, dailyLimit: dailyLimit, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Limited reports whether a daily word limit is configured.
func (t *Tracker) Limited() bool { return t.dailyLimit > 0 }

// Record adds words to today's usage.
func (t *Tracker) Record(wordCount int) error {
	today := t.today()
	err := t.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"words_used": gorm.Expr("words_used + ?", wordCount),
		}),
	}).Create(&Usage{Date: today, WordsUsed: wordCount}).Error
	if err != nil {
		return fmt.Errorf("budget: record usage: %w", err)
	}
	return nil
}

// RemainingToday returns the words left today including rollover, floored at
// zero. Unlimited trackers always report zero remaining and ok=false.
func (t *Tracker) RemainingToday() (int, bool, error) {
	if !t.Limited() {
		return 0, false, nil
	}
	used, err := t.usageOn(t.today())
	if err != nil {
		return 0, true, err
	}
	rollover, err := t.rollover()
	if err != nil {
		return 0, true, err
	}
	remaining := t.dailyLimit + rollover - used
	return max(remaining, 0), true, nil
}

// IsOverBudget reports whether today's budget is exhausted. Unlimited
// trackers are never over budget.
func (t *Tracker) IsOverBudget() (bool, error) {
	remaining, limited, err := t.RemainingToday()
	if err != nil || !limited {
		return false, err
	}
	return remaining <= 0, nil
}

// TodayUsage returns the words recorded today.
func (t *Tracker) TodayUsage() (int, error) {
	return t.usageOn(t.today())
}

// Close releases the underlying database connection.
func (t *Tracker) Close() error {
	db, err := t.db.DB()
	if err != nil {
		return fmt.Errorf("budget: close: %w", err)
	}
	return db.Close()
}

// rollover sums unused budget over the past week. Only days with a usage
// record count — days before the app was installed contribute nothing.
func (t *Tracker) rollover() (int, error) {
	today := t.now()
	total := 0
	for i := 1; i <= rolloverDays; i++ {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		var u Usage
		err := t.db.Where("date = ?", day).Take(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("budget: read usage for %s: %w", day, err)
		}
		total += max(t.dailyLimit-u.WordsUsed, 0)
	}
	return total, nil
}

func (t *Tracker) usageOn(day string) (int, error) {
	var u Usage
	err := t.db.Where("date = ?", day).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("budget: read usage for %s: %w", day, err)
	}
	return u.WordsUsed, nil
}

func (t *Tracker) today() string {
	return t.now().Format(time.DateOnly)
}
