// Package history stores completed transcriptions in a local SQLite
// database so users can review, search, and re-copy past dictations.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one recorded transcription.
type Entry struct {
	ID          uint      `gorm:"primaryKey"`
	Timestamp   time.Time `gorm:"not null;index"`
	RawText     string    `gorm:"not null"`
	CleanedText string    `gorm:"not null"`
	Engine      string    `gorm:"not null;default:whisper"`
	DurationS   float64   `gorm:"not null;default:0"`
}

// TableName keeps the table compatible with earlier database layouts.
func (Entry) TableName() string { return "transcriptions" }

// Store is the transcription history database.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open creates or opens the history database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create data dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("history: migrate schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Add records a transcription and returns the new row id.
func (s *Store) Add(rawText, cleanedText, engine string, durationS float64) (uint, error) {
	if engine == "" {
		engine = "whisper"
	}
	entry := Entry{
		Timestamp:   s.now(),
		RawText:     rawText,
		CleanedText: cleanedText,
		Engine:      engine,
		DurationS:   durationS,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("history: add entry: %w", err)
	}
	return entry.ID, nil
}

// Recent returns transcriptions newest first.
func (s *Store) Recent(limit, offset int) ([]Entry, error) {
	var entries []Entry
	err := s.db.Order("timestamp DESC").Limit(limit).Offset(offset).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("history: list recent: %w", err)
	}
	return entries, nil
}

// Search returns entries whose raw or cleaned text contains the query,
// case-insensitively, newest first.
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var entries []Entry
	err := s.db.
		Where("lower(raw_text) LIKE ? OR lower(cleaned_text) LIKE ?", pattern, pattern).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("history: search: %w", err)
	}
	return entries, nil
}

// Delete removes a single transcription by id.
func (s *Store) Delete(id uint) error {
	if err := s.db.Delete(&Entry{}, id).Error; err != nil {
		return fmt.Errorf("history: delete entry %d: %w", id, err)
	}
	return nil
}

// Clear removes all transcription history.
func (s *Store) Clear() error {
	if err := s.db.Where("1 = 1").Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("history: clear: %w", err)
	}
	return nil
}

// Count returns the total number of stored transcriptions.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&Entry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("history: close: %w", err)
	}
	return db.Close()
}
