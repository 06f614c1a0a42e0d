package kvstore

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one row of the local key-value table.
type Entry struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"type:json"`
	UpdatedAt time.Time
}

// TableName overrides the table name for Entry
func (Entry) TableName() string {
	return "local_entries"
}

// SQLite is a Store backed by a GORM-managed sqlite table. It is the durable
// local medium used outside of tests.
type SQLite struct {
	db *gorm.DB
}

// NewSQLite creates the store and runs its table migration.
func NewSQLite(db *gorm.DB) (*SQLite, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local entries table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the value for key.
func (s *SQLite) Get(key string) (string, bool, error) {
	var entry Entry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return string(entry.Value), true, nil
}

// Set writes the value for key, replacing any existing value.
func (s *SQLite) Set(key, value string) error {
	entry := Entry{Key: key, Value: datatypes.JSON(value)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete removes the key if present.
func (s *SQLite) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&Entry{}).Error
}

// Keys returns all keys beginning with prefix.
func (s *SQLite) Keys(prefix string) ([]string, error) {
	var keys []string
	pattern := escapeLike(prefix) + "%"
	err := s.db.Model(&Entry{}).
		Where("key LIKE ? ESCAPE '\\'", pattern).
		Pluck("key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// escapeLike escapes LIKE wildcards so prefixes match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
