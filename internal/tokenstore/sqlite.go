package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type storedToken struct {
	Name      string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

// SQLite keeps tokens in an embedded database file, the same place browsers
// keep their cookie jars.
type SQLite struct {
	db *gorm.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create token db dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open token db: %w", err)
	}
	if err := db.AutoMigrate(&storedToken{}); err != nil {
		return nil, fmt.Errorf("migrate token db: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(name, value string, expires time.Time) error {
	row := storedToken{Name: name, Value: value, ExpiresAt: expires}
	return s.db.Save(&row).Error
}

func (s *SQLite) Load(name string) (string, bool, error) {
	var row storedToken
	err := s.db.Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if time.Now().After(row.ExpiresAt) {
		// Expired rows are reaped on read, like a browser evicting a
		// stale cookie.
		_ = s.db.Delete(&storedToken{}, "name = ?", name).Error
		return "", false, nil
	}
	return row.Value, true, nil
}

func (s *SQLite) Delete(name string) error {
	return s.db.Delete(&storedToken{}, "name = ?", name).Error
}
