// Package testdb opens throwaway SQLite databases migrated with the production schema.
package testdb

import (
	"path/filepath"
	"testing"

	"github.com/upkook/cx-metrics/internal/infrastructure/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database stored under t.TempDir().
// The pool is capped at one connection so concurrent writers queue instead of
// failing with SQLITE_BUSY.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cx.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Prepare(db); err != nil {
		t.Fatalf("prepare schema: %v", err)
	}
	return db
}
