// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"go-inventory-pos/pkg/database"

	"gorm.io/gorm"
)

// NewDB returns a migrated SQLite database in a temp file that is removed
// when the test ends. A file is used instead of :memory: so every pooled
// connection sees the same schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{
		Driver:   database.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
