package testutil

import (
	"testing"

	"portfolio/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenInMemoryDB opens a private, migrated in-memory SQLite database that is
// closed when the test finishes.
func OpenInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := database.Open(database.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// A shared-cache memory database locks per table across connections.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
