package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestSQLite creates a throwaway booking database under t.TempDir(),
// fully migrated, and returns the write/read pool pair. Both pools are
// closed when the test finishes.
//
// Repository tests mostly get by with writeDB alone; the read pool is there
// for code that exercises the pool split (advisory availability checks, the
// booking service's read path).
func OpenTestSQLite(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bookings.sqlite")

	writeDB, readDB, err := OpenSQLitePair(path, 4)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return writeDB, readDB
}
