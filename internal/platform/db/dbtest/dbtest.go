// Package dbtest opens throwaway SQLite databases with the full schema for adapter tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stock_tracker/internal/platform/db"
)

// New returns an in-memory database with foreign keys enforced and every table migrated.
// The pool is pinned to one connection since each in-memory connection is a separate database.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.SQLiteOpener(db.SQLiteDSN("file::memory:"))
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb), "failed to migrate tables")
	return gdb
}
