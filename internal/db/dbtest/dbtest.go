// Package dbtest opens migrated sqlite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"

	"github.com/complyhub/complyhub/internal/db/models"
)

// New returns a fresh, fully migrated in-memory sqlite database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	// one connection keeps every statement on the same in-memory database.
	return open(t, ":memory:", 1)
}

// NewFile returns a migrated sqlite file database in WAL mode. Unlike New it
// serves several connections, so a reader is not blocked by an open transaction.
func NewFile(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "complyhub.db") +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	return open(t, dsn, 0)
}

func open(t testing.TB, dsn string, maxOpenConns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlog.Discard,
		TranslateError: true,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)

	sqlDB.SetMaxOpenConns(maxOpenConns)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}
