package database

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("a.db"))
	assert.Equal(t, "a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("a.db?mode=rwc"))
}

func TestMigrateCreatesTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{
		"categories", "books", "chapters", "sheets", "sections",
		"boxes", "tasks", "task_progress", "notes",
	} {
		var n int
		err := db.Get(&n, `SELECT COUNT(*) FROM `+table)
		assert.NoError(t, err, table)
	}

	// Running migrations again is a no-op.
	require.NoError(t, Migrate(db))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	var on int
	require.NoError(t, db.Get(&on, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, on)

	_, err := db.Exec(`INSERT INTO books (name, category_id) VALUES ('orphan', 999)`)
	assert.Error(t, err, "insert with dangling category_id must fail")
}
