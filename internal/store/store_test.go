// store_test.go provides a shared test database helper for all store
// integration tests. Every test gets its own migrated SQLite file.
package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"learnboard/internal/database"
	"learnboard/internal/models"
)

// testDB opens a fresh SQLite database in a temp dir and runs migrations.
// A cleanup function is registered to close the connection when the test
// finishes.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Connect(database.DriverSQLite, filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("cannot open DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// fixture is a category → book → chapter → sheet chain.
type fixture struct {
	Category *models.Category
	Book     *models.Book
	Chapter  *models.Chapter
	Sheet    *models.Sheet
}

// newFixture creates a chain down to an empty sheet.
func newFixture(t *testing.T, s *Stores) fixture {
	t.Helper()
	ctx := context.Background()

	cat, err := s.Categories.Create(ctx, &models.Category{Name: "Math"})
	require.NoError(t, err)
	book, err := s.Books.Create(ctx, &models.Book{Name: "Algebra", CategoryID: cat.ID})
	require.NoError(t, err)
	ch, err := s.Chapters.Create(ctx, &models.Chapter{Name: "Linear equations", BookID: book.ID, Order: 1})
	require.NoError(t, err)
	sh, err := s.Sheets.Create(ctx, &models.Sheet{Name: "Sheet A", ChapterID: ch.ID, Order: 1})
	require.NoError(t, err)

	return fixture{Category: cat, Book: book, Chapter: ch, Sheet: sh}
}

// countRows returns the number of rows in table.
func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}
