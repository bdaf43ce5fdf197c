package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	var categories, tasks, progress int
	require.NoError(t, db.Get(&categories, `SELECT COUNT(*) FROM categories`))
	require.NoError(t, db.Get(&tasks, `SELECT COUNT(*) FROM tasks`))
	require.NoError(t, db.Get(&progress, `SELECT COUNT(*) FROM task_progress`))

	assert.Equal(t, 1, categories)
	assert.Equal(t, 4, tasks)
	assert.Equal(t, tasks, progress, "every seeded task has a progress row")
}

func TestSeedBuildsFullChain(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Seed(context.Background(), db))

	var sheet string
	err := db.Get(&sheet, `
		SELECT sh.name FROM sheets sh
		JOIN chapters ch ON ch.id = sh.chapter_id
		JOIN books b ON b.id = ch.book_id
		JOIN categories c ON c.id = b.category_id
		WHERE c.name = 'Languages'`)
	require.NoError(t, err)
	assert.Equal(t, "Regular verbs", sheet)

	var completed int
	require.NoError(t, db.Get(&completed, `SELECT COUNT(*) FROM task_progress WHERE completed`))
	assert.Zero(t, completed)
}
