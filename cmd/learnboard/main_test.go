package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnboard/internal/database"
	"learnboard/internal/models"
	"learnboard/internal/store"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{name: "debug mode enabled", debugMode: true, wantLevel: slog.LevelDebug},
		{name: "debug mode disabled", debugMode: false, wantLevel: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"serve", "migrate", "import"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

// withConfig points the CLI at a fresh SQLite file through a config file
// and returns the database path.
func withConfig(t *testing.T) (string, string) {
	t.Helper()
	for _, env := range []string{"APP_ENV", "DB_DRIVER", "DB_PATH", "VALKEY_HOST", "SECRET_KEY"} {
		t.Setenv(env, "")
	}

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")
	cfgPath := filepath.Join(dir, "learnboard.yaml")
	yaml := "env: development\ndb:\n  driver: sqlite\n  path: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))
	return cfgPath, dbPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateSeed(t *testing.T) {
	cfgPath, dbPath := withConfig(t)

	_, err := run(t, "", "migrate", "--seed", "--config", cfgPath)
	require.NoError(t, err)

	db, err := database.Connect(database.DriverSQLite, dbPath)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM categories`))
	assert.Equal(t, 1, n)
}

func TestImportFromStdin(t *testing.T) {
	cfgPath, dbPath := withConfig(t)
	_, err := run(t, "", "migrate", "--config", cfgPath)
	require.NoError(t, err)

	db, err := database.Connect(database.DriverSQLite, dbPath)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	stores := store.New(db)
	cat, err := stores.Categories.Create(ctx, &models.Category{Name: "Math"})
	require.NoError(t, err)
	book, err := stores.Books.Create(ctx, &models.Book{Name: "Algebra", CategoryID: cat.ID})
	require.NoError(t, err)
	ch, err := stores.Chapters.Create(ctx, &models.Chapter{Name: "Equations", BookID: book.ID, Order: 1})
	require.NoError(t, err)
	sh, err := stores.Sheets.Create(ctx, &models.Sheet{Name: "Drill", ChapterID: ch.ID, Order: 1})
	require.NoError(t, err)

	csv := "level,section_order,box_number,box_title,task_order,task_text\n" +
		"Basics,1,1,Linear,1,Solve x+1=2\n" +
		"Basics,1,30,Too far,1,Ignored\n"
	out, err := run(t, csv, "import", "--sheet", strconv.FormatInt(sh.ID, 10), "--config", cfgPath, "-")
	require.NoError(t, err)

	assert.Contains(t, out, "Import complete.")
	assert.Contains(t, out, "Sections: 1 created")
	assert.Contains(t, out, "Tasks:    1 created, 0 updated")
	assert.Contains(t, out, "Skipped 1 boxes numbered above 25")

	var tasks int
	require.NoError(t, db.Get(&tasks, `SELECT COUNT(*) FROM tasks`))
	assert.Equal(t, 1, tasks)
}

func TestImportRequiresSheet(t *testing.T) {
	cfgPath, _ := withConfig(t)

	_, err := run(t, "", "import", "--config", cfgPath, "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--sheet")
}

func TestImportUnknownSheet(t *testing.T) {
	cfgPath, _ := withConfig(t)

	_, err := run(t, "level,task_text\nBasics,x\n", "import", "--sheet", "99", "--config", cfgPath, "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet 99 does not exist")
}
