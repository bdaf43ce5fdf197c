package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// seedTasks is the demo sheet created by Seed, grouped by box title.
var seedTasks = []struct {
	box   string
	tasks []string
}{
	{"Warm-up", []string{"Read the chapter introduction", "Write down three key terms"}},
	{"Practice", []string{"Solve exercises 1-5", "Check answers against the key"}},
}

// Seed populates an empty database with a small demo hierarchy so a fresh
// install has something to click through. It is a no-op once any category
// exists.
func Seed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM categories`); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	insert := func(query string, args ...any) (int64, error) {
		var id int64
		err := tx.QueryRowxContext(ctx, tx.Rebind(query), args...).Scan(&id)
		return id, err
	}

	categoryID, err := insert(`INSERT INTO categories (name, description) VALUES (?, ?) RETURNING id`,
		"Languages", "Language learning material")
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	bookID, err := insert(`INSERT INTO books (name, description, category_id) VALUES (?, ?, ?) RETURNING id`,
		"Spanish Grammar", "", categoryID)
	if err != nil {
		return fmt.Errorf("seed book: %w", err)
	}
	chapterID, err := insert(`INSERT INTO chapters (name, description, book_id, "order") VALUES (?, ?, ?, ?) RETURNING id`,
		"Present tense", "", bookID, 1)
	if err != nil {
		return fmt.Errorf("seed chapter: %w", err)
	}
	sheetID, err := insert(`INSERT INTO sheets (name, chapter_id, "order") VALUES (?, ?, ?) RETURNING id`,
		"Regular verbs", chapterID, 1)
	if err != nil {
		return fmt.Errorf("seed sheet: %w", err)
	}
	sectionID, err := insert(`INSERT INTO sections (level_name, section_order, sheet_id) VALUES (?, ?, ?) RETURNING id`,
		"Basics", 1, sheetID)
	if err != nil {
		return fmt.Errorf("seed section: %w", err)
	}

	for i, b := range seedTasks {
		boxID, err := insert(`INSERT INTO boxes (box_number, box_title, section_id) VALUES (?, ?, ?) RETURNING id`,
			i+1, b.box, sectionID)
		if err != nil {
			return fmt.Errorf("seed box: %w", err)
		}
		for j, text := range b.tasks {
			taskID, err := insert(`INSERT INTO tasks (task_order, task_text, box_id) VALUES (?, ?, ?) RETURNING id`,
				j+1, text, boxID)
			if err != nil {
				return fmt.Errorf("seed task: %w", err)
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO task_progress (task_id, completed) VALUES (?, ?)`),
				taskID, false); err != nil {
				return fmt.Errorf("seed task progress: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo sheet", "sheet_id", sheetID)
	return nil
}
