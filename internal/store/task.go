package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"learnboard/internal/models"
)

// TaskStore manages tasks and their progress rows.
type TaskStore struct {
	db Queryer
}

// NewTaskStore returns a new TaskStore.
func NewTaskStore(db Queryer) *TaskStore {
	return &TaskStore{db: db}
}

// WithTx returns a TaskStore that runs on tx.
func (s *TaskStore) WithTx(tx *sqlx.Tx) *TaskStore {
	return &TaskStore{db: tx}
}

const taskColumns = `id, task_order, task_text, box_id`

// FindByID retrieves a task together with its section and sheet IDs and
// its progress row, if any. Returns nil if not found.
func (s *TaskStore) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	var t models.Task
	ok, err := getOne(ctx, s.db, &t, `
		SELECT t.id, t.task_order, t.task_text, t.box_id, b.section_id, s.sheet_id
		FROM tasks t
		JOIN boxes b ON b.id = t.box_id
		JOIN sections s ON s.id = b.section_id
		WHERE t.id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find task by id: %w", err)
	}
	if !ok {
		return nil, nil
	}

	p, err := findProgress(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	t.Progress = p
	return &t, nil
}

// FindByOrder retrieves the first task of a box with the given order.
// Returns nil if none matches.
func (s *TaskStore) FindByOrder(ctx context.Context, boxID int64, order int) (*models.Task, error) {
	var t models.Task
	ok, err := getOne(ctx, s.db, &t, `
		SELECT `+taskColumns+` FROM tasks
		WHERE box_id = ? AND task_order = ?
		ORDER BY id
		LIMIT 1
	`, boxID, order)
	if err != nil {
		return nil, fmt.Errorf("find task by order: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// Create inserts a task together with a fresh incomplete progress row and
// sets the task ID. On the pool both inserts share one transaction.
func (s *TaskStore) Create(ctx context.Context, t *models.Task) error {
	return inTx(ctx, s.db, func(q Queryer) error {
		id, err := insertID(ctx, q,
			`INSERT INTO tasks (task_order, task_text, box_id) VALUES (?, ?, ?) RETURNING id`,
			t.TaskOrder, t.TaskText, t.BoxID,
		)
		if err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		if _, err := exec(ctx, q,
			`INSERT INTO task_progress (task_id, completed) VALUES (?, ?)`, id, false,
		); err != nil {
			return fmt.Errorf("create task progress: %w", err)
		}
		t.ID = id
		t.Progress = &models.TaskProgress{TaskID: id}
		return nil
	})
}

// Append creates a task ordered after the last task of the box.
func (s *TaskStore) Append(ctx context.Context, boxID int64, text string) (*models.Task, error) {
	t := &models.Task{TaskText: text, BoxID: boxID}
	err := inTx(ctx, s.db, func(q Queryer) error {
		next, err := nextValue(ctx, q, `SELECT MAX(task_order) FROM tasks WHERE box_id = ?`, boxID)
		if err != nil {
			return fmt.Errorf("next task order: %w", err)
		}
		t.TaskOrder = next
		return (&TaskStore{db: q}).Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateText changes the text of a task.
func (s *TaskStore) UpdateText(ctx context.Context, id int64, text string) error {
	ok, err := exec(ctx, s.db, `UPDATE tasks SET task_text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("update task text: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task and its progress row.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	ok, err := exec(ctx, s.db, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Toggle flips the completion flag of a task and returns the task with its
// new progress. A task without a progress row gets one created as
// completed. Returns ErrNotFound for an unknown task.
func (s *TaskStore) Toggle(ctx context.Context, id int64) (*models.Task, error) {
	var task *models.Task
	err := inTx(ctx, s.db, func(q Queryer) error {
		tx := &TaskStore{db: q}
		t, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrNotFound
		}

		if t.Progress == nil {
			if _, err := exec(ctx, q,
				`INSERT INTO task_progress (task_id, completed) VALUES (?, ?)`, id, true,
			); err != nil {
				return fmt.Errorf("create task progress: %w", err)
			}
		} else {
			if _, err := exec(ctx, q,
				`UPDATE task_progress SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE task_id = ?`,
				!t.Progress.Completed, id,
			); err != nil {
				return fmt.Errorf("update task progress: %w", err)
			}
		}

		t.Progress, err = findProgress(ctx, q, id)
		if err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// findProgress loads the progress row of a task, or nil when it has none.
func findProgress(ctx context.Context, q Queryer, taskID int64) (*models.TaskProgress, error) {
	var p models.TaskProgress
	ok, err := getOne(ctx, q, &p,
		`SELECT id, task_id, completed, updated_at FROM task_progress WHERE task_id = ?`, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("find task progress: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &p, nil
}
