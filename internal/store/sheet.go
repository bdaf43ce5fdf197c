package store

import (
	"context"
	"fmt"

	"learnboard/internal/models"
)

// SheetStore manages practice sheets and loads their full section tree.
type SheetStore struct {
	db Queryer
}

// NewSheetStore returns a new SheetStore.
func NewSheetStore(db Queryer) *SheetStore {
	return &SheetStore{db: db}
}

const sheetColumns = `id, name, chapter_id, "order", created_at`

// ListByChapter returns the sheets of a chapter in display order.
func (s *SheetStore) ListByChapter(ctx context.Context, chapterID int64) ([]models.Sheet, error) {
	var items []models.Sheet
	if err := selectAll(ctx, s.db, &items,
		`SELECT `+sheetColumns+` FROM sheets WHERE chapter_id = ? ORDER BY "order", id`, chapterID,
	); err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	return items, nil
}

// FindByID retrieves a sheet by ID. Returns nil if not found.
func (s *SheetStore) FindByID(ctx context.Context, id int64) (*models.Sheet, error) {
	var sh models.Sheet
	ok, err := getOne(ctx, s.db, &sh, `SELECT `+sheetColumns+` FROM sheets WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find sheet by id: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &sh, nil
}

// NextOrder returns the order value suggested for a new sheet of the chapter.
func (s *SheetStore) NextOrder(ctx context.Context, chapterID int64) (int, error) {
	n, err := nextValue(ctx, s.db, `SELECT MAX("order") FROM sheets WHERE chapter_id = ?`, chapterID)
	if err != nil {
		return 0, fmt.Errorf("next sheet order: %w", err)
	}
	return n, nil
}

// Create inserts a new sheet and returns it.
func (s *SheetStore) Create(ctx context.Context, sh *models.Sheet) (*models.Sheet, error) {
	id, err := insertID(ctx, s.db,
		`INSERT INTO sheets (name, chapter_id, "order") VALUES (?, ?, ?) RETURNING id`,
		sh.Name, sh.ChapterID, sh.Order,
	)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update modifies the name and order of a sheet.
func (s *SheetStore) Update(ctx context.Context, sh *models.Sheet) error {
	ok, err := exec(ctx, s.db,
		`UPDATE sheets SET name = ?, "order" = ? WHERE id = ?`,
		sh.Name, sh.Order, sh.ID,
	)
	if err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a sheet and its subtree.
func (s *SheetStore) Delete(ctx context.Context, id int64) error {
	ok, err := exec(ctx, s.db, `DELETE FROM sheets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sheet: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Tree loads every section of the sheet with its boxes, tasks, task
// progress and notes, each level in display order. Tasks without a
// progress row keep a nil Progress.
func (s *SheetStore) Tree(ctx context.Context, sheetID int64) ([]models.Section, error) {
	var sections []models.Section
	if err := selectAll(ctx, s.db, &sections, `
		SELECT `+sectionColumns+` FROM sections
		WHERE sheet_id = ?
		ORDER BY section_order, id
	`, sheetID); err != nil {
		return nil, fmt.Errorf("tree sections: %w", err)
	}

	var boxes []models.Box
	if err := selectAll(ctx, s.db, &boxes, `
		SELECT b.id, b.box_number, b.box_title, b.section_id
		FROM boxes b
		JOIN sections s ON s.id = b.section_id
		WHERE s.sheet_id = ?
		ORDER BY b.box_number, b.id
	`, sheetID); err != nil {
		return nil, fmt.Errorf("tree boxes: %w", err)
	}

	var tasks []models.Task
	if err := selectAll(ctx, s.db, &tasks, `
		SELECT t.id, t.task_order, t.task_text, t.box_id
		FROM tasks t
		JOIN boxes b ON b.id = t.box_id
		JOIN sections s ON s.id = b.section_id
		WHERE s.sheet_id = ?
		ORDER BY t.task_order, t.id
	`, sheetID); err != nil {
		return nil, fmt.Errorf("tree tasks: %w", err)
	}

	var progress []models.TaskProgress
	if err := selectAll(ctx, s.db, &progress, `
		SELECT p.id, p.task_id, p.completed, p.updated_at
		FROM task_progress p
		JOIN tasks t ON t.id = p.task_id
		JOIN boxes b ON b.id = t.box_id
		JOIN sections s ON s.id = b.section_id
		WHERE s.sheet_id = ?
	`, sheetID); err != nil {
		return nil, fmt.Errorf("tree progress: %w", err)
	}

	var notes []models.Note
	if err := selectAll(ctx, s.db, &notes, `
		SELECT n.id, n.content_markdown, n.section_id, n.created_at, n.updated_at
		FROM notes n
		JOIN sections s ON s.id = n.section_id
		WHERE s.sheet_id = ?
		ORDER BY n.created_at, n.id
	`, sheetID); err != nil {
		return nil, fmt.Errorf("tree notes: %w", err)
	}

	// Assemble bottom-up so every level holds complete values.
	progressByTask := make(map[int64]*models.TaskProgress, len(progress))
	for i := range progress {
		progressByTask[progress[i].TaskID] = &progress[i]
	}

	tasksByBox := make(map[int64][]models.Task)
	for _, t := range tasks {
		t.Progress = progressByTask[t.ID]
		tasksByBox[t.BoxID] = append(tasksByBox[t.BoxID], t)
	}

	boxesBySection := make(map[int64][]models.Box)
	for _, b := range boxes {
		b.Tasks = tasksByBox[b.ID]
		boxesBySection[b.SectionID] = append(boxesBySection[b.SectionID], b)
	}

	notesBySection := make(map[int64][]models.Note)
	for _, n := range notes {
		notesBySection[n.SectionID] = append(notesBySection[n.SectionID], n)
	}

	for i := range sections {
		sections[i].Boxes = boxesBySection[sections[i].ID]
		sections[i].Notes = notesBySection[sections[i].ID]
	}
	return sections, nil
}
