package store

import (
	"context"
	"fmt"

	"learnboard/internal/models"
)

// ChapterStore manages chapters in the database.
type ChapterStore struct {
	db Queryer
}

// NewChapterStore returns a new ChapterStore.
func NewChapterStore(db Queryer) *ChapterStore {
	return &ChapterStore{db: db}
}

const chapterColumns = `id, name, description, book_id, "order", created_at`

// ListByBook returns the chapters of a book in display order.
func (s *ChapterStore) ListByBook(ctx context.Context, bookID int64) ([]models.Chapter, error) {
	var items []models.Chapter
	if err := selectAll(ctx, s.db, &items,
		`SELECT `+chapterColumns+` FROM chapters WHERE book_id = ? ORDER BY "order", id`, bookID,
	); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return items, nil
}

// FindByID retrieves a chapter by ID. Returns nil if not found.
func (s *ChapterStore) FindByID(ctx context.Context, id int64) (*models.Chapter, error) {
	var c models.Chapter
	ok, err := getOne(ctx, s.db, &c, `SELECT `+chapterColumns+` FROM chapters WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find chapter by id: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// NextOrder returns the order value suggested for a new chapter of the book.
func (s *ChapterStore) NextOrder(ctx context.Context, bookID int64) (int, error) {
	n, err := nextValue(ctx, s.db, `SELECT MAX("order") FROM chapters WHERE book_id = ?`, bookID)
	if err != nil {
		return 0, fmt.Errorf("next chapter order: %w", err)
	}
	return n, nil
}

// Create inserts a new chapter and returns it.
func (s *ChapterStore) Create(ctx context.Context, c *models.Chapter) (*models.Chapter, error) {
	id, err := insertID(ctx, s.db,
		`INSERT INTO chapters (name, description, book_id, "order") VALUES (?, ?, ?, ?) RETURNING id`,
		c.Name, c.Description, c.BookID, c.Order,
	)
	if err != nil {
		return nil, fmt.Errorf("create chapter: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update modifies the name, description and order of a chapter.
func (s *ChapterStore) Update(ctx context.Context, c *models.Chapter) error {
	ok, err := exec(ctx, s.db,
		`UPDATE chapters SET name = ?, description = ?, "order" = ? WHERE id = ?`,
		c.Name, c.Description, c.Order, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update chapter: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a chapter and its subtree.
func (s *ChapterStore) Delete(ctx context.Context, id int64) error {
	ok, err := exec(ctx, s.db, `DELETE FROM chapters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
