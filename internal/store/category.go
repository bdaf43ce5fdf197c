package store

import (
	"context"
	"fmt"

	"learnboard/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db Queryer
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db Queryer) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, created_at`

// List returns all categories ordered by name, with book counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	err := selectAll(ctx, s.db, &items, `
		SELECT c.id, c.name, c.description, c.created_at,
		       COUNT(b.id) AS book_count
		FROM categories c
		LEFT JOIN books b ON b.category_id = c.id
		GROUP BY c.id, c.name, c.description, c.created_at
		ORDER BY c.name, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// ListWithBooks returns all categories ordered by name with their books
// attached. Used by the dashboard.
func (s *CategoryStore) ListWithBooks(ctx context.Context) ([]models.Category, error) {
	cats, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var books []models.Book
	if err := selectAll(ctx, s.db, &books, `SELECT `+bookColumns+` FROM books ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list books for dashboard: %w", err)
	}

	byCategory := make(map[int64][]models.Book, len(cats))
	for _, b := range books {
		byCategory[b.CategoryID] = append(byCategory[b.CategoryID], b)
	}
	for i := range cats {
		cats[i].Books = byCategory[cats[i].ID]
	}
	return cats, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	ok, err := getOne(ctx, s.db, &c, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	id, err := insertID(ctx, s.db,
		`INSERT INTO categories (name, description) VALUES (?, ?) RETURNING id`,
		c.Name, c.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update modifies the name and description of an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	ok, err := exec(ctx, s.db,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		c.Name, c.Description, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category and, through ON DELETE CASCADE, every book,
// chapter, sheet, section, box, task, progress row and note beneath it.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	ok, err := exec(ctx, s.db, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
