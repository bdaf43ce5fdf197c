package store

import (
	"context"
	"fmt"

	"learnboard/internal/models"
)

// BookStore manages books in the database.
type BookStore struct {
	db Queryer
}

// NewBookStore returns a new BookStore.
func NewBookStore(db Queryer) *BookStore {
	return &BookStore{db: db}
}

const bookColumns = `id, name, description, category_id, created_at`

// ListByCategory returns the books of a category ordered by name.
func (s *BookStore) ListByCategory(ctx context.Context, categoryID int64) ([]models.Book, error) {
	var items []models.Book
	if err := selectAll(ctx, s.db, &items,
		`SELECT `+bookColumns+` FROM books WHERE category_id = ? ORDER BY name, id`, categoryID,
	); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return items, nil
}

// FindByID retrieves a book by ID. Returns nil if not found.
func (s *BookStore) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	ok, err := getOne(ctx, s.db, &b, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find book by id: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// Create inserts a new book and returns it.
func (s *BookStore) Create(ctx context.Context, b *models.Book) (*models.Book, error) {
	id, err := insertID(ctx, s.db,
		`INSERT INTO books (name, description, category_id) VALUES (?, ?, ?) RETURNING id`,
		b.Name, b.Description, b.CategoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update modifies an existing book. Changing CategoryID moves the book
// together with its subtree.
func (s *BookStore) Update(ctx context.Context, b *models.Book) error {
	ok, err := exec(ctx, s.db,
		`UPDATE books SET name = ?, description = ?, category_id = ? WHERE id = ?`,
		b.Name, b.Description, b.CategoryID, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a book and its subtree.
func (s *BookStore) Delete(ctx context.Context, id int64) error {
	ok, err := exec(ctx, s.db, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
