package store

import (
	"context"
	"fmt"

	"learnboard/internal/models"
)

// NoteStore manages the Markdown notes attached to sections.
type NoteStore struct {
	db Queryer
}

// NewNoteStore returns a new NoteStore.
func NewNoteStore(db Queryer) *NoteStore {
	return &NoteStore{db: db}
}

// FindByID retrieves a note with the ID of its sheet. Returns nil if not found.
func (s *NoteStore) FindByID(ctx context.Context, id int64) (*models.Note, error) {
	var n models.Note
	ok, err := getOne(ctx, s.db, &n, `
		SELECT n.id, n.content_markdown, n.section_id, n.created_at, n.updated_at, s.sheet_id
		FROM notes n
		JOIN sections s ON s.id = n.section_id
		WHERE n.id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find note by id: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// Create inserts a note for a section. Empty content is allowed.
func (s *NoteStore) Create(ctx context.Context, sectionID int64, content string) (*models.Note, error) {
	id, err := insertID(ctx, s.db,
		`INSERT INTO notes (content_markdown, section_id) VALUES (?, ?) RETURNING id`,
		content, sectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update replaces the content of a note and bumps updated_at.
func (s *NoteStore) Update(ctx context.Context, id int64, content string) error {
	ok, err := exec(ctx, s.db,
		`UPDATE notes SET content_markdown = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		content, id,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a note.
func (s *NoteStore) Delete(ctx context.Context, id int64) error {
	ok, err := exec(ctx, s.db, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
