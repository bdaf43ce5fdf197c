package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"learnboard/internal/models"
)

// BoxStore manages the boxes of a section.
type BoxStore struct {
	db Queryer
}

// NewBoxStore returns a new BoxStore.
func NewBoxStore(db Queryer) *BoxStore {
	return &BoxStore{db: db}
}

// WithTx returns a BoxStore that runs on tx.
func (s *BoxStore) WithTx(tx *sqlx.Tx) *BoxStore {
	return &BoxStore{db: tx}
}

const boxColumns = `id, box_number, box_title, section_id`

// FindByID retrieves a box with the ID of its sheet. Returns nil if not found.
func (s *BoxStore) FindByID(ctx context.Context, id int64) (*models.Box, error) {
	var b models.Box
	ok, err := getOne(ctx, s.db, &b, `
		SELECT b.id, b.box_number, b.box_title, b.section_id, s.sheet_id
		FROM boxes b
		JOIN sections s ON s.id = b.section_id
		WHERE b.id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find box by id: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// FindByNumber retrieves the first box of a section with the given number.
// Returns nil if none matches.
func (s *BoxStore) FindByNumber(ctx context.Context, sectionID int64, number int) (*models.Box, error) {
	var b models.Box
	ok, err := getOne(ctx, s.db, &b, `
		SELECT `+boxColumns+` FROM boxes
		WHERE section_id = ? AND box_number = ?
		ORDER BY id
		LIMIT 1
	`, sectionID, number)
	if err != nil {
		return nil, fmt.Errorf("find box by number: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// Create inserts a box and sets its ID. Callers are responsible for the
// box number being within MaxBoxesPerSection.
func (s *BoxStore) Create(ctx context.Context, b *models.Box) error {
	id, err := insertID(ctx, s.db,
		`INSERT INTO boxes (box_number, box_title, section_id) VALUES (?, ?, ?) RETURNING id`,
		b.BoxNumber, b.BoxTitle, b.SectionID,
	)
	if err != nil {
		return fmt.Errorf("create box: %w", err)
	}
	b.ID = id
	return nil
}

// Append creates a box numbered after the highest existing number of the
// section. It returns ErrBoxLimit once that number has reached
// MaxBoxesPerSection.
func (s *BoxStore) Append(ctx context.Context, sectionID int64, title string) (*models.Box, error) {
	b := &models.Box{BoxTitle: title, SectionID: sectionID}
	err := inTx(ctx, s.db, func(q Queryer) error {
		next, err := nextValue(ctx, q, `SELECT MAX(box_number) FROM boxes WHERE section_id = ?`, sectionID)
		if err != nil {
			return fmt.Errorf("next box number: %w", err)
		}
		if next > models.MaxBoxesPerSection {
			return ErrBoxLimit
		}
		b.BoxNumber = next
		return (&BoxStore{db: q}).Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateTitle changes the title of a box.
func (s *BoxStore) UpdateTitle(ctx context.Context, id int64, title string) error {
	ok, err := exec(ctx, s.db, `UPDATE boxes SET box_title = ? WHERE id = ?`, title, id)
	if err != nil {
		return fmt.Errorf("update box title: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a box and its tasks.
func (s *BoxStore) Delete(ctx context.Context, id int64) error {
	ok, err := exec(ctx, s.db, `DELETE FROM boxes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete box: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
