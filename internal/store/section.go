package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"learnboard/internal/models"
)

// SectionStore manages the sections of a sheet.
type SectionStore struct {
	db Queryer
}

// NewSectionStore returns a new SectionStore.
func NewSectionStore(db Queryer) *SectionStore {
	return &SectionStore{db: db}
}

// WithTx returns a SectionStore that runs on tx.
func (s *SectionStore) WithTx(tx *sqlx.Tx) *SectionStore {
	return &SectionStore{db: tx}
}

const sectionColumns = `id, level_name, section_order, sheet_id`

// FindByID retrieves a section by ID. Returns nil if not found.
func (s *SectionStore) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	var sec models.Section
	ok, err := getOne(ctx, s.db, &sec, `SELECT `+sectionColumns+` FROM sections WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find section by id: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &sec, nil
}

// FindByNaturalKey retrieves the first section of a sheet matching level
// name and order. Returns nil if none matches.
func (s *SectionStore) FindByNaturalKey(ctx context.Context, sheetID int64, levelName string, order int) (*models.Section, error) {
	var sec models.Section
	ok, err := getOne(ctx, s.db, &sec, `
		SELECT `+sectionColumns+` FROM sections
		WHERE sheet_id = ? AND level_name = ? AND section_order = ?
		ORDER BY id
		LIMIT 1
	`, sheetID, levelName, order)
	if err != nil {
		return nil, fmt.Errorf("find section by natural key: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &sec, nil
}

// NextOrder returns the section_order for a section appended to the sheet.
func (s *SectionStore) NextOrder(ctx context.Context, sheetID int64) (int, error) {
	n, err := nextValue(ctx, s.db, `SELECT MAX(section_order) FROM sections WHERE sheet_id = ?`, sheetID)
	if err != nil {
		return 0, fmt.Errorf("next section order: %w", err)
	}
	return n, nil
}

// Create inserts a section and sets its ID.
func (s *SectionStore) Create(ctx context.Context, sec *models.Section) error {
	id, err := insertID(ctx, s.db,
		`INSERT INTO sections (level_name, section_order, sheet_id) VALUES (?, ?, ?) RETURNING id`,
		sec.LevelName, sec.SectionOrder, sec.SheetID,
	)
	if err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	sec.ID = id
	return nil
}

// Append creates a section named levelName at the end of the sheet.
func (s *SectionStore) Append(ctx context.Context, sheetID int64, levelName string) (*models.Section, error) {
	sec := &models.Section{LevelName: levelName, SheetID: sheetID}
	err := inTx(ctx, s.db, func(q Queryer) error {
		tx := &SectionStore{db: q}
		order, err := tx.NextOrder(ctx, sheetID)
		if err != nil {
			return err
		}
		sec.SectionOrder = order
		return tx.Create(ctx, sec)
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

// Rename changes the level name of a section.
func (s *SectionStore) Rename(ctx context.Context, id int64, levelName string) error {
	ok, err := exec(ctx, s.db, `UPDATE sections SET level_name = ? WHERE id = ?`, levelName, id)
	if err != nil {
		return fmt.Errorf("rename section: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a section with its boxes, tasks and notes.
func (s *SectionStore) Delete(ctx context.Context, id int64) error {
	ok, err := exec(ctx, s.db, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
