package csvimport

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"learnboard/internal/models"
	"learnboard/internal/store"
)

// Result counts what an import changed.
type Result struct {
	SectionsCreated int
	BoxesCreated    int
	BoxesUpdated    int
	BoxesSkipped    int
	TasksCreated    int
	TasksUpdated    int
}

// Importer reconciles parsed CSV groups into the database.
type Importer struct {
	db       *sqlx.DB
	sheets   *store.SheetStore
	sections *store.SectionStore
	boxes    *store.BoxStore
	tasks    *store.TaskStore
}

// NewImporter returns an Importer over the given stores.
func NewImporter(stores *store.Stores) *Importer {
	return &Importer{
		db:       stores.DB,
		sheets:   stores.Sheets,
		sections: stores.Sections,
		boxes:    stores.Boxes,
		tasks:    stores.Tasks,
	}
}

// Import parses CSV from r and reconciles it into the sheet.
func (im *Importer) Import(ctx context.Context, sheetID int64, r io.Reader) (*Result, error) {
	groups, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return im.Reconcile(ctx, sheetID, groups)
}

// Reconcile finds or creates every section, box and task of groups by
// natural key, in input order, inside a single transaction. Existing boxes
// get their title overwritten and existing tasks their text; completion
// state is never touched. Boxes numbered above MaxBoxesPerSection are
// skipped. Any error rolls the whole import back.
func (im *Importer) Reconcile(ctx context.Context, sheetID int64, groups []*SectionGroup) (*Result, error) {
	tx, err := im.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	sheet, err := store.NewSheetStore(tx).FindByID(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, store.ErrNotFound
	}

	sections := im.sections.WithTx(tx)
	boxes := im.boxes.WithTx(tx)
	tasks := im.tasks.WithTx(tx)

	res := &Result{}
	for _, g := range groups {
		sec, err := sections.FindByNaturalKey(ctx, sheetID, g.Level, g.Order)
		if err != nil {
			return nil, err
		}
		if sec == nil {
			sec = &models.Section{LevelName: g.Level, SectionOrder: g.Order, SheetID: sheetID}
			if err := sections.Create(ctx, sec); err != nil {
				return nil, err
			}
			res.SectionsCreated++
		}

		for _, bg := range g.Boxes {
			if bg.Number > models.MaxBoxesPerSection {
				res.BoxesSkipped++
				continue
			}

			box, err := boxes.FindByNumber(ctx, sec.ID, bg.Number)
			if err != nil {
				return nil, err
			}
			switch {
			case box == nil:
				box = &models.Box{BoxNumber: bg.Number, BoxTitle: bg.Title, SectionID: sec.ID}
				if err := boxes.Create(ctx, box); err != nil {
					return nil, err
				}
				res.BoxesCreated++
			case box.BoxTitle != bg.Title:
				if err := boxes.UpdateTitle(ctx, box.ID, bg.Title); err != nil {
					return nil, err
				}
				res.BoxesUpdated++
			}

			for _, tr := range bg.Tasks {
				task, err := tasks.FindByOrder(ctx, box.ID, tr.Order)
				if err != nil {
					return nil, err
				}
				switch {
				case task == nil:
					task = &models.Task{TaskOrder: tr.Order, TaskText: tr.Text, BoxID: box.ID}
					if err := tasks.Create(ctx, task); err != nil {
						return nil, err
					}
					res.TasksCreated++
				case task.TaskText != tr.Text:
					if err := tasks.UpdateText(ctx, task.ID, tr.Text); err != nil {
						return nil, err
					}
					res.TasksUpdated++
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	slog.Info("csv import applied",
		"sheet_id", sheetID,
		"sections_created", res.SectionsCreated,
		"boxes_created", res.BoxesCreated,
		"boxes_updated", res.BoxesUpdated,
		"boxes_skipped", res.BoxesSkipped,
		"tasks_created", res.TasksCreated,
		"tasks_updated", res.TasksUpdated,
	)
	return res, nil
}
