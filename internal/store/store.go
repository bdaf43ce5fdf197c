// Package store contains the sqlx-backed persistence layer. Every store is
// built on a Queryer so the same code runs against the pool or inside a
// transaction (see WithTx on each store). Queries are written with "?"
// placeholders and rebound for the active driver.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned by mutations whose target row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBoxLimit is returned when a Section already holds the maximum
	// box number.
	ErrBoxLimit = errors.New("box limit reached")
)

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type Queryer = sqlx.ExtContext

// Stores bundles every entity store over one database handle.
type Stores struct {
	DB         *sqlx.DB
	Categories *CategoryStore
	Books      *BookStore
	Chapters   *ChapterStore
	Sheets     *SheetStore
	Sections   *SectionStore
	Boxes      *BoxStore
	Tasks      *TaskStore
	Notes      *NoteStore
}

// New returns all stores bound to db.
func New(db *sqlx.DB) *Stores {
	return &Stores{
		DB:         db,
		Categories: NewCategoryStore(db),
		Books:      NewBookStore(db),
		Chapters:   NewChapterStore(db),
		Sheets:     NewSheetStore(db),
		Sections:   NewSectionStore(db),
		Boxes:      NewBoxStore(db),
		Tasks:      NewTaskStore(db),
		Notes:      NewNoteStore(db),
	}
}

// inTx runs fn inside a transaction when q is the pool, committing on a nil
// error. When q is already a transaction fn runs on it directly and the
// caller owns commit/rollback.
func inTx(ctx context.Context, q Queryer, fn func(q Queryer) error) error {
	db, ok := q.(*sqlx.DB)
	if !ok {
		return fn(q)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// getOne runs a single-row query into dest. It reports false when no row
// matched.
func getOne(ctx context.Context, q Queryer, dest any, query string, args ...any) (bool, error) {
	err := sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// selectAll runs a multi-row query into dest.
func selectAll(ctx context.Context, q Queryer, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

// insertID runs an INSERT ... RETURNING id statement.
func insertID(ctx context.Context, q Queryer, query string, args ...any) (int64, error) {
	var id int64
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// exec runs a statement and reports whether it touched any row.
func exec(ctx context.Context, q Queryer, query string, args ...any) (bool, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// nextValue returns MAX(column)+1 for the rows matched by a
// "SELECT MAX(...) FROM ... WHERE ..." query, or 1 when none match.
func nextValue(ctx context.Context, q Queryer, query string, args ...any) (int, error) {
	var maxValue sql.NullInt64
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&maxValue); err != nil {
		return 0, err
	}
	if maxValue.Valid {
		return int(maxValue.Int64) + 1, nil
	}
	return 1, nil
}
