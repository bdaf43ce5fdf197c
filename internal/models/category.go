// Package models defines the study hierarchy persisted by the store:
// Category → Book → Chapter → Sheet → Section → Box → Task, with a
// TaskProgress row per Task and Notes attached to Sections.
package models

import "time"

// Category is the top-level grouping of books. Deleting it removes every
// descendant row.
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Virtual fields populated by store methods.
	BookCount int    `db:"book_count" json:"book_count"`
	Books     []Book `db:"-" json:"books,omitempty"`
}

// Book belongs to one Category.
type Book struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Chapter belongs to one Book. Order is a display rank chosen by the
// user and is not unique.
type Chapter struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	BookID      int64     `db:"book_id" json:"book_id"`
	Order       int       `db:"order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Sheet is a practice sheet inside a Chapter.
type Sheet struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ChapterID int64     `db:"chapter_id" json:"chapter_id"`
	Order     int       `db:"order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
