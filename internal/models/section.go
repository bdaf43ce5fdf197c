package models

import "time"

// MaxBoxesPerSection caps box_number within a Section.
const MaxBoxesPerSection = 25

// Section is a named level inside a Sheet. (SheetID, LevelName,
// SectionOrder) is its natural key for CSV imports.
type Section struct {
	ID           int64  `db:"id" json:"id"`
	LevelName    string `db:"level_name" json:"level_name"`
	SectionOrder int    `db:"section_order" json:"section_order"`
	SheetID      int64  `db:"sheet_id" json:"sheet_id"`

	// Populated by SheetStore.Tree.
	Boxes []Box  `db:"-" json:"boxes,omitempty"`
	Notes []Note `db:"-" json:"notes,omitempty"`
}

// Box groups tasks inside a Section. (SectionID, BoxNumber) is its
// natural key.
type Box struct {
	ID        int64  `db:"id" json:"id"`
	BoxNumber int    `db:"box_number" json:"box_number"`
	BoxTitle  string `db:"box_title" json:"box_title"`
	SectionID int64  `db:"section_id" json:"section_id"`

	// SheetID is filled by BoxStore.FindByID for redirects.
	SheetID int64  `db:"sheet_id" json:"-"`
	Tasks   []Task `db:"-" json:"tasks,omitempty"`
}

// Task is a single checkable item. (BoxID, TaskOrder) is its natural key.
type Task struct {
	ID        int64  `db:"id" json:"id"`
	TaskOrder int    `db:"task_order" json:"task_order"`
	TaskText  string `db:"task_text" json:"task_text"`
	BoxID     int64  `db:"box_id" json:"box_id"`

	// Owning section and sheet, filled by TaskStore.FindByID.
	SectionID int64 `db:"section_id" json:"-"`
	SheetID   int64 `db:"sheet_id" json:"-"`

	// Progress is nil when the task has no progress row yet.
	Progress *TaskProgress `db:"-" json:"progress,omitempty"`
}

// Completed reports whether the task has a progress row marked complete.
// A missing row counts as incomplete.
func (t Task) Completed() bool {
	return t.Progress != nil && t.Progress.Completed
}

// TaskProgress records completion of exactly one Task.
type TaskProgress struct {
	ID        int64     `db:"id" json:"id"`
	TaskID    int64     `db:"task_id" json:"task_id"`
	Completed bool      `db:"completed" json:"completed"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Note is free-form Markdown attached to a Section.
type Note struct {
	ID              int64     `db:"id" json:"id"`
	ContentMarkdown string    `db:"content_markdown" json:"content_markdown"`
	SectionID       int64     `db:"section_id" json:"section_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	// SheetID is filled by NoteStore.FindByID for redirects.
	SheetID int64 `db:"sheet_id" json:"-"`
}
