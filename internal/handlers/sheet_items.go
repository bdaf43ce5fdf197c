package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"learnboard/internal/session"
	"learnboard/internal/store"
)

// Inline forms on the sheet page. Each one redirects back to the sheet,
// anchored at the affected section. Blank required text redirects without
// changing anything.

func sectionAnchor(sheetID, sectionID int64) string {
	return fmt.Sprintf("%s#section-%d", sheetURL(sheetID), sectionID)
}

// --- Sections ---

// SectionCreate appends a section to a sheet with the next free order.
func (t *Tracker) SectionCreate(w http.ResponseWriter, r *http.Request) {
	sh := t.loadSheet(w, r)
	if sh == nil {
		return
	}
	name := formText(r, "level_name")
	if name == "" {
		t.redirect(w, r, sheetURL(sh.ID), "")
		return
	}

	sec, err := t.stores.Sections.Append(r.Context(), sh.ID, name)
	if err != nil {
		t.serverError(w, r, "create section", err)
		return
	}
	t.redirect(w, r, sectionAnchor(sh.ID, sec.ID), "Section created")
}

// SectionRename changes the level name of a section.
func (t *Tracker) SectionRename(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	sec, err := t.stores.Sections.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find section", err)
		return
	}
	if sec == nil {
		t.renderer.NotFound(w, r)
		return
	}

	name := formText(r, "level_name")
	if name == "" {
		t.redirect(w, r, sectionAnchor(sec.SheetID, sec.ID), "")
		return
	}
	if err := t.stores.Sections.Rename(ctx, sec.ID, name); err != nil {
		t.storeError(w, r, "rename section", err)
		return
	}
	t.redirect(w, r, sectionAnchor(sec.SheetID, sec.ID), "Section updated")
}

// SectionDelete removes a section with its boxes, tasks and notes.
func (t *Tracker) SectionDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	sec, err := t.stores.Sections.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find section", err)
		return
	}
	if sec == nil {
		t.renderer.NotFound(w, r)
		return
	}

	if err := t.stores.Sections.Delete(ctx, sec.ID); err != nil {
		t.storeError(w, r, "delete section", err)
		return
	}
	t.redirect(w, r, sheetURL(sec.SheetID), "Section deleted")
}

// --- Boxes ---

// BoxCreate appends a box to a section. The section holds at most
// MaxBoxesPerSection boxes; past that an error flash is shown instead.
func (t *Tracker) BoxCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	sec, err := t.stores.Sections.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find section", err)
		return
	}
	if sec == nil {
		t.renderer.NotFound(w, r)
		return
	}

	back := sectionAnchor(sec.SheetID, sec.ID)
	title := formText(r, "box_title")
	if title == "" {
		t.redirect(w, r, back, "")
		return
	}
	_, err = t.stores.Boxes.Append(ctx, sec.ID, title)
	if errors.Is(err, store.ErrBoxLimit) {
		t.flash(w, r, session.KindError, "Box limit of 25 reached for this section")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if err != nil {
		t.serverError(w, r, "create box", err)
		return
	}
	t.redirect(w, r, back, "Box created")
}

// BoxUpdate changes a box title.
func (t *Tracker) BoxUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	box, err := t.stores.Boxes.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find box", err)
		return
	}
	if box == nil {
		t.renderer.NotFound(w, r)
		return
	}

	back := sectionAnchor(box.SheetID, box.SectionID)
	title := formText(r, "box_title")
	if title == "" {
		t.redirect(w, r, back, "")
		return
	}
	if err := t.stores.Boxes.UpdateTitle(ctx, box.ID, title); err != nil {
		t.storeError(w, r, "update box", err)
		return
	}
	t.redirect(w, r, back, "Box updated")
}

// BoxDelete removes a box and its tasks.
func (t *Tracker) BoxDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	box, err := t.stores.Boxes.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find box", err)
		return
	}
	if box == nil {
		t.renderer.NotFound(w, r)
		return
	}

	if err := t.stores.Boxes.Delete(ctx, box.ID); err != nil {
		t.storeError(w, r, "delete box", err)
		return
	}
	t.redirect(w, r, sectionAnchor(box.SheetID, box.SectionID), "Box deleted")
}

// --- Tasks ---

// TaskCreate appends a task to a box together with its progress row.
func (t *Tracker) TaskCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	box, err := t.stores.Boxes.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find box", err)
		return
	}
	if box == nil {
		t.renderer.NotFound(w, r)
		return
	}

	back := sectionAnchor(box.SheetID, box.SectionID)
	text := formText(r, "task_text")
	if text == "" {
		t.redirect(w, r, back, "")
		return
	}
	if _, err := t.stores.Tasks.Append(ctx, box.ID, text); err != nil {
		t.serverError(w, r, "create task", err)
		return
	}
	t.redirect(w, r, back, "Task created")
}

// TaskUpdate changes the text of a task.
func (t *Tracker) TaskUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	task, err := t.stores.Tasks.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find task", err)
		return
	}
	if task == nil {
		t.renderer.NotFound(w, r)
		return
	}

	back := sectionAnchor(task.SheetID, task.SectionID)
	text := formText(r, "task_text")
	if text == "" {
		t.redirect(w, r, back, "")
		return
	}
	if err := t.stores.Tasks.UpdateText(ctx, task.ID, text); err != nil {
		t.storeError(w, r, "update task", err)
		return
	}
	t.redirect(w, r, back, "Task updated")
}

// TaskDelete removes a task and its progress.
func (t *Tracker) TaskDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	task, err := t.stores.Tasks.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find task", err)
		return
	}
	if task == nil {
		t.renderer.NotFound(w, r)
		return
	}

	if err := t.stores.Tasks.Delete(ctx, task.ID); err != nil {
		t.storeError(w, r, "delete task", err)
		return
	}
	t.redirect(w, r, sectionAnchor(task.SheetID, task.SectionID), "Task deleted")
}

// --- Notes ---

// NoteCreate attaches a Markdown note to a section. Empty content is
// allowed.
func (t *Tracker) NoteCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	sec, err := t.stores.Sections.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find section", err)
		return
	}
	if sec == nil {
		t.renderer.NotFound(w, r)
		return
	}

	if _, err := t.stores.Notes.Create(ctx, sec.ID, formText(r, "content_markdown")); err != nil {
		t.serverError(w, r, "create note", err)
		return
	}
	t.redirect(w, r, sectionAnchor(sec.SheetID, sec.ID), "Note added")
}

// NoteUpdate replaces the content of a note.
func (t *Tracker) NoteUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	note, err := t.stores.Notes.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find note", err)
		return
	}
	if note == nil {
		t.renderer.NotFound(w, r)
		return
	}

	if err := t.stores.Notes.Update(ctx, note.ID, formText(r, "content_markdown")); err != nil {
		t.storeError(w, r, "update note", err)
		return
	}
	t.redirect(w, r, sectionAnchor(note.SheetID, note.SectionID), "Note updated")
}

// NoteDelete removes a note.
func (t *Tracker) NoteDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	ctx := r.Context()
	note, err := t.stores.Notes.FindByID(ctx, id)
	if err != nil {
		t.serverError(w, r, "find note", err)
		return
	}
	if note == nil {
		t.renderer.NotFound(w, r)
		return
	}

	if err := t.stores.Notes.Delete(ctx, note.ID); err != nil {
		t.storeError(w, r, "delete note", err)
		return
	}
	t.redirect(w, r, sectionAnchor(note.SheetID, note.SectionID), "Note deleted")
}
