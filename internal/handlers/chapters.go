package handlers

import (
	"net/http"

	"learnboard/internal/models"
	"learnboard/internal/progress"
	"learnboard/internal/render"
)

// --- Chapters ---

// ChapterNew renders the new chapter form with the next free order.
func (t *Tracker) ChapterNew(w http.ResponseWriter, r *http.Request) {
	b := t.loadBook(w, r)
	if b == nil {
		return
	}
	next, err := t.stores.Chapters.NextOrder(r.Context(), b.ID)
	if err != nil {
		t.serverError(w, r, "next chapter order", err)
		return
	}
	t.renderChapterForm(w, r, b, true, chapterForm{Order: next}, "")
}

// ChapterCreate handles the new chapter form. An empty or malformed order
// falls back to the next free order.
func (t *Tracker) ChapterCreate(w http.ResponseWriter, r *http.Request) {
	b := t.loadBook(w, r)
	if b == nil {
		return
	}
	ctx := r.Context()

	next, err := t.stores.Chapters.NextOrder(ctx, b.ID)
	if err != nil {
		t.serverError(w, r, "next chapter order", err)
		return
	}
	form := chapterForm{
		Name:        formText(r, "name"),
		Description: formText(r, "description"),
		Order:       parseOrder(r.FormValue("order"), next),
	}
	if msg := t.validator.check(form); msg != "" {
		t.renderChapterForm(w, r, b, true, form, msg)
		return
	}

	_, err = t.stores.Chapters.Create(ctx, &models.Chapter{
		Name:        form.Name,
		Description: form.Description,
		Order:       form.Order,
		BookID:      b.ID,
	})
	if err != nil {
		t.serverError(w, r, "create chapter", err)
		return
	}
	t.redirect(w, r, bookURL(b.ID), "Chapter created")
}

// ChapterView shows a chapter with its sheets.
func (t *Tracker) ChapterView(w http.ResponseWriter, r *http.Request) {
	c := t.loadChapter(w, r)
	if c == nil {
		return
	}
	ctx := r.Context()

	b, err := t.stores.Books.FindByID(ctx, c.BookID)
	if err != nil {
		t.serverError(w, r, "find book", err)
		return
	}
	sheets, err := t.stores.Sheets.ListByChapter(ctx, c.ID)
	if err != nil {
		t.serverError(w, r, "list sheets", err)
		return
	}

	t.renderer.Page(w, r, "chapter", &render.PageData{
		Title: c.Name,
		Nav:   "dashboard",
		Data: map[string]any{
			"Chapter": c,
			"Book":    b,
			"Sheets":  sheets,
		},
	})
}

// ChapterEdit renders the edit form for a chapter.
func (t *Tracker) ChapterEdit(w http.ResponseWriter, r *http.Request) {
	c := t.loadChapter(w, r)
	if c == nil {
		return
	}
	b, err := t.stores.Books.FindByID(r.Context(), c.BookID)
	if err != nil {
		t.serverError(w, r, "find book", err)
		return
	}
	form := chapterForm{Name: c.Name, Description: c.Description, Order: c.Order}
	t.renderChapterForm(w, r, b, false, form, "")
}

// ChapterUpdate handles the edit chapter form. A malformed order keeps the
// current one.
func (t *Tracker) ChapterUpdate(w http.ResponseWriter, r *http.Request) {
	c := t.loadChapter(w, r)
	if c == nil {
		return
	}

	form := chapterForm{
		Name:        formText(r, "name"),
		Description: formText(r, "description"),
		Order:       parseOrder(r.FormValue("order"), c.Order),
	}
	if msg := t.validator.check(form); msg != "" {
		b, err := t.stores.Books.FindByID(r.Context(), c.BookID)
		if err != nil {
			t.serverError(w, r, "find book", err)
			return
		}
		t.renderChapterForm(w, r, b, false, form, msg)
		return
	}

	c.Name, c.Description, c.Order = form.Name, form.Description, form.Order
	if err := t.stores.Chapters.Update(r.Context(), c); err != nil {
		t.storeError(w, r, "update chapter", err)
		return
	}
	t.redirect(w, r, chapterURL(c.ID), "Chapter updated")
}

// ChapterDelete removes a chapter and returns to its book.
func (t *Tracker) ChapterDelete(w http.ResponseWriter, r *http.Request) {
	c := t.loadChapter(w, r)
	if c == nil {
		return
	}
	if err := t.stores.Chapters.Delete(r.Context(), c.ID); err != nil {
		t.storeError(w, r, "delete chapter", err)
		return
	}
	t.redirect(w, r, bookURL(c.BookID), "Chapter deleted")
}

func (t *Tracker) loadChapter(w http.ResponseWriter, r *http.Request) *models.Chapter {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return nil
	}
	c, err := t.stores.Chapters.FindByID(r.Context(), id)
	if err != nil {
		t.serverError(w, r, "find chapter", err)
		return nil
	}
	if c == nil {
		t.renderer.NotFound(w, r)
	}
	return c
}

func (t *Tracker) renderChapterForm(w http.ResponseWriter, r *http.Request, b *models.Book, isNew bool, form chapterForm, errMsg string) {
	title, cancel := "Edit chapter", "/"
	if isNew {
		title = "New chapter"
	}
	if b != nil {
		cancel = bookURL(b.ID)
	}
	t.renderer.Page(w, r, "chapter_form", &render.PageData{
		Title: title,
		Nav:   "dashboard",
		Data: map[string]any{
			"Book":        b,
			"IsNew":       isNew,
			"Name":        form.Name,
			"Description": form.Description,
			"Order":       form.Order,
			"CancelURL":   cancel,
			"Error":       errMsg,
		},
	})
}

// --- Sheets ---

// SheetNew renders the new sheet form with the next free order.
func (t *Tracker) SheetNew(w http.ResponseWriter, r *http.Request) {
	c := t.loadChapter(w, r)
	if c == nil {
		return
	}
	next, err := t.stores.Sheets.NextOrder(r.Context(), c.ID)
	if err != nil {
		t.serverError(w, r, "next sheet order", err)
		return
	}
	t.renderSheetForm(w, r, c, true, sheetForm{Order: next}, "")
}

// SheetCreate handles the new sheet form.
func (t *Tracker) SheetCreate(w http.ResponseWriter, r *http.Request) {
	c := t.loadChapter(w, r)
	if c == nil {
		return
	}
	ctx := r.Context()

	next, err := t.stores.Sheets.NextOrder(ctx, c.ID)
	if err != nil {
		t.serverError(w, r, "next sheet order", err)
		return
	}
	form := sheetForm{Name: formText(r, "name"), Order: parseOrder(r.FormValue("order"), next)}
	if msg := t.validator.check(form); msg != "" {
		t.renderSheetForm(w, r, c, true, form, msg)
		return
	}

	sh, err := t.stores.Sheets.Create(ctx, &models.Sheet{Name: form.Name, Order: form.Order, ChapterID: c.ID})
	if err != nil {
		t.serverError(w, r, "create sheet", err)
		return
	}
	t.redirect(w, r, sheetURL(sh.ID), "Practice sheet created")
}

// SheetView shows the full section/box/task tree of a sheet with
// per-section and global progress.
func (t *Tracker) SheetView(w http.ResponseWriter, r *http.Request) {
	sh := t.loadSheet(w, r)
	if sh == nil {
		return
	}
	ctx := r.Context()

	chapter, err := t.stores.Chapters.FindByID(ctx, sh.ChapterID)
	if err != nil {
		t.serverError(w, r, "find chapter", err)
		return
	}
	var book *models.Book
	if chapter != nil {
		if book, err = t.stores.Books.FindByID(ctx, chapter.BookID); err != nil {
			t.serverError(w, r, "find book", err)
			return
		}
	}
	sections, err := t.stores.Sheets.Tree(ctx, sh.ID)
	if err != nil {
		t.serverError(w, r, "load sheet tree", err)
		return
	}

	t.renderer.Page(w, r, "sheet", &render.PageData{
		Title: sh.Name,
		Nav:   "dashboard",
		Data: map[string]any{
			"Sheet":    sh,
			"Chapter":  chapter,
			"Book":     book,
			"Sections": sections,
			"Progress": progress.Aggregate(sections),
		},
	})
}

// SheetEdit renders the edit form for a sheet.
func (t *Tracker) SheetEdit(w http.ResponseWriter, r *http.Request) {
	sh := t.loadSheet(w, r)
	if sh == nil {
		return
	}
	c, err := t.stores.Chapters.FindByID(r.Context(), sh.ChapterID)
	if err != nil {
		t.serverError(w, r, "find chapter", err)
		return
	}
	t.renderSheetForm(w, r, c, false, sheetForm{Name: sh.Name, Order: sh.Order}, "")
}

// SheetUpdate handles the edit sheet form.
func (t *Tracker) SheetUpdate(w http.ResponseWriter, r *http.Request) {
	sh := t.loadSheet(w, r)
	if sh == nil {
		return
	}

	form := sheetForm{Name: formText(r, "name"), Order: parseOrder(r.FormValue("order"), sh.Order)}
	if msg := t.validator.check(form); msg != "" {
		c, err := t.stores.Chapters.FindByID(r.Context(), sh.ChapterID)
		if err != nil {
			t.serverError(w, r, "find chapter", err)
			return
		}
		t.renderSheetForm(w, r, c, false, form, msg)
		return
	}

	sh.Name, sh.Order = form.Name, form.Order
	if err := t.stores.Sheets.Update(r.Context(), sh); err != nil {
		t.storeError(w, r, "update sheet", err)
		return
	}
	t.redirect(w, r, sheetURL(sh.ID), "Practice sheet updated")
}

// SheetDelete removes a sheet and returns to its chapter.
func (t *Tracker) SheetDelete(w http.ResponseWriter, r *http.Request) {
	sh := t.loadSheet(w, r)
	if sh == nil {
		return
	}
	if err := t.stores.Sheets.Delete(r.Context(), sh.ID); err != nil {
		t.storeError(w, r, "delete sheet", err)
		return
	}
	t.redirect(w, r, chapterURL(sh.ChapterID), "Practice sheet deleted")
}

func (t *Tracker) loadSheet(w http.ResponseWriter, r *http.Request) *models.Sheet {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return nil
	}
	sh, err := t.stores.Sheets.FindByID(r.Context(), id)
	if err != nil {
		t.serverError(w, r, "find sheet", err)
		return nil
	}
	if sh == nil {
		t.renderer.NotFound(w, r)
	}
	return sh
}

func (t *Tracker) renderSheetForm(w http.ResponseWriter, r *http.Request, c *models.Chapter, isNew bool, form sheetForm, errMsg string) {
	title, cancel := "Edit practice sheet", "/"
	if isNew {
		title = "New practice sheet"
	}
	if c != nil {
		cancel = chapterURL(c.ID)
	}
	t.renderer.Page(w, r, "sheet_form", &render.PageData{
		Title: title,
		Nav:   "dashboard",
		Data: map[string]any{
			"Chapter":   c,
			"IsNew":     isNew,
			"Name":      form.Name,
			"Order":     form.Order,
			"CancelURL": cancel,
			"Error":     errMsg,
		},
	})
}
