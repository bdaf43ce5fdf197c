package handlers

import (
	"net/http"

	"learnboard/internal/models"
	"learnboard/internal/render"
)

// Dashboard lists every category with its books.
func (t *Tracker) Dashboard(w http.ResponseWriter, r *http.Request) {
	categories, err := t.stores.Categories.ListWithBooks(r.Context())
	if err != nil {
		t.serverError(w, r, "list categories", err)
		return
	}

	t.renderer.Page(w, r, "dashboard", &render.PageData{
		Title: "Dashboard",
		Nav:   "dashboard",
		Data:  map[string]any{"Categories": categories},
	})
}

// --- Categories ---

// CategoriesList renders the category management page.
func (t *Tracker) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := t.stores.Categories.List(r.Context())
	if err != nil {
		t.serverError(w, r, "list categories", err)
		return
	}

	t.renderer.Page(w, r, "categories", &render.PageData{
		Title: "Categories",
		Nav:   "categories",
		Data:  map[string]any{"Categories": categories},
	})
}

// CategoryNew renders the new category form.
func (t *Tracker) CategoryNew(w http.ResponseWriter, r *http.Request) {
	t.renderCategoryForm(w, r, true, categoryForm{}, "")
}

// CategoryCreate handles the new category form submission.
func (t *Tracker) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	form := categoryForm{Name: formText(r, "name"), Description: formText(r, "description")}
	if msg := t.validator.check(form); msg != "" {
		t.renderCategoryForm(w, r, true, form, msg)
		return
	}

	_, err := t.stores.Categories.Create(r.Context(), &models.Category{Name: form.Name, Description: form.Description})
	if err != nil {
		t.serverError(w, r, "create category", err)
		return
	}
	t.redirect(w, r, "/categories", "Category created")
}

// CategoryEdit renders the edit form for an existing category.
func (t *Tracker) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	c := t.loadCategory(w, r)
	if c == nil {
		return
	}
	t.renderCategoryForm(w, r, false, categoryForm{Name: c.Name, Description: c.Description}, "")
}

// CategoryUpdate handles the edit category form submission.
func (t *Tracker) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	c := t.loadCategory(w, r)
	if c == nil {
		return
	}

	form := categoryForm{Name: formText(r, "name"), Description: formText(r, "description")}
	if msg := t.validator.check(form); msg != "" {
		t.renderCategoryForm(w, r, false, form, msg)
		return
	}

	c.Name, c.Description = form.Name, form.Description
	if err := t.stores.Categories.Update(r.Context(), c); err != nil {
		t.storeError(w, r, "update category", err)
		return
	}
	t.redirect(w, r, "/categories", "Category updated")
}

// CategoryDelete removes a category and everything under it.
func (t *Tracker) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	if err := t.stores.Categories.Delete(r.Context(), id); err != nil {
		t.storeError(w, r, "delete category", err)
		return
	}
	t.redirect(w, r, "/categories", "Category deleted")
}

func (t *Tracker) loadCategory(w http.ResponseWriter, r *http.Request) *models.Category {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return nil
	}
	c, err := t.stores.Categories.FindByID(r.Context(), id)
	if err != nil {
		t.serverError(w, r, "find category", err)
		return nil
	}
	if c == nil {
		t.renderer.NotFound(w, r)
	}
	return c
}

func (t *Tracker) renderCategoryForm(w http.ResponseWriter, r *http.Request, isNew bool, form categoryForm, errMsg string) {
	title := "Edit category"
	if isNew {
		title = "New category"
	}
	t.renderer.Page(w, r, "category_form", &render.PageData{
		Title: title,
		Nav:   "categories",
		Data: map[string]any{
			"IsNew":       isNew,
			"Name":        form.Name,
			"Description": form.Description,
			"Error":       errMsg,
		},
	})
}

// --- Books ---

// BookNew renders the new book form. A category_id query parameter
// preselects the category.
func (t *Tracker) BookNew(w http.ResponseWriter, r *http.Request) {
	form := bookForm{CategoryID: parseID(r.URL.Query().Get("category_id"))}
	t.renderBookForm(w, r, 0, form, "")
}

// BookCreate handles the new book form submission.
func (t *Tracker) BookCreate(w http.ResponseWriter, r *http.Request) {
	form := t.readBookForm(r)
	if msg := t.checkBookForm(r, form); msg != "" {
		t.renderBookForm(w, r, 0, form, msg)
		return
	}

	_, err := t.stores.Books.Create(r.Context(), &models.Book{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
	})
	if err != nil {
		t.serverError(w, r, "create book", err)
		return
	}
	t.redirect(w, r, "/", "Book created")
}

// BookView shows a book with its chapters.
func (t *Tracker) BookView(w http.ResponseWriter, r *http.Request) {
	b := t.loadBook(w, r)
	if b == nil {
		return
	}

	ctx := r.Context()
	category, err := t.stores.Categories.FindByID(ctx, b.CategoryID)
	if err != nil {
		t.serverError(w, r, "find category", err)
		return
	}
	chapters, err := t.stores.Chapters.ListByBook(ctx, b.ID)
	if err != nil {
		t.serverError(w, r, "list chapters", err)
		return
	}

	t.renderer.Page(w, r, "book", &render.PageData{
		Title: b.Name,
		Nav:   "dashboard",
		Data: map[string]any{
			"Book":     b,
			"Category": category,
			"Chapters": chapters,
		},
	})
}

// BookEdit renders the edit form for an existing book.
func (t *Tracker) BookEdit(w http.ResponseWriter, r *http.Request) {
	b := t.loadBook(w, r)
	if b == nil {
		return
	}
	form := bookForm{Name: b.Name, Description: b.Description, CategoryID: b.CategoryID}
	t.renderBookForm(w, r, b.ID, form, "")
}

// BookUpdate handles the edit book form submission. The book may move to
// another category.
func (t *Tracker) BookUpdate(w http.ResponseWriter, r *http.Request) {
	b := t.loadBook(w, r)
	if b == nil {
		return
	}

	form := t.readBookForm(r)
	if msg := t.checkBookForm(r, form); msg != "" {
		t.renderBookForm(w, r, b.ID, form, msg)
		return
	}

	b.Name, b.Description, b.CategoryID = form.Name, form.Description, form.CategoryID
	if err := t.stores.Books.Update(r.Context(), b); err != nil {
		t.storeError(w, r, "update book", err)
		return
	}
	t.redirect(w, r, bookURL(b.ID), "Book updated")
}

// BookDelete removes a book and everything under it.
func (t *Tracker) BookDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return
	}
	if err := t.stores.Books.Delete(r.Context(), id); err != nil {
		t.storeError(w, r, "delete book", err)
		return
	}
	t.redirect(w, r, "/", "Book deleted")
}

func (t *Tracker) loadBook(w http.ResponseWriter, r *http.Request) *models.Book {
	id, ok := idParam(r, "id")
	if !ok {
		t.renderer.NotFound(w, r)
		return nil
	}
	b, err := t.stores.Books.FindByID(r.Context(), id)
	if err != nil {
		t.serverError(w, r, "find book", err)
		return nil
	}
	if b == nil {
		t.renderer.NotFound(w, r)
	}
	return b
}

func (t *Tracker) readBookForm(r *http.Request) bookForm {
	return bookForm{
		Name:        formText(r, "name"),
		Description: formText(r, "description"),
		CategoryID:  parseID(r.FormValue("category_id")),
	}
}

// checkBookForm validates the fields and that the chosen category exists.
func (t *Tracker) checkBookForm(r *http.Request, form bookForm) string {
	if msg := t.validator.check(form); msg != "" {
		return msg
	}
	c, err := t.stores.Categories.FindByID(r.Context(), form.CategoryID)
	if err != nil || c == nil {
		return "Category does not exist."
	}
	return ""
}

func (t *Tracker) renderBookForm(w http.ResponseWriter, r *http.Request, bookID int64, form bookForm, errMsg string) {
	categories, err := t.stores.Categories.List(r.Context())
	if err != nil {
		t.serverError(w, r, "list categories", err)
		return
	}

	title := "Edit book"
	if bookID == 0 {
		title = "New book"
	}
	t.renderer.Page(w, r, "book_form", &render.PageData{
		Title: title,
		Nav:   "dashboard",
		Data: map[string]any{
			"IsNew":       bookID == 0,
			"BookID":      bookID,
			"Name":        form.Name,
			"Description": form.Description,
			"CategoryID":  form.CategoryID,
			"Categories":  categories,
			"Error":       errMsg,
		},
	})
}
