// Package handlers contains the HTTP handlers for LearnBoard. Every page
// and form of the study tracker hangs off the Tracker struct, which
// receives its dependencies at construction.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"learnboard/internal/csvimport"
	"learnboard/internal/middleware"
	"learnboard/internal/render"
	"learnboard/internal/session"
	"learnboard/internal/store"
)

// Tracker groups all HTTP handlers and their dependencies.
type Tracker struct {
	renderer  *render.Renderer
	flashes   session.FlashStore
	stores    *store.Stores
	importer  *csvimport.Importer
	validator *formValidator
}

// NewTracker creates the handler group.
func NewTracker(renderer *render.Renderer, flashes session.FlashStore, stores *store.Stores) *Tracker {
	return &Tracker{
		renderer:  renderer,
		flashes:   flashes,
		stores:    stores,
		importer:  csvimport.NewImporter(stores),
		validator: newFormValidator(),
	}
}

// idParam parses the named chi URL parameter. It returns false for a
// missing or malformed id, which callers answer with 404.
func idParam(r *http.Request, name string) (int64, bool) {
	id := parseID(chi.URLParam(r, name))
	return id, id > 0
}

// formText returns the trimmed value of a form field.
func formText(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// flash queues a one-time message for the next rendered page.
func (t *Tracker) flash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	if err := t.flashes.AddFlash(r.Context(), w, r, session.Flash{Type: kind, Message: msg}); err != nil {
		slog.Error("add flash failed", "error", err)
	}
}

// redirect finishes a POST with 303 See Other, queueing msg as a success
// flash when non-empty.
func (t *Tracker) redirect(w http.ResponseWriter, r *http.Request, url, msg string) {
	if msg != "" {
		t.flash(w, r, session.KindSuccess, msg)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// serverError logs err and answers with a generic 500.
func (t *Tracker) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	t.logError(r, op, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (t *Tracker) logError(r *http.Request, op string, err error) {
	slog.Error(op+" failed", "error", err, "path", r.URL.Path,
		"request_id", middleware.RequestIDFromCtx(r.Context()))
}

// storeError answers a failed mutation: 404 for ErrNotFound, 500 otherwise.
func (t *Tracker) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		t.renderer.NotFound(w, r)
		return
	}
	t.serverError(w, r, op, err)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sheetURL(id int64) string   { return fmt.Sprintf("/sheet/%d", id) }
func bookURL(id int64) string    { return fmt.Sprintf("/book/%d", id) }
func chapterURL(id int64) string { return fmt.Sprintf("/chapter/%d", id) }

// NotFound renders the 404 page for unmatched routes.
func (t *Tracker) NotFound(w http.ResponseWriter, r *http.Request) {
	t.renderer.NotFound(w, r)
}
