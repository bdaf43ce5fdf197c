package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"learnboard/internal/csvimport"
	"learnboard/internal/middleware"
	"learnboard/internal/models"
	"learnboard/internal/render"
	"learnboard/internal/session"
)

// ImportForm renders the CSV import page of a sheet.
func (t *Tracker) ImportForm(w http.ResponseWriter, r *http.Request) {
	sh := t.loadSheet(w, r)
	if sh == nil {
		return
	}
	t.renderImportForm(w, r, sh, "", "")
}

// ImportSubmit reconciles an uploaded file, or pasted text when no file
// was sent, into the sheet. Parse and reconcile failures re-render the
// form with the error and leave the sheet untouched.
func (t *Tracker) ImportSubmit(w http.ResponseWriter, r *http.Request) {
	sh := t.loadSheet(w, r)
	if sh == nil {
		return
	}

	if err := middleware.ParseBody(r); err != nil {
		if middleware.IsTooLarge(err) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		t.flash(w, r, session.KindError, "Could not read the upload: "+err.Error())
		http.Redirect(w, r, sheetURL(sh.ID)+"/import", http.StatusSeeOther)
		return
	}

	var (
		input io.Reader
		text  = r.FormValue("csv_text")
	)
	if file, _, err := r.FormFile("csv_file"); err == nil {
		defer file.Close()
		input = file
	} else if strings.TrimSpace(text) != "" {
		input = strings.NewReader(text)
	} else {
		t.flash(w, r, session.KindError, "Choose a CSV file or paste CSV text")
		http.Redirect(w, r, sheetURL(sh.ID)+"/import", http.StatusSeeOther)
		return
	}

	res, err := t.importer.Import(r.Context(), sh.ID, input)
	if err != nil {
		t.logError(r, "csv import", err)
		t.renderImportForm(w, r, sh, text, "Error importing CSV: "+err.Error())
		return
	}
	t.redirect(w, r, sheetURL(sh.ID), importSummary(res))
}

// importSummary describes an import result in one line.
func importSummary(res *csvimport.Result) string {
	msg := fmt.Sprintf("Import complete: %d sections created, %d boxes created, %d boxes updated, %d tasks created, %d tasks updated",
		res.SectionsCreated, res.BoxesCreated, res.BoxesUpdated, res.TasksCreated, res.TasksUpdated)
	if res.BoxesSkipped > 0 {
		msg += fmt.Sprintf(", %d boxes skipped (over %d)", res.BoxesSkipped, models.MaxBoxesPerSection)
	}
	return msg
}

func (t *Tracker) renderImportForm(w http.ResponseWriter, r *http.Request, sh *models.Sheet, text, errMsg string) {
	t.renderer.Page(w, r, "import_csv", &render.PageData{
		Title: "Import CSV",
		Nav:   "dashboard",
		Data: map[string]any{
			"Sheet":   sh,
			"CSVText": text,
			"Error":   errMsg,
		},
	})
}
