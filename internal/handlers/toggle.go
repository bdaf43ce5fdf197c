package handlers

import (
	"errors"
	"net/http"

	"learnboard/internal/progress"
	"learnboard/internal/store"
)

// toggleResponse is the JSON body of a successful toggle. Progress carries
// every section of the sheet plus the sheet-wide totals, so the page can
// repaint all of its progress bars from one response.
type toggleResponse struct {
	Success   bool  `json:"success"`
	TaskID    int64 `json:"task_id"`
	Completed bool  `json:"completed"`
	SectionID int64 `json:"section_id"`
	progress.Report
}

// ToggleTask flips the completion state of a task and returns the
// recomputed progress of its sheet.
func (t *Tracker) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "not found"})
		return
	}
	ctx := r.Context()

	task, err := t.stores.Tasks.Toggle(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "not found"})
		return
	}
	if err != nil {
		t.jsonError(w, r, "toggle task", err)
		return
	}

	sections, err := t.stores.Sheets.Tree(ctx, task.SheetID)
	if err != nil {
		t.jsonError(w, r, "load sheet tree", err)
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{
		Success:   true,
		TaskID:    task.ID,
		Completed: task.Completed(),
		SectionID: task.SectionID,
		Report:    progress.Aggregate(sections),
	})
}

func (t *Tracker) jsonError(w http.ResponseWriter, r *http.Request, op string, err error) {
	t.logError(r, op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "internal error"})
}
