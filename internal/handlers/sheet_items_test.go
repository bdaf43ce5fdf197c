package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnboard/internal/models"
	"learnboard/internal/session"
)

// sheetWithBox returns a sheet holding one section with one empty box.
func (env *testEnv) sheetWithBox(t *testing.T) (*models.Sheet, *models.Section, *models.Box) {
	t.Helper()
	ctx := context.Background()
	_, _, sh := env.seedSheet(t)
	sec, err := env.Stores.Sections.Append(ctx, sh.ID, "Basics")
	require.NoError(t, err)
	box, err := env.Stores.Boxes.Append(ctx, sec.ID, "Greetings")
	require.NoError(t, err)
	return sh, sec, box
}

func TestSectionCreateAppendsInOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, sh := env.seedSheet(t)

	for _, name := range []string{"Basics", "Advanced"} {
		rec := call(env.Tracker.SectionCreate, http.MethodPost, "/sheet/x/section/new",
			url.Values{"level_name": {name}}, id(sh.ID))
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}

	sections, err := env.Stores.Sheets.Tree(ctx, sh.ID)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Basics", sections[0].LevelName)
	assert.Equal(t, 1, sections[0].SectionOrder)
	assert.Equal(t, "Advanced", sections[1].LevelName)
	assert.Equal(t, 2, sections[1].SectionOrder)
}

func TestSectionCreateBlankIsSilentNoop(t *testing.T) {
	env := newTestEnv(t)
	_, _, sh := env.seedSheet(t)

	rec := call(env.Tracker.SectionCreate, http.MethodPost, "/sheet/x/section/new",
		url.Values{"level_name": {"  "}}, id(sh.ID))

	requireRedirect(t, rec, sheetURL(sh.ID))
	assert.Empty(t, env.flashesOf(t, rec))
	assert.Equal(t, 0, env.count(t, "sections"))
}

func TestBoxCreateBlankTitleIsSilentNoop(t *testing.T) {
	env := newTestEnv(t)
	sh, sec, _ := env.sheetWithBox(t)

	rec := call(env.Tracker.BoxCreate, http.MethodPost, "/section/x/box/new",
		url.Values{"box_title": {"   "}}, id(sec.ID))

	requireRedirect(t, rec, sectionAnchor(sh.ID, sec.ID))
	assert.Empty(t, env.flashesOf(t, rec))
	assert.Equal(t, 1, env.count(t, "boxes"))
}

func TestBoxUpdateBlankTitleKeepsTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sh, sec, box := env.sheetWithBox(t)

	rec := call(env.Tracker.BoxUpdate, http.MethodPost, "/box/x/edit",
		url.Values{"box_title": {""}}, id(box.ID))

	requireRedirect(t, rec, sectionAnchor(sh.ID, sec.ID))
	assert.Empty(t, env.flashesOf(t, rec))
	got, err := env.Stores.Boxes.FindByID(ctx, box.ID)
	require.NoError(t, err)
	assert.Equal(t, "Greetings", got.BoxTitle)
}

func TestSectionRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sh, sec, _ := env.sheetWithBox(t)

	rec := call(env.Tracker.SectionRename, http.MethodPost, "/section/x/edit",
		url.Values{"level_name": {"Beginner"}}, id(sec.ID))

	requireRedirect(t, rec, sectionAnchor(sh.ID, sec.ID))
	got, err := env.Stores.Sections.FindByID(ctx, sec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beginner", got.LevelName)
}

func TestSectionDeleteRemovesChildren(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sh, sec, box := env.sheetWithBox(t)
	_, err := env.Stores.Tasks.Append(ctx, box.ID, "Say hola")
	require.NoError(t, err)

	rec := call(env.Tracker.SectionDelete, http.MethodPost, "/section/x/delete", url.Values{}, id(sec.ID))

	requireRedirect(t, rec, sheetURL(sh.ID))
	assert.Equal(t, 0, env.count(t, "boxes"))
	assert.Equal(t, 0, env.count(t, "tasks"))
	assert.Equal(t, 0, env.count(t, "task_progress"))
}

func TestBoxCreateNumbersSequentially(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, sec, _ := env.sheetWithBox(t)

	rec := call(env.Tracker.BoxCreate, http.MethodPost, "/section/x/box/new",
		url.Values{"box_title": {"Numbers"}}, id(sec.ID))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	box, err := env.Stores.Boxes.FindByNumber(ctx, sec.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, box)
	assert.Equal(t, "Numbers", box.BoxTitle)
}

func TestBoxCreateRejectedAtLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sh, sec, _ := env.sheetWithBox(t)
	for i := 2; i <= models.MaxBoxesPerSection; i++ {
		_, err := env.Stores.Boxes.Append(ctx, sec.ID, fmt.Sprintf("Box %d", i))
		require.NoError(t, err)
	}

	rec := call(env.Tracker.BoxCreate, http.MethodPost, "/section/x/box/new",
		url.Values{"box_title": {"One too many"}}, id(sec.ID))

	requireRedirect(t, rec, sectionAnchor(sh.ID, sec.ID))
	assert.Equal(t, []session.Flash{{Type: session.KindError, Message: "Box limit of 25 reached for this section"}},
		env.flashesOf(t, rec))
	assert.Equal(t, models.MaxBoxesPerSection, env.count(t, "boxes"))
}

func TestBoxUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sh, sec, box := env.sheetWithBox(t)

	rec := call(env.Tracker.BoxUpdate, http.MethodPost, "/box/x/edit",
		url.Values{"box_title": {"Farewells"}}, id(box.ID))
	requireRedirect(t, rec, sectionAnchor(sh.ID, sec.ID))

	got, err := env.Stores.Boxes.FindByID(ctx, box.ID)
	require.NoError(t, err)
	assert.Equal(t, "Farewells", got.BoxTitle)

	rec = call(env.Tracker.BoxDelete, http.MethodPost, "/box/x/delete", url.Values{}, id(box.ID))
	requireRedirect(t, rec, sectionAnchor(sh.ID, sec.ID))
	assert.Equal(t, 0, env.count(t, "boxes"))
}

func TestTaskCreateAddsProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, box := env.sheetWithBox(t)

	rec := call(env.Tracker.TaskCreate, http.MethodPost, "/box/x/task/new",
		url.Values{"task_text": {"Say hola"}}, id(box.ID))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	task, err := env.Stores.Tasks.FindByOrder(ctx, box.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "Say hola", task.TaskText)
	assert.Equal(t, 1, env.count(t, "task_progress"))
}

func TestTaskCreateBlankIsSilentNoop(t *testing.T) {
	env := newTestEnv(t)
	_, _, box := env.sheetWithBox(t)

	rec := call(env.Tracker.TaskCreate, http.MethodPost, "/box/x/task/new",
		url.Values{"task_text": {""}}, id(box.ID))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, env.flashesOf(t, rec))
	assert.Equal(t, 0, env.count(t, "tasks"))
}

func TestTaskUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, box := env.sheetWithBox(t)
	task, err := env.Stores.Tasks.Append(ctx, box.ID, "Say hola")
	require.NoError(t, err)

	rec := call(env.Tracker.TaskUpdate, http.MethodPost, "/task/x/edit",
		url.Values{"task_text": {""}}, id(task.ID))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	got, err := env.Stores.Tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Say hola", got.TaskText, "blank text must not overwrite")

	rec = call(env.Tracker.TaskUpdate, http.MethodPost, "/task/x/edit",
		url.Values{"task_text": {"Say buenos días"}}, id(task.ID))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	got, err = env.Stores.Tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Say buenos días", got.TaskText)
}

func TestTaskDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, box := env.sheetWithBox(t)
	task, err := env.Stores.Tasks.Append(ctx, box.ID, "Say hola")
	require.NoError(t, err)

	rec := call(env.Tracker.TaskDelete, http.MethodPost, "/task/x/delete", url.Values{}, id(task.ID))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, env.count(t, "tasks"))
	assert.Equal(t, 0, env.count(t, "task_progress"))
}

func TestNoteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sh, sec, _ := env.sheetWithBox(t)

	rec := call(env.Tracker.NoteCreate, http.MethodPost, "/section/x/note/new",
		url.Values{"content_markdown": {""}}, id(sec.ID))
	requireRedirect(t, rec, sectionAnchor(sh.ID, sec.ID))
	require.Equal(t, 1, env.count(t, "notes"))

	var noteID int64
	require.NoError(t, env.DB.Get(&noteID, `SELECT id FROM notes`))

	rec = call(env.Tracker.NoteUpdate, http.MethodPost, "/note/x/edit",
		url.Values{"content_markdown": {"  # Tips\n "}}, id(noteID))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	note, err := env.Stores.Notes.FindByID(ctx, noteID)
	require.NoError(t, err)
	assert.Equal(t, "# Tips", note.ContentMarkdown)

	rec = call(env.Tracker.NoteDelete, http.MethodPost, "/note/x/delete", url.Values{}, id(noteID))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, env.count(t, "notes"))
}

func TestSheetItemsUnknownIDsReturn404(t *testing.T) {
	env := newTestEnv(t)
	form := url.Values{"level_name": {"x"}, "box_title": {"x"}, "task_text": {"x"}, "content_markdown": {"x"}}

	handlers := map[string]http.HandlerFunc{
		"SectionCreate": env.Tracker.SectionCreate,
		"SectionRename": env.Tracker.SectionRename,
		"SectionDelete": env.Tracker.SectionDelete,
		"BoxCreate":     env.Tracker.BoxCreate,
		"BoxUpdate":     env.Tracker.BoxUpdate,
		"BoxDelete":     env.Tracker.BoxDelete,
		"TaskCreate":    env.Tracker.TaskCreate,
		"TaskUpdate":    env.Tracker.TaskUpdate,
		"TaskDelete":    env.Tracker.TaskDelete,
		"NoteCreate":    env.Tracker.NoteCreate,
		"NoteUpdate":    env.Tracker.NoteUpdate,
		"NoteDelete":    env.Tracker.NoteDelete,
	}
	for name, h := range handlers {
		rec := call(h, http.MethodPost, "/", form, id(4242))
		assert.Equal(t, http.StatusNotFound, rec.Code, name)
	}
}
