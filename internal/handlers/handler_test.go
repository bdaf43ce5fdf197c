// handler_test.go provides shared test infrastructure for handler
// integration tests. Every test runs against its own migrated SQLite file
// and the signed-cookie flash store.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"learnboard/internal/database"
	"learnboard/internal/models"
	"learnboard/internal/render"
	"learnboard/internal/session"
	"learnboard/internal/store"
)

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB      *sqlx.DB
	Stores  *store.Stores
	Flashes *session.CookieStore
	Tracker *Tracker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(database.DriverSQLite, filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatalf("cannot open DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	stores := store.New(db)
	flashes := session.NewCookieStore("handler-test-secret", false)

	return &testEnv{
		DB:      db,
		Stores:  stores,
		Flashes: flashes,
		Tracker: NewTracker(renderer, flashes, stores),
	}
}

// call invokes h the way the router would: form values go in the body
// and params become chi URL parameters.
func call(h http.HandlerFunc, method, target string, form url.Values, params map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func id(n int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(n, 10)}
}

// flashesOf replays the cookies set by rec and pops the flashes they carry.
func (env *testEnv) flashesOf(t *testing.T, rec *httptest.ResponseRecorder) []session.Flash {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	flashes, err := env.Flashes.Flashes(req.Context(), httptest.NewRecorder(), req)
	require.NoError(t, err)
	return flashes
}

// requireRedirect asserts a 303 to location.
func requireRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, "body: %s", rec.Body.String())
	require.Equal(t, location, rec.Header().Get("Location"))
}

// seedSheet creates a category → book → chapter → sheet chain.
func (env *testEnv) seedSheet(t *testing.T) (*models.Book, *models.Chapter, *models.Sheet) {
	t.Helper()
	ctx := context.Background()

	cat, err := env.Stores.Categories.Create(ctx, &models.Category{Name: "Languages"})
	require.NoError(t, err)
	book, err := env.Stores.Books.Create(ctx, &models.Book{Name: "Spanish", CategoryID: cat.ID})
	require.NoError(t, err)
	ch, err := env.Stores.Chapters.Create(ctx, &models.Chapter{Name: "Verbs", BookID: book.ID, Order: 1})
	require.NoError(t, err)
	sh, err := env.Stores.Sheets.Create(ctx, &models.Sheet{Name: "Present tense", ChapterID: ch.ID, Order: 1})
	require.NoError(t, err)
	return book, ch, sh
}

func (env *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, env.DB.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}
