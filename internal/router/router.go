// Package router sets up all HTTP routes and middleware chains for
// LearnBoard. Static assets and the health check sit outside the page
// stack; everything else runs behind CSRF protection and flash loading.
package router

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"learnboard/internal/handlers"
	"learnboard/internal/middleware"
	"learnboard/internal/session"
	"learnboard/web"
)

// maxBodySize caps page request bodies, CSV uploads included.
const maxBodySize = 5 << 20

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the router dependencies.
type Options struct {
	DB      Pinger
	Flashes session.FlashStore
	Tracker *handlers.Tracker

	// Secure marks cookies Secure; set outside development.
	Secure bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) (chi.Router, error) {
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler(opts.DB))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	t := opts.Tracker
	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitBody(maxBodySize))
		r.Use(middleware.NewCSRF(opts.Secure))
		r.Use(middleware.LoadFlashes(opts.Flashes))

		r.Get("/", t.Dashboard)

		// Categories
		r.Get("/categories", t.CategoriesList)
		r.Get("/category/new", t.CategoryNew)
		r.Post("/category/new", t.CategoryCreate)
		r.Get("/category/{id}/edit", t.CategoryEdit)
		r.Post("/category/{id}/edit", t.CategoryUpdate)
		r.Post("/category/{id}/delete", t.CategoryDelete)

		// Books
		r.Get("/book/new", t.BookNew)
		r.Post("/book/new", t.BookCreate)
		r.Get("/book/{id}", t.BookView)
		r.Get("/book/{id}/edit", t.BookEdit)
		r.Post("/book/{id}/edit", t.BookUpdate)
		r.Post("/book/{id}/delete", t.BookDelete)

		// Chapters
		r.Get("/book/{id}/chapter/new", t.ChapterNew)
		r.Post("/book/{id}/chapter/new", t.ChapterCreate)
		r.Get("/chapter/{id}", t.ChapterView)
		r.Get("/chapter/{id}/edit", t.ChapterEdit)
		r.Post("/chapter/{id}/edit", t.ChapterUpdate)
		r.Post("/chapter/{id}/delete", t.ChapterDelete)

		// Practice sheets
		r.Get("/chapter/{id}/sheet/new", t.SheetNew)
		r.Post("/chapter/{id}/sheet/new", t.SheetCreate)
		r.Get("/sheet/{id}", t.SheetView)
		r.Get("/sheet/{id}/edit", t.SheetEdit)
		r.Post("/sheet/{id}/edit", t.SheetUpdate)
		r.Post("/sheet/{id}/delete", t.SheetDelete)
		r.Get("/sheet/{id}/import", t.ImportForm)
		r.Post("/sheet/{id}/import", t.ImportSubmit)

		// Inline sheet editing
		r.Post("/sheet/{id}/section/new", t.SectionCreate)
		r.Post("/section/{id}/edit", t.SectionRename)
		r.Post("/section/{id}/delete", t.SectionDelete)
		r.Post("/section/{id}/box/new", t.BoxCreate)
		r.Post("/section/{id}/note/new", t.NoteCreate)
		r.Post("/box/{id}/edit", t.BoxUpdate)
		r.Post("/box/{id}/delete", t.BoxDelete)
		r.Post("/box/{id}/task/new", t.TaskCreate)
		r.Post("/task/{id}/edit", t.TaskUpdate)
		r.Post("/task/{id}/delete", t.TaskDelete)
		r.Post("/note/{id}/edit", t.NoteUpdate)
		r.Post("/note/{id}/delete", t.NoteDelete)

		r.Post("/api/task/{id}/toggle", t.ToggleTask)

		r.NotFound(t.NotFound)
	})

	return r, nil
}

// healthHandler reports whether the database answers a ping.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
