package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"learnboard/internal/session"
)

// LoadFlashes pops queued flash messages on GET requests and stores them
// in the request context for the renderer. Other methods leave the queue
// alone so a POST's own flash survives until the redirect target renders.
func LoadFlashes(store session.FlashStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			flashes, err := store.Flashes(r.Context(), w, r)
			if err != nil {
				slog.Error("load flashes failed", "error", err)
			}
			if len(flashes) > 0 {
				r = r.WithContext(context.WithValue(r.Context(), flashesKey, flashes))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FlashesFromCtx returns the flashes loaded for this request.
func FlashesFromCtx(ctx context.Context) []session.Flash {
	flashes, _ := ctx.Value(flashesKey).([]session.Flash)
	return flashes
}
