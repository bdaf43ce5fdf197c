package middleware

import (
	"errors"
	"net/http"
)

// formMemory is how much of a multipart body is held in memory before
// file parts spill to disk.
const formMemory = 32 << 20

// LimitBody caps request bodies at n bytes. Reads past the cap fail with
// *http.MaxBytesError.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ParseBody parses a urlencoded or multipart form body. Unlike
// r.FormValue it reports read errors, so an oversized body surfaces as
// *http.MaxBytesError.
func ParseBody(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	if err := r.ParseMultipartForm(formMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// IsTooLarge reports whether err came from a body past the LimitBody cap.
func IsTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
