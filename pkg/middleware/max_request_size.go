package middleware

import (
	"net/http"
)

// MaxRequestSize caps the request body at limit bytes. Reads past the
// limit fail inside the handler's JSON decode with http.MaxBytesError,
// so oversized payloads surface as a 413 before doing any work.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				rejectOversizedRequest(w)
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectOversizedRequest(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	_, _ = w.Write([]byte(`{"error":"Request body too large"}`))
}
