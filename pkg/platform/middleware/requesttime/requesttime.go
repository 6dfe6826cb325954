// Package requesttime pins "now" for the duration of a request so every hendelse
// written by one command carries the same tidspunkt.
package requesttime

import (
	"net/http"
	"time"

	"supstonad/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
