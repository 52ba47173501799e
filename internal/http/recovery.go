package http

import (
	"net/http"
	"runtime/debug"

	applog "billpay/internal/log"
)

// recovery turns a handler panic into a 500. Index contract violations in
// the entry collection panic, so this is the last line behind the index
// checks in the draft service.
func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				applog.FromContext(r.Context()).ErrorContext(r.Context(), "Panic recovered",
					applog.FieldError, err,
					"stack", string(debug.Stack()))
				InternalServerError("internal error").Write(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
