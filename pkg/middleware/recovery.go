package middleware

import (
	"net/http"
	"runtime/debug"

	apperrors "galleria/pkg/errors"
	"galleria/pkg/logger"
)

// Recovery turns handler panics into 500 responses and logs the stack.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic recovered",
						"request_id", RequestIDFromContext(r.Context()),
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					appErr := apperrors.Internal("Internal server error", nil)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(appErr.HTTPStatus)
					_, _ = w.Write(appErr.ToJSON())
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
