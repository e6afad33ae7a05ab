package middleware

import (
	"net/http"
	"strings"

	apperrors "galleria/pkg/errors"
	"galleria/pkg/logger"
)

// ContentTypeValidation rejects mutating requests whose body is not declared
// as JSON before any handler touches it.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasBody(r.Method) {
				mediaType := baseMediaType(r.Header.Get("Content-Type"))
				if mediaType != "application/json" {
					log.Warn("Invalid Content-Type header",
						"request_id", RequestIDFromContext(r.Context()),
						"content_type", mediaType,
						"method", r.Method,
						"path", r.URL.Path,
					)

					appErr := apperrors.New(
						apperrors.CodeInvalidInput,
						"Content-Type must be application/json",
						http.StatusUnsupportedMediaType,
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(appErr.HTTPStatus)
					_, _ = w.Write(appErr.ToJSON())
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// baseMediaType strips parameters such as charset from a Content-Type value.
func baseMediaType(header string) string {
	mediaType, _, found := strings.Cut(header, ";")
	if !found {
		mediaType = header
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
