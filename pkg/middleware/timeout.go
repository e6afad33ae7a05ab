package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "galleria/pkg/errors"
)

// guardedWriter blocks handler writes once the deadline response has been
// sent, so a slow handler cannot corrupt the reply.
type guardedWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (gw *guardedWriter) WriteHeader(code int) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if gw.timedOut || gw.written {
		return
	}
	gw.written = true
	gw.ResponseWriter.WriteHeader(code)
}

func (gw *guardedWriter) Write(b []byte) (int, error) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if gw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	gw.written = true
	return gw.ResponseWriter.Write(b)
}

// markTimedOut reports whether the deadline response still needs writing.
func (gw *guardedWriter) markTimedOut() bool {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	gw.timedOut = true
	return !gw.written
}

// RequestTimeout bounds each request with a context deadline. When the
// handler is still running at the deadline the client gets a TIMEOUT error
// and any late handler writes are discarded.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			gw := &guardedWriter{ResponseWriter: w}

			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(gw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if gw.markTimedOut() {
					appErr := apperrors.Timeout("Request timed out")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(appErr.HTTPStatus)
					_, _ = w.Write(appErr.ToJSON())
				}
			}
		})
	}
}
