// Package recoverer provides middleware that turns handler panics into a
// logged JSON server error.
package recoverer

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// New returns middleware that recovers from panics, logs them with the stack
// trace and responds with status 500 and body rendered as JSON.
func New(logger *slog.Logger, body any) func(http.Handler) http.Handler {
	const op = "middleware.recoverer"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}

				// The server relies on this sentinel to abort the response.
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.Error(
					"something went wrong, panic occurred",
					slog.Group(op,
						slog.Any("err", rvr),
						slog.String("request_id", middleware.GetReqID(r.Context())),
						slog.String("stack", string(debug.Stack())),
					),
				)

				if r.Header.Get("Connection") == "Upgrade" {
					return
				}

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
