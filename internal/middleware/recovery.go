package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/userhub/userhub/internal/handler/dto"
)

// Recoverer recovers from panics in downstream handlers, logs them with the
// stack and answers 500. printStack additionally dumps the stack to stderr.
func Recoverer(logger *slog.Logger, printStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				if printStack {
					debug.PrintStack()
				}

				writeError(w, http.StatusInternalServerError, dto.CodeInternalError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
