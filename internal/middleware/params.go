package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/userhub/userhub/internal/handler/dto"
)

// ValidateUUIDParam rejects requests whose chi URL parameter name is not a
// UUID with 400 INVALID_ID, before the handler runs.
func ValidateUUIDParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, name)
			if _, err := uuid.Parse(raw); err != nil {
				writeError(w, http.StatusBadRequest, dto.CodeInvalidID, "invalid "+name+": "+raw)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
