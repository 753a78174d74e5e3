package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestValidateUUIDParam(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"valid uuid", "8f14e45f-ceea-467f-a0e6-2d0c8f1e3b7a", http.StatusOK},
		{"uppercase uuid", "8F14E45F-CEEA-467F-A0E6-2D0C8F1E3B7A", http.StatusOK},
		{"not a uuid", "42", http.StatusBadRequest},
		{"truncated uuid", "8f14e45f-ceea-467f-a0e6", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.With(ValidateUUIDParam("id")).Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+tt.id, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusBadRequest && !strings.Contains(rec.Body.String(), `"code":"INVALID_ID"`) {
				t.Errorf("body = %s, want INVALID_ID", rec.Body.String())
			}
		})
	}
}
