package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/userhub/userhub/internal/handler/dto"
)

func TestHandler_Hello(t *testing.T) {
	h := New("/api")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Hello(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["service"] != "userhub" {
		t.Errorf("unexpected service: %s", response["service"])
	}

	if response["version"] != Version {
		t.Errorf("unexpected version: %s", response["version"])
	}

	if response["basePath"] != "/api" {
		t.Errorf("unexpected basePath: %s", response["basePath"])
	}
}

func TestHandler_ErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		serve      func(h *Handler, w http.ResponseWriter, r *http.Request)
		wantStatus int
		wantCode   string
	}{
		{"not found", (*Handler).NotFound, http.StatusNotFound, dto.CodeNotFound},
		{"method not allowed", (*Handler).MethodNotAllowed, http.StatusMethodNotAllowed, dto.CodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New("/api")

			req := httptest.NewRequest(http.MethodPost, "/nonexistent", nil)
			rec := httptest.NewRecorder()

			tt.serve(h, rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if response.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, response.Code)
			}
			if response.Error == "" {
				t.Error("expected an error message")
			}
		})
	}
}
