package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

const contractBaseURL = "http://localhost:8080"

// loadSpec loads and validates the OpenAPI document.
func loadSpec(t *testing.T) (*openapi3.T, routers.Router) {
	t.Helper()

	path := filepath.Join("..", "..", "docs", "api", "openapi.yaml")

	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load OpenAPI spec from %s: %v", path, err)
	}

	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	router, err := gorillamux.NewRouter(spec)
	if err != nil {
		t.Fatalf("Failed to create router from spec: %v", err)
	}

	return spec, router
}

type contractCall struct {
	method string
	path   string
	body   string
}

// check runs call against the application router and validates the response
// against the documented operation. It returns the response body.
func check(t *testing.T, app http.Handler, specRouter routers.Router, call contractCall, wantStatus int) []byte {
	t.Helper()

	var reader io.Reader
	if call.body != "" {
		reader = strings.NewReader(call.body)
	}
	req := httptest.NewRequest(call.method, contractBaseURL+call.path, reader)
	if call.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("%s %s: status = %d, want %d (%s)", call.method, call.path, rec.Code, wantStatus, rec.Body.String())
	}

	route, pathParams, err := specRouter.FindRoute(req)
	if err != nil {
		t.Fatalf("%s %s: not documented: %v", call.method, call.path, err)
	}

	body := rec.Body.Bytes()
	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: rec.Code,
		Header: rec.Header(),
		Body:   io.NopCloser(bytes.NewReader(body)),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}

	if err := openapi3filter.ValidateResponse(context.Background(), input); err != nil {
		t.Errorf("%s %s: response does not match the document: %v", call.method, call.path, err)
	}

	return body
}

func TestOpenAPISpecValid(t *testing.T) {
	spec, _ := loadSpec(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/api/users", "/api/users/{id}"} {
		if spec.Paths.Find(path) == nil {
			t.Errorf("Expected path %s not found in spec", path)
		}
	}
}

func TestContract_UserLifecycle(t *testing.T) {
	_, specRouter := loadSpec(t)
	app := newTestRouter(t, testConfig(), nil)

	check(t, app, specRouter, contractCall{method: http.MethodGet, path: "/healthz"}, http.StatusOK)
	check(t, app, specRouter, contractCall{method: http.MethodGet, path: "/readyz"}, http.StatusOK)

	body := check(t, app, specRouter, contractCall{
		method: http.MethodPost,
		path:   "/api/users",
		body:   `{"email":"test@example.com","firstName":"Test","lastName":"Testov","birthday":"2000-04-27","address":"Main St 1"}`,
	}, http.StatusOK)

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created user: %v", err)
	}

	check(t, app, specRouter, contractCall{
		method: http.MethodGet,
		path:   "/api/users?from=2000-01-01&to=2000-12-31",
	}, http.StatusOK)

	check(t, app, specRouter, contractCall{
		method: http.MethodPatch,
		path:   "/api/users/" + created.ID,
		body:   `{"phoneNumber":"+15550100"}`,
	}, http.StatusOK)

	check(t, app, specRouter, contractCall{
		method: http.MethodPut,
		path:   "/api/users/" + created.ID,
		body:   `{"email":"new@example.com","firstName":"New","lastName":"Name","birthday":"1990-02-28"}`,
	}, http.StatusOK)

	check(t, app, specRouter, contractCall{
		method: http.MethodDelete,
		path:   "/api/users/" + created.ID,
	}, http.StatusNoContent)
}

func TestContract_Errors(t *testing.T) {
	_, specRouter := loadSpec(t)
	app := newTestRouter(t, testConfig(), nil)

	tests := []struct {
		name       string
		call       contractCall
		wantStatus int
	}{
		{"validation failure", contractCall{http.MethodPost, "/api/users", `{"email":"bad","firstName":"A","lastName":"B","birthday":"2015-01-01"}`}, http.StatusBadRequest},
		{"malformed json", contractCall{http.MethodPost, "/api/users", `{`}, http.StatusBadRequest},
		{"missing range", contractCall{http.MethodGet, "/api/users", ""}, http.StatusBadRequest},
		{"inverted range", contractCall{http.MethodGet, "/api/users?from=2001-01-01&to=2000-01-01", ""}, http.StatusBadRequest},
		{"unknown id", contractCall{http.MethodPatch, "/api/users/8f14e45f-ceea-467f-a0e6-2d0c8f1e3b7a", `{"firstName":"X"}`}, http.StatusNotFound},
		{"malformed id", contractCall{http.MethodDelete, "/api/users/42", ""}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, app, specRouter, tt.call, tt.wantStatus)
		})
	}
}
