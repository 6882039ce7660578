package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleOpenAPI(t *testing.T) {
	h := handleOpenAPI()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()

	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "application/json") {
		t.Fatalf("content-type = %q, want application/json", got)
	}

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.OpenAPI != "3.1.0" {
		t.Errorf("openapi = %q, want 3.1.0", doc.OpenAPI)
	}

	tests := []struct {
		path   string
		method string
	}{
		{"/healthz", "get"},
		{"/api/routes", "post"},
		{"/api/routes/{routeID}", "delete"},
		{"/api/posts", "get"},
		{"/api/posts/{postID}/comments", "post"},
		{"/api/posts/{postID}/events", "get"},
		{"/api/posts/{postID}/ws", "get"},
		{"/api/reviews/{reviewID}/media", "post"},
		{"/api/locations/{locationID}/stats", "get"},
	}
	for _, tt := range tests {
		ops, ok := doc.Paths[tt.path]
		if !ok {
			t.Errorf("missing path %s", tt.path)
			continue
		}
		if _, ok := ops[tt.method]; !ok {
			t.Errorf("path %s missing %s operation", tt.path, tt.method)
		}
	}
}

func TestDocsPage(t *testing.T) {
	h := newTestRouter(t, newTestStore(t), fakeSource{})

	rec := do(t, h, http.MethodGet, "/docs/", nil)
	wantStatus(t, rec, http.StatusOK)
	if rec.Body.Len() == 0 {
		t.Error("docs page is empty")
	}
}
