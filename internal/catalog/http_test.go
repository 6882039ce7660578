package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/locations" {
			t.Errorf("path = %q, want /api/locations", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("theme_id") != "3" || q.Get("transport_mode") != "car" || q.Get("limit") != "100" {
			t.Errorf("query = %v", q)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success": true, "data": [
			{"id": 7, "name": "Gyeongbokgung", "latitude": 37.5796, "longitude": 126.977,
			 "duration": 90, "cost": 3000, "category_id": 2, "category_name": "palace"},
			{"id": 8, "name": "Gwangjang Market", "latitude": 37.57, "longitude": 126.9997,
			 "cost": 0}
		]}`)
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{BaseURL: srv.URL + "/", Token: "secret", RPS: 100}, slog.Default())

	acts, err := src.FetchActivities(context.Background(), 3, "car")
	if err != nil {
		t.Fatalf("FetchActivities: %v", err)
	}
	if len(acts) != 2 {
		t.Fatalf("got %d activities, want 2", len(acts))
	}

	a := acts[0]
	if a.ID != 7 || a.Name != "Gyeongbokgung" || a.DurationMinutes != 90 {
		t.Errorf("first activity = %+v", a)
	}
	if a.Cost == nil || *a.Cost != 3000 {
		t.Errorf("first cost = %v, want 3000", a.Cost)
	}
	if a.CategoryID == nil || *a.CategoryID != 2 {
		t.Errorf("first category id = %v, want 2", a.CategoryID)
	}
	if len(a.Categories) != 1 || a.Categories[0] != "palace" {
		t.Errorf("first categories = %v, want [palace]", a.Categories)
	}

	b := acts[1]
	if b.DurationMinutes != 120 {
		t.Errorf("missing duration = %d, want default 120", b.DurationMinutes)
	}
	if b.Cost != nil {
		t.Errorf("zero cost = %v, want absent", *b.Cost)
	}
	if len(b.Categories) != 0 {
		t.Errorf("categories = %v, want none", b.Categories)
	}
}

func TestHTTPSourceUnsuccessfulBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false, "data": [{"id": 1, "name": "x"}]}`)
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{BaseURL: srv.URL, RPS: 100}, slog.Default())

	acts, err := src.FetchActivities(context.Background(), 1, "public")
	if err != nil {
		t.Fatalf("FetchActivities: %v", err)
	}
	if len(acts) != 0 {
		t.Errorf("got %d activities, want 0", len(acts))
	}
}

func TestHTTPSourceBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{
		BaseURL:          srv.URL,
		RPS:              100,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	}, slog.Default())

	for i := range 2 {
		if _, err := src.FetchActivities(context.Background(), 1, "public"); err == nil {
			t.Fatalf("call %d: expected error", i+1)
		}
	}

	_, err := src.FetchActivities(context.Background(), 1, "public")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want open breaker", err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("catalog hit %d times, want 2", n)
	}
}

func TestHTTPSourceCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the catalog")
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{BaseURL: srv.URL, RPS: 100}, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.FetchActivities(ctx, 1, "public"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
