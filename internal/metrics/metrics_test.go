package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "/api/routes/{routeID}", "200")
	before := testutil.ToFloat64(c)

	RecordHTTPRequest("GET", "/api/routes/{routeID}", http.StatusOK, 12*time.Millisecond)

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}

func TestRecordCatalogRequest(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{"success", nil, "ok"},
		{"failure", errors.New("timeout"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CatalogRequestsTotal.WithLabelValues("http", tt.result)
			before := testutil.ToFloat64(c)

			RecordCatalogRequest("http", tt.err)

			if got := testutil.ToFloat64(c); got != before+1 {
				t.Errorf("%s counter = %v, want %v", tt.result, got, before+1)
			}
		})
	}
}

func TestRecordGeneration(t *testing.T) {
	c := ItineraryGenerationsTotal.WithLabelValues("no_candidates")
	before := testutil.ToFloat64(c)

	RecordGeneration("no_candidates", time.Millisecond)

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordGeneration("ok", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "itinerary_generations_total") {
		t.Error("metrics output missing itinerary_generations_total")
	}
}
