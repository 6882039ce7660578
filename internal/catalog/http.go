package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/seoultrip/planner/internal/metrics"
	"github.com/seoultrip/planner/internal/planner"
)

// HTTPConfig configures the remote catalog client.
type HTTPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// RPS throttles outbound requests; bursts of up to one second's worth
	// are allowed.
	RPS float64

	// FailureThreshold consecutive failures open the breaker for OpenTimeout.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// HTTPSource fetches activities from the remote location catalog.
type HTTPSource struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]planner.Activity]
}

func NewHTTPSource(cfg HTTPConfig, logger *slog.Logger) *HTTPSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	const name = "catalog"
	metrics.CatalogBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	breaker := gobreaker.NewCircuitBreaker[[]planner.Activity](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up says nothing about the catalog's health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("catalog circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CatalogBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &HTTPSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), max(1, int(cfg.RPS))),
		breaker: breaker,
	}
}

func (s *HTTPSource) FetchActivities(ctx context.Context, themeID int64, transportMode string) ([]planner.Activity, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for catalog rate limit: %w", err)
	}

	acts, err := s.breaker.Execute(func() ([]planner.Activity, error) {
		return s.fetch(ctx, themeID, transportMode)
	})
	metrics.RecordCatalogRequest("http", err)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog activities: %w", err)
	}
	return acts, nil
}

type locationsResponse struct {
	Success bool           `json:"success"`
	Data    []locationItem `json:"data"`
}

type locationItem struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	Duration     *int     `json:"duration"`
	Cost         *float64 `json:"cost"`
	CategoryID   *int64   `json:"category_id"`
	CategoryName string   `json:"category_name"`
}

func (it locationItem) activity() planner.Activity {
	a := planner.Activity{
		ID:              it.ID,
		Name:            it.Name,
		Point:           planner.GeoPoint{Lat: it.Latitude, Lon: it.Longitude},
		CategoryID:      it.CategoryID,
		DurationMinutes: planner.DefaultDurationMinutes,
		Description:     it.Description,
		Address:         it.Address,
	}
	if it.Duration != nil && *it.Duration > 0 {
		a.DurationMinutes = *it.Duration
	}
	if it.Cost != nil && *it.Cost != 0 {
		c := *it.Cost
		a.Cost = &c
	}
	if it.CategoryName != "" {
		a.Categories = []string{it.CategoryName}
	}
	return a
}

func (s *HTTPSource) fetch(ctx context.Context, themeID int64, transportMode string) ([]planner.Activity, error) {
	q := url.Values{}
	q.Set("theme_id", strconv.FormatInt(themeID, 10))
	q.Set("transport_mode", transportMode)
	q.Set("limit", strconv.Itoa(maxActivities))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/locations?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var body locationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}

	acts := make([]planner.Activity, 0, len(body.Data))
	if !body.Success {
		return acts, nil
	}
	for _, it := range body.Data {
		acts = append(acts, it.activity())
	}
	return acts, nil
}
