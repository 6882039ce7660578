// Package catalog supplies candidate activities for the planner. Sources
// can be stacked: a remote HTTP catalog behind a read-through cache, with
// the locally stored locations as a fallback.
package catalog

import (
	"context"
	"log/slog"

	"github.com/seoultrip/planner/internal/metrics"
	"github.com/seoultrip/planner/internal/planner"
)

// maxActivities caps one fetch, matching the remote catalog's page size.
const maxActivities = 100

// DefaultTransportMode is used when a request does not name one.
const DefaultTransportMode = "public"

// Source returns the candidate activities for a theme. Implementations
// return a slice the caller owns.
type Source interface {
	FetchActivities(ctx context.Context, themeID int64, transportMode string) ([]planner.Activity, error)
}

// FallbackSource asks the primary source first and the fallback when the
// primary fails. An empty primary result is not a failure.
type FallbackSource struct {
	primary  Source
	fallback Source
	logger   *slog.Logger
}

func NewFallbackSource(primary, fallback Source, logger *slog.Logger) *FallbackSource {
	return &FallbackSource{primary: primary, fallback: fallback, logger: logger}
}

func (s *FallbackSource) FetchActivities(ctx context.Context, themeID int64, transportMode string) ([]planner.Activity, error) {
	acts, err := s.primary.FetchActivities(ctx, themeID, transportMode)
	if err == nil {
		return acts, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	s.logger.Warn("primary catalog failed, using fallback",
		"theme_id", themeID,
		"transport_mode", transportMode,
		"error", err,
	)
	acts, err = s.fallback.FetchActivities(ctx, themeID, transportMode)
	metrics.RecordCatalogRequest("fallback", err)
	return acts, err
}
