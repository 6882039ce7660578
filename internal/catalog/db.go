package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/seoultrip/planner/internal/metrics"
	"github.com/seoultrip/planner/internal/planner"
)

// DBSource reads activities from the locally stored locations. The
// transport mode does not filter local results.
type DBSource struct {
	db *sql.DB
}

func NewDBSource(db *sql.DB) *DBSource {
	return &DBSource{db: db}
}

func (s *DBSource) FetchActivities(ctx context.Context, themeID int64, _ string) ([]planner.Activity, error) {
	acts, err := s.fetch(ctx, themeID)
	metrics.RecordCatalogRequest("db", err)
	return acts, err
}

func (s *DBSource) fetch(ctx context.Context, themeID int64) ([]planner.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.latitude, l.longitude,
			COALESCE(l.description, ''), COALESCE(l.address, ''),
			l.duration_minutes, l.cost, l.category_id, l.tags
		FROM locations l
		JOIN location_themes lt ON lt.location_id = l.id
		WHERE lt.theme_id = ?
		ORDER BY l.id
		LIMIT ?
	`, themeID, maxActivities)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	acts := []planner.Activity{}
	for rows.Next() {
		var (
			a          planner.Activity
			cost       sql.NullFloat64
			categoryID sql.NullInt64
			tags       string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Point.Lat, &a.Point.Lon,
			&a.Description, &a.Address, &a.DurationMinutes, &cost, &categoryID, &tags); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		if cost.Valid && cost.Float64 != 0 {
			a.Cost = &cost.Float64
		}
		if categoryID.Valid {
			a.CategoryID = &categoryID.Int64
		}
		a.Categories = splitTags(tags)
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
