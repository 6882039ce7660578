package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seoultrip/planner/internal/planner"
)

const dateLayout = "2006-01-02"

// SaveRoute stores the preference and the generated itinerary in one
// transaction and returns the stored route.
func (s *SQLiteStore) SaveRoute(ctx context.Context, pref RoutePreference, it *planner.Itinerary) (RouteDetail, error) {
	pref.ID = uuid.NewString()
	routeID := uuid.NewString()

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO route_preferences
				(id, user_id, start_date, end_date, theme_id, pace, travelers_count, preferred_language, transport_mode)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, pref.ID, pref.UserID, pref.StartDate, pref.EndDate, pref.ThemeID, pref.Pace,
			pref.Travelers, pref.Language, pref.TransportMode); err != nil {
			return fmt.Errorf("inserting preference: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recommended_routes
				(id, preference_id, name, description, total_estimated_cost, difficulty, model_name, model_version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, routeID, pref.ID, it.Name, it.Description, it.TotalCost, string(it.Difficulty),
			it.ModelName, it.ModelVersion); err != nil {
			return fmt.Errorf("inserting route: %w", err)
		}

		for _, day := range it.Days {
			dayID := uuid.NewString()
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO route_itinerary
					(id, route_id, day_number, day_date, day_description, total_distance_km, total_cost)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, dayID, routeID, day.DayNumber, day.Date.Format(dateLayout), day.Description,
				day.DistanceKm, day.Cost); err != nil {
				return fmt.Errorf("inserting day %d: %w", day.DayNumber, err)
			}

			for _, sa := range day.Activities {
				var locationID *int64
				if sa.ID != 0 {
					locationID = &sa.ID
				}
				minutes := sa.DurationMinutes
				if minutes <= 0 {
					minutes = planner.DefaultDurationMinutes
				}
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO itinerary_activities
						(id, itinerary_id, activity_order, activity_time, activity_name, description,
						 location_id, address, latitude, longitude, duration_minutes, estimated_cost, category_id)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				`, uuid.NewString(), dayID, sa.Order, sa.StartTime.String(), sa.Name, sa.Description,
					nullable(locationID), sa.Address, sa.Point.Lat, sa.Point.Lon,
					minutes, nullable(sa.Cost), nullable(sa.CategoryID)); err != nil {
					return fmt.Errorf("inserting activity %d of day %d: %w", sa.Order, day.DayNumber, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return RouteDetail{}, err
	}

	return s.GetRoute(ctx, routeID)
}

func (s *SQLiteStore) GetRoute(ctx context.Context, id string) (RouteDetail, error) {
	var (
		d        RouteDetail
		isActive bool
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.name, r.description, r.total_estimated_cost, r.difficulty,
			r.model_name, r.model_version, r.is_active, r.created_at,
			p.id, p.user_id, p.start_date, p.end_date, p.theme_id, p.pace,
			p.travelers_count, p.preferred_language, p.transport_mode
		FROM recommended_routes r
		JOIN route_preferences p ON p.id = r.preference_id
		WHERE r.id = ?
	`, id).Scan(&d.ID, &d.Name, &d.Description, &d.TotalEstimatedCost, &d.Difficulty,
		&d.ModelName, &d.ModelVersion, &isActive, &d.CreatedAt,
		&d.Preference.ID, &d.Preference.UserID, &d.Preference.StartDate, &d.Preference.EndDate,
		&d.Preference.ThemeID, &d.Preference.Pace, &d.Preference.Travelers,
		&d.Preference.Language, &d.Preference.TransportMode)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, err
	}
	d.IsActive = isActive

	days, err := s.routeDays(ctx, id)
	if err != nil {
		return d, err
	}
	d.Days = days
	return d, nil
}

func (s *SQLiteStore) routeDays(ctx context.Context, routeID string) ([]RouteDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.day_number, d.day_date, d.day_description, d.total_distance_km, d.total_cost,
			a.id, a.activity_order, a.activity_time, a.activity_name, a.description, a.location_id,
			a.address, a.latitude, a.longitude, a.duration_minutes, a.estimated_cost, a.category_id
		FROM route_itinerary d
		JOIN itinerary_activities a ON a.itinerary_id = d.id
		WHERE d.route_id = ?
		ORDER BY d.day_number, a.activity_order
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []RouteDay{}
	for rows.Next() {
		var (
			day        RouteDay
			a          RouteActivity
			locationID sql.NullInt64
			cost       sql.NullFloat64
			categoryID sql.NullInt64
		)
		if err := rows.Scan(&day.ID, &day.DayNumber, &day.Date, &day.Description,
			&day.TotalDistanceKm, &day.TotalCost,
			&a.ID, &a.Order, &a.Time, &a.Name, &a.Description, &locationID,
			&a.Address, &a.Latitude, &a.Longitude, &a.DurationMinutes, &cost, &categoryID); err != nil {
			return nil, err
		}
		a.LocationID = nullInt64(locationID)
		a.EstimatedCost = nullFloat64(cost)
		a.CategoryID = nullInt64(categoryID)

		if n := len(days); n == 0 || days[n-1].ID != day.ID {
			day.Activities = []RouteActivity{}
			days = append(days, day)
		}
		last := &days[len(days)-1]
		last.Activities = append(last.Activities, a)
	}
	return days, rows.Err()
}

func (s *SQLiteStore) ListUserRoutes(ctx context.Context, userID int64) ([]RouteSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.description, r.total_estimated_cost, r.difficulty,
			p.theme_id, p.start_date, p.end_date,
			(SELECT COUNT(*) FROM route_itinerary d WHERE d.route_id = r.id),
			r.created_at
		FROM recommended_routes r
		JOIN route_preferences p ON p.id = r.preference_id
		WHERE p.user_id = ? AND r.is_active = 1
		ORDER BY r.created_at DESC, r.rowid DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []RouteSummary{}
	for rows.Next() {
		var rs RouteSummary
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.Description, &rs.TotalEstimatedCost, &rs.Difficulty,
			&rs.ThemeID, &rs.StartDate, &rs.EndDate, &rs.DayCount, &rs.CreatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, rs)
	}
	return routes, rows.Err()
}

// DeactivateRoute hides an active route from its owner's list.
func (s *SQLiteStore) DeactivateRoute(ctx context.Context, id string, userID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, `
			SELECT p.user_id
			FROM recommended_routes r
			JOIN route_preferences p ON p.id = r.preference_id
			WHERE r.id = ? AND r.is_active = 1
		`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE recommended_routes SET is_active = 0 WHERE id = ?`, id)
		return err
	})
}
