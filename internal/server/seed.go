package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type seedLocation struct {
	id         int64
	name       string
	lat, lon   float64
	address    string
	minutes    int
	cost       float64
	categoryID int64
	tags       string
	themes     []int64
}

var (
	seedUsers = []struct {
		id       int64
		username string
		email    string
	}{
		{1, "minji", "minji@example.com"},
		{2, "daniel", "daniel@example.com"},
		{3, "yuki", "yuki@example.com"},
	}

	seedThemes = []struct {
		id          int64
		name        string
		description string
	}{
		{1, "History & Palaces", "Joseon palaces, shrines and old neighbourhoods"},
		{2, "Food & Markets", "Traditional markets and street food"},
		{3, "Nature & Views", "Parks, rivers and city views"},
	}

	seedLocations = []seedLocation{
		{1, "Gyeongbokgung Palace", 37.5796, 126.9770, "161 Sajik-ro, Jongno-gu", 120, 3000, 1, "palace,history", []int64{1}},
		{2, "Changdeokgung Palace", 37.5794, 126.9910, "99 Yulgok-ro, Jongno-gu", 90, 3000, 1, "palace,history,garden", []int64{1}},
		{3, "Bukchon Hanok Village", 37.5826, 126.9831, "37 Gyedong-gil, Jongno-gu", 90, 0, 2, "history,village", []int64{1}},
		{4, "Jongmyo Shrine", 37.5744, 126.9941, "157 Jong-ro, Jongno-gu", 60, 1000, 1, "history,shrine", []int64{1}},
		{5, "Gwangjang Market", 37.5700, 126.9996, "88 Changgyeonggung-ro, Jongno-gu", 90, 15000, 3, "market,food", []int64{2}},
		{6, "Namdaemun Market", 37.5592, 126.9776, "21 Namdaemunsijang 4-gil, Jung-gu", 90, 10000, 3, "market,food,shopping", []int64{2}},
		{7, "Myeongdong Street Food", 37.5637, 126.9838, "Myeongdong-gil, Jung-gu", 60, 12000, 3, "food,shopping", []int64{2}},
		{8, "Tongin Market", 37.5809, 126.9706, "18 Jahamun-ro 15-gil, Jongno-gu", 60, 5000, 3, "market,food", []int64{1, 2}},
		{9, "N Seoul Tower", 37.5512, 126.9882, "105 Namsangongwon-gil, Yongsan-gu", 120, 21000, 4, "view,park", []int64{3}},
		{10, "Cheonggyecheon Stream", 37.5690, 126.9785, "Cheonggyecheon-ro, Jung-gu", 60, 0, 4, "river,walk", []int64{3}},
		{11, "Yeouido Hangang Park", 37.5284, 126.9327, "330 Yeouidong-ro, Yeongdeungpo-gu", 120, 0, 4, "river,park", []int64{3}},
		{12, "Bukhansan Trailhead", 37.6588, 126.9780, "Bukhansan-ro, Gangbuk-gu", 240, 0, 4, "mountain,hike,view", []int64{3}},
	}
)

// SeedDemo loads demo users, themes and Seoul locations when the database
// has no users. Idempotent: does nothing if users already exist.
func SeedDemo(ctx context.Context, logger *slog.Logger, store *SQLiteStore) error {
	var n int
	if err := store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return nil
	}

	err := store.inTx(ctx, func(tx *sql.Tx) error {
		for _, u := range seedUsers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO users (id, username, email) VALUES (?, ?, ?)`,
				u.id, u.username, u.email); err != nil {
				return fmt.Errorf("inserting user %s: %w", u.username, err)
			}
		}
		for _, th := range seedThemes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO themes (id, name, description) VALUES (?, ?, ?)`,
				th.id, th.name, th.description); err != nil {
				return fmt.Errorf("inserting theme %d: %w", th.id, err)
			}
		}
		for _, l := range seedLocations {
			var cost any
			if l.cost > 0 {
				cost = l.cost
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO locations (id, name, latitude, longitude, address, duration_minutes, cost, category_id, tags)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, l.id, l.name, l.lat, l.lon, l.address, l.minutes, cost, l.categoryID, l.tags); err != nil {
				return fmt.Errorf("inserting location %d: %w", l.id, err)
			}
			for _, themeID := range l.themes {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO location_themes (theme_id, location_id) VALUES (?, ?)`,
					themeID, l.id); err != nil {
					return fmt.Errorf("linking location %d to theme %d: %w", l.id, themeID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("demo data seeded",
		"users", len(seedUsers),
		"themes", len(seedThemes),
		"locations", len(seedLocations),
	)
	return nil
}
