package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const nowExpr = `strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn in a transaction. Inside fn only tx may be used: an
// in-memory database has a single connection.
func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func exists(ctx context.Context, q queryer, query string, args ...any) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, query, args...).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// checkOwner runs a query selecting a single user_id. No row is
// ErrNotFound; a different user is ErrForbidden.
func checkOwner(ctx context.Context, q queryer, userID int64, query string, args ...any) error {
	var owner int64
	err := q.QueryRowContext(ctx, query, args...).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}

func (s *SQLiteStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	return exists(ctx, s.db, `SELECT 1 FROM users WHERE id = ?`, userID)
}

func (s *SQLiteStore) LocationExists(ctx context.Context, locationID int64) (bool, error) {
	return exists(ctx, s.db, `SELECT 1 FROM locations WHERE id = ?`, locationID)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullable turns an optional value into a driver argument.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

func nullFloat64(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

var regionColumns = map[string]string{
	"ko": "region_name_ko",
	"en": "region_name_en",
	"ja": "region_name_ja",
	"zh": "region_name_zh",
}

var categoryColumns = map[string]string{
	"ko": "name_ko",
	"en": "name_en",
	"ja": "name_ja",
	"zh": "name_zh",
}

func (s *SQLiteStore) ListRegions(ctx context.Context, language string) ([]Region, error) {
	col, ok := regionColumns[language]
	if !ok {
		col = regionColumns[defaultLanguage]
	}
	rows, err := s.db.QueryContext(ctx, `SELECT region_id, `+col+` FROM board_regions ORDER BY region_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regions := []Region{}
	for rows.Next() {
		var r Region
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

func (s *SQLiteStore) ListCategories(ctx context.Context, language string) ([]Category, error) {
	col, ok := categoryColumns[language]
	if !ok {
		col = categoryColumns[defaultLanguage]
	}
	rows, err := s.db.QueryContext(ctx, `SELECT category_id, category_key, `+col+` FROM board_categories ORDER BY category_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Key, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
