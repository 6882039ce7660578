// Package database opens the libSQL-backed SQLite database shared by the
// stores and the local activity catalog.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/go-libsql"
)

const memoryPath = ":memory:"

// pragmas tune a local database file for concurrent readers and enforce
// foreign keys, which SQLite leaves off by default.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// Open connects to path. Remote libsql:// URLs are used as given; anything
// else is a local file or ":memory:". An in-memory database is limited to
// one connection so every query sees the same data.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	remote := isRemote(path)
	dsn := path
	if !remote {
		dsn = "file:" + path
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if !remote {
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

func isRemote(path string) bool {
	for _, scheme := range []string{"libsql://", "https://", "http://"} {
		if strings.HasPrefix(path, scheme) {
			return true
		}
	}
	return false
}

// applyPragmas drains each PRAGMA as a query: libSQL rejects Exec for the
// ones that return a row.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	for _, p := range pragmas {
		rows, err := db.QueryContext(ctx, p)
		if err != nil {
			return fmt.Errorf("executing %s: %w", p, err)
		}
		rows.Close()
	}
	return nil
}
