package connection

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// SQLite opens a SQLite database file.
type SQLite struct {
	// Path is the database file. Use ":memory:" for an in-memory database.
	Path string
}

func (s *SQLite) Connect(ctx context.Context) (*sql.DB, error) {
	if s.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o750); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite: %w", err)
	}

	// A single connection keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error setting WAL mode: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error pinging sqlite: %w", err)
	}
	return db, nil
}
