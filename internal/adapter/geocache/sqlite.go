package geocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps entries in a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS dxcc_cache (
	callsign   TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// NewSQLiteStore opens the database at path and creates the cache table.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: exec %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteMigration); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, call string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM dxcc_cache WHERE callsign = ?`, call).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: get: %w", err)
	}
	return payload, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, call string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dxcc_cache (callsign, payload) VALUES (?, ?) ON CONFLICT (callsign) DO NOTHING`,
		call, payload)
	if err != nil {
		return fmt.Errorf("sqlite: put: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
