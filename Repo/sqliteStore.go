package Repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SqliteStore keeps pending interactions in a local sqlite file, or in memory
// when the path is ":memory:".
type SqliteStore struct {
	db *sql.DB
}

func OpenSqliteStore(ctx context.Context, path string) (*SqliteStore, error) {
	db, openError := sql.Open("sqlite", path)
	if openError != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, openError)
	}
	// every connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)

	if pingError := db.PingContext(ctx); pingError != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, pingError)
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + pendingInteractionsTable + ` (
			user_id TEXT NOT NULL,
			key     TEXT NOT NULL,
			value   TEXT NOT NULL,
			PRIMARY KEY (user_id, key)
		)`

	if _, ensureSchemaError := s.db.ExecContext(ctx, query); ensureSchemaError != nil {
		return fmt.Errorf("ensure pending interactions schema: %w", ensureSchemaError)
	}
	return nil
}

func (s *SqliteStore) Clear(ctx context.Context, userID, key string) error {
	query := `DELETE FROM ` + pendingInteractionsTable + ` WHERE user_id = ? AND key = ?`

	_, clearError := s.db.ExecContext(ctx, query, userID, key)
	return clearError
}

func (s *SqliteStore) Store(ctx context.Context, userID, key, value string) error {
	query := `
		INSERT INTO ` + pendingInteractionsTable + ` (user_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value`

	_, storeError := s.db.ExecContext(ctx, query, userID, key, value)
	return storeError
}

func (s *SqliteStore) Get(ctx context.Context, userID, key string) (string, bool, error) {
	query := `SELECT value FROM ` + pendingInteractionsTable + ` WHERE user_id = ? AND key = ?`

	var value string
	dbQueryError := s.db.QueryRowContext(ctx, query, userID, key).Scan(&value)
	if errors.Is(dbQueryError, sql.ErrNoRows) {
		return "", false, nil
	}
	if dbQueryError != nil {
		return "", false, dbQueryError
	}
	return value, true, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}
