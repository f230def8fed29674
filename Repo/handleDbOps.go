package Repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pendingInteractionsTable = "pending_interactions"

func InitDbPool(ctx context.Context, databaseUrl string) (*pgxpool.Pool, error) {
	dbPool, dbConnectionError := pgxpool.New(ctx, databaseUrl)
	if dbConnectionError != nil {
		return nil, dbConnectionError
	}
	if pingError := dbPool.Ping(ctx); pingError != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ping database: %w", pingError)
	}
	return dbPool, nil
}

// PostgresStore keeps pending interactions in Postgres.
type PostgresStore struct {
	dbPool *pgxpool.Pool
}

func NewPostgresStore(dbPool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{dbPool: dbPool}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if s == nil || s.dbPool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	query := `
		CREATE TABLE IF NOT EXISTS ` + pendingInteractionsTable + ` (
			user_id TEXT NOT NULL,
			key     TEXT NOT NULL,
			value   TEXT NOT NULL,
			PRIMARY KEY (user_id, key)
		)`

	if _, ensureSchemaError := s.dbPool.Exec(ctx, query); ensureSchemaError != nil {
		return fmt.Errorf("ensure pending interactions schema: %w", ensureSchemaError)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, userID, key string) error {
	if s == nil || s.dbPool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	query := `DELETE FROM ` + pendingInteractionsTable + ` WHERE user_id = $1 AND key = $2`

	if _, clearError := s.dbPool.Exec(ctx, query, userID, key); clearError != nil {
		return clearError
	}
	return nil
}

func (s *PostgresStore) Store(ctx context.Context, userID, key, value string) error {
	if s == nil || s.dbPool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	query := `
		INSERT INTO ` + pendingInteractionsTable + ` (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value`

	if _, storeError := s.dbPool.Exec(ctx, query, userID, key, value); storeError != nil {
		return storeError
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, key string) (string, bool, error) {
	if s == nil || s.dbPool == nil {
		return "", false, fmt.Errorf("database pool is not initialized")
	}

	query := `SELECT value FROM ` + pendingInteractionsTable + ` WHERE user_id = $1 AND key = $2`

	var value string
	dbQueryError := s.dbPool.QueryRow(ctx, query, userID, key).Scan(&value)
	if errors.Is(dbQueryError, pgx.ErrNoRows) {
		return "", false, nil
	}
	if dbQueryError != nil {
		return "", false, dbQueryError
	}
	return value, true, nil
}

func (s *PostgresStore) Close() error {
	if s != nil && s.dbPool != nil {
		s.dbPool.Close()
	}
	return nil
}
