package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps *sql.DB with the placeholder format squirrel needs for the
// active backend.
type DB struct {
	*sql.DB
	placeholder squirrel.PlaceholderFormat
	logger      *logger.Logger
}

// NewConnectPostgres opens and pings a PostgreSQL connection via the pgx
// stdlib driver.
func NewConnectPostgres(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occurred during database connection")
		return nil, fmt.Errorf("error occurred during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return &DB{
		DB:          conn,
		placeholder: squirrel.Dollar,
		logger:      log,
	}, nil
}

// postgresErrorCode extracts the PostgreSQL error code from a driver error,
// or returns an empty string for non-Postgres errors.
func postgresErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
