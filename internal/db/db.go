// Package db stores finalized documents and their rendered PDFs in PostgreSQL.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// DB wraps a PostgreSQL connection pool. Queries go through database/sql so
// migrations and tests share one code path.
type DB struct {
	pool *pgxpool.Pool
	sql  *sql.DB
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	stat := pool.Stat()
	log.Printf("[db] connected: max_conns=%d total=%d", stat.MaxConns(), stat.TotalConns())
	return &DB{pool: pool, sql: stdlib.OpenDBFromPool(pool)}, nil
}

// New wraps an existing *sql.DB, e.g. a sqlmock connection.
func New(sqlDB *sql.DB) *DB {
	return &DB{sql: sqlDB}
}

// SQL exposes the database/sql handle, used by migrations.
func (db *DB) SQL() *sql.DB {
	return db.sql
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.sql != nil {
		_ = db.sql.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}
