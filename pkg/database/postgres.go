// Package database opens the PostgreSQL pool the collector writes through
// and applies the embedded schema migrations.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The collector writes one source at a time, so the pool stays small.
const (
	defaultMaxConns       = 10
	defaultConnectTimeout = 10 * time.Second
)

// DB wraps the pgx pool handed to the repositories.
type DB struct {
	*pgxpool.Pool
}

// Config carries the pool settings read from the environment.
type Config struct {
	URL            string
	MaxConnections int32
	MinConnections int32
	ConnectTimeout time.Duration
}

// Connect parses the connection string, applies the pool limits, and
// verifies the database is reachable before returning.
func Connect(ctx context.Context, cfg *Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = defaultMaxConns
	}
	poolConfig.MinConns = cfg.MinConnections

	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if poolConfig.ConnConfig.ConnectTimeout == 0 {
		poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases every pooled connection.
func (db *DB) Close() {
	db.Pool.Close()
}
