// Package database wraps the Postgres connection pool behind a minimal
// querier interface so stores can be tested against a mock pool.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the slice of pool behavior the stores need. Implemented by
// *pgxpool.Pool and by pgxmock's pool in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Pool owns the live connection pool.
type Pool struct {
	pool PgxPool
}

// New opens a pool for the given DSN and verifies connectivity. Returns nil
// when the DSN is empty so callers can fall back to in-memory stores.
func New(ctx context.Context, dsn string) (*Pool, error) {
	if dsn == "" {
		return nil, nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Querier exposes the underlying pool for store constructors.
func (p *Pool) Querier() PgxPool { return p.pool }

// Close shuts down the pool.
func (p *Pool) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

// HealthCheck returns a readiness probe bound to the pool.
func (p *Pool) HealthCheck() func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return p.pool.Ping(ctx)
	}
}
