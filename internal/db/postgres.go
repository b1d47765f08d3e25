package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDialer returns a DialFunc that opens and pings a pgx pool.
func PostgresDialer(uri string, maxConns int, timeout time.Duration) DialFunc[*pgxpool.Pool] {
	return func(ctx context.Context) (*pgxpool.Pool, error) {
		cfg, err := pgxpool.ParseConfig(uri)

		if err != nil {
			return nil, err
		}

		if maxConns > 0 {
			cfg.MaxConns = int32(maxConns)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)

		defer cancel()

		pool, err := pgxpool.NewWithConfig(ctx, cfg)

		if err != nil {
			return nil, err
		}

		err = pool.Ping(ctx)

		if err != nil {
			pool.Close()
			return nil, err
		}

		return pool, nil
	}
}

// NewPostgresManager leaves Options.Healthy unset: a pgxpool replaces broken connections on its
// own, so a cached pool stays usable across a database restart. A pool is only dropped when a
// failed readiness ping calls Invalidate.
func NewPostgresManager(uri string, maxConns int, timeout time.Duration) *Manager[*pgxpool.Pool] {
	return NewManager(PostgresDialer(uri, maxConns, timeout), Options[*pgxpool.Pool]{
		Name:  "postgres",
		Close: func(p *pgxpool.Pool) { p.Close() },
	})
}
