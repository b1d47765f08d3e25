package postgres

import (
	"context"
	"fmt"

	"github.com/adam2504/devevent/internal/db"
	"github.com/adam2504/devevent/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

// statements are idempotent and run on every start
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		slug        TEXT NOT NULL,
		description TEXT NOT NULL,
		overview    TEXT NOT NULL,
		image       TEXT NOT NULL,
		venue       TEXT NOT NULL,
		location    TEXT NOT NULL,
		date        TEXT NOT NULL,
		time        TEXT NOT NULL,
		mode        TEXT NOT NULL,
		audience    TEXT NOT NULL,
		agenda      TEXT[] NOT NULL,
		organizer   TEXT NOT NULL,
		tags        TEXT[] NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + slugConstraint + ` ON events (slug)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         UUID PRIMARY KEY,
		event_id   UUID NOT NULL,
		email      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_event_id_idx ON bookings (event_id)`,
}

// Store bundles the repositories of one postgres database behind a shared manager.
type Store struct {
	mgr      *db.Manager[*pgxpool.Pool]
	Events   *EventsRepo
	Bookings *BookingsRepo
}

func NewStore(mgr *db.Manager[*pgxpool.Pool], prom *observability.Prom) *Store {
	return &Store{
		mgr:      mgr,
		Events:   NewEventsRepo(mgr, prom),
		Bookings: NewBookingsRepo(mgr, prom),
	}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.mgr.Acquire(ctx)
	if err != nil {
		return err
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// Ping checks the shared pool. A failed ping drops the pool so the next caller reconnects.
func (s *Store) Ping(ctx context.Context) error {
	pool, err := s.mgr.Acquire(ctx)
	if err != nil {
		return err
	}

	if err := pool.Ping(ctx); err != nil {
		s.mgr.Invalidate(pool)
		return fmt.Errorf("%w: %w", db.ErrConnectionFailure, err)
	}

	return nil
}

func (s *Store) Close() {
	s.mgr.Close()
}
