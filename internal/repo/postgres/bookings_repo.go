package postgres

import (
	"context"

	"github.com/adam2504/devevent/internal/domain/booking"
	"github.com/adam2504/devevent/internal/observability"
)

type BookingsRepo struct {
	src  PoolSource
	prom *observability.Prom
}

func NewBookingsRepo(src PoolSource, prom *observability.Prom) *BookingsRepo {
	return &BookingsRepo{
		src:  src,
		prom: prom,
	}
}

func (repo *BookingsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {

		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *BookingsRepo) Insert(ctx context.Context, b booking.Booking) error {
	pool, err := repo.src.Acquire(ctx)
	if err != nil {
		return err
	}

	return repo.observe("bookings.insert", func() error {
		_, err := pool.Exec(ctx, `
		INSERT INTO bookings (id, event_id, email, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, b.ID, b.EventID, b.Email, b.CreatedAt, b.UpdatedAt)
		return err
	})
}

func (repo *BookingsRepo) ListByEvent(ctx context.Context, eventID string) ([]booking.Booking, error) {
	pool, err := repo.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]booking.Booking, 0)

	err = repo.observe("bookings.list_by_event", func() error {
		rows, err := pool.Query(ctx, `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`, eventID)
		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var b booking.Booking
			if err := rows.Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
				return err
			}
			out = append(out, b)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
