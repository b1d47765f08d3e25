package postgres

import (
	"context"
	"errors"

	"github.com/adam2504/devevent/internal/domain/event"
	"github.com/adam2504/devevent/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolSource hands out the shared pool. *db.Manager[*pgxpool.Pool] implements it.
type PoolSource interface {
	Acquire(ctx context.Context) (*pgxpool.Pool, error)
}

type EventsRepo struct {
	src  PoolSource
	prom *observability.Prom
}

// constructor function

func NewEventsRepo(src PoolSource, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		src:  src,
		prom: prom,
	}
}

const eventColumns = `id, title, slug, description, overview, image, venue, location, date, time,
	mode, audience, agenda, organizer, tags, created_at, updated_at`

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *EventsRepo) Insert(ctx context.Context, e event.Event) error {
	pool, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}

	err = r.observe("events.insert", func() error {
		_, err := pool.Exec(ctx,
			`INSERT INTO events (`+eventColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
			e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location, e.Date, e.Time,
			string(e.Mode), e.Audience, e.Agenda, e.Organizer, e.Tags, e.CreatedAt, e.UpdatedAt,
		)
		return err
	})

	if isSlugViolation(err) {
		return event.ErrDuplicateSlug
	}

	return err
}

func (r *EventsRepo) Update(ctx context.Context, e event.Event) error {
	pool, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}

	var affected int64

	err = r.observe("events.update", func() error {
		tag, err := pool.Exec(ctx,
			`UPDATE events
			SET title = $2,
				slug = $3,
				description = $4,
				overview = $5,
				image = $6,
				venue = $7,
				location = $8,
				date = $9,
				time = $10,
				mode = $11,
				audience = $12,
				agenda = $13,
				organizer = $14,
				tags = $15,
				updated_at = $16
			WHERE id = $1`,
			e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location, e.Date, e.Time,
			string(e.Mode), e.Audience, e.Agenda, e.Organizer, e.Tags, e.UpdatedAt,
		)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		if isSlugViolation(err) {
			return event.ErrDuplicateSlug
		}
		return err
	}

	// if no rows were updated the id does not exist
	if affected == 0 {
		return event.ErrNotFound
	}

	return nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	return r.getOne(ctx, "events.get_by_id", `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *EventsRepo) GetBySlug(ctx context.Context, slug string) (event.Event, error) {
	return r.getOne(ctx, "events.get_by_slug", `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

func (r *EventsRepo) getOne(ctx context.Context, op, query string, arg string) (event.Event, error) {
	pool, err := r.src.Acquire(ctx)
	if err != nil {
		return event.Event{}, err
	}

	var e event.Event

	err = r.observe(op, func() error {
		e, err = scanEvent(pool.QueryRow(ctx, query, arg))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error) {
	pool, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, 0, err
	}

	// LIMIT NULL means no limit
	var limit any
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	output := make([]event.Event, 0, max(filter.Limit, 0))
	total := 0

	err = r.observe("events.list", func() error {
		rows, err := pool.Query(ctx,
			`SELECT `+eventColumns+`, COUNT(*) OVER() AS total
			FROM events
			ORDER BY created_at DESC, id ASC
			LIMIT $1 OFFSET $2`,
			limit, max(filter.Offset, 0),
		)
		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var e event.Event
			var mode string

			err = rows.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.Venue,
				&e.Location, &e.Date, &e.Time, &mode, &e.Audience, &e.Agenda, &e.Organizer, &e.Tags,
				&e.CreatedAt, &e.UpdatedAt, &total)
			if err != nil {
				return err
			}

			e.Mode = event.Mode(mode)
			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	// COUNT(*) OVER() is absent when the page is past the end
	if len(output) == 0 && filter.Offset > 0 {
		err = r.observe("events.count", func() error {
			return pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&total)
		})
		if err != nil {
			return nil, 0, err
		}
	}

	return output, total, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	pool, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}

	var affected int64

	err = r.observe("events.delete", func() error {
		tag, err := pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return event.ErrNotFound
	}

	return nil
}

func (r *EventsRepo) Exists(ctx context.Context, id string) (bool, error) {
	pool, err := r.src.Acquire(ctx)
	if err != nil {
		return false, err
	}

	var exists bool

	err = r.observe("events.exists", func() error {
		return pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	})

	return exists, err
}

func scanEvent(row pgx.Row) (event.Event, error) {
	var e event.Event
	var mode string

	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.Venue,
		&e.Location, &e.Date, &e.Time, &mode, &e.Audience, &e.Agenda, &e.Organizer, &e.Tags,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return event.Event{}, err
	}

	e.Mode = event.Mode(mode)

	return e, nil
}
