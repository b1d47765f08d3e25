package repo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/adam2504/devevent/internal/config"
	"github.com/adam2504/devevent/internal/db"
	"github.com/adam2504/devevent/internal/domain/booking"
	"github.com/adam2504/devevent/internal/domain/event"
	"github.com/adam2504/devevent/internal/observability"
	"github.com/adam2504/devevent/internal/repo/memory"
	"github.com/adam2504/devevent/internal/repo/mongodb"
	"github.com/adam2504/devevent/internal/repo/postgres"
)

var ErrUnsupportedScheme = errors.New("unsupported database uri scheme")

type EventsRepository interface {
	Insert(ctx context.Context, e event.Event) error
	Update(ctx context.Context, e event.Event) error
	GetByID(ctx context.Context, id string) (event.Event, error)
	GetBySlug(ctx context.Context, slug string) (event.Event, error)
	List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type BookingsRepository interface {
	Insert(ctx context.Context, b booking.Booking) error
	ListByEvent(ctx context.Context, eventID string) ([]booking.Booking, error)
}

// Backend is one opened store: its repositories plus lifecycle hooks.
type Backend struct {
	Name         string
	Events       EventsRepository
	Bookings     BookingsRepository
	EnsureSchema func(ctx context.Context) error
	Ping         func(ctx context.Context) error
	Close        func()
}

// Open picks the store from the scheme of cfg.DatabaseURI. Nothing is dialed here; the first
// repository call (or EnsureSchema/Ping) connects through the shared manager.
func Open(cfg config.Config, prom *observability.Prom) (*Backend, error) {
	u, err := url.Parse(cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("parse database uri: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		mgr := db.NewPostgresManager(cfg.DatabaseURI, cfg.DBMaxConns, cfg.ConnectTimeout)
		s := postgres.NewStore(mgr, prom)

		return &Backend{
			Name:         "postgres",
			Events:       s.Events,
			Bookings:     s.Bookings,
			EnsureSchema: s.EnsureSchema,
			Ping:         s.Ping,
			Close:        s.Close,
		}, nil

	case "mongodb", "mongodb+srv":
		mgr := db.NewMongoManager(cfg.DatabaseURI, cfg.DBMaxConns, cfg.ConnectTimeout)
		s := mongodb.NewStore(mgr, cfg.DBName, prom)

		return &Backend{
			Name:         "mongo",
			Events:       s.Events,
			Bookings:     s.Bookings,
			EnsureSchema: s.EnsureSchema,
			Ping:         s.Ping,
			Close:        s.Close,
		}, nil

	case "memory":
		return NewMemory(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
}

// NewMemory returns a process-local backend. DATABASE_URI=memory:// selects it.
func NewMemory() *Backend {
	noop := func(context.Context) error { return nil }

	return &Backend{
		Name:         "memory",
		Events:       memory.NewEventsRepo(),
		Bookings:     memory.NewBookingsRepo(),
		EnsureSchema: noop,
		Ping:         noop,
		Close:        func() {},
	}
}
