package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/adam2504/devevent/internal/cache"
	"github.com/adam2504/devevent/internal/domain/event"
	"github.com/adam2504/devevent/internal/observability"
	"github.com/adam2504/devevent/internal/validation"
	"go.opentelemetry.io/otel/attribute"
)

type EventStore interface {
	Insert(ctx context.Context, e event.Event) error
	Update(ctx context.Context, e event.Event) error
	GetByID(ctx context.Context, id string) (event.Event, error)
	GetBySlug(ctx context.Context, slug string) (event.Event, error)
	List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type Events struct {
	store EventStore
	cache cache.Store
	prom  *observability.Prom
	log   *slog.Logger
}

func NewEvents(store EventStore, c cache.Store, prom *observability.Prom, log *slog.Logger) *Events {
	if log == nil {
		log = slog.Default()
	}

	return &Events{store: store, cache: c, prom: prom, log: log}
}

// Create validates a new event and stores it. Two creates racing for the same slug are settled
// by the store's unique index; the loser gets event.ErrDuplicateSlug.
func (s *Events) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	ctx, span := observability.StartSpan(ctx, "events.create")
	defer span.End()

	e, err := validation.ValidateAndNormalizeEvent(event.NewFromCreateRequest(req), validation.NewEventChanges())
	if err != nil {
		s.prom.ObserveCommit("event", commitResult(err))
		return event.Event{}, err
	}

	span.SetAttributes(attribute.String("event.slug", e.Slug))

	if err := s.store.Insert(ctx, e); err != nil {
		s.prom.ObserveCommit("event", commitResult(err))
		return event.Event{}, err
	}

	s.prom.ObserveCommit("event", "ok")
	s.log.InfoContext(ctx, "event created", "event_id", e.ID, "slug", e.Slug)

	return e, nil
}

// Update replaces the caller-owned fields of an event. Slug, date and time are re-derived only
// when their source field changed.
func (s *Events) Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
	ctx, span := observability.StartSpan(ctx, "events.update")
	defer span.End()

	current, err := s.Get(ctx, id)
	if err != nil {
		return event.Event{}, err
	}

	next := event.ApplyUpdate(current, req)

	e, err := validation.ValidateAndNormalizeEvent(next, validation.DiffEvent(current, next))
	if err != nil {
		s.prom.ObserveCommit("event", commitResult(err))
		return event.Event{}, err
	}

	e.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, e); err != nil {
		s.prom.ObserveCommit("event", commitResult(err))
		return event.Event{}, err
	}

	s.prom.ObserveCommit("event", "ok")
	s.forget(ctx, current.Slug, e.Slug)

	return e, nil
}

func (s *Events) Get(ctx context.Context, id string) (event.Event, error) {
	if !validation.IsIdentity(id) {
		return event.Event{}, event.ErrNotFound
	}

	return s.store.GetByID(ctx, id)
}

// GetBySlug reads through the cache. Cached copies are dropped on update and delete.
func (s *Events) GetBySlug(ctx context.Context, slug string) (event.Event, error) {
	key := cache.EventSlugKey(slug)

	if raw, ok := s.cache.Get(ctx, key); ok {
		var e event.Event
		if err := json.Unmarshal(raw, &e); err == nil {
			return e, nil
		}
		s.cache.Delete(ctx, key)
	}

	e, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return event.Event{}, err
	}

	if raw, err := json.Marshal(e); err == nil {
		s.cache.Set(ctx, key, raw)
	}

	return e, nil
}

func (s *Events) List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error) {
	return s.store.List(ctx, filter)
}

func (s *Events) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.forget(ctx, current.Slug)
	s.log.InfoContext(ctx, "event deleted", "event_id", id)

	return nil
}

func (s *Events) forget(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, cache.EventSlugKey(slug))
	}

	s.cache.Delete(ctx, keys...)
}

func commitResult(err error) string {
	var verr validation.Errors

	switch {
	case errors.Is(err, validation.ErrDanglingEventReference):
		return "dangling"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, event.ErrDuplicateSlug):
		return "conflict"
	default:
		return "error"
	}
}
