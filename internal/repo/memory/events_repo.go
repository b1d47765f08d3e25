package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/adam2504/devevent/internal/domain/event"
)

// EventsRepo keeps events in process memory with the same slug uniqueness rule as the real
// stores. Used by tests and local runs without a database.
type EventsRepo struct {
	mu    sync.RWMutex
	items map[string]event.Event
	slugs map[string]string // slug -> id
}

func NewEventsRepo() *EventsRepo {
	return &EventsRepo{
		items: make(map[string]event.Event),
		slugs: make(map[string]string),
	}
}

func (r *EventsRepo) Insert(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slugs[e.Slug]; ok {
		return event.ErrDuplicateSlug
	}

	r.items[e.ID] = clone(e)
	r.slugs[e.Slug] = e.ID

	return nil
}

func (r *EventsRepo) Update(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[e.ID]
	if !ok {
		return event.ErrNotFound
	}

	if owner, taken := r.slugs[e.Slug]; taken && owner != e.ID {
		return event.ErrDuplicateSlug
	}

	delete(r.slugs, current.Slug)
	r.items[e.ID] = clone(e)
	r.slugs[e.Slug] = e.ID

	return nil
}

func (r *EventsRepo) GetByID(_ context.Context, id string) (event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	return clone(e), nil
}

func (r *EventsRepo) GetBySlug(_ context.Context, slug string) (event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.slugs[slug]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	return clone(r.items[id]), nil
}

func (r *EventsRepo) List(_ context.Context, filter event.ListEventsFilter) ([]event.Event, int, error) {
	r.mu.RLock()
	all := make([]event.Event, 0, len(r.items))
	for _, e := range r.items {
		all = append(all, clone(e))
	}
	r.mu.RUnlock()

	// newest first, id as tie breaker
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)

	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}

	return all[start:end], total, nil
}

func (r *EventsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		return event.ErrNotFound
	}

	delete(r.items, id)
	delete(r.slugs, e.Slug)

	return nil
}

func (r *EventsRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[id]
	return ok, nil
}

func clone(e event.Event) event.Event {
	e.Agenda = slices.Clone(e.Agenda)
	e.Tags = slices.Clone(e.Tags)
	return e
}
