package memory

import (
	"context"
	"sync"

	"github.com/adam2504/devevent/internal/domain/booking"
)

type BookingsRepo struct {
	mu    sync.RWMutex
	items []booking.Booking
}

func NewBookingsRepo() *BookingsRepo {
	return &BookingsRepo{}
}

func (r *BookingsRepo) Insert(_ context.Context, b booking.Booking) error {
	r.mu.Lock()
	r.items = append(r.items, b)
	r.mu.Unlock()

	return nil
}

// ListByEvent returns bookings in insertion order.
func (r *BookingsRepo) ListByEvent(_ context.Context, eventID string) ([]booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]booking.Booking, 0)
	for _, b := range r.items {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}

	return out, nil
}

func (r *BookingsRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
