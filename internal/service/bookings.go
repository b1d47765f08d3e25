package service

import (
	"context"
	"log/slog"

	"github.com/adam2504/devevent/internal/domain/booking"
	"github.com/adam2504/devevent/internal/domain/event"
	"github.com/adam2504/devevent/internal/notifications"
	"github.com/adam2504/devevent/internal/observability"
	"github.com/adam2504/devevent/internal/validation"
)

type BookingStore interface {
	Insert(ctx context.Context, b booking.Booking) error
	ListByEvent(ctx context.Context, eventID string) ([]booking.Booking, error)
}

// BookingEvents is the read side of the event store that bookings need.
type BookingEvents interface {
	validation.EventLookup
	GetByID(ctx context.Context, id string) (event.Event, error)
}

type Bookings struct {
	store    BookingStore
	events   BookingEvents
	notifier notifications.Notifier
	prom     *observability.Prom
	log      *slog.Logger
}

// NewBookings wires the booking commit path. A nil notifier sends no confirmations.
func NewBookings(store BookingStore, events BookingEvents, notifier notifications.Notifier, prom *observability.Prom, log *slog.Logger) *Bookings {
	if log == nil {
		log = slog.Default()
	}

	return &Bookings{store: store, events: events, notifier: notifier, prom: prom, log: log}
}

// Create books email onto the event. The event must exist when the booking is committed.
func (s *Bookings) Create(ctx context.Context, eventID string, req booking.CreateBookingRequest) (booking.Booking, error) {
	ctx, span := observability.StartSpan(ctx, "bookings.create")
	defer span.End()

	// the URL param is the source of truth
	req.EventID = eventID

	b, err := validation.ValidateAndNormalizeBooking(ctx, booking.NewFromCreateRequest(req), s.events)
	if err != nil {
		s.prom.ObserveCommit("booking", commitResult(err))
		return booking.Booking{}, err
	}

	if err := s.store.Insert(ctx, b); err != nil {
		s.prom.ObserveCommit("booking", commitResult(err))
		return booking.Booking{}, err
	}

	s.prom.ObserveCommit("booking", "ok")
	s.log.InfoContext(ctx, "booking created", "booking_id", b.ID, "event_id", b.EventID)

	s.confirm(ctx, b)

	return b, nil
}

// confirm is best effort: the booking is already committed, so failures are only logged.
func (s *Bookings) confirm(ctx context.Context, b booking.Booking) {
	if s.notifier == nil {
		return
	}

	in := notifications.BookingConfirmation{
		Email:     b.Email,
		BookingID: b.ID,
		EventID:   b.EventID,
	}

	if e, err := s.events.GetByID(ctx, b.EventID); err == nil {
		in.EventTitle = e.Title
		in.EventDate = e.Date
		in.EventTime = e.Time
	}

	if err := s.notifier.SendBookingConfirmation(ctx, in); err != nil {
		s.log.WarnContext(ctx, "booking confirmation failed", "booking_id", b.ID, "err", err)
	}
}

func (s *Bookings) ListForEvent(ctx context.Context, eventID string) ([]booking.Booking, error) {
	id, err := validation.NormalizeIdentity(eventID)
	if err != nil {
		return nil, event.ErrNotFound
	}

	exists, err := s.events.Exists(ctx, id)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, event.ErrNotFound
	}

	return s.store.ListByEvent(ctx, id)
}
