package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/adam2504/devevent/internal/cache"
	"github.com/adam2504/devevent/internal/domain/booking"
	"github.com/adam2504/devevent/internal/domain/event"
	"github.com/adam2504/devevent/internal/notifications"
	"github.com/adam2504/devevent/internal/repo/memory"
	"github.com/adam2504/devevent/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createReq(title string) event.CreateEventRequest {
	return event.CreateEventRequest{
		Title:       title,
		Description: "desc",
		Overview:    "overview",
		Image:       "/images/event1.png",
		Venue:       "Hall A",
		Location:    "London, UK",
		Date:        "March 20, 2026",
		Time:        "9:00",
		Mode:        "offline",
		Audience:    "Developers",
		Agenda:      []string{"Intro", "Talks"},
		Organizer:   "Vue London",
		Tags:        []string{"vue", "frontend"},
	}
}

func updateReq(from event.CreateEventRequest) event.UpdateEventRequest {
	return event.UpdateEventRequest(from)
}

type fixture struct {
	events   *Events
	bookings *Bookings
	eventsDB *memory.EventsRepo
	bookDB   *memory.BookingsRepo
	cache    *cache.Memory
}

func newFixture() fixture {
	eventsDB := memory.NewEventsRepo()
	bookDB := memory.NewBookingsRepo()
	c := cache.NewMemory(time.Minute)

	return fixture{
		events:   NewEvents(eventsDB, c, nil, quietLogger()),
		bookings: NewBookings(bookDB, eventsDB, nil, nil, quietLogger()),
		eventsDB: eventsDB,
		bookDB:   bookDB,
		cache:    c,
	}
}

func TestEventsCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	e, err := f.events.Create(ctx, createReq("Vue.js London"))
	require.NoError(t, err)

	assert.Equal(t, "vuejs-london", e.Slug)
	assert.Equal(t, "2026-03-20", e.Date)
	assert.Equal(t, "09:00", e.Time)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	stored, err := f.eventsDB.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, stored)
}

func TestEventsCreate_InvalidIsNotStored(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := createReq("Vue.js London")
	req.Time = "24:00"

	_, err := f.events.Create(ctx, req)
	assert.ErrorIs(t, err, validation.ErrInvalidTimeValues)

	_, total, err := f.eventsDB.List(ctx, event.ListEventsFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestEventsCreate_DuplicateSlug(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.events.Create(ctx, createReq("React Conf 2026"))
	require.NoError(t, err)

	_, err = f.events.Create(ctx, createReq("  react   CONF 2026!"))
	assert.ErrorIs(t, err, event.ErrDuplicateSlug)
}

func TestEventsCreate_ConcurrentSameSlug(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	titles := []string{"DevOps Days", "devops days", " DevOps  Days! ", "DEVOPS DAYS", "DevOps-Days"}

	var wg sync.WaitGroup
	errs := make([]error, len(titles))

	for i, title := range titles {
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			_, errs[i] = f.events.Create(ctx, createReq(title))
		}(i, title)
	}
	wg.Wait()

	ok, dup := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, event.ErrDuplicateSlug):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, len(titles)-1, dup)
}

func TestEventsUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.events.Create(ctx, createReq("Angular Connect"))
	require.NoError(t, err)

	t.Run("title change rederives slug", func(t *testing.T) {
		req := createReq("Angular Connect 2026")
		got, err := f.events.Update(ctx, created.ID, updateReq(req))
		require.NoError(t, err)

		assert.Equal(t, "angular-connect-2026", got.Slug)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
		assert.True(t, !got.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("date and time renormalized", func(t *testing.T) {
		req := createReq("Angular Connect 2026")
		req.Date = "September 8, 2026"
		req.Time = "9:30"

		got, err := f.events.Update(ctx, created.ID, updateReq(req))
		require.NoError(t, err)

		assert.Equal(t, "angular-connect-2026", got.Slug)
		assert.Equal(t, "2026-09-08", got.Date)
		assert.Equal(t, "09:30", got.Time)
	})

	t.Run("invalid update leaves record untouched", func(t *testing.T) {
		before, err := f.eventsDB.GetByID(ctx, created.ID)
		require.NoError(t, err)

		req := createReq("Angular Connect 2026")
		req.Mode = "virtual"

		_, err = f.events.Update(ctx, created.ID, updateReq(req))
		assert.ErrorIs(t, err, validation.ErrInvalidEnumValue)

		after, err := f.eventsDB.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.events.Update(ctx, uuid.NewString(), updateReq(createReq("x")))
		assert.ErrorIs(t, err, event.ErrNotFound)
	})

	t.Run("slug taken by another event", func(t *testing.T) {
		_, err := f.events.Create(ctx, createReq("JSWorld Conference"))
		require.NoError(t, err)

		_, err = f.events.Update(ctx, created.ID, updateReq(createReq("JSWorld Conference")))
		assert.ErrorIs(t, err, event.ErrDuplicateSlug)
	})
}

func TestEventsGetBySlug_CachesAndForgets(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.events.Create(ctx, createReq("Python Web Conf"))
	require.NoError(t, err)

	got, err := f.events.GetBySlug(ctx, "python-web-conf")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, cached := f.cache.Get(ctx, cache.EventSlugKey("python-web-conf"))
	assert.True(t, cached)

	_, err = f.events.Update(ctx, created.ID, updateReq(createReq("Python Web Conf 2026")))
	require.NoError(t, err)

	_, cached = f.cache.Get(ctx, cache.EventSlugKey("python-web-conf"))
	assert.False(t, cached)

	_, err = f.events.GetBySlug(ctx, "python-web-conf")
	assert.ErrorIs(t, err, event.ErrNotFound)

	got, err = f.events.GetBySlug(ctx, "python-web-conf-2026")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, f.events.Delete(ctx, created.ID))

	_, err = f.events.GetBySlug(ctx, "python-web-conf-2026")
	assert.ErrorIs(t, err, event.ErrNotFound)
}

func TestEventsGet_MalformedIDIsNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.events.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, event.ErrNotFound)
}

func TestBookingsCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	e, err := f.events.Create(ctx, createReq("React Conf 2026"))
	require.NoError(t, err)

	b, err := f.bookings.Create(ctx, e.ID, booking.CreateBookingRequest{Email: " Grace@Example.COM "})
	require.NoError(t, err)

	assert.Equal(t, e.ID, b.EventID)
	assert.Equal(t, "grace@example.com", b.Email)

	list, err := f.bookings.ListForEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifications.BookingConfirmation
	err  error
}

func (n *recordingNotifier) SendBookingConfirmation(_ context.Context, in notifications.BookingConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sent = append(n.sent, in)
	return n.err
}

func TestBookingsCreate_SendsConfirmation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rec := &recordingNotifier{}
	svc := NewBookings(f.bookDB, f.eventsDB, rec, nil, quietLogger())

	e, err := f.events.Create(ctx, createReq("React Conf 2026"))
	require.NoError(t, err)

	b, err := svc.Create(ctx, e.ID, booking.CreateBookingRequest{Email: "grace@example.com"})
	require.NoError(t, err)

	require.Len(t, rec.sent, 1)
	assert.Equal(t, notifications.BookingConfirmation{
		Email:      "grace@example.com",
		BookingID:  b.ID,
		EventID:    e.ID,
		EventTitle: "React Conf 2026",
		EventDate:  "2026-03-20",
		EventTime:  "09:00",
	}, rec.sent[0])

	// a failing notifier never fails the booking
	rec.err = errors.New("smtp down")
	_, err = svc.Create(ctx, e.ID, booking.CreateBookingRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.bookDB.Count())

	// invalid bookings send nothing
	_, err = svc.Create(ctx, uuid.NewString(), booking.CreateBookingRequest{Email: "ada@example.com"})
	require.Error(t, err)
	assert.Len(t, rec.sent, 2)
}

func TestBookingsCreate_DanglingReferenceNeverPersists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.bookings.Create(ctx, uuid.NewString(), booking.CreateBookingRequest{Email: "a@b.co"})
		assert.ErrorIs(t, err, validation.ErrDanglingEventReference)
	}

	assert.Zero(t, f.bookDB.Count())
}

func TestBookingsCreate_EventDeleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	e, err := f.events.Create(ctx, createReq("React Conf 2026"))
	require.NoError(t, err)
	require.NoError(t, f.events.Delete(ctx, e.ID))

	_, err = f.bookings.Create(ctx, e.ID, booking.CreateBookingRequest{Email: "a@b.co"})
	assert.ErrorIs(t, err, validation.ErrDanglingEventReference)
	assert.Zero(t, f.bookDB.Count())
}

func TestBookingsListForEvent_UnknownEvent(t *testing.T) {
	f := newFixture()

	_, err := f.bookings.ListForEvent(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, event.ErrNotFound)

	_, err = f.bookings.ListForEvent(context.Background(), "bogus")
	assert.ErrorIs(t, err, event.ErrNotFound)
}

func TestCommitResult(t *testing.T) {
	assert.Equal(t, "conflict", commitResult(event.ErrDuplicateSlug))
	assert.Equal(t, "invalid", commitResult(validation.Errors{{Field: "title", Err: validation.ErrFieldRequired}}))
	assert.Equal(t, "dangling", commitResult(validation.Errors{{Field: "eventId", Err: validation.ErrDanglingEventReference}}))
	assert.Equal(t, "error", commitResult(errors.New("boom")))
}
