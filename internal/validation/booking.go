package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/adam2504/devevent/internal/domain/booking"
)

// EventLookup answers whether an event with the given identity is stored.
type EventLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type EventLookupFunc func(ctx context.Context, id string) (bool, error)

func (f EventLookupFunc) Exists(ctx context.Context, id string) (bool, error) {
	return f(ctx, id)
}

// ValidateAndNormalizeBooking checks the event reference and email of candidate, then asks
// events whether the referenced event exists. Lookup errors are returned wrapped, unchanged in
// kind, so callers can still match store failures.
func ValidateAndNormalizeBooking(ctx context.Context, candidate booking.Booking, events EventLookup) (booking.Booking, error) {
	out := candidate
	var errs Errors

	switch {
	case candidate.EventID == "":
		errs.add("eventId", ErrFieldRequired)
	default:
		id, err := NormalizeIdentity(candidate.EventID)
		if err != nil {
			errs.add("eventId", err)
		}
		out.EventID = id
	}

	switch {
	case candidate.Email == "":
		errs.add("email", ErrFieldRequired)
	case strings.TrimSpace(candidate.Email) == "":
		errs.add("email", ErrFieldEmpty)
	default:
		email, err := NormalizeEmail(candidate.Email)
		if err != nil {
			errs.add("email", err)
		}
		out.Email = email
	}

	if len(errs) > 0 {
		return booking.Booking{}, errs
	}

	exists, err := events.Exists(ctx, out.EventID)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("check event %s: %w", out.EventID, err)
	}

	if !exists {
		return booking.Booking{}, fieldFailure("eventId", ErrDanglingEventReference)
	}

	return out, nil
}
