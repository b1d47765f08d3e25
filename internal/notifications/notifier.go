package notifications

import "context"

type BookingConfirmation struct {
	Email      string
	BookingID  string
	EventID    string
	EventTitle string
	EventDate  string
	EventTime  string
}

// Notifier delivers booking confirmations. Implementations must honour ctx cancellation.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, in BookingConfirmation) error
}
