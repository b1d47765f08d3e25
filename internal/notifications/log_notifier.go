package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier writes confirmations to the log instead of sending mail.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendBookingConfirmation(ctx context.Context, in BookingConfirmation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "notification.booking_confirmation",
		"email", in.Email,
		"booking_id", in.BookingID,
		"event_id", in.EventID,
		"event_title", in.EventTitle,
		"event_date", in.EventDate,
		"event_time", in.EventTime,
	)
	return nil
}
