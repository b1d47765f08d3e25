package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID        string    `json:"id" bson:"_id"`
	EventID   string    `json:"eventId" bson:"event_id"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

var ErrNotFound = errors.New("booking not found")

type CreateBookingRequest struct {
	EventID string `json:"-"`
	Email   string `json:"email" binding:"required"`
}

// A factory to build a Booking from the incoming DTO
func NewFromCreateRequest(req CreateBookingRequest) Booking {
	now := time.Now().UTC()

	return Booking{
		ID:        uuid.NewString(),
		EventID:   req.EventID,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
