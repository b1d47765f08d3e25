package event

import (
	"errors"
	"time"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeHybrid  Mode = "hybrid"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeOnline, ModeOffline, ModeHybrid:
		return true
	}

	return false
}

type Event struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description" bson:"description"`
	Overview    string    `json:"overview" bson:"overview"`
	Image       string    `json:"image" bson:"image"`
	Venue       string    `json:"venue" bson:"venue"`
	Location    string    `json:"location" bson:"location"`
	Date        string    `json:"date" bson:"date"` // YYYY-MM-DD
	Time        string    `json:"time" bson:"time"` // HH:MM, 24h
	Mode        Mode      `json:"mode" bson:"mode"`
	Audience    string    `json:"audience" bson:"audience"`
	Agenda      []string  `json:"agenda" bson:"agenda"`
	Organizer   string    `json:"organizer" bson:"organizer"`
	Tags        []string  `json:"tags" bson:"tags"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

type ListEventsFilter struct {
	Limit  int
	Offset int
}

var (
	ErrNotFound      = errors.New("event not found")
	ErrDuplicateSlug = errors.New("an event with this slug already exists")
)

// Presence is checked here; shape and normalization are handled by the validation package.
type CreateEventRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Overview    string   `json:"overview" binding:"required"`
	Image       string   `json:"image" binding:"required"`
	Venue       string   `json:"venue" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Time        string   `json:"time" binding:"required"`
	Mode        string   `json:"mode" binding:"required"`
	Audience    string   `json:"audience" binding:"required"`
	Agenda      []string `json:"agenda" binding:"required"`
	Organizer   string   `json:"organizer" binding:"required"`
	Tags        []string `json:"tags" binding:"required"`
}

// a full update payload, every field is replaced.
type UpdateEventRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Overview    string   `json:"overview" binding:"required"`
	Image       string   `json:"image" binding:"required"`
	Venue       string   `json:"venue" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Time        string   `json:"time" binding:"required"`
	Mode        string   `json:"mode" binding:"required"`
	Audience    string   `json:"audience" binding:"required"`
	Agenda      []string `json:"agenda" binding:"required"`
	Organizer   string   `json:"organizer" binding:"required"`
	Tags        []string `json:"tags" binding:"required"`
}
