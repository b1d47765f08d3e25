package event

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateEventRequest) Event {
	now := time.Now().UTC()

	return Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Overview:    req.Overview,
		Image:       req.Image,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        Mode(req.Mode),
		Audience:    req.Audience,
		Agenda:      req.Agenda,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyUpdate returns current with every caller-owned field replaced. Identity, slug and
// timestamps are left as they are.
func ApplyUpdate(current Event, req UpdateEventRequest) Event {
	next := current

	next.Title = req.Title
	next.Description = req.Description
	next.Overview = req.Overview
	next.Image = req.Image
	next.Venue = req.Venue
	next.Location = req.Location
	next.Date = req.Date
	next.Time = req.Time
	next.Mode = Mode(req.Mode)
	next.Audience = req.Audience
	next.Agenda = req.Agenda
	next.Organizer = req.Organizer
	next.Tags = req.Tags

	return next
}
