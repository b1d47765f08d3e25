package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/adam2504/devevent/internal/domain/event"
	"github.com/adam2504/devevent/internal/validation"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	requestTimeout   = 5 * time.Second
)

type EventsService interface {
	Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error)
	Get(ctx context.Context, id string) (event.Event, error)
	GetBySlug(ctx context.Context, slug string) (event.Event, error)
	List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error)
	Delete(ctx context.Context, id string) error
}

type EventsHandler struct {
	svc EventsService
}

func NewEventsHandler(svc EventsService) *EventsHandler {
	return &EventsHandler{svc: svc}
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	e, err := h.svc.Create(cctx, req)
	if err != nil {
		RespondStoreError(ctx, err, "Could not create event")
		return
	}

	ctx.Header("Location", "/api/events/"+e.ID)
	ctx.JSON(http.StatusCreated, e)
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	limit, ok := queryInt(ctx, "limit", defaultPageLimit)
	if !ok || limit < 1 || limit > maxPageLimit {
		RespondBadRequest(ctx, "limit must be between 1 and "+strconv.Itoa(maxPageLimit), nil)
		return
	}

	offset, ok := queryInt(ctx, "offset", 0)
	if !ok || offset < 0 {
		RespondBadRequest(ctx, "offset must be a non-negative integer", nil)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	events, total, err := h.svc.List(cctx, event.ListEventsFilter{Limit: limit, Offset: offset})
	if err != nil {
		RespondStoreError(ctx, err, "Could not list events")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":  events,
		"count":  len(events),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *EventsHandler) GetEventById(ctx *gin.Context) {
	id := ctx.Param("id")

	if !validation.IsIdentity(id) {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	e, err := h.svc.Get(cctx, id)
	if err != nil {
		RespondStoreError(ctx, err, "Could not fetch event")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, e)
}

func (h *EventsHandler) GetEventBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	e, err := h.svc.GetBySlug(cctx, slug)
	if err != nil {
		RespondStoreError(ctx, err, "Could not fetch event")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, e)
}

func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	if !validation.IsIdentity(id) {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	var req event.UpdateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	e, err := h.svc.Update(cctx, id, req)
	if err != nil {
		RespondStoreError(ctx, err, "Could not update event")
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *EventsHandler) DeleteEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	if !validation.IsIdentity(id) {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Delete(cctx, id); err != nil {
		RespondStoreError(ctx, err, "Could not delete event")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// queryInt reads an optional integer query parameter. ok is false when the value is present but
// not a number.
func queryInt(ctx *gin.Context, key string, fallback int) (int, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return n, true
}
