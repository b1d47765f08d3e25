package handlers

import (
	"context"
	"net/http"

	"github.com/adam2504/devevent/internal/domain/booking"
	"github.com/gin-gonic/gin"
)

type BookingsService interface {
	Create(ctx context.Context, eventID string, req booking.CreateBookingRequest) (booking.Booking, error)
	ListForEvent(ctx context.Context, eventID string) ([]booking.Booking, error)
}

type BookingsHandler struct {
	svc BookingsService
}

func NewBookingsHandler(svc BookingsService) *BookingsHandler {
	return &BookingsHandler{svc: svc}
}

// CreateBooking leaves the event id check to the service so a malformed id is reported as a
// field failure on eventId, like any other invalid booking.
func (h *BookingsHandler) CreateBooking(ctx *gin.Context) {
	var req booking.CreateBookingRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	b, err := h.svc.Create(cctx, ctx.Param("id"), req)
	if err != nil {
		RespondStoreError(ctx, err, "Could not create booking")
		return
	}

	ctx.JSON(http.StatusCreated, b)
}

func (h *BookingsHandler) ListBookings(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	items, err := h.svc.ListForEvent(cctx, ctx.Param("id"))
	if err != nil {
		RespondStoreError(ctx, err, "Could not list bookings")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
