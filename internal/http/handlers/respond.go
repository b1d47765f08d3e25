package handlers

import (
	"errors"
	"net/http"

	"github.com/adam2504/devevent/internal/db"
	"github.com/adam2504/devevent/internal/domain/event"
	"github.com/adam2504/devevent/internal/validation"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

func RespondUnavailable(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusServiceUnavailable, "store_unavailable", message, nil)
}

// RespondStoreError maps errors coming back from the service layer. fallback is the message used
// for anything unexpected.
func RespondStoreError(ctx *gin.Context, err error, fallback string) {
	var verrs validation.Errors

	switch {
	case errors.Is(err, validation.ErrDanglingEventReference):
		RespondError(ctx, http.StatusNotFound, "event_not_found", "Referenced event does not exist", nil)
	case errors.As(err, &verrs):
		RespondBadRequest(ctx, "Validation failed", gin.H{"fields": fieldErrors(verrs)})
	case errors.Is(err, event.ErrDuplicateSlug):
		RespondConflict(ctx, "duplicate_slug", "An event with this slug already exists")
	case errors.Is(err, event.ErrNotFound):
		RespondNotFound(ctx, "Event not found")
	case errors.Is(err, db.ErrConnectionFailure):
		RespondUnavailable(ctx, "Store is unavailable")
	default:
		RespondInternal(ctx, fallback)
	}
}

func fieldErrors(verrs validation.Errors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field,
			Rule:    validationRule(fe.Err),
			Message: fe.Err.Error(),
		})
	}

	return out
}

func validationRule(err error) string {
	switch {
	case errors.Is(err, validation.ErrFieldRequired):
		return "required"
	case errors.Is(err, validation.ErrFieldEmpty):
		return "not_empty"
	case errors.Is(err, validation.ErrInvalidEnumValue):
		return "oneof"
	case errors.Is(err, validation.ErrEmptyCollection):
		return "min_items"
	case errors.Is(err, validation.ErrInvalidDateFormat):
		return "date"
	case errors.Is(err, validation.ErrInvalidTimeFormat):
		return "time_format"
	case errors.Is(err, validation.ErrInvalidTimeValues):
		return "time_range"
	case errors.Is(err, validation.ErrInvalidEmailFormat):
		return "email"
	case errors.Is(err, validation.ErrInvalidReferenceFormat):
		return "uuid"
	}

	return "invalid"
}
