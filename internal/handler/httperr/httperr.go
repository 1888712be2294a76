package httperr

import (
	"errors"
	"net/http"
	"time"

	"fitbook/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// ConflictDetail is the wire shape of a scheduling collision.
type ConflictDetail struct {
	ResourceKind string    `json:"resource_kind"`
	ResourceID   string    `json:"resource_id"`
	BookingID    string    `json:"booking_id"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}

// AbortWithDomainError translates booking-core sentinel errors into HTTP
// statuses. 423 marks a lock wait that timed out (retryable); 409 marks a
// real scheduling collision (not retryable as-is).
func AbortWithDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrConflict):
		var detail any
		if d, ok := errs.ConflictDetailOf(err); ok {
			detail = ConflictDetail{
				ResourceKind: d.ResourceKind,
				ResourceID:   d.ResourceID.String(),
				BookingID:    d.BookingID.String(),
				StartsAt:     d.StartsAt,
				EndsAt:       d.EndsAt,
			}
		}
		AbortWithError(c, http.StatusConflict, err, "Requested interval conflicts with an existing booking", detail)
	case errors.Is(err, errs.ErrResourceLocked):
		AbortWithError(c, http.StatusLocked, err, "Resource is busy, retry shortly", nil)
	case errors.Is(err, errs.ErrBookingNotFound):
		AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, errs.ErrRegistrationNotFound):
		AbortWithError(c, http.StatusNotFound, err, "Registration not found", nil)
	case errors.Is(err, errs.ErrTemplateNotFound):
		AbortWithError(c, http.StatusNotFound, err, "Class template not found", nil)
	case errors.Is(err, errs.ErrInvalidInterval):
		AbortWithError(c, http.StatusBadRequest, err, "Invalid time interval", nil)
	case errors.Is(err, errs.ErrTerminalState):
		AbortWithError(c, http.StatusConflict, err, "Booking is in a terminal state", nil)
	case errors.Is(err, errs.ErrAlreadyRegistered):
		AbortWithError(c, http.StatusConflict, err, "Client already registered for this class", nil)
	case errors.Is(err, errs.ErrPolicyViolation):
		AbortWithError(c, http.StatusUnavailableForLegalReasons, err, "Operation violates booking policy", nil)
	case errors.Is(err, errs.ErrInsufficientCredits):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "No credit pass can cover this booking", nil)
	case errors.Is(err, errs.ErrMissingPricing):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "No pricing rule applies to this booking", nil)
	default:
		AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
