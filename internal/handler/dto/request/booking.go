package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	Kind            string     `json:"kind" binding:"required,oneof=individual block class"`
	RoomID          uuid.UUID  `json:"room_id" binding:"required"`
	StaffID         uuid.UUID  `json:"staff_id" binding:"required"`
	ClientID        *uuid.UUID `json:"client_id"`
	StartsAt        time.Time  `json:"starts_at" binding:"required"`
	EndsAt          time.Time  `json:"ends_at" binding:"required"`
	TimeZone        string     `json:"timezone"`
	Notes           string     `json:"notes"`
	Capacity        *int32     `json:"capacity"`
	CreditsRequired *int32     `json:"credits_required"`
}

type MoveBookingRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}

type CancelBookingRequest struct {
	ForceRefund bool   `json:"force_refund"`
	Reason      string `json:"reason"`
}
