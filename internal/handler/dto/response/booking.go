package response

import (
	"time"

	"fitbook/internal/usecase/commands"
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	Kind          string     `json:"kind"`
	RoomID        uuid.UUID  `json:"room_id"`
	StaffID       uuid.UUID  `json:"staff_id"`
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	CreditsSpent  int32      `json:"credits_spent"`
	CancelledLate bool       `json:"cancelled_late"`
}

func FromBookingResult(r *commands.BookingResult) *BookingResponse {
	return &BookingResponse{
		ID:            r.ID,
		Kind:          string(r.Kind),
		RoomID:        r.RoomID,
		StaffID:       r.StaffID,
		ClientID:      r.ClientID,
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
		Status:        string(r.Status),
		Notes:         r.Notes,
		CreditsSpent:  r.CreditsSpent,
		CancelledLate: r.CancelledLate,
	}
}

// BookingViewResponse is the richer read-side projection with resolved names.
type BookingViewResponse = queries.BookingView
