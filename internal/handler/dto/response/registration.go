package response

import (
	"fitbook/internal/usecase/commands"

	"github.com/google/uuid"
)

type RegistrationResponse struct {
	ID           uuid.UUID `json:"id"`
	BookingID    uuid.UUID `json:"booking_id"`
	ClientID     uuid.UUID `json:"client_id"`
	Status       string    `json:"status"`
	CreditsSpent int32     `json:"credits_spent"`
}

func FromRegistrationResult(r *commands.RegistrationResult) *RegistrationResponse {
	return &RegistrationResponse{
		ID:           r.ID,
		BookingID:    r.BookingID,
		ClientID:     r.ClientID,
		Status:       string(r.Status),
		CreditsSpent: r.CreditsSpent,
	}
}
