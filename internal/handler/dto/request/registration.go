package request

import "github.com/google/uuid"

type RegisterRequest struct {
	ClientID uuid.UUID `json:"client_id" binding:"required"`
}
