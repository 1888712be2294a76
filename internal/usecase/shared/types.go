package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side reads. Richer views live in queries.

type BookingSnapshot struct {
	ID        uuid.UUID
	Kind      string
	RoomID    uuid.UUID
	RoomName  string
	StaffID   uuid.UUID
	StaffName string
	ClientID  *uuid.UUID
	StartsAt  time.Time
	EndsAt    time.Time
	Status    string
}

type RoomSnapshot struct {
	ID     uuid.UUID
	SiteID uuid.UUID
	Name   string
}

type StaffSnapshot struct {
	ID        uuid.UUID
	Name      string
	RateCents int64
	Active    bool
}
