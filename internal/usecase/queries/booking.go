package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type BookingView struct {
	ID            uuid.UUID  `json:"id"`
	Kind          string     `json:"kind"`
	RoomID        uuid.UUID  `json:"room_id"`
	RoomName      string     `json:"room_name"`
	StaffID       uuid.UUID  `json:"staff_id"`
	StaffName     string     `json:"staff_name"`
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	TemplateID    *uuid.UUID `json:"template_id,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	TimeZone      string     `json:"timezone"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	Capacity      *int32     `json:"capacity,omitempty"`
	CreditsSpent  int32      `json:"credits_spent"`
	CancelledLate bool       `json:"cancelled_late"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	// ListForRoom returns non-deleted intervals of a room inside [from, to),
	// ordered by start.
	ListForRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*BookingView, error)
	ListForClient(ctx context.Context, clientID uuid.UUID, from time.Time) ([]*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListRoomSchedule(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*BookingView, error)
	ListClientBookings(ctx context.Context, clientID uuid.UUID, from time.Time) ([]*BookingView, error)
}

type bookingQueries struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueries{store: store}
}

func (q *bookingQueries) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *bookingQueries) ListRoomSchedule(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*BookingView, error) {
	return q.store.ListForRoom(ctx, roomID, from, to)
}

func (q *bookingQueries) ListClientBookings(ctx context.Context, clientID uuid.UUID, from time.Time) ([]*BookingView, error) {
	return q.store.ListForClient(ctx, clientID, from)
}
