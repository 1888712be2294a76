package commands

import (
	"context"
	"encoding/json"
	"time"

	"fitbook/internal/domain/booking"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"
)

// Domain fact topics handed to external collaborators (notification dispatch,
// calendar sync) through the outbox after commit. Delivery is at-least-once;
// consumers must be idempotent.
const (
	TopicBookingCreated      = "booking_created"
	TopicBookingMoved        = "booking_moved"
	TopicBookingCancelled    = "booking_cancelled"
	TopicOccurrenceGenerated = "occurrence_generated"
)

// factPayload carries the full post-mutation snapshot of the interval.
type factPayload struct {
	BookingID     string  `json:"booking_id"`
	Kind          string  `json:"kind"`
	RoomID        string  `json:"room_id"`
	StaffID       string  `json:"staff_id"`
	ClientID      *string `json:"client_id,omitempty"`
	TemplateID    *string `json:"template_id,omitempty"`
	StartsAt      string  `json:"starts_at"`
	EndsAt        string  `json:"ends_at"`
	TimeZone      string  `json:"timezone"`
	Status        string  `json:"status"`
	CancelledLate bool    `json:"cancelled_late,omitempty"`
	PreviousStart *string `json:"previous_starts_at,omitempty"`
	PreviousEnd   *string `json:"previous_ends_at,omitempty"`
}

// enqueueFact inserts the fact into the outbox inside the same transaction.
// Unlike audit writes, an outbox failure aborts the mutation: losing a fact
// silently would break the at-least-once contract.
func enqueueFact(ctx context.Context, tx shared.Tx, topic string, b *booking.Booking, prev *booking.TimeSlot) error {
	p := factPayload{
		BookingID:     b.ID().String(),
		Kind:          string(b.Kind()),
		RoomID:        b.RoomID().String(),
		StaffID:       b.StaffID().String(),
		StartsAt:      b.Slot().Start().Format(time.RFC3339),
		EndsAt:        b.Slot().End().Format(time.RFC3339),
		TimeZone:      b.TimeZone(),
		Status:        string(b.Status()),
		CancelledLate: b.CancelledLate(),
	}
	if b.ClientID() != nil {
		s := b.ClientID().String()
		p.ClientID = &s
	}
	if b.TemplateID() != nil {
		s := b.TemplateID().String()
		p.TemplateID = &s
	}
	if prev != nil {
		ps := prev.Start().Format(time.RFC3339)
		pe := prev.End().Format(time.RFC3339)
		p.PreviousStart = &ps
		p.PreviousEnd = &pe
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return errs.Wrap(err, "failed to marshal domain fact")
	}
	return tx.Outbox().Enqueue(ctx, topic, payload)
}
