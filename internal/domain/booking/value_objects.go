package booking

import (
	"fmt"
	"time"

	"fitbook/internal/pkg/errs"
)

// TimeSlot is a half-open interval [start, end). Instants are normalized to
// UTC on construction; the owning entity keeps the display timezone.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, errs.Mark(
			errs.Errorf("start %s must be before end %s", start, end),
			errs.ErrInvalidInterval,
		)
	}
	return TimeSlot{start: start.UTC(), end: end.UTC()}, nil
}

func (ts TimeSlot) Start() time.Time { return ts.start }
func (ts TimeSlot) End() time.Time   { return ts.end }

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSlot) IsZero() bool {
	return ts.start.IsZero() && ts.end.IsZero()
}

// Overlaps implements the half-open test: [s1,e1) and [s2,e2) overlap iff
// s1 < e2 && s2 < e1. Boundary-touching slots do not overlap.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

// SameDay reports whether both endpoints of the two slots fall on the same
// calendar date in loc. MoveBooking exposes this to the external same-day
// policy check.
func (ts TimeSlot) SameDay(other TimeSlot, loc *time.Location) bool {
	y1, m1, d1 := ts.start.In(loc).Date()
	y2, m2, d2 := other.start.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}
