package schedule

import (
	"time"

	"fitbook/internal/pkg/errs"

	"github.com/google/uuid"
)

// MaxWindowDays caps a template's valid date window.
const MaxWindowDays = 365

var (
	ErrEmptyPattern  = errs.New("weekly pattern is empty")
	ErrWindowTooWide = errs.Errorf("template window exceeds %d days", MaxWindowDays)
	ErrBadSlot       = errs.New("invalid weekly slot")
)

// WeeklySlot is one weekday + local time-of-day entry of the weekly pattern.
// Equivalent to an RFC-5545 RRULE restricted to FREQ=WEEKLY.
type WeeklySlot struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
	Minute  int          `json:"minute"`
}

func (s WeeklySlot) validate() error {
	if s.Weekday < time.Sunday || s.Weekday > time.Saturday {
		return ErrBadSlot
	}
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return ErrBadSlot
	}
	return nil
}

// Template defines a recurring group class. It owns the occurrences it
// generates (1:N, keyed by template id + start instant).
type Template struct {
	id        uuid.UUID
	name      string
	slots     []WeeklySlot
	duration  time.Duration
	capacity  *int32
	roomID    *uuid.UUID
	staffID   *uuid.UUID
	active    bool
	skipDates map[string]struct{} // "2006-01-02" in the template's zone
	validFrom time.Time
	validTo   time.Time
	timeZone  string
}

type TemplateParams struct {
	ID        uuid.UUID
	Name      string
	Slots     []WeeklySlot
	Duration  time.Duration
	Capacity  *int32
	RoomID    *uuid.UUID
	StaffID   *uuid.UUID
	Active    bool
	SkipDates []time.Time
	ValidFrom time.Time
	ValidTo   time.Time
	TimeZone  string
}

func NewTemplate(p TemplateParams) (*Template, error) {
	if len(p.Slots) == 0 {
		return nil, ErrEmptyPattern
	}
	for _, s := range p.Slots {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	if p.Duration <= 0 {
		return nil, errs.New("duration must be positive")
	}
	if p.ValidTo.Before(p.ValidFrom) {
		return nil, errs.New("valid_until before valid_from")
	}
	if p.ValidTo.Sub(p.ValidFrom) > MaxWindowDays*24*time.Hour {
		return nil, ErrWindowTooWide
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return nil, errs.Wrap(err, "invalid template timezone")
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	skip := make(map[string]struct{}, len(p.SkipDates))
	for _, d := range p.SkipDates {
		skip[d.In(loc).Format(time.DateOnly)] = struct{}{}
	}
	return &Template{
		id:        id,
		name:      p.Name,
		slots:     p.Slots,
		duration:  p.Duration,
		capacity:  p.Capacity,
		roomID:    p.RoomID,
		staffID:   p.StaffID,
		active:    p.Active,
		skipDates: skip,
		validFrom: p.ValidFrom,
		validTo:   p.ValidTo,
		timeZone:  p.TimeZone,
	}, nil
}

func (t *Template) ID() uuid.UUID           { return t.id }
func (t *Template) Name() string            { return t.name }
func (t *Template) Slots() []WeeklySlot     { return t.slots }
func (t *Template) Duration() time.Duration { return t.duration }
func (t *Template) Capacity() *int32        { return t.capacity }
func (t *Template) RoomID() *uuid.UUID      { return t.roomID }
func (t *Template) StaffID() *uuid.UUID     { return t.staffID }
func (t *Template) Active() bool            { return t.active }
func (t *Template) TimeZone() string        { return t.timeZone }

// Occurrence is one computed (not yet persisted) class instant.
type Occurrence struct {
	TemplateID uuid.UUID
	StartsAt   time.Time // UTC
	EndsAt     time.Time // UTC
}

// OccurrencesWithin enumerates the concrete instants of this template inside
// [from, from+horizonDays]. Local wall-clock time is preserved across DST
// transitions: an 18:00 slot stays 18:00 local, so the stored UTC instant
// shifts by the zone offset delta rather than a fixed duration.
//
// Enumerating the same window twice yields the same set; the caller's upsert
// plus the (template, start) unique constraint make expansion idempotent.
func (t *Template) OccurrencesWithin(from time.Time, horizonDays int) ([]Occurrence, error) {
	if !t.active {
		return nil, nil
	}
	loc, err := time.LoadLocation(t.timeZone)
	if err != nil {
		return nil, errs.Wrap(err, "invalid template timezone")
	}

	wanted := make(map[time.Weekday][]WeeklySlot)
	for _, s := range t.slots {
		wanted[s.Weekday] = append(wanted[s.Weekday], s)
	}

	start := from.In(loc)
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	var out []Occurrence
	for i := 0; i <= horizonDays; i++ {
		day := startDay.AddDate(0, 0, i)
		slots, ok := wanted[day.Weekday()]
		if !ok {
			continue
		}
		if _, skipped := t.skipDates[day.Format(time.DateOnly)]; skipped {
			continue
		}
		if day.Before(truncateToDay(t.validFrom.In(loc))) || day.After(t.validTo.In(loc)) {
			continue
		}
		for _, s := range slots {
			startsAt := time.Date(day.Year(), day.Month(), day.Day(), s.Hour, s.Minute, 0, 0, loc)
			out = append(out, Occurrence{
				TemplateID: t.id,
				StartsAt:   startsAt.UTC(),
				EndsAt:     startsAt.Add(t.duration).UTC(),
			})
		}
	}
	return out, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
