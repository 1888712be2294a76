//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fitbook/internal/domain/audit"
	"fitbook/internal/domain/booking"
	"fitbook/internal/domain/credit"
	"fitbook/internal/domain/schedule"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory unit of work. Within runs the callback directly against shared
// state, so a returned error leaves whatever the callback already wrote; tests
// that assert rollback semantics check that the command fails before writing.

type fakeUoW struct {
	tx *fakeTx
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{tx: &fakeTx{
		locks:     &fakeLocker{},
		bookings:  newFakeBookingRepo(),
		regs:      newFakeRegistrationRepo(),
		templates: &fakeTemplateRepo{},
		passes:    newFakePassRepo(),
		audit:     &fakeAuditRepo{},
		outbox:    &fakeOutbox{},
		payouts:   newFakePayoutRepo(),
		pricing:   newFakePricingRepo(),
		reads:     newFakeReads(),
	}}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads shared.CommandReads) error) error {
	return fn(ctx, u.tx.reads)
}

func (u *fakeUoW) CommandReads() shared.CommandReads { return u.tx.reads }

type fakeTx struct {
	locks     *fakeLocker
	bookings  *fakeBookingRepo
	regs      *fakeRegistrationRepo
	templates *fakeTemplateRepo
	passes    *fakePassRepo
	audit     *fakeAuditRepo
	outbox    *fakeOutbox
	payouts   *fakePayoutRepo
	pricing   *fakePricingRepo
	reads     *fakeReads
}

func (t *fakeTx) Locks() shared.ResourceLocker                 { return t.locks }
func (t *fakeTx) Bookings() shared.BookingRepository           { return t.bookings }
func (t *fakeTx) Registrations() shared.RegistrationRepository { return t.regs }
func (t *fakeTx) Templates() shared.TemplateRepository         { return t.templates }
func (t *fakeTx) Passes() shared.PassRepository                { return t.passes }
func (t *fakeTx) Audit() shared.AuditRepository                { return t.audit }
func (t *fakeTx) Outbox() shared.OutboxRepository              { return t.outbox }
func (t *fakeTx) Payouts() shared.PayoutRepository             { return t.payouts }
func (t *fakeTx) Pricing() shared.PricingRepository            { return t.pricing }
func (t *fakeTx) Reads() shared.CommandReads                   { return t.reads }

type fakeLocker struct {
	acquired []string
	err      error
}

func (l *fakeLocker) Acquire(_ context.Context, kind booking.ResourceKind, id uuid.UUID) error {
	if l.err != nil {
		return l.err
	}
	l.acquired = append(l.acquired, fmt.Sprintf("%s:%s", kind, id))
	return nil
}

type fakeBookingRepo struct {
	byID        map[uuid.UUID]*booking.Booking
	occurrences map[string]uuid.UUID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		byID:        make(map[uuid.UUID]*booking.Booking),
		occurrences: make(map[string]uuid.UUID),
	}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	r.byID[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if _, ok := r.byID[b.ID()]; !ok {
		return errs.Mark(errs.Errorf("booking %s", b.ID()), errs.ErrBookingNotFound)
	}
	r.byID[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, errs.Mark(errs.Errorf("booking %s", id), errs.ErrBookingNotFound)
	}
	return b, nil
}

func (r *fakeBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookingRepo) FindOverlap(_ context.Context, kind booking.ResourceKind, resourceID uuid.UUID, slot booking.TimeSlot, excludeID *uuid.UUID) (*shared.OverlapRow, error) {
	ids := make([]uuid.UUID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		b := r.byID[id]
		if excludeID != nil && b.ID() == *excludeID {
			continue
		}
		if !b.BlocksResources() {
			continue
		}
		switch kind {
		case booking.ResourceRoom:
			if b.RoomID() != resourceID {
				continue
			}
		case booking.ResourceStaff:
			if b.StaffID() != resourceID {
				continue
			}
		default:
			continue
		}
		if b.Slot().Overlaps(slot) {
			return &shared.OverlapRow{
				BookingID: b.ID(),
				StartsAt:  b.Slot().Start(),
				EndsAt:    b.Slot().End(),
			}, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) InsertOccurrence(ctx context.Context, b *booking.Booking) (bool, error) {
	key := fmt.Sprintf("%s|%d", b.TemplateID(), b.Slot().Start().Unix())
	if _, ok := r.occurrences[key]; ok {
		return false, nil
	}
	r.occurrences[key] = b.ID()
	return true, r.Create(ctx, b)
}

type fakeRegistrationRepo struct {
	byID map[uuid.UUID]*booking.Registration
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{byID: make(map[uuid.UUID]*booking.Registration)}
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *booking.Registration) error {
	r.byID[reg.ID()] = reg
	return nil
}

func (r *fakeRegistrationRepo) Update(_ context.Context, reg *booking.Registration) error {
	if _, ok := r.byID[reg.ID()]; !ok {
		return errs.Mark(errs.Errorf("registration %s", reg.ID()), errs.ErrRegistrationNotFound)
	}
	r.byID[reg.ID()] = reg
	return nil
}

func (r *fakeRegistrationRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Registration, error) {
	reg, ok := r.byID[id]
	if !ok {
		return nil, errs.Mark(errs.Errorf("registration %s", id), errs.ErrRegistrationNotFound)
	}
	return reg, nil
}

func (r *fakeRegistrationRepo) FindNonCancelled(_ context.Context, clientID, bookingID uuid.UUID) (*booking.Registration, error) {
	for _, reg := range r.byID {
		if reg.ClientID() == clientID && reg.BookingID() == bookingID && reg.Status() != booking.RegistrationCancelled {
			return reg, nil
		}
	}
	return nil, nil
}

func (r *fakeRegistrationRepo) CountBooked(_ context.Context, bookingID uuid.UUID) (int32, error) {
	var n int32
	for _, reg := range r.byID {
		if reg.BookingID() == bookingID && reg.Status() == booking.RegistrationBooked {
			n++
		}
	}
	return n, nil
}

func (r *fakeRegistrationRepo) EarliestWaitlisted(_ context.Context, bookingID uuid.UUID) (*booking.Registration, error) {
	var head *booking.Registration
	for _, reg := range r.byID {
		if reg.BookingID() != bookingID || reg.Status() != booking.RegistrationWaitlist {
			continue
		}
		if head == nil || reg.BookedAt().Before(head.BookedAt()) ||
			(reg.BookedAt().Equal(head.BookedAt()) && reg.ID().String() < head.ID().String()) {
			head = reg
		}
	}
	return head, nil
}

type fakeTemplateRepo struct {
	templates []*schedule.Template
}

func (r *fakeTemplateRepo) FindByID(_ context.Context, id uuid.UUID) (*schedule.Template, error) {
	for _, t := range r.templates {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, errs.Mark(errs.Errorf("template %s", id), errs.ErrTemplateNotFound)
}

func (r *fakeTemplateRepo) ListActive(_ context.Context) ([]*schedule.Template, error) {
	var out []*schedule.Template
	for _, t := range r.templates {
		if t.Active() {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakePassRepo struct {
	byID map[uuid.UUID]*credit.Pass
}

func newFakePassRepo() *fakePassRepo {
	return &fakePassRepo{byID: make(map[uuid.UUID]*credit.Pass)}
}

func (r *fakePassRepo) add(p *credit.Pass) { r.byID[p.ID()] = p }

func (r *fakePassRepo) ListActiveForUpdate(_ context.Context, clientID uuid.UUID) ([]*credit.Pass, error) {
	var out []*credit.Pass
	for _, p := range r.byID {
		if p.ClientID() == clientID && p.Status() == credit.StatusActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().String() < out[j].ID().String() })
	return out, nil
}

func (r *fakePassRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*credit.Pass, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, errs.Errorf("pass %s not found", id)
	}
	return p, nil
}

func (r *fakePassRepo) UpdateBalance(_ context.Context, p *credit.Pass) error {
	r.byID[p.ID()] = p
	return nil
}

type fakeAuditRepo struct {
	entries []*audit.Entry
}

func (r *fakeAuditRepo) Insert(_ context.Context, e *audit.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

type enqueuedFact struct {
	topic   string
	payload []byte
}

type fakeOutbox struct {
	facts []enqueuedFact
}

func (o *fakeOutbox) Enqueue(_ context.Context, topic string, payload []byte) error {
	o.facts = append(o.facts, enqueuedFact{topic: topic, payload: payload})
	return nil
}

type fakePayoutRepo struct {
	sessions []shared.SessionHours
	inserted map[string]shared.Payout
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{inserted: make(map[string]shared.Payout)}
}

func (r *fakePayoutRepo) AttendedSessions(_ context.Context, _ string) ([]shared.SessionHours, error) {
	return r.sessions, nil
}

func (r *fakePayoutRepo) Insert(_ context.Context, p shared.Payout) (bool, error) {
	key := p.StaffID.String() + "|" + p.Period
	if _, ok := r.inserted[key]; ok {
		return false, nil
	}
	r.inserted[key] = p
	return true, nil
}

type fakePricingRepo struct {
	credits map[booking.Kind]int32
}

func newFakePricingRepo() *fakePricingRepo {
	return &fakePricingRepo{credits: make(map[booking.Kind]int32)}
}

func (r *fakePricingRepo) CreditsFor(_ context.Context, kind booking.Kind, _ *uuid.UUID) (int32, error) {
	c, ok := r.credits[kind]
	if !ok {
		return 0, errs.Mark(errs.Errorf("no pricing for %q", kind), errs.ErrMissingPricing)
	}
	return c, nil
}

type fakeReads struct {
	rooms   map[uuid.UUID]*shared.RoomSnapshot
	staff   map[uuid.UUID]*shared.StaffSnapshot
	clients map[uuid.UUID]string
}

func newFakeReads() *fakeReads {
	return &fakeReads{
		rooms:   make(map[uuid.UUID]*shared.RoomSnapshot),
		staff:   make(map[uuid.UUID]*shared.StaffSnapshot),
		clients: make(map[uuid.UUID]string),
	}
}

func (r *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	return nil, errs.Mark(errs.Errorf("booking %s", id), errs.ErrBookingNotFound)
}

func (r *fakeReads) RoomByID(_ context.Context, id uuid.UUID) (*shared.RoomSnapshot, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, errs.Errorf("room %s not found", id)
	}
	return room, nil
}

func (r *fakeReads) StaffByID(_ context.Context, id uuid.UUID) (*shared.StaffSnapshot, error) {
	s, ok := r.staff[id]
	if !ok {
		return nil, errs.Errorf("staff %s not found", id)
	}
	return s, nil
}

func (r *fakeReads) ClientName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := r.clients[id]
	if !ok {
		return "", errs.Errorf("client %s not found", id)
	}
	return name, nil
}

func mustSlot(start time.Time, d time.Duration) booking.TimeSlot {
	ts, err := booking.NewTimeSlot(start, start.Add(d))
	if err != nil {
		panic(err)
	}
	return ts
}
