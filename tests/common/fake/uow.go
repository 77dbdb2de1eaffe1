//go:build unit

// Package fake provides an in-memory unit of work for command tests. The
// whole transaction runs under one store mutex, which stands in for the
// property row lock: concurrent admissions are serialized the same way.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/domain/payment"
	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/usecase/shared"
)

type NotificationJob struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

// Store is the shared in-memory state behind a fake UnitOfWork.
type Store struct {
	mu sync.Mutex

	Properties map[uuid.UUID]shared.PropertySnapshot
	Admins     map[string]shared.AdminSnapshot
	Overrides  []calendar.Holiday

	bookings     map[uuid.UUID]*booking.Booking
	bookingOrder []uuid.UUID
	payments     map[uuid.UUID]*payment.Payment
	paymentOrder []uuid.UUID

	Jobs     []NotificationJob
	AuditLog []shared.AuditEntry
}

func NewStore() *Store {
	return &Store{
		Properties: map[uuid.UUID]shared.PropertySnapshot{},
		Admins:     map[string]shared.AdminSnapshot{},
		bookings:   map[uuid.UUID]*booking.Booking{},
		payments:   map[uuid.UUID]*payment.Payment{},
	}
}

func (s *Store) AddProperty(id uuid.UUID, name string) {
	s.Properties[id] = shared.PropertySnapshot{ID: id, Name: name, Timezone: "America/Bogota"}
}

// SeedBooking stores a booking directly, bypassing the admission pipeline.
// Re-seeding an existing ID replaces it in place.
func (s *Store) SeedBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID()]; !ok {
		s.bookingOrder = append(s.bookingOrder, b.ID())
	}
	s.bookings[b.ID()] = cloneBooking(b)
}

func (s *Store) SeedPayment(p *payment.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID()] = clonePayment(p)
	s.paymentOrder = append(s.paymentOrder, p.ID())
}

// Booking returns a copy of the stored booking, or nil.
func (s *Store) Booking(id uuid.UUID) *booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil
	}
	return cloneBooking(b)
}

func (s *Store) Payment(id uuid.UUID) *payment.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil
	}
	return clonePayment(p)
}

func (s *Store) Bookings() []*booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*booking.Booking, 0, len(s.bookingOrder))
	for _, id := range s.bookingOrder {
		out = append(out, cloneBooking(s.bookings[id]))
	}
	return out
}

// Entities are cloned on every read and write so command-side mutations only
// become visible through Update, as with a real row round-trip.
func cloneBooking(b *booking.Booking) *booking.Booking {
	return booking.ReconstructBooking(
		b.ID(), b.PropertyID(), b.Stay(), b.Plan(), b.Status(),
		b.GuestCount(), b.Guest(), copyTimePtr(b.ExpiresAt()), copyOverride(b.Override()),
		copyInt64Ptr(b.ManualTotal()), copyUUIDPtr(b.CreatedBy()), b.CreatedAt(), b.UpdatedAt(),
	)
}

func clonePayment(p *payment.Payment) *payment.Payment {
	return payment.ReconstructPayment(
		p.ID(), p.BookingID(), p.Method(), p.Status(), p.Amount(), p.AmountPaid(),
		p.IsPartial(), copyStrPtr(p.GatewayRef()), copyStrPtr(p.EvidenceRef()), copyStrPtr(p.FailCode()),
		p.CreatedAt(), p.UpdatedAt(),
	)
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyInt64Ptr(n *int64) *int64 {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func copyStrPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyUUIDPtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyOverride(o *booking.Override) *booking.Override {
	if o == nil {
		return nil
	}
	v := *o
	v.RulesBypassed = append([]string(nil), o.RulesBypassed...)
	return &v
}

// UoW is the in-memory shared.UnitOfWork.
type UoW struct {
	store *Store
}

func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

func (u *UoW) Within(_ context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(context.Background(), &fakeTx{store: u.store})
}

func (u *UoW) WithinReadOnly(_ context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(context.Background(), nil)
}

func (u *UoW) WithDB(_ context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(context.Background(), nil)
}

func (u *UoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store, locked: false}
}

type fakeTx struct {
	store *Store
}

func (t *fakeTx) Properties() shared.PropertyRepository { return &fakeProperties{store: t.store} }
func (t *fakeTx) Bookings() shared.BookingRepository    { return &fakeBookings{store: t.store} }
func (t *fakeTx) Payments() shared.PaymentRepository    { return &fakePayments{store: t.store} }
func (t *fakeTx) Holidays() shared.HolidayRepository    { return &fakeHolidays{store: t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository {
	return &fakeNotifications{store: t.store}
}
func (t *fakeTx) Audit() shared.AuditRepository { return &fakeAudit{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads    { return &fakeReads{store: t.store, locked: true} }
func (t *fakeTx) DB() db.DBTX                   { return nil }

type fakeProperties struct {
	store *Store
}

func (r *fakeProperties) Lock(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if _, ok := r.store.Properties[id]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "property not found")
	}
	return nil
}

type fakeBookings struct {
	store *Store
}

func (r *fakeBookings) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	r.store.bookings[b.ID()] = cloneBooking(b)
	r.store.bookingOrder = append(r.store.bookingOrder, b.ID())
	return b.ID(), nil
}

func (r *fakeBookings) Update(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	if _, ok := r.store.bookings[b.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	r.store.bookings[b.ID()] = cloneBooking(b)
	return nil
}

func (r *fakeBookings) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	return cloneBooking(b), nil
}

func (r *fakeBookings) FindHolding(_ context.Context, _ db.DBTX, propertyID uuid.UUID, stay booking.StayRange) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, id := range r.store.bookingOrder {
		b := r.store.bookings[id]
		if b.PropertyID() != propertyID || !b.Status().HoldsDates() {
			continue
		}
		// Inclusive superset window, as the SQL fetch; the caller applies
		// the exact overlap predicate.
		if b.Stay().CheckIn().After(stay.CheckOut()) || b.Stay().CheckOut().Before(stay.CheckIn()) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	return out, nil
}

func (r *fakeBookings) ListExpiredPending(_ context.Context, _ db.DBTX, now time.Time) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, id := range r.store.bookingOrder {
		b := r.store.bookings[id]
		if b.Status() == booking.StatusPending && b.ExpiresAt() != nil && b.ExpiresAt().Before(now) {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *fakeBookings) ExpireIfPending(_ context.Context, _ db.DBTX, id uuid.UUID) (bool, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return false, infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	if b.Status() != booking.StatusPending {
		return false, nil
	}
	updated := cloneBooking(b)
	if err := updated.Expire(); err != nil {
		return false, err
	}
	r.store.bookings[id] = updated
	return true, nil
}

type fakePayments struct {
	store *Store
}

func (r *fakePayments) Create(_ context.Context, _ db.DBTX, p *payment.Payment) (uuid.UUID, error) {
	r.store.payments[p.ID()] = clonePayment(p)
	r.store.paymentOrder = append(r.store.paymentOrder, p.ID())
	return p.ID(), nil
}

func (r *fakePayments) Update(_ context.Context, _ db.DBTX, p *payment.Payment) error {
	if _, ok := r.store.payments[p.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "payment not found")
	}
	r.store.payments[p.ID()] = clonePayment(p)
	return nil
}

func (r *fakePayments) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*payment.Payment, error) {
	p, ok := r.store.payments[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "payment not found")
	}
	return clonePayment(p), nil
}

func (r *fakePayments) FindByBookingID(_ context.Context, _ db.DBTX, bookingID uuid.UUID) (*payment.Payment, error) {
	// Latest insert wins, mirroring ORDER BY created_at DESC LIMIT 1.
	for i := len(r.store.paymentOrder) - 1; i >= 0; i-- {
		p := r.store.payments[r.store.paymentOrder[i]]
		if p.BookingID() == bookingID {
			return clonePayment(p), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "payment not found")
}

type fakeHolidays struct {
	store *Store
}

func (r *fakeHolidays) ListOverrides(_ context.Context, _ db.DBTX, year int) ([]calendar.Holiday, error) {
	var out []calendar.Holiday
	for _, h := range r.store.Overrides {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHolidays) CreateOverride(_ context.Context, _ db.DBTX, h calendar.Holiday) error {
	for _, existing := range r.store.Overrides {
		if existing.Date.Equal(h.Date) {
			return infra.NewRepoErr(infra.KindDuplicateKey, "holiday override exists")
		}
	}
	r.store.Overrides = append(r.store.Overrides, h)
	return nil
}

func (r *fakeHolidays) DeleteOverride(_ context.Context, _ db.DBTX, date time.Time) error {
	date = calendar.Normalize(date)
	for i, existing := range r.store.Overrides {
		if existing.Date.Equal(date) {
			r.store.Overrides = append(r.store.Overrides[:i], r.store.Overrides[i+1:]...)
			return nil
		}
	}
	return infra.NewRepoErr(infra.KindNotFound, "holiday override not found")
}

type fakeNotifications struct {
	store *Store
}

func (r *fakeNotifications) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	r.store.Jobs = append(r.store.Jobs, NotificationJob{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}

type fakeAudit struct {
	store *Store
}

func (r *fakeAudit) Append(_ context.Context, _ db.DBTX, entry shared.AuditEntry) error {
	r.store.AuditLog = append(r.store.AuditLog, entry)
	return nil
}

// fakeReads serves CommandReads both inside a transaction (store already
// locked) and outside one.
type fakeReads struct {
	store  *Store
	locked bool
}

func (r *fakeReads) lock() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *fakeReads) PropertyByID(_ context.Context, id uuid.UUID) (*shared.PropertySnapshot, error) {
	defer r.lock()()
	p, ok := r.store.Properties[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "property not found")
	}
	return &p, nil
}

func (r *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	defer r.lock()()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	return &shared.BookingSnapshot{
		ID:          b.ID(),
		PropertyID:  b.PropertyID(),
		CheckIn:     b.Stay().CheckIn(),
		CheckOut:    b.Stay().CheckOut(),
		Plan:        b.Plan().String(),
		Status:      b.Status().String(),
		GuestCount:  b.GuestCount(),
		ExpiresAt:   copyTimePtr(b.ExpiresAt()),
		ManualTotal: copyInt64Ptr(b.ManualTotal()),
	}, nil
}

func (r *fakeReads) PaymentByID(_ context.Context, id uuid.UUID) (*shared.PaymentSnapshot, error) {
	defer r.lock()()
	p, ok := r.store.payments[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "payment not found")
	}
	return paymentSnapshot(p), nil
}

func (r *fakeReads) PaymentByGatewayRef(_ context.Context, ref string) (*shared.PaymentSnapshot, error) {
	defer r.lock()()
	for _, id := range r.store.paymentOrder {
		p := r.store.payments[id]
		if p.GatewayRef() != nil && *p.GatewayRef() == ref {
			return paymentSnapshot(p), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "payment not found")
}

func (r *fakeReads) HolidayOverrides(_ context.Context, year int) ([]calendar.Holiday, error) {
	defer r.lock()()
	var out []calendar.Holiday
	for _, h := range r.store.Overrides {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeReads) AdminByEmail(_ context.Context, email string) (*shared.AdminSnapshot, error) {
	defer r.lock()()
	a, ok := r.store.Admins[email]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "admin not found")
	}
	return &a, nil
}

func paymentSnapshot(p *payment.Payment) *shared.PaymentSnapshot {
	return &shared.PaymentSnapshot{
		ID:          p.ID(),
		BookingID:   p.BookingID(),
		Method:      string(p.Method()),
		Status:      string(p.Status()),
		Amount:      p.Amount(),
		AmountPaid:  p.AmountPaid(),
		IsPartial:   p.IsPartial(),
		GatewayRef:  copyStrPtr(p.GatewayRef()),
		EvidenceRef: copyStrPtr(p.EvidenceRef()),
	}
}
