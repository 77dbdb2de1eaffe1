package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPlan      = errors.New("invalid plan")
	ErrInvalidStatus    = errors.New("invalid booking status")
	ErrOverrideNoReason = errors.New("override requires a reason")
)

// Booking is a guest's claim on a property's date range. It is created
// pending (or blocked for maintenance holds) and only the payment state
// machine, the sweep and admin status operations mutate its status.
type Booking struct {
	id         uuid.UUID
	propertyID uuid.UUID
	stay       StayRange
	plan       Plan
	status     Status
	guestCount int
	guest      Guest
	expiresAt  *time.Time
	override   *Override
	// manualTotal, when set, is the sole source of truth for the
	// booking's monetary total and supersedes the rate card.
	manualTotal *int64
	createdBy   *uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

// NewBooking builds a pending booking. Rule validation is the admission
// engine's job; this constructor only guards structural invariants.
func NewBooking(
	propertyID uuid.UUID,
	stay StayRange,
	plan Plan,
	guestCount int,
	guest Guest,
) (*Booking, error) {
	if !plan.IsValid() {
		return nil, ErrInvalidPlan
	}
	return &Booking{
		id:         uuid.New(),
		propertyID: propertyID,
		stay:       stay,
		plan:       plan,
		status:     StatusPending,
		guestCount: guestCount,
		guest:      guest,
	}, nil
}

// NewBlock builds a maintenance hold: a zero-guest booking that occupies its
// dates without a commercial plan behind it.
func NewBlock(propertyID uuid.UUID, stay StayRange) *Booking {
	return &Booking{
		id:         uuid.New(),
		propertyID: propertyID,
		stay:       stay,
		plan:       PlanFullWeekday, // placeholder plan; blocks carry no commercial meaning
		status:     StatusBlocked,
		guestCount: 0,
	}
}

// ApplyOverride records the admin override audit block. RulesBypassed stays
// non-empty only on this path, which keeps the audit invariant checkable.
func (b *Booking) ApplyOverride(adminID uuid.UUID, reason string, bypassed []string, at time.Time) error {
	if reason == "" {
		return ErrOverrideNoReason
	}
	b.override = &Override{
		Reason:        reason,
		RulesBypassed: bypassed,
		AdminID:       adminID,
		Timestamp:     at,
	}
	b.createdBy = &adminID
	return nil
}

// SetManualTotal pins the booking total to an admin-entered amount.
func (b *Booking) SetManualTotal(amount int64) {
	b.manualTotal = &amount
}

// SetExpiry starts the payment window; the sweep expires the booking once
// the deadline lapses without settlement.
func (b *Booking) SetExpiry(deadline time.Time) {
	b.expiresAt = &deadline
}

func (b *Booking) SetCreatedBy(adminID uuid.UUID) {
	b.createdBy = &adminID
}

// ReconstructBooking rehydrates a persisted booking without re-running
// construction guards.
func ReconstructBooking(
	id, propertyID uuid.UUID,
	stay StayRange,
	plan Plan,
	status Status,
	guestCount int,
	guest Guest,
	expiresAt *time.Time,
	override *Override,
	manualTotal *int64,
	createdBy *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		propertyID:  propertyID,
		stay:        stay,
		plan:        plan,
		status:      status,
		guestCount:  guestCount,
		guest:       guest,
		expiresAt:   expiresAt,
		override:    override,
		manualTotal: manualTotal,
		createdBy:   createdBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Confirm settles the booking's hold on its dates. An expired booking can be
// reactivated here: a late settlement wins the dates back as long as nothing
// conflicting was admitted in between, which the caller re-checks.
func (b *Booking) Confirm() error {
	switch b.status {
	case StatusPending, StatusExpired:
		b.status = StatusConfirmed
		b.expiresAt = nil
		return nil
	case StatusConfirmed:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// Expire releases a pending booking's hold after its payment window lapses.
func (b *Booking) Expire() error {
	if b.status != StatusPending {
		return ErrInvalidStatus
	}
	b.status = StatusExpired
	return nil
}

func (b *Booking) Cancel() error {
	switch b.status {
	case StatusPending, StatusConfirmed, StatusExpired, StatusBlocked:
		b.status = StatusCancelled
		return nil
	default:
		return ErrInvalidStatus
	}
}

// MarkCompleted closes out a confirmed booking after checkout.
func (b *Booking) MarkCompleted() error {
	if b.status != StatusConfirmed {
		return ErrInvalidStatus
	}
	b.status = StatusCompleted
	return nil
}

// HoldExpired reports whether a pending booking's payment window has lapsed.
func (b *Booking) HoldExpired(now time.Time) bool {
	return b.status == StatusPending && b.expiresAt != nil && b.expiresAt.Before(now)
}

func (b *Booking) IsOverride() bool {
	return b.override != nil
}

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) PropertyID() uuid.UUID { return b.propertyID }
func (b *Booking) Stay() StayRange       { return b.stay }
func (b *Booking) Plan() Plan            { return b.plan }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) GuestCount() int       { return b.guestCount }
func (b *Booking) Guest() Guest          { return b.guest }
func (b *Booking) ExpiresAt() *time.Time { return b.expiresAt }
func (b *Booking) Override() *Override   { return b.override }
func (b *Booking) ManualTotal() *int64   { return b.manualTotal }
func (b *Booking) CreatedBy() *uuid.UUID { return b.createdBy }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }
