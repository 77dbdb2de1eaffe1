//go:build unit

package builder

import (
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
)

// BookingBuilder assembles booking entities for tests. Defaults describe a
// valid weekday full-property stay well in the future.
type BookingBuilder struct {
	PropertyID uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	Plan       booking.Plan
	GuestCount int
	Guest      booking.Guest
	Status     booking.Status
	ExpiresAt  *time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		PropertyID: uuid.New(),
		CheckIn:    calendar.Date(2026, time.March, 2), // Monday
		CheckOut:   calendar.Date(2026, time.March, 4),
		Plan:       booking.PlanFullWeekday,
		GuestCount: 12,
		Guest:      booking.Guest{Name: "Ana Torres", Email: "ana@example.com"},
		Status:     booking.StatusPending,
	}
}

func (b *BookingBuilder) WithProperty(id uuid.UUID) *BookingBuilder {
	b.PropertyID = id
	return b
}

func (b *BookingBuilder) WithStay(checkIn, checkOut time.Time) *BookingBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *BookingBuilder) WithPlan(plan booking.Plan) *BookingBuilder {
	b.Plan = plan
	return b
}

func (b *BookingBuilder) WithGuestCount(n int) *BookingBuilder {
	b.GuestCount = n
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithExpiry(deadline time.Time) *BookingBuilder {
	b.ExpiresAt = &deadline
	return b
}

// BuildDomain constructs the entity through NewBooking and then forces the
// requested status, so structural guards still apply.
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	stay, err := booking.NewStayRange(b.CheckIn, b.CheckOut)
	if err != nil {
		return nil, err
	}
	entity, err := booking.NewBooking(b.PropertyID, stay, b.Plan, b.GuestCount, b.Guest)
	if err != nil {
		return nil, err
	}
	if b.ExpiresAt != nil {
		entity.SetExpiry(*b.ExpiresAt)
	}
	if b.Status == booking.StatusPending {
		return entity, nil
	}
	return booking.ReconstructBooking(
		entity.ID(), entity.PropertyID(), entity.Stay(), entity.Plan(), b.Status,
		entity.GuestCount(), entity.Guest(), entity.ExpiresAt(), nil, nil, nil,
		time.Now(), time.Now(),
	), nil
}
