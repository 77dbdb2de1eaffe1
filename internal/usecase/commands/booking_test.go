//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/domain/pricing"
	"finca-reservations/internal/pkg/clock"
	"finca-reservations/internal/usecase/commands"
	"finca-reservations/internal/usecase/shared"
	"finca-reservations/tests/common/builder"
	"finca-reservations/tests/common/fake"
)

var (
	testNow    = time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	testPolicy = booking.Policy{MinGroupSize: 10, FamilyMaxGuests: 5}
	testRates  = pricing.Rates{
		Currency:       "COP",
		DayPassRate:    25000,
		WeekdayRate:    55000,
		WeekendRate:    60000,
		HolidayRate:    70000,
		FamilyPlanRate: 420000,
		CleaningFee:    70000,
		Deposit:        200000,
	}
)

func d(year int, month time.Month, day int) time.Time {
	return calendar.Date(year, month, day)
}

type bookingFixture struct {
	store      *fake.Store
	clock      *clock.MockClock
	commands   commands.BookingCommands
	propertyID uuid.UUID
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	store := fake.NewStore()
	propertyID := uuid.New()
	store.AddProperty(propertyID, "Finca La Esperanza")

	clk := clock.NewMockClock(testNow)
	validator := booking.NewValidator(testPolicy, clk.Now)
	resolver := pricing.NewResolver(testRates)

	return &bookingFixture{
		store:      store,
		clock:      clk,
		commands:   commands.NewBookingCommands(fake.NewUoW(store), validator, resolver, clk),
		propertyID: propertyID,
	}
}

func (f *bookingFixture) weekdayCommand() commands.CreateBookingCommand {
	return commands.CreateBookingCommand{
		PropertyID: f.propertyID,
		CheckIn:    d(2026, time.March, 2),
		CheckOut:   d(2026, time.March, 4),
		Plan:       string(booking.PlanFullWeekday),
		GuestCount: 12,
		Guest:      booking.Guest{Name: "Ana Torres", Email: "ana@example.com"},
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("admits a valid request as pending", func(t *testing.T) {
		f := newBookingFixture(t)

		result, err := f.commands.CreateBooking(context.Background(), f.weekdayCommand())
		require.NoError(t, err)

		assert.Equal(t, string(booking.StatusPending), result.Status)
		assert.Empty(t, result.RulesBypassed)
		assert.Equal(t, int64(12*2*55000+70000), result.Quote.Total)

		stored := f.store.Booking(result.BookingID)
		require.NotNil(t, stored)
		assert.Equal(t, booking.StatusPending, stored.Status())

		require.Len(t, f.store.AuditLog, 1)
		assert.Equal(t, "booking_created", f.store.AuditLog[0].Action)
		require.Len(t, f.store.Jobs, 1)
		assert.Equal(t, "booking_created", f.store.Jobs[0].Topic)
	})

	t.Run("unknown property is rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.weekdayCommand()
		cmd.PropertyID = uuid.New()

		_, err := f.commands.CreateBooking(context.Background(), cmd)
		assert.ErrorIs(t, err, commands.ErrPropertyNotFound)
	})

	t.Run("commercial violation aborts without an override", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.weekdayCommand()
		cmd.GuestCount = 4

		_, err := f.commands.CreateBooking(context.Background(), cmd)

		var violation *booking.RuleViolationError
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, booking.RuleMinGroupSize, violation.Rule)
		assert.Empty(t, f.store.Bookings())
	})

	t.Run("overlapping dates are refused", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.commands.CreateBooking(context.Background(), f.weekdayCommand())
		require.NoError(t, err)

		cmd := f.weekdayCommand()
		cmd.CheckIn = d(2026, time.March, 3)
		cmd.CheckOut = d(2026, time.March, 5)

		_, err = f.commands.CreateBooking(context.Background(), cmd)
		var overErr *booking.OverbookingError
		require.ErrorAs(t, err, &overErr)
		assert.Len(t, f.store.Bookings(), 1)
	})

	t.Run("back-to-back stays are both admitted", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.commands.CreateBooking(context.Background(), f.weekdayCommand())
		require.NoError(t, err)

		next := f.weekdayCommand()
		next.CheckIn = d(2026, time.March, 4)
		next.CheckOut = d(2026, time.March, 5)

		_, err = f.commands.CreateBooking(context.Background(), next)
		require.NoError(t, err)
		assert.Len(t, f.store.Bookings(), 2)
	})

	t.Run("an expired pending hold no longer blocks admission", func(t *testing.T) {
		f := newBookingFixture(t)

		result, err := f.commands.CreateBooking(context.Background(), f.weekdayCommand())
		require.NoError(t, err)

		// Give the first booking a payment deadline and let it lapse unswept.
		held := f.store.Booking(result.BookingID)
		held.SetExpiry(testNow.Add(30 * time.Minute))
		f.store.SeedBooking(held)
		f.clock.Add(time.Hour)

		_, err = f.commands.CreateBooking(context.Background(), f.weekdayCommand())
		require.NoError(t, err)
	})

	t.Run("exactly one of many concurrent admissions wins", func(t *testing.T) {
		f := newBookingFixture(t)

		const attempts = 5
		var wg sync.WaitGroup
		errCh := make(chan error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.commands.CreateBooking(context.Background(), f.weekdayCommand())
				errCh <- err
			}()
		}
		wg.Wait()
		close(errCh)

		succeeded, conflicts := 0, 0
		for err := range errCh {
			if err == nil {
				succeeded++
				continue
			}
			var overErr *booking.OverbookingError
			require.ErrorAs(t, err, &overErr)
			conflicts++
		}

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, attempts-1, conflicts)
		assert.Len(t, f.store.Bookings(), 1)
	})
}

func TestCreateBookingOverride(t *testing.T) {
	t.Run("collects every bypassed rule and records the audit block", func(t *testing.T) {
		f := newBookingFixture(t)
		adminID := uuid.New()

		cmd := f.weekdayCommand()
		cmd.GuestCount = 4 // violates min_group_size
		cmd.CheckIn = d(2026, time.March, 6)
		cmd.CheckOut = d(2026, time.March, 8) // Fri-Sun also violates weekday nights
		cmd.Override = &commands.OverrideRequest{AdminID: adminID, Reason: "regular corporate client"}

		result, err := f.commands.CreateBooking(context.Background(), cmd)
		require.NoError(t, err)
		require.Len(t, result.RulesBypassed, 2)
		assert.Contains(t, result.RulesBypassed[0], booking.RuleMinGroupSize)
		assert.Contains(t, result.RulesBypassed[1], booking.RuleWeekdayNights)

		stored := f.store.Booking(result.BookingID)
		require.NotNil(t, stored.Override())
		assert.Equal(t, "regular corporate client", stored.Override().Reason)
		assert.Equal(t, result.RulesBypassed, stored.Override().RulesBypassed)

		require.Len(t, f.store.AuditLog, 1)
		assert.Equal(t, "booking_created_override", f.store.AuditLog[0].Action)
	})

	t.Run("manual total flows into the quote and the stored booking", func(t *testing.T) {
		f := newBookingFixture(t)
		manual := int64(990000)

		cmd := f.weekdayCommand()
		cmd.Override = &commands.OverrideRequest{
			AdminID:     uuid.New(),
			Reason:      "negotiated rate",
			ManualTotal: &manual,
		}

		result, err := f.commands.CreateBooking(context.Background(), cmd)
		require.NoError(t, err)
		assert.Equal(t, manual, result.Quote.Total)

		stored := f.store.Booking(result.BookingID)
		require.NotNil(t, stored.ManualTotal())
		assert.Equal(t, manual, *stored.ManualTotal())
	})

	t.Run("override without a reason is rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		cmd := f.weekdayCommand()
		cmd.Override = &commands.OverrideRequest{AdminID: uuid.New()}

		_, err := f.commands.CreateBooking(context.Background(), cmd)
		assert.ErrorIs(t, err, commands.ErrOverrideReasonRequired)
	})

	t.Run("override never bypasses a date conflict", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.commands.CreateBooking(context.Background(), f.weekdayCommand())
		require.NoError(t, err)

		cmd := f.weekdayCommand()
		cmd.Override = &commands.OverrideRequest{AdminID: uuid.New(), Reason: "VIP"}

		_, err = f.commands.CreateBooking(context.Background(), cmd)
		var overErr *booking.OverbookingError
		assert.ErrorAs(t, err, &overErr)
	})
}

func TestBlockDates(t *testing.T) {
	t.Run("block occupies its dates like any hold", func(t *testing.T) {
		f := newBookingFixture(t)
		adminID := uuid.New()

		blockID, err := f.commands.BlockDates(context.Background(), f.propertyID,
			d(2026, time.March, 2), d(2026, time.March, 4), adminID, "pool maintenance")
		require.NoError(t, err)

		stored := f.store.Booking(blockID)
		require.NotNil(t, stored)
		assert.Equal(t, booking.StatusBlocked, stored.Status())

		_, err = f.commands.CreateBooking(context.Background(), f.weekdayCommand())
		var overErr *booking.OverbookingError
		assert.ErrorAs(t, err, &overErr)
	})

	t.Run("block refuses dates already held", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.commands.CreateBooking(context.Background(), f.weekdayCommand())
		require.NoError(t, err)

		_, err = f.commands.BlockDates(context.Background(), f.propertyID,
			d(2026, time.March, 3), d(2026, time.March, 5), uuid.New(), "painting")
		var overErr *booking.OverbookingError
		assert.ErrorAs(t, err, &overErr)
	})
}

func TestCancelBooking(t *testing.T) {
	f := newBookingFixture(t)
	adminID := uuid.New()

	result, err := f.commands.CreateBooking(context.Background(), f.weekdayCommand())
	require.NoError(t, err)

	require.NoError(t, f.commands.CancelBooking(context.Background(), result.BookingID, &adminID))
	assert.Equal(t, booking.StatusCancelled, f.store.Booking(result.BookingID).Status())

	err = f.commands.CancelBooking(context.Background(), uuid.New(), &adminID)
	assert.ErrorIs(t, err, commands.ErrBookingNotFound)
}

func TestCompleteBooking(t *testing.T) {
	t.Run("closes out a confirmed stay and records the audit", func(t *testing.T) {
		f := newBookingFixture(t)
		adminID := uuid.New()

		confirmed, err := builder.NewBookingBuilder().
			WithStay(d(2026, time.March, 2), d(2026, time.March, 4)).
			WithStatus(booking.StatusConfirmed).
			BuildDomain()
		require.NoError(t, err)
		f.store.SeedBooking(confirmed)

		require.NoError(t, f.commands.CompleteBooking(context.Background(), confirmed.ID(), adminID))
		assert.Equal(t, booking.StatusCompleted, f.store.Booking(confirmed.ID()).Status())

		require.Len(t, f.store.AuditLog, 1)
		assert.Equal(t, "booking_completed", f.store.AuditLog[0].Action)
		require.NotNil(t, f.store.AuditLog[0].ActorID)
		assert.Equal(t, adminID, *f.store.AuditLog[0].ActorID)
	})

	t.Run("pending booking cannot be completed", func(t *testing.T) {
		f := newBookingFixture(t)

		result, err := f.commands.CreateBooking(context.Background(), f.weekdayCommand())
		require.NoError(t, err)

		err = f.commands.CompleteBooking(context.Background(), result.BookingID, uuid.New())
		assert.ErrorIs(t, err, booking.ErrInvalidStatus)
		assert.Equal(t, booking.StatusPending, f.store.Booking(result.BookingID).Status())
	})

	t.Run("unknown booking is reported", func(t *testing.T) {
		f := newBookingFixture(t)

		err := f.commands.CompleteBooking(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestSweepExpired(t *testing.T) {
	store := fake.NewStore()
	clk := clock.NewMockClock(testNow)
	sweep := commands.NewSweepCommands(fake.NewUoW(store), clk)

	lapsed, err := builder.NewBookingBuilder().
		WithStay(d(2026, time.March, 2), d(2026, time.March, 4)).
		WithExpiry(testNow.Add(-time.Minute)).
		BuildDomain()
	require.NoError(t, err)
	store.SeedBooking(lapsed)

	alive, err := builder.NewBookingBuilder().
		WithStay(d(2026, time.March, 9), d(2026, time.March, 11)).
		WithExpiry(testNow.Add(time.Hour)).
		BuildDomain()
	require.NoError(t, err)
	store.SeedBooking(alive)

	noDeadline, err := builder.NewBookingBuilder().
		WithStay(d(2026, time.March, 16), d(2026, time.March, 18)).
		BuildDomain()
	require.NoError(t, err)
	store.SeedBooking(noDeadline)

	count, err := sweep.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, booking.StatusExpired, store.Booking(lapsed.ID()).Status())
	assert.Equal(t, booking.StatusPending, store.Booking(alive.ID()).Status())
	assert.Equal(t, booking.StatusPending, store.Booking(noDeadline.ID()).Status())

	require.Len(t, store.AuditLog, 1)
	assert.Equal(t, "booking_expired", store.AuditLog[0].Action)

	// A second sweep finds nothing left to expire.
	count, err = sweep.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

// The sweep writes through a status guard so a hold settled between its read
// and its write stays confirmed instead of being flipped to expired.
func TestExpireIfPendingGuardsSettledHolds(t *testing.T) {
	store := fake.NewStore()
	uow := fake.NewUoW(store)

	settled, err := builder.NewBookingBuilder().
		WithStay(d(2026, time.March, 2), d(2026, time.March, 4)).
		WithStatus(booking.StatusConfirmed).
		WithExpiry(testNow.Add(-time.Minute)).
		BuildDomain()
	require.NoError(t, err)
	store.SeedBooking(settled)

	lapsed, err := builder.NewBookingBuilder().
		WithStay(d(2026, time.March, 9), d(2026, time.March, 11)).
		WithExpiry(testNow.Add(-time.Minute)).
		BuildDomain()
	require.NoError(t, err)
	store.SeedBooking(lapsed)

	err = uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		flipped, err := tx.Bookings().ExpireIfPending(ctx, tx.DB(), settled.ID())
		require.NoError(t, err)
		assert.False(t, flipped, "a settled hold must not be expired")

		flipped, err = tx.Bookings().ExpireIfPending(ctx, tx.DB(), lapsed.ID())
		require.NoError(t, err)
		assert.True(t, flipped)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, booking.StatusConfirmed, store.Booking(settled.ID()).Status())
	assert.Equal(t, booking.StatusExpired, store.Booking(lapsed.ID()).Status())
}
