//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/domain/pricing"
)

var testRates = pricing.Rates{
	Currency:       "COP",
	DayPassRate:    25000,
	WeekdayRate:    55000,
	WeekendRate:    60000,
	HolidayRate:    70000,
	FamilyPlanRate: 420000,
	CleaningFee:    70000,
	Deposit:        200000,
}

func newResolver() *pricing.Resolver {
	return pricing.NewResolver(testRates)
}

func d(year int, month time.Month, day int) time.Time {
	return calendar.Date(year, month, day)
}

func request(t *testing.T, plan booking.Plan, guests int, checkIn, checkOut time.Time) booking.Request {
	t.Helper()
	stay, err := booking.NewStayRange(checkIn, checkOut)
	require.NoError(t, err)
	return booking.Request{Stay: stay, Plan: plan, GuestCount: guests}
}

func TestPrice(t *testing.T) {
	r := newResolver()

	t.Run("day pass bills per guest without cleaning", func(t *testing.T) {
		req := request(t, booking.PlanDayPass, 4, d(2026, time.March, 3), d(2026, time.March, 3))
		q := r.Price(req, nil)

		assert.Equal(t, int64(100000), q.Subtotal)
		assert.Equal(t, int64(0), q.CleaningFee)
		assert.Equal(t, int64(100000), q.Total)
		assert.Equal(t, "COP", q.Currency)
	})

	t.Run("family plan is a flat nightly rate with cleaning included", func(t *testing.T) {
		req := request(t, booking.PlanFamily, 4, d(2026, time.March, 7), d(2026, time.March, 8))
		q := r.Price(req, nil)

		assert.Equal(t, int64(420000), q.Subtotal)
		assert.Equal(t, int64(0), q.CleaningFee)
		assert.Equal(t, int64(420000), q.Total)
	})

	t.Run("full property bills per guest per night plus cleaning", func(t *testing.T) {
		req := request(t, booking.PlanFullWeekday, 12, d(2026, time.March, 2), d(2026, time.March, 4))
		q := r.Price(req, nil)

		// 12 guests x 2 nights x 55000 + 70000 cleaning
		assert.Equal(t, int64(1320000), q.Subtotal)
		assert.Equal(t, int64(70000), q.CleaningFee)
		assert.Equal(t, int64(1390000), q.Total)
		assert.Equal(t, int64(200000), q.Deposit)
	})

	t.Run("weekend and holiday plans use their own rates", func(t *testing.T) {
		weekend := r.Price(request(t, booking.PlanFullWeekend, 10, d(2026, time.March, 6), d(2026, time.March, 8)), nil)
		holiday := r.Price(request(t, booking.PlanFullHoliday, 10, d(2026, time.March, 20), d(2026, time.March, 23)), nil)

		assert.Equal(t, int64(10*2*60000), weekend.Subtotal)
		assert.Equal(t, int64(10*3*70000), holiday.Subtotal)
	})

	t.Run("manual total supersedes the rate card verbatim", func(t *testing.T) {
		req := request(t, booking.PlanFullWeekday, 12, d(2026, time.March, 2), d(2026, time.March, 4))
		manual := int64(990000)
		q := r.Price(req, &manual)

		assert.Equal(t, int64(990000), q.Subtotal)
		assert.Equal(t, int64(0), q.CleaningFee, "cleaning is never added on top of a manual total")
		assert.Equal(t, int64(990000), q.Total)
		require.Len(t, q.Breakdown, 1)
		assert.Contains(t, q.Breakdown[0], "Manual total")
	})
}

func TestManualRate(t *testing.T) {
	r := newResolver()
	noHolidays := func(time.Time) bool { return false }

	stayOf := func(t *testing.T, checkIn, checkOut time.Time) booking.StayRange {
		t.Helper()
		s, err := booking.NewStayRange(checkIn, checkOut)
		require.NoError(t, err)
		return s
	}

	t.Run("all weekday nights bill at the weekday rate", func(t *testing.T) {
		stay := stayOf(t, d(2026, time.March, 2), d(2026, time.March, 4))
		assert.Equal(t, testRates.WeekdayRate, r.ManualRate(stay, noHolidays))
	})

	t.Run("one weekend night lifts the whole stay to the weekend rate", func(t *testing.T) {
		stay := stayOf(t, d(2026, time.March, 4), d(2026, time.March, 7))
		assert.Equal(t, testRates.WeekendRate, r.ManualRate(stay, noHolidays))
	})

	t.Run("one holiday night lifts the whole stay to the holiday rate", func(t *testing.T) {
		stay := stayOf(t, d(2026, time.April, 1), d(2026, time.April, 4))
		isHoliday := func(day time.Time) bool { return day.Equal(d(2026, time.April, 2)) }
		assert.Equal(t, testRates.HolidayRate, r.ManualRate(stay, isHoliday))
	})

	t.Run("day pass rates on its single day", func(t *testing.T) {
		stay := stayOf(t, d(2026, time.March, 7), d(2026, time.March, 7))
		assert.Equal(t, testRates.WeekendRate, r.ManualRate(stay, noHolidays), "a Saturday day pass is weekend-rated")
	})
}

func TestManualPrice(t *testing.T) {
	r := newResolver()

	stay, err := booking.NewStayRange(d(2026, time.March, 2), d(2026, time.March, 4))
	require.NoError(t, err)

	q := r.ManualPrice(stay, 12, func(time.Time) bool { return false })
	assert.Equal(t, int64(12*2*55000), q.Subtotal)
	assert.Equal(t, int64(12*2*55000+70000), q.Total)
}

func TestPartialAmount(t *testing.T) {
	assert.Equal(t, int64(695000), pricing.PartialAmount(1390000))
	assert.Equal(t, int64(100000), pricing.PartialAmount(200001), "integer division rounds down")
}
