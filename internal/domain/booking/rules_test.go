//go:build unit

package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
)

var testPolicy = booking.Policy{MinGroupSize: 10, FamilyMaxGuests: 5}

func newValidator() *booking.Validator {
	now := d(2026, time.February, 1)
	return booking.NewValidator(testPolicy, func() time.Time { return now })
}

func request(t *testing.T, plan booking.Plan, guests int, checkIn, checkOut time.Time) booking.Request {
	t.Helper()
	return booking.Request{
		Stay:       stay(t, checkIn, checkOut),
		Plan:       plan,
		GuestCount: guests,
	}
}

func holCtx(req booking.Request) calendar.Context {
	return calendar.BuildContext(req.Stay.CheckIn(), req.Stay.CheckOut(), nil)
}

func TestPreCheck(t *testing.T) {
	v := newValidator()

	t.Run("past check-in is rejected", func(t *testing.T) {
		req := request(t, booking.PlanFullWeekday, 12, d(2026, time.January, 5), d(2026, time.January, 7))
		violation := v.PreCheck(req)
		require.NotNil(t, violation)
		assert.Equal(t, booking.RulePastDates, violation.Rule)
	})

	t.Run("zero nights on a non-day-pass plan is rejected", func(t *testing.T) {
		req := request(t, booking.PlanFullWeekday, 12, d(2026, time.March, 2), d(2026, time.March, 2))
		violation := v.PreCheck(req)
		require.NotNil(t, violation)
		assert.Equal(t, booking.RuleMinNights, violation.Rule)
	})

	t.Run("zero nights is fine for a day pass", func(t *testing.T) {
		req := request(t, booking.PlanDayPass, 2, d(2026, time.March, 2), d(2026, time.March, 2))
		assert.Nil(t, v.PreCheck(req))
	})
}

func TestValidatePerPlan(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name     string
		req      func(t *testing.T) booking.Request
		wantRule string // empty means valid
	}{
		{
			name: "day pass on a single day passes",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanDayPass, 2, d(2026, time.March, 3), d(2026, time.March, 3))
			},
		},
		{
			name: "multi-day day pass fails",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanDayPass, 2, d(2026, time.March, 3), d(2026, time.March, 4))
			},
			wantRule: booking.RuleDayPassSameDay,
		},
		{
			name: "weekday plan with mon-tue nights passes",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFullWeekday, 12, d(2026, time.March, 2), d(2026, time.March, 4))
			},
		},
		{
			name: "weekday plan below minimum group size fails",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFullWeekday, 6, d(2026, time.March, 2), d(2026, time.March, 4))
			},
			wantRule: booking.RuleMinGroupSize,
		},
		{
			name: "weekday plan spanning a friday night fails",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFullWeekday, 12, d(2026, time.March, 4), d(2026, time.March, 7))
			},
			wantRule: booking.RuleWeekdayNights,
		},
		{
			name: "weekday plan over a public holiday fails",
			req: func(t *testing.T) booking.Request {
				// Jueves Santo (Apr 2) falls inside the stay.
				return request(t, booking.PlanFullWeekday, 12, d(2026, time.April, 1), d(2026, time.April, 3))
			},
			wantRule: booking.RuleNoHolidays,
		},
		{
			name: "weekday plan checking out on a holiday passes",
			req: func(t *testing.T) booking.Request {
				// Jueves Santo (Apr 2) is the checkout day, not a night slept.
				return request(t, booking.PlanFullWeekday, 12, d(2026, time.March, 30), d(2026, time.April, 2))
			},
		},
		{
			name: "weekend plan on an ordinary fri-sun passes",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFullWeekend, 12, d(2026, time.March, 6), d(2026, time.March, 8))
			},
		},
		{
			name: "weekend plan with a weekday night fails",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFullWeekend, 12, d(2026, time.March, 2), d(2026, time.March, 4))
			},
			wantRule: booking.RuleWeekendNights,
		},
		{
			name: "weekend plan on a holiday weekend fails",
			req: func(t *testing.T) booking.Request {
				// San José moves to Monday Mar 23; the Fri-Sun before it is a
				// holiday weekend and must use the holiday plan.
				return request(t, booking.PlanFullWeekend, 12, d(2026, time.March, 20), d(2026, time.March, 22))
			},
			wantRule: booking.RuleNotHolidayWeek,
		},
		{
			name: "holiday plan over the san jose long weekend passes",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFullHoliday, 12, d(2026, time.March, 20), d(2026, time.March, 23))
			},
		},
		{
			name: "holiday plan on an ordinary week fails",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFullHoliday, 12, d(2026, time.March, 6), d(2026, time.March, 8))
			},
			wantRule: booking.RuleHolidayWindow,
		},
		{
			name: "holiday plan spilling into tuesday fails",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFullHoliday, 12, d(2026, time.March, 23), d(2026, time.March, 25))
			},
			wantRule: booking.RuleFestivoNights,
		},
		{
			name: "family plan for one ordinary saturday night passes",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFamily, 4, d(2026, time.March, 7), d(2026, time.March, 8))
			},
		},
		{
			name: "family plan above the guest cap fails",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFamily, 8, d(2026, time.March, 7), d(2026, time.March, 8))
			},
			wantRule: booking.RuleFamilyMax,
		},
		{
			name: "family plan for two nights fails",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFamily, 4, d(2026, time.March, 6), d(2026, time.March, 8))
			},
			wantRule: booking.RuleFamilyOneNight,
		},
		{
			name: "family plan on a holiday weekend fails",
			req: func(t *testing.T) booking.Request {
				return request(t, booking.PlanFamily, 4, d(2026, time.March, 21), d(2026, time.March, 22))
			},
			wantRule: booking.RuleNotHolidayWeek,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req(t)
			violation := v.Validate(req, holCtx(req))
			if tt.wantRule == "" {
				assert.Nil(t, violation)
				return
			}
			require.NotNil(t, violation)
			assert.Equal(t, tt.wantRule, violation.Rule)
		})
	}
}

func TestValidateStopsAtFirstViolation(t *testing.T) {
	v := newValidator()

	// Both the group size and the night-type rules fail; the chain reports
	// the group size first because rules run in declaration order.
	req := request(t, booking.PlanFullWeekday, 3, d(2026, time.March, 6), d(2026, time.March, 8))
	violation := v.Validate(req, holCtx(req))
	require.NotNil(t, violation)
	assert.Equal(t, booking.RuleMinGroupSize, violation.Rule)
}
