// Package pricing resolves the monetary total of a stay from the configured
// rate card. Amounts are integer COP to avoid float drift.
package pricing

import (
	"fmt"
	"time"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
)

// Rates is the injected rate card.
type Rates struct {
	Currency       string
	DayPassRate    int64
	WeekdayRate    int64
	WeekendRate    int64
	HolidayRate    int64
	FamilyPlanRate int64
	CleaningFee    int64
	Deposit        int64
}

// Quote is the priced view of a request.
type Quote struct {
	Subtotal    int64
	CleaningFee int64
	Deposit     int64
	Total       int64
	Currency    string
	Breakdown   []string
}

type Resolver struct {
	rates Rates
}

func NewResolver(rates Rates) *Resolver {
	return &Resolver{rates: rates}
}

// billableNights clamps the night count to one so a day pass is billed as a
// single unit.
func billableNights(stay booking.StayRange) int {
	if n := stay.Nights(); n > 1 {
		return n
	}
	return 1
}

// Price computes the total for a request. When manualTotal is set it is the
// total verbatim: admin-entered prices supersede the rate card entirely, and
// the cleaning fee is zeroed rather than added on top.
func (r *Resolver) Price(req booking.Request, manualTotal *int64) Quote {
	if manualTotal != nil {
		return Quote{
			Subtotal:  *manualTotal,
			Total:     *manualTotal,
			Currency:  r.rates.Currency,
			Breakdown: []string{fmt.Sprintf("Manual total: $%d", *manualTotal)},
		}
	}

	nights := billableNights(req.Stay)
	var q Quote
	q.Currency = r.rates.Currency
	q.Deposit = r.rates.Deposit

	switch req.Plan {
	case booking.PlanDayPass:
		q.Subtotal = r.rates.DayPassRate * int64(req.GuestCount)
		q.Breakdown = append(q.Breakdown,
			fmt.Sprintf("%d guests x $%d (day pass)", req.GuestCount, r.rates.DayPassRate))

	case booking.PlanFamily:
		q.Subtotal = r.rates.FamilyPlanRate * int64(nights)
		q.Breakdown = append(q.Breakdown,
			fmt.Sprintf("Family plan x %d night(s) ($%d/night, cleaning included)", nights, r.rates.FamilyPlanRate))

	case booking.PlanFullWeekday, booking.PlanFullWeekend, booking.PlanFullHoliday:
		rate := r.planRate(req.Plan)
		q.Subtotal = rate * int64(req.GuestCount) * int64(nights)
		q.CleaningFee = r.rates.CleaningFee
		q.Breakdown = append(q.Breakdown,
			fmt.Sprintf("%d guests x %d night(s) x $%d", req.GuestCount, nights, rate),
			fmt.Sprintf("Cleaning: $%d", r.rates.CleaningFee))
	}

	q.Total = q.Subtotal + q.CleaningFee
	return q
}

func (r *Resolver) planRate(plan booking.Plan) int64 {
	switch plan {
	case booking.PlanFullWeekday:
		return r.rates.WeekdayRate
	case booking.PlanFullWeekend:
		return r.rates.WeekendRate
	case booking.PlanFullHoliday:
		return r.rates.HolidayRate
	default:
		return 0
	}
}

// ManualRate resolves the nightly rate for an admin-entered full-property
// stay with the high-water-mark rule: if any night of the range is a holiday
// the whole stay bills at the holiday rate; else if any night is a weekend
// night the whole stay bills at the weekend rate; else the weekday rate
// applies uniformly. Deliberately not a per-night mix.
func (r *Resolver) ManualRate(stay booking.StayRange, isHoliday func(time.Time) bool) int64 {
	nights := stay.NightDates()
	if len(nights) == 0 {
		nights = []time.Time{stay.CheckIn()}
	}

	hasWeekend := false
	for _, night := range nights {
		if isHoliday(night) {
			return r.rates.HolidayRate
		}
		if calendar.IsWeekendNight(night) {
			hasWeekend = true
		}
	}
	if hasWeekend {
		return r.rates.WeekendRate
	}
	return r.rates.WeekdayRate
}

// ManualPrice prices an admin-entered stay at the high-water-mark rate.
func (r *Resolver) ManualPrice(stay booking.StayRange, guests int, isHoliday func(time.Time) bool) Quote {
	rate := r.ManualRate(stay, isHoliday)
	nights := billableNights(stay)

	subtotal := rate * int64(guests) * int64(nights)
	return Quote{
		Subtotal:    subtotal,
		CleaningFee: r.rates.CleaningFee,
		Deposit:     r.rates.Deposit,
		Total:       subtotal + r.rates.CleaningFee,
		Currency:    r.rates.Currency,
		Breakdown: []string{
			fmt.Sprintf("%d guests x %d night(s) x $%d (high-water-mark rate)", guests, nights, rate),
			fmt.Sprintf("Cleaning: $%d", r.rates.CleaningFee),
		},
	}
}

// PartialAmount is the 50% deposit charged when a guest opts to pay in two
// installments.
func PartialAmount(total int64) int64 {
	return total / 2
}
