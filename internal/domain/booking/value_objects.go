package booking

import (
	"errors"
	"time"

	"finca-reservations/internal/domain/calendar"

	"github.com/google/uuid"
)

var ErrInvalidStayRange = errors.New("check-out must be at or after check-in")

// StayRange is the half-open date range [checkIn, checkOut) of a stay.
// checkIn == checkOut is a valid zero-night range and denotes a day pass
// occupying its single day.
type StayRange struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewStayRange normalizes both bounds to civil dates. A check-out before
// check-in is rejected; equality is allowed for day passes.
func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	in, out := calendar.Normalize(checkIn), calendar.Normalize(checkOut)
	if out.Before(in) {
		return StayRange{}, ErrInvalidStayRange
	}
	return StayRange{checkIn: in, checkOut: out}, nil
}

func (r StayRange) CheckIn() time.Time  { return r.checkIn }
func (r StayRange) CheckOut() time.Time { return r.checkOut }

func (r StayRange) Nights() int {
	return int(r.checkOut.Sub(r.checkIn).Hours() / 24)
}

// IsDayPass reports whether the range books zero nights.
func (r StayRange) IsDayPass() bool {
	return r.checkIn.Equal(r.checkOut)
}

// NightDates lists the nights of the stay: every date in [checkIn, checkOut).
// Empty for a day pass.
func (r StayRange) NightDates() []time.Time {
	nights := r.Nights()
	out := make([]time.Time, 0, nights)
	for d := r.checkIn; d.Before(r.checkOut); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Overlaps is the conflict predicate between two stays on one property.
//
// Nightly stays use strict interval overlap, so one stay's check-out may
// equal another's check-in (the outgoing group leaves before the incoming
// one arrives). A day pass has no such handover: it occupies its whole day
// exclusively, so any contact at all with either a nightly or a day-pass
// neighbor is a conflict.
func (r StayRange) Overlaps(other StayRange) bool {
	if r.IsDayPass() || other.IsDayPass() {
		return !r.checkIn.After(other.checkOut) && !r.checkOut.Before(other.checkIn)
	}
	return r.checkIn.Before(other.checkOut) && r.checkOut.After(other.checkIn)
}

// Guest carries the optional contact details captured at booking time.
type Guest struct {
	Name  string
	Email string
	Phone string
	City  string
}

// Override is the audit block recorded when an admin bypasses commercial
// rules. RulesBypassed is non-empty only when the override path was taken.
type Override struct {
	Reason        string
	RulesBypassed []string
	AdminID       uuid.UUID
	Timestamp     time.Time
}
