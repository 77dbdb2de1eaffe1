package calendar

import "time"

// Context is the precomputed holiday view for one requested stay. It is
// built once (storage overrides already merged in) and handed to the pure
// rule validator and pricing code.
//
// InRange and InWindow answer two deliberately independent questions: "does a
// holiday fall inside the booked dates" and "is this a holiday weekend". The
// window heuristic anchors on a Sunday and scans Thu-Mon, so the two
// predicates can disagree on edge cases (a lone Tuesday holiday is in range
// but not in any window). They are kept separate on purpose.
type Context struct {
	InRange  []time.Time
	InWindow []time.Time

	WindowStart time.Time
	WindowEnd   time.Time
}

func (c Context) HasHolidayInRange() bool {
	return len(c.InRange) > 0
}

func (c Context) HasHolidayInWindow() bool {
	return len(c.InWindow) > 0
}

func (c Context) IsHoliday(d time.Time) bool {
	d = Normalize(d)
	for _, h := range c.InRange {
		if h.Equal(d) {
			return true
		}
	}
	return false
}

// BuildContext assembles the holiday view for a stay: algorithmic Colombian
// holidays unioned with admin-added overrides, split into the in-range and
// in-window predicates. Both range bounds are inclusive.
func BuildContext(checkIn, checkOut time.Time, overrides []Holiday) Context {
	checkIn, checkOut = Normalize(checkIn), Normalize(checkOut)
	winStart, winEnd := Window(checkIn)

	inRange := datesWithin(checkIn, checkOut, overrides)
	inWindow := datesWithin(winStart, winEnd, overrides)

	return Context{
		InRange:     inRange,
		InWindow:    inWindow,
		WindowStart: winStart,
		WindowEnd:   winEnd,
	}
}

func datesWithin(start, end time.Time, overrides []Holiday) []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, d := range InRange(start, end) {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	for _, h := range overrides {
		d := Normalize(h.Date)
		if d.Before(start) || d.After(end) || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// Window computes the Thu-Mon holiday-window bounds for a check-in date.
// The anchor Sunday is the check-in itself when it is a Sunday, the previous
// day when check-in is a Monday (bridging), and the next Sunday otherwise.
func Window(checkIn time.Time) (start, end time.Time) {
	checkIn = Normalize(checkIn)

	var anchor time.Time
	switch checkIn.Weekday() {
	case time.Sunday:
		anchor = checkIn
	case time.Monday:
		anchor = checkIn.AddDate(0, 0, -1)
	default:
		anchor = checkIn.AddDate(0, 0, int(time.Sunday-checkIn.Weekday())+7)
	}

	return anchor.AddDate(0, 0, -3), anchor.AddDate(0, 0, 1)
}

// IsWeekendNight reports whether d is a Friday, Saturday or Sunday night.
func IsWeekendNight(d time.Time) bool {
	switch d.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// IsWeekdayNight reports whether d is a Monday through Thursday night.
func IsWeekdayNight(d time.Time) bool {
	return !IsWeekendNight(d)
}
