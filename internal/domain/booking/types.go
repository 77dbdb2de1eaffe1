package booking

// Plan is the commercial product type of a booking. The set is closed:
// rule dispatch and pricing switch over it exhaustively, so adding a plan is
// a compile-time-checked change.
type Plan string

const (
	PlanDayPass     Plan = "day_pass"
	PlanFullWeekday Plan = "full_property_weekday"
	PlanFullWeekend Plan = "full_property_weekend"
	PlanFullHoliday Plan = "full_property_holiday"
	PlanFamily      Plan = "family_plan"
)

func (p Plan) String() string {
	return string(p)
}

func (p Plan) IsValid() bool {
	switch p {
	case PlanDayPass, PlanFullWeekday, PlanFullWeekend, PlanFullHoliday, PlanFamily:
		return true
	default:
		return false
	}
}

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusBlocked   Status = "blocked"
	StatusExpired   Status = "expired"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusBlocked, StatusExpired, StatusCompleted:
		return true
	default:
		return false
	}
}

// HoldsDates reports whether a booking in this status keeps its date range
// out of the available inventory. Pending bookings additionally release their
// hold once expires_at lapses; that check lives in the availability code.
func (s Status) HoldsDates() bool {
	switch s {
	case StatusConfirmed, StatusBlocked, StatusPending:
		return true
	default:
		return false
	}
}
