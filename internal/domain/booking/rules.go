package booking

import (
	"fmt"
	"time"

	"finca-reservations/internal/domain/calendar"
)

// RuleViolationError reports the first commercial rule a request failed.
// Rule is the stable name the override mechanism records as bypassed.
type RuleViolationError struct {
	Rule    string
	Message string
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("rule %q failed: %s", e.Rule, e.Message)
}

// OverbookingError reports a physical date conflict. It is never bypassable:
// override only relaxes commercial rules, not the non-overlap invariant.
type OverbookingError struct {
	PropertyID string
	Message    string
}

func (e *OverbookingError) Error() string {
	return e.Message
}

// Rule names, stable identifiers used in override audit logs.
const (
	RulePastDates      = "past_dates"
	RuleMinNights      = "min_nights"
	RuleDayPassSameDay = "day_pass_same_day"
	RuleMinGroupSize   = "min_group_size"
	RuleWeekdayNights  = "weekday_nights_only"
	RuleWeekendNights  = "weekend_nights_only"
	RuleNoHolidays     = "no_holidays"
	RuleHolidayWindow  = "holiday_window_required"
	RuleNotHolidayWeek = "holiday_weekend_excluded"
	RuleFestivoNights  = "holiday_plan_nights"
	RuleFamilyMax      = "family_max_guests"
	RuleFamilyOneNight = "family_one_night"
)

// Request is the validator's and pricing resolver's view of an admission
// attempt.
type Request struct {
	Stay       StayRange
	Plan       Plan
	GuestCount int
}

// Policy carries the configured commercial limits. Injected at construction
// so tests supply fixtures instead of reading ambient settings.
type Policy struct {
	MinGroupSize    int
	FamilyMaxGuests int
}

// Validator checks admission requests against the per-plan commercial rules.
// All rules are pure functions of the request and the precomputed holiday
// context.
type Validator struct {
	policy Policy
	clock  func() time.Time
}

func NewValidator(policy Policy, now func() time.Time) *Validator {
	return &Validator{policy: policy, clock: now}
}

// Rule is one named commercial check.
type Rule struct {
	Name  string
	Check func(req Request, hol calendar.Context) *RuleViolationError
}

// PreCheck runs the strict checks shared by every plan. These are never
// bypassable, not even under admin override.
func (v *Validator) PreCheck(req Request) *RuleViolationError {
	today := calendar.Normalize(v.clock())
	if req.Stay.CheckIn().Before(today) {
		return &RuleViolationError{
			Rule:    RulePastDates,
			Message: "check-in date is in the past",
		}
	}
	if req.Plan != PlanDayPass && req.Stay.Nights() < 1 {
		return &RuleViolationError{
			Rule:    RuleMinNights,
			Message: "stay must cover at least one night",
		}
	}
	return nil
}

// PlanRules returns the commercial rule chain for a plan. The switch is
// exhaustive over the closed Plan set.
func (v *Validator) PlanRules(plan Plan) []Rule {
	switch plan {
	case PlanDayPass:
		return []Rule{v.dayPassSameDay()}
	case PlanFullWeekday:
		return []Rule{v.minGroupSize(), v.weekdayNightsOnly(), v.noHolidayNights()}
	case PlanFullWeekend:
		return []Rule{v.minGroupSize(), v.weekendNightsOnly(), v.noHolidayWindow()}
	case PlanFullHoliday:
		return []Rule{v.minGroupSize(), v.holidayWindowRequired(), v.holidayPlanNights()}
	case PlanFamily:
		return []Rule{v.familyMaxGuests(), v.familyOneNight(), v.noHolidayWindow()}
	default:
		return nil
	}
}

// Validate runs the strict pre-checks and then the plan's commercial rules,
// stopping at the first violation.
func (v *Validator) Validate(req Request, hol calendar.Context) *RuleViolationError {
	if violation := v.PreCheck(req); violation != nil {
		return violation
	}
	for _, rule := range v.PlanRules(req.Plan) {
		if violation := rule.Check(req, hol); violation != nil {
			return violation
		}
	}
	return nil
}

func (v *Validator) dayPassSameDay() Rule {
	return Rule{
		Name: RuleDayPassSameDay,
		Check: func(req Request, _ calendar.Context) *RuleViolationError {
			if !req.Stay.IsDayPass() {
				return &RuleViolationError{
					Rule:    RuleDayPassSameDay,
					Message: "day pass requires check-in and check-out on the same day",
				}
			}
			return nil
		},
	}
}

func (v *Validator) minGroupSize() Rule {
	return Rule{
		Name: RuleMinGroupSize,
		Check: func(req Request, _ calendar.Context) *RuleViolationError {
			if req.GuestCount < v.policy.MinGroupSize {
				return &RuleViolationError{
					Rule:    RuleMinGroupSize,
					Message: fmt.Sprintf("full-property plans require at least %d guests", v.policy.MinGroupSize),
				}
			}
			return nil
		},
	}
}

func (v *Validator) weekdayNightsOnly() Rule {
	return Rule{
		Name: RuleWeekdayNights,
		Check: func(req Request, _ calendar.Context) *RuleViolationError {
			for _, night := range req.Stay.NightDates() {
				if !calendar.IsWeekdayNight(night) {
					return &RuleViolationError{
						Rule:    RuleWeekdayNights,
						Message: fmt.Sprintf("%s (%s) is not a weekday night (Mon-Thu)", night.Format("2006-01-02"), night.Weekday()),
					}
				}
			}
			return nil
		},
	}
}

func (v *Validator) weekendNightsOnly() Rule {
	return Rule{
		Name: RuleWeekendNights,
		Check: func(req Request, _ calendar.Context) *RuleViolationError {
			for _, night := range req.Stay.NightDates() {
				if !calendar.IsWeekendNight(night) {
					return &RuleViolationError{
						Rule:    RuleWeekendNights,
						Message: fmt.Sprintf("%s (%s) is not a weekend night (Fri-Sun)", night.Format("2006-01-02"), night.Weekday()),
					}
				}
			}
			return nil
		},
	}
}

func (v *Validator) noHolidayNights() Rule {
	return Rule{
		Name: RuleNoHolidays,
		Check: func(req Request, hol calendar.Context) *RuleViolationError {
			// Nights only: a holiday on the checkout day is not slept on.
			for _, night := range req.Stay.NightDates() {
				if hol.IsHoliday(night) {
					return &RuleViolationError{
						Rule:    RuleNoHolidays,
						Message: "weekday plan does not cover public holidays",
					}
				}
			}
			return nil
		},
	}
}

func (v *Validator) noHolidayWindow() Rule {
	return Rule{
		Name: RuleNotHolidayWeek,
		Check: func(_ Request, hol calendar.Context) *RuleViolationError {
			if hol.HasHolidayInWindow() {
				return &RuleViolationError{
					Rule:    RuleNotHolidayWeek,
					Message: "stay falls on a holiday weekend; use the holiday plan",
				}
			}
			return nil
		},
	}
}

func (v *Validator) holidayWindowRequired() Rule {
	return Rule{
		Name: RuleHolidayWindow,
		Check: func(_ Request, hol calendar.Context) *RuleViolationError {
			if !hol.HasHolidayInWindow() {
				return &RuleViolationError{
					Rule:    RuleHolidayWindow,
					Message: "no public holiday falls within or adjacent to the requested dates",
				}
			}
			return nil
		},
	}
}

// holidayPlanNights restricts the holiday plan to the long-weekend shape:
// Thu through Mon nights, never a plain Tuesday or Wednesday.
func (v *Validator) holidayPlanNights() Rule {
	return Rule{
		Name: RuleFestivoNights,
		Check: func(req Request, _ calendar.Context) *RuleViolationError {
			for _, night := range req.Stay.NightDates() {
				switch night.Weekday() {
				case time.Tuesday, time.Wednesday:
					return &RuleViolationError{
						Rule:    RuleFestivoNights,
						Message: "holiday plan covers Thu-Mon nights only",
					}
				}
			}
			return nil
		},
	}
}

func (v *Validator) familyMaxGuests() Rule {
	return Rule{
		Name: RuleFamilyMax,
		Check: func(req Request, _ calendar.Context) *RuleViolationError {
			if req.GuestCount > v.policy.FamilyMaxGuests {
				return &RuleViolationError{
					Rule:    RuleFamilyMax,
					Message: fmt.Sprintf("family plan allows at most %d guests", v.policy.FamilyMaxGuests),
				}
			}
			return nil
		},
	}
}

func (v *Validator) familyOneNight() Rule {
	return Rule{
		Name: RuleFamilyOneNight,
		Check: func(req Request, _ calendar.Context) *RuleViolationError {
			if nights := req.Stay.Nights(); nights != 1 {
				return &RuleViolationError{
					Rule:    RuleFamilyOneNight,
					Message: fmt.Sprintf("family plan allows exactly 1 night, requested %d", nights),
				}
			}
			return nil
		},
	}
}
