package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type BookingRM struct {
	ID              uuid.UUID  `json:"id"`
	PropertyID      uuid.UUID  `json:"property_id"`
	PropertyName    string     `json:"property_name"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        time.Time  `json:"check_out"`
	Plan            string     `json:"plan"`
	Status          string     `json:"status"`
	GuestCount      int        `json:"guest_count"`
	GuestName       string     `json:"guest_name"`
	GuestEmail      string     `json:"guest_email"`
	GuestPhone      string     `json:"guest_phone"`
	GuestCity       string     `json:"guest_city"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	ManualTotal     *int64     `json:"manual_total,omitempty"`
	OverrideReason  *string    `json:"override_reason,omitempty"`
	OverrideRules   []string   `json:"override_rules,omitempty"`
	OverrideAdminID *uuid.UUID `json:"override_admin_id,omitempty"`
	OverrideAt      *time.Time `json:"override_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type OccupiedRangeRM struct {
	BookingID uuid.UUID  `json:"booking_id"`
	CheckIn   time.Time  `json:"check_in"`
	CheckOut  time.Time  `json:"check_out"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
