package request

import (
	"time"

	"github.com/google/uuid"
)

// OverrideBlock is the admin escape hatch on a create request. It is only
// honored on authenticated admin calls.
type OverrideBlock struct {
	Reason      string `json:"reason" binding:"required"`
	ManualTotal *int64 `json:"manual_total,omitempty"`
}

type CreateBookingRequest struct {
	PropertyID uuid.UUID      `json:"property_id" binding:"required"`
	CheckIn    time.Time      `json:"check_in" binding:"required" time_format:"2006-01-02"`
	CheckOut   time.Time      `json:"check_out" binding:"required" time_format:"2006-01-02"`
	Plan       string         `json:"plan" binding:"required"`
	GuestCount int            `json:"guest_count" binding:"required,min=1"`
	GuestName  string         `json:"guest_name" binding:"required"`
	GuestEmail string         `json:"guest_email" binding:"omitempty,email"`
	GuestPhone string         `json:"guest_phone"`
	GuestCity  string         `json:"guest_city"`
	Override   *OverrideBlock `json:"override,omitempty"`
}

type BlockDatesRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	CheckIn    time.Time `json:"check_in" binding:"required" time_format:"2006-01-02"`
	CheckOut   time.Time `json:"check_out" binding:"required" time_format:"2006-01-02"`
	Reason     string    `json:"reason" binding:"required"`
}
