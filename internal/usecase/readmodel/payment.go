package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type PaymentRM struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	Amount      int64     `json:"amount"`
	AmountPaid  int64     `json:"amount_paid"`
	IsPartial   bool      `json:"is_partial"`
	GatewayRef  *string   `json:"gateway_ref,omitempty"`
	EvidenceRef *string   `json:"evidence_ref,omitempty"`
	FailCode    *string   `json:"fail_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RevenueRowRM is one plan/method cell of the revenue aggregation.
type RevenueRowRM struct {
	Plan      string `json:"plan"`
	Method    string `json:"method"`
	Bookings  int64  `json:"bookings"`
	Revenue   int64  `json:"revenue"`
	Collected int64  `json:"collected"`
}
