package response

import (
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/usecase/commands"
	"finca-reservations/internal/usecase/readmodel"
)

type CheckoutResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	Status      string    `json:"status"`
	Amount      int64     `json:"amount"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
}

func FromCheckoutResult(result *commands.CheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{
		PaymentID:   result.PaymentID,
		Status:      result.Status,
		Amount:      result.Amount,
		CheckoutURL: result.CheckoutURL,
	}
}

type PaymentResponse struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	Amount      int64     `json:"amount"`
	AmountPaid  int64     `json:"amount_paid"`
	IsPartial   bool      `json:"is_partial"`
	EvidenceRef *string   `json:"evidence_ref,omitempty"`
	FailCode    *string   `json:"fail_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromPaymentRM(rm *readmodel.PaymentRM) *PaymentResponse {
	return &PaymentResponse{
		ID:          rm.ID,
		BookingID:   rm.BookingID,
		Method:      rm.Method,
		Status:      rm.Status,
		Amount:      rm.Amount,
		AmountPaid:  rm.AmountPaid,
		IsPartial:   rm.IsPartial,
		EvidenceRef: rm.EvidenceRef,
		FailCode:    rm.FailCode,
		CreatedAt:   rm.CreatedAt,
		UpdatedAt:   rm.UpdatedAt,
	}
}
