//go:build unit

package builder

import (
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/domain/payment"
)

type PaymentBuilder struct {
	BookingID uuid.UUID
	Method    payment.Method
	Amount    int64
	IsPartial bool
	Now       time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		BookingID: uuid.New(),
		Method:    payment.MethodBankTransfer,
		Amount:    380000,
		Now:       time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *PaymentBuilder) WithBooking(id uuid.UUID) *PaymentBuilder {
	b.BookingID = id
	return b
}

func (b *PaymentBuilder) WithMethod(method payment.Method) *PaymentBuilder {
	b.Method = method
	return b
}

func (b *PaymentBuilder) WithAmount(amount int64) *PaymentBuilder {
	b.Amount = amount
	return b
}

func (b *PaymentBuilder) Partial() *PaymentBuilder {
	b.IsPartial = true
	return b
}

func (b *PaymentBuilder) BuildDomain() (*payment.Payment, error) {
	return payment.NewPayment(uuid.New(), b.BookingID, b.Method, b.Amount, b.IsPartial, b.Now)
}
