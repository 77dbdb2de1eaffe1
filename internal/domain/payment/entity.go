// Package payment models the settlement of a booking: method, amounts, and a
// strict status machine. A payment never moves between states outside the
// transition table.
package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/pkg/errs"
)

var (
	ErrInvalidMethod = errs.New("invalid payment method")
	ErrInvalidStatus = errs.New("invalid payment status")
	ErrAmountInvalid = errs.New("payment amount must be positive")
)

// InvalidTransitionError reports an attempted move the status machine does
// not allow.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid payment transition: %s -> %s", e.From, e.To)
}

type Payment struct {
	id          uuid.UUID
	bookingID   uuid.UUID
	method      Method
	status      Status
	amount      int64
	amountPaid  int64
	isPartial   bool
	gatewayRef  *string
	evidenceRef *string
	failCode    *string
	createdAt   time.Time
	updatedAt   time.Time
}

// initialStatus maps the method to the state a new payment starts in.
func initialStatus(method Method) Status {
	switch method {
	case MethodBankTransfer:
		return StatusAwaitingConfirm
	case MethodDirectAgreement:
		return StatusPendingDirect
	default:
		return StatusPendingPayment
	}
}

func NewPayment(id, bookingID uuid.UUID, method Method, amount int64, isPartial bool, now time.Time) (*Payment, error) {
	if !method.IsValid() {
		return nil, errs.Mark(fmt.Errorf("method %q", method), ErrInvalidMethod)
	}
	if amount <= 0 {
		return nil, ErrAmountInvalid
	}
	return &Payment{
		id:        id,
		bookingID: bookingID,
		method:    method,
		status:    initialStatus(method),
		amount:    amount,
		isPartial: isPartial,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPayment rehydrates a payment from storage without validation.
func ReconstructPayment(
	id, bookingID uuid.UUID,
	method Method,
	status Status,
	amount, amountPaid int64,
	isPartial bool,
	gatewayRef, evidenceRef, failCode *string,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:          id,
		bookingID:   bookingID,
		method:      method,
		status:      status,
		amount:      amount,
		amountPaid:  amountPaid,
		isPartial:   isPartial,
		gatewayRef:  gatewayRef,
		evidenceRef: evidenceRef,
		failCode:    failCode,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// transition moves the payment to a new status or fails with
// InvalidTransitionError.
func (p *Payment) transition(to Status, now time.Time) error {
	if !CanTransition(p.status, to) {
		return &InvalidTransitionError{From: p.status, To: to}
	}
	p.status = to
	p.updatedAt = now
	return nil
}

// MarkPaid settles the payment. amountPaid records what was actually
// received, which differs from the full amount on a partial payment.
func (p *Payment) MarkPaid(amountPaid int64, now time.Time) error {
	if err := p.transition(StatusPaid, now); err != nil {
		return err
	}
	p.amountPaid = amountPaid
	return nil
}

func (p *Payment) MarkConfirmedDirect(now time.Time) error {
	if err := p.transition(StatusConfirmedDirect, now); err != nil {
		return err
	}
	p.amountPaid = p.amount
	return nil
}

func (p *Payment) MarkFailed(code string, now time.Time) error {
	if err := p.transition(StatusFailed, now); err != nil {
		return err
	}
	p.failCode = &code
	return nil
}

func (p *Payment) MarkRefunded(now time.Time) error {
	return p.transition(StatusRefunded, now)
}

// RequestBankConfirmation moves an online payment into the manual-review
// queue after the guest reports a transfer.
func (p *Payment) RequestBankConfirmation(now time.Time) error {
	return p.transition(StatusAwaitingConfirm, now)
}

// AttachEvidence records the transfer receipt reference. It is only
// meaningful while the payment awaits manual confirmation.
func (p *Payment) AttachEvidence(ref string, now time.Time) error {
	if p.status != StatusAwaitingConfirm {
		return &InvalidTransitionError{From: p.status, To: StatusAwaitingConfirm}
	}
	p.evidenceRef = &ref
	p.updatedAt = now
	return nil
}

func (p *Payment) SetGatewayRef(ref string) { p.gatewayRef = &ref }

func (p *Payment) ID() uuid.UUID        { return p.id }
func (p *Payment) BookingID() uuid.UUID { return p.bookingID }
func (p *Payment) Method() Method       { return p.method }
func (p *Payment) Status() Status       { return p.status }
func (p *Payment) Amount() int64        { return p.amount }
func (p *Payment) AmountPaid() int64    { return p.amountPaid }
func (p *Payment) IsPartial() bool      { return p.isPartial }
func (p *Payment) GatewayRef() *string  { return p.gatewayRef }
func (p *Payment) EvidenceRef() *string { return p.evidenceRef }
func (p *Payment) FailCode() *string    { return p.failCode }
func (p *Payment) CreatedAt() time.Time { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }
