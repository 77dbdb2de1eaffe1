package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/payment"
	"finca-reservations/internal/domain/pricing"
	"finca-reservations/internal/infra"
	"finca-reservations/internal/pkg/clock"
	"finca-reservations/internal/pkg/config"
	"finca-reservations/internal/pkg/errs"
	"finca-reservations/internal/usecase/shared"
)

var (
	ErrPaymentNotFound       = errs.New("payment not found")
	ErrBookingNotPayable     = errs.New("booking is not payable")
	ErrEvidenceOnExpired     = errs.New("cannot attach evidence to an expired booking")
	ErrEvidenceRequired      = errs.New("bank transfer requires evidence before confirmation")
	ErrGatewayFailed         = errs.New("payment gateway request failed")
	ErrUnknownGatewayPayment = errs.New("gateway event references unknown payment")
)

type CheckoutCommand struct {
	BookingID uuid.UUID
	Method    string
	IsPartial bool
}

type CheckoutResult struct {
	PaymentID   uuid.UUID
	Status      string
	Amount      int64
	CheckoutURL string
}

// WebhookResult distinguishes a settlement that changed state from an
// idempotent replay.
type WebhookResult struct {
	Status    string `json:"status"`
	BookingID *uuid.UUID
}

const (
	WebhookProcessed = "processed"
	WebhookIgnored   = "ignored"
)

type PaymentCommands interface {
	Checkout(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error)
	SubmitEvidence(ctx context.Context, bookingID uuid.UUID, evidenceRef string) error
	ConfirmBankTransfer(ctx context.Context, paymentID, adminID uuid.UUID) error
	ConfirmDirectPayment(ctx context.Context, paymentID, adminID uuid.UUID) error
	RejectPayment(ctx context.Context, paymentID, adminID uuid.UUID, failCode string) error
	SettleFromWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error)
	Refund(ctx context.Context, paymentID, adminID uuid.UUID) error
}

type paymentCommandsImpl struct {
	uow      shared.UnitOfWork
	gateway  PaymentGateway
	resolver *pricing.Resolver
	cfg      config.BookingConfig
	currency string
	clock    clock.Clock
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gw PaymentGateway,
	resolver *pricing.Resolver,
	cfg config.Config,
	clk clock.Clock,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:      uow,
		gateway:  gw,
		resolver: resolver,
		cfg:      cfg.Booking,
		currency: cfg.Pricing.Currency,
		clock:    clk,
	}
}

// Checkout opens the payment window for a pending booking. The charge is
// the rate-card total unless an admin pinned a manual total, and halves for
// a partial payment.
func (c *paymentCommandsImpl) Checkout(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	method := payment.Method(cmd.Method)
	if !method.IsValid() {
		return nil, payment.ErrInvalidMethod
	}

	var result *CheckoutResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByID(ctx, tx.DB(), cmd.BookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		now := c.clock.Now()
		if entity.Status() != booking.StatusPending || entity.HoldExpired(now) {
			return ErrBookingNotPayable
		}

		req := booking.Request{Stay: entity.Stay(), Plan: entity.Plan(), GuestCount: entity.GuestCount()}
		total := c.resolver.Price(req, entity.ManualTotal()).Total

		amount := total
		if cmd.IsPartial {
			amount = pricing.PartialAmount(total)
		}

		pay, err := payment.NewPayment(uuid.New(), entity.ID(), method, amount, cmd.IsPartial, now)
		if err != nil {
			return err
		}

		var checkoutURL string
		if method == payment.MethodOnlineGateway {
			intent, err := c.gateway.CreateIntent(ctx, pay.ID().String(), amount, c.currency)
			if err != nil {
				return errs.Mark(err, ErrGatewayFailed)
			}
			pay.SetGatewayRef(intent.Ref)
			checkoutURL = intent.CheckoutURL
		}

		// Only bank transfers and partial deposits get a payment deadline;
		// a full online or direct-agreement payment holds without one.
		if method == payment.MethodBankTransfer || cmd.IsPartial {
			entity.SetExpiry(now.Add(c.cfg.PaymentWindow))
		}
		if err := tx.Bookings().Update(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if _, err := tx.Payments().Create(ctx, tx.DB(), pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		bid, pid := entity.ID(), pay.ID()
		if err := tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:    "checkout_started",
			BookingID: &bid,
			PaymentID: &pid,
			Detail:    fmt.Sprintf("method=%s amount=%d partial=%t", method, amount, cmd.IsPartial),
			At:        now,
		}); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &CheckoutResult{
			PaymentID:   pay.ID(),
			Status:      string(pay.Status()),
			Amount:      amount,
			CheckoutURL: checkoutURL,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitEvidence attaches a transfer receipt. An expired booking rejects
// evidence outright: the guest must re-book instead of resurrecting a lapsed
// hold with paperwork.
func (c *paymentCommandsImpl) SubmitEvidence(ctx context.Context, bookingID uuid.UUID, evidenceRef string) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByID(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if entity.Status() == booking.StatusExpired || entity.HoldExpired(c.clock.Now()) {
			return ErrEvidenceOnExpired
		}

		pay, err := tx.Payments().FindByBookingID(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// An online payment falls back to manual review when the guest
		// reports a direct transfer instead.
		if pay.Status() == payment.StatusPendingPayment {
			if err := pay.RequestBankConfirmation(c.clock.Now()); err != nil {
				return err
			}
		}
		if err := pay.AttachEvidence(evidenceRef, c.clock.Now()); err != nil {
			return err
		}

		if err := tx.Payments().Update(ctx, tx.DB(), pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		pid := pay.ID()
		return tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:    "evidence_submitted",
			BookingID: &bookingID,
			PaymentID: &pid,
			Detail:    evidenceRef,
			At:        c.clock.Now(),
		})
	})
}

func (c *paymentCommandsImpl) ConfirmBankTransfer(ctx context.Context, paymentID, adminID uuid.UUID) error {
	return c.settle(ctx, paymentID, &adminID, "bank_transfer_confirmed", func(pay *payment.Payment) error {
		if pay.EvidenceRef() == nil {
			return ErrEvidenceRequired
		}
		return pay.MarkPaid(pay.Amount(), c.clock.Now())
	})
}

func (c *paymentCommandsImpl) ConfirmDirectPayment(ctx context.Context, paymentID, adminID uuid.UUID) error {
	return c.settle(ctx, paymentID, &adminID, "direct_payment_confirmed", func(pay *payment.Payment) error {
		return pay.MarkConfirmedDirect(c.clock.Now())
	})
}

// settle runs one settlement transition and confirms the booking under the
// property lock. A booking that expired while awaiting settlement is
// reactivated only if its dates are still free.
func (c *paymentCommandsImpl) settle(ctx context.Context, paymentID uuid.UUID, actorID *uuid.UUID, action string, transition func(*payment.Payment) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		pay, err := tx.Payments().FindByID(ctx, tx.DB(), paymentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := transition(pay); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, tx.DB(), pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := c.confirmBooking(ctx, tx, pay.BookingID()); err != nil {
			return err
		}

		bid, pid := pay.BookingID(), pay.ID()
		return tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:    action,
			BookingID: &bid,
			PaymentID: &pid,
			ActorID:   actorID,
			At:        c.clock.Now(),
		})
	})
}

func (c *paymentCommandsImpl) confirmBooking(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) error {
	entity, err := tx.Bookings().FindByID(ctx, tx.DB(), bookingID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Late settlement of an expired hold wins the dates back only if nothing
	// conflicting was admitted in between.
	if entity.Status() == booking.StatusExpired || entity.HoldExpired(c.clock.Now()) {
		if err := tx.Properties().Lock(ctx, tx.DB(), entity.PropertyID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		holding, err := tx.Bookings().FindHolding(ctx, tx.DB(), entity.PropertyID(), entity.Stay())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, other := range holding {
			if other.ID() == entity.ID() || other.HoldExpired(c.clock.Now()) {
				continue
			}
			if entity.Stay().Overlaps(other.Stay()) {
				return &booking.OverbookingError{
					PropertyID: entity.PropertyID().String(),
					Message:    "dates were taken while the payment was pending",
				}
			}
		}
	}

	if err := entity.Confirm(); err != nil {
		return err
	}
	if err := tx.Bookings().Update(ctx, tx.DB(), entity); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return c.notifyConfirmed(ctx, tx, entity.ID())
}

func (c *paymentCommandsImpl) notifyConfirmed(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) error {
	payload := []byte(fmt.Sprintf(`{"booking_id":%q,"type":"booking_confirmed"}`, bookingID))
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "booking_confirmed", payload, c.clock.Now())
}

func (c *paymentCommandsImpl) RejectPayment(ctx context.Context, paymentID, adminID uuid.UUID, failCode string) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		pay, err := tx.Payments().FindByID(ctx, tx.DB(), paymentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := pay.MarkFailed(failCode, c.clock.Now()); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, tx.DB(), pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		bid, pid := pay.BookingID(), pay.ID()
		return tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:    "payment_rejected",
			BookingID: &bid,
			PaymentID: &pid,
			ActorID:   &adminID,
			Detail:    failCode,
			At:        c.clock.Now(),
		})
	})
}

// SettleFromWebhook applies a verified gateway callback. Replays against an
// already-settled payment return an ignored result without touching state.
func (c *paymentCommandsImpl) SettleFromWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := c.gateway.ValidateCallback(ctx, payload, signature)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailed)
	}

	var result *WebhookResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().PaymentByGatewayRef(ctx, event.Ref)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrUnknownGatewayPayment
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if payment.Status(snap.Status).IsTerminal() {
			result = &WebhookResult{Status: WebhookIgnored, BookingID: &snap.BookingID}
			return nil
		}

		pay, err := tx.Payments().FindByID(ctx, tx.DB(), snap.ID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if event.Approved {
			if err := pay.MarkPaid(event.Amount, c.clock.Now()); err != nil {
				return err
			}
		} else {
			code := event.FailCode
			if code == "" {
				code = "gateway_declined"
			}
			if err := pay.MarkFailed(code, c.clock.Now()); err != nil {
				return err
			}
		}
		if err := tx.Payments().Update(ctx, tx.DB(), pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if event.Approved {
			if err := c.confirmBooking(ctx, tx, pay.BookingID()); err != nil {
				return err
			}
		}

		bid, pid := pay.BookingID(), pay.ID()
		if err := tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:    "gateway_webhook",
			BookingID: &bid,
			PaymentID: &pid,
			Detail:    fmt.Sprintf("approved=%t ref=%s", event.Approved, event.Ref),
			At:        c.clock.Now(),
		}); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &WebhookResult{Status: WebhookProcessed, BookingID: &bid}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *paymentCommandsImpl) Refund(ctx context.Context, paymentID, adminID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		pay, err := tx.Payments().FindByID(ctx, tx.DB(), paymentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := pay.MarkRefunded(c.clock.Now()); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, tx.DB(), pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		entity, err := tx.Bookings().FindByID(ctx, tx.DB(), pay.BookingID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := entity.Cancel(); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		bid, pid := pay.BookingID(), pay.ID()
		return tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:    "payment_refunded",
			BookingID: &bid,
			PaymentID: &pid,
			ActorID:   &adminID,
			At:        c.clock.Now(),
		})
	})
}
