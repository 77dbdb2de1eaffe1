//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/payment"
	"finca-reservations/internal/domain/pricing"
	"finca-reservations/internal/infra/gateway"
	"finca-reservations/internal/pkg/clock"
	"finca-reservations/internal/pkg/config"
	"finca-reservations/internal/usecase/commands"
	"finca-reservations/tests/common/fake"
)

type paymentFixture struct {
	store      *fake.Store
	clock      *clock.MockClock
	gateway    *gateway.DummyGateway
	bookings   commands.BookingCommands
	payments   commands.PaymentCommands
	propertyID uuid.UUID
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	cfg := config.NewTestConfig()
	store := fake.NewStore()
	propertyID := uuid.New()
	store.AddProperty(propertyID, "Finca La Esperanza")

	clk := clock.NewMockClock(testNow)
	uow := fake.NewUoW(store)
	validator := booking.NewValidator(testPolicy, clk.Now)
	resolver := pricing.NewResolver(testRates)
	gw := gateway.NewDummyGateway(cfg.Gateway, clk)

	return &paymentFixture{
		store:      store,
		clock:      clk,
		gateway:    gw.(*gateway.DummyGateway),
		bookings:   commands.NewBookingCommands(uow, validator, resolver, clk),
		payments:   commands.NewPaymentCommands(uow, gw, resolver, cfg, clk),
		propertyID: propertyID,
	}
}

// admit books the default weekday stay and returns its ID.
func (f *paymentFixture) admit(t *testing.T) uuid.UUID {
	t.Helper()
	result, err := f.bookings.CreateBooking(context.Background(), commands.CreateBookingCommand{
		PropertyID: f.propertyID,
		CheckIn:    d(2026, time.March, 2),
		CheckOut:   d(2026, time.March, 4),
		Plan:       string(booking.PlanFullWeekday),
		GuestCount: 12,
		Guest:      booking.Guest{Name: "Ana Torres"},
	})
	require.NoError(t, err)
	return result.BookingID
}

func (f *paymentFixture) checkout(t *testing.T, bookingID uuid.UUID, method payment.Method) *commands.CheckoutResult {
	t.Helper()
	result, err := f.payments.Checkout(context.Background(), commands.CheckoutCommand{
		BookingID: bookingID,
		Method:    string(method),
	})
	require.NoError(t, err)
	return result
}

func TestCheckout(t *testing.T) {
	fullTotal := int64(12*2*55000 + 70000)

	t.Run("opens the payment window at the quoted total", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)

		result := f.checkout(t, bookingID, payment.MethodBankTransfer)

		assert.Equal(t, fullTotal, result.Amount)
		assert.Equal(t, string(payment.StatusAwaitingConfirm), result.Status)
		assert.Empty(t, result.CheckoutURL, "only the online gateway issues a checkout URL")

		stored := f.store.Booking(bookingID)
		require.NotNil(t, stored.ExpiresAt())
		assert.Equal(t, testNow.Add(time.Hour), *stored.ExpiresAt())
	})

	t.Run("partial payment halves the charge and starts the deadline", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)

		result, err := f.payments.Checkout(context.Background(), commands.CheckoutCommand{
			BookingID: bookingID,
			Method:    string(payment.MethodOnlineGateway),
			IsPartial: true,
		})
		require.NoError(t, err)
		assert.Equal(t, fullTotal/2, result.Amount)
		require.NotNil(t, f.store.Booking(bookingID).ExpiresAt(), "partial deposits are deadlined even online")
	})

	t.Run("online gateway issues a ref and checkout URL", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)

		result := f.checkout(t, bookingID, payment.MethodOnlineGateway)

		assert.NotEmpty(t, result.CheckoutURL)
		stored := f.store.Payment(result.PaymentID)
		require.NotNil(t, stored.GatewayRef())
	})

	t.Run("full payment outside bank transfer holds without a deadline", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)

		f.checkout(t, bookingID, payment.MethodDirectAgreement)
		assert.Nil(t, f.store.Booking(bookingID).ExpiresAt())

		f.clock.Add(2 * time.Hour)
		sweep := commands.NewSweepCommands(fake.NewUoW(f.store), f.clock)
		count, err := sweep.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Equal(t, booking.StatusPending, f.store.Booking(bookingID).Status())
	})

	t.Run("confirmed booking is not payable again", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)

		result := f.checkout(t, bookingID, payment.MethodBankTransfer)
		require.NoError(t, f.payments.SubmitEvidence(context.Background(), bookingID, "receipt-1"))
		require.NoError(t, f.payments.ConfirmBankTransfer(context.Background(), result.PaymentID, uuid.New()))

		_, err := f.payments.Checkout(context.Background(), commands.CheckoutCommand{
			BookingID: bookingID,
			Method:    string(payment.MethodBankTransfer),
		})
		assert.ErrorIs(t, err, commands.ErrBookingNotPayable)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.payments.Checkout(context.Background(), commands.CheckoutCommand{
			BookingID: uuid.New(),
			Method:    string(payment.MethodBankTransfer),
		})
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestSubmitEvidence(t *testing.T) {
	t.Run("attaches the receipt to a bank transfer", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodBankTransfer)

		require.NoError(t, f.payments.SubmitEvidence(context.Background(), bookingID, "receipt-14"))

		stored := f.store.Payment(result.PaymentID)
		require.NotNil(t, stored.EvidenceRef())
		assert.Equal(t, "receipt-14", *stored.EvidenceRef())
	})

	t.Run("diverts an online payment to manual review", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodOnlineGateway)

		require.NoError(t, f.payments.SubmitEvidence(context.Background(), bookingID, "receipt-15"))

		stored := f.store.Payment(result.PaymentID)
		assert.Equal(t, payment.StatusAwaitingConfirm, stored.Status())
	})

	t.Run("rejected once the hold has lapsed", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		f.checkout(t, bookingID, payment.MethodBankTransfer)

		f.clock.Add(2 * time.Hour)

		err := f.payments.SubmitEvidence(context.Background(), bookingID, "receipt-16")
		assert.ErrorIs(t, err, commands.ErrEvidenceOnExpired)
	})
}

func TestManualSettlement(t *testing.T) {
	t.Run("bank transfer confirmation settles and confirms the booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		adminID := uuid.New()
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodBankTransfer)
		require.NoError(t, f.payments.SubmitEvidence(context.Background(), bookingID, "receipt-2"))

		require.NoError(t, f.payments.ConfirmBankTransfer(context.Background(), result.PaymentID, adminID))

		pay := f.store.Payment(result.PaymentID)
		assert.Equal(t, payment.StatusPaid, pay.Status())
		assert.Equal(t, pay.Amount(), pay.AmountPaid())
		assert.Equal(t, booking.StatusConfirmed, f.store.Booking(bookingID).Status())
	})

	t.Run("direct agreement confirmation settles as confirmed direct", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodDirectAgreement)

		require.NoError(t, f.payments.ConfirmDirectPayment(context.Background(), result.PaymentID, uuid.New()))

		assert.Equal(t, payment.StatusConfirmedDirect, f.store.Payment(result.PaymentID).Status())
		assert.Equal(t, booking.StatusConfirmed, f.store.Booking(bookingID).Status())
	})

	t.Run("bank transfer cannot be confirmed without evidence", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodBankTransfer)

		err := f.payments.ConfirmBankTransfer(context.Background(), result.PaymentID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrEvidenceRequired)
		assert.Equal(t, payment.StatusAwaitingConfirm, f.store.Payment(result.PaymentID).Status())
	})

	t.Run("late settlement reactivates an expired hold when dates are free", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodBankTransfer)
		require.NoError(t, f.payments.SubmitEvidence(context.Background(), bookingID, "receipt-3"))

		f.clock.Add(2 * time.Hour) // window lapses, dates stay free

		require.NoError(t, f.payments.ConfirmBankTransfer(context.Background(), result.PaymentID, uuid.New()))
		assert.Equal(t, booking.StatusConfirmed, f.store.Booking(bookingID).Status())
	})

	t.Run("late settlement loses dates taken in the meantime", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodBankTransfer)
		require.NoError(t, f.payments.SubmitEvidence(context.Background(), bookingID, "receipt-4"))

		f.clock.Add(2 * time.Hour)
		newcomer := f.admit(t) // same dates, admitted past the lapsed hold
		newcomerPay := f.checkout(t, newcomer, payment.MethodBankTransfer)
		require.NoError(t, f.payments.SubmitEvidence(context.Background(), newcomer, "receipt-5"))
		require.NoError(t, f.payments.ConfirmBankTransfer(context.Background(), newcomerPay.PaymentID, uuid.New()))

		err := f.payments.ConfirmBankTransfer(context.Background(), result.PaymentID, uuid.New())
		var overErr *booking.OverbookingError
		assert.ErrorAs(t, err, &overErr)
	})

	t.Run("rejection records the failure code", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodBankTransfer)

		require.NoError(t, f.payments.RejectPayment(context.Background(), result.PaymentID, uuid.New(), "forged_receipt"))

		pay := f.store.Payment(result.PaymentID)
		assert.Equal(t, payment.StatusFailed, pay.Status())
		require.NotNil(t, pay.FailCode())
		assert.Equal(t, "forged_receipt", *pay.FailCode())
		assert.Equal(t, booking.StatusPending, f.store.Booking(bookingID).Status(), "the hold keeps running until swept")
	})

	t.Run("refund cancels the booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodBankTransfer)
		require.NoError(t, f.payments.SubmitEvidence(context.Background(), bookingID, "receipt-6"))
		require.NoError(t, f.payments.ConfirmBankTransfer(context.Background(), result.PaymentID, uuid.New()))

		require.NoError(t, f.payments.Refund(context.Background(), result.PaymentID, uuid.New()))

		assert.Equal(t, payment.StatusRefunded, f.store.Payment(result.PaymentID).Status())
		assert.Equal(t, booking.StatusCancelled, f.store.Booking(bookingID).Status())
	})
}

func TestSettleFromWebhook(t *testing.T) {
	webhook := func(f *paymentFixture, ref string, approved bool, amount int64) ([]byte, string) {
		payload := []byte(fmt.Sprintf(`{"ref":%q,"approved":%t,"amount":%d}`, ref, approved, amount))
		return payload, f.gateway.Sign(payload)
	}

	t.Run("approved callback settles and confirms", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodOnlineGateway)

		ref := *f.store.Payment(result.PaymentID).GatewayRef()
		payload, sig := webhook(f, ref, true, result.Amount)

		got, err := f.payments.SettleFromWebhook(context.Background(), payload, sig)
		require.NoError(t, err)
		assert.Equal(t, commands.WebhookProcessed, got.Status)

		assert.Equal(t, payment.StatusPaid, f.store.Payment(result.PaymentID).Status())
		assert.Equal(t, booking.StatusConfirmed, f.store.Booking(bookingID).Status())
	})

	t.Run("replay of a settled payment is ignored", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodOnlineGateway)

		ref := *f.store.Payment(result.PaymentID).GatewayRef()
		payload, sig := webhook(f, ref, true, result.Amount)

		_, err := f.payments.SettleFromWebhook(context.Background(), payload, sig)
		require.NoError(t, err)

		got, err := f.payments.SettleFromWebhook(context.Background(), payload, sig)
		require.NoError(t, err)
		assert.Equal(t, commands.WebhookIgnored, got.Status)
		assert.Equal(t, payment.StatusPaid, f.store.Payment(result.PaymentID).Status())
	})

	t.Run("declined callback fails the payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		bookingID := f.admit(t)
		result := f.checkout(t, bookingID, payment.MethodOnlineGateway)

		ref := *f.store.Payment(result.PaymentID).GatewayRef()
		payload, sig := webhook(f, ref, false, 0)

		got, err := f.payments.SettleFromWebhook(context.Background(), payload, sig)
		require.NoError(t, err)
		assert.Equal(t, commands.WebhookProcessed, got.Status)

		pay := f.store.Payment(result.PaymentID)
		assert.Equal(t, payment.StatusFailed, pay.Status())
		require.NotNil(t, pay.FailCode())
		assert.Equal(t, "gateway_declined", *pay.FailCode())
		assert.Equal(t, booking.StatusPending, f.store.Booking(bookingID).Status())
	})

	t.Run("bad signature is refused", func(t *testing.T) {
		f := newPaymentFixture(t)
		payload := []byte(`{"ref":"x","approved":true,"amount":1}`)

		_, err := f.payments.SettleFromWebhook(context.Background(), payload, "deadbeef")
		assert.ErrorIs(t, err, commands.ErrGatewayFailed)
	})

	t.Run("unknown ref is refused", func(t *testing.T) {
		f := newPaymentFixture(t)
		payload, sig := webhook(f, "no-such-ref", true, 1)

		_, err := f.payments.SettleFromWebhook(context.Background(), payload, sig)
		assert.ErrorIs(t, err, commands.ErrUnknownGatewayPayment)
	})
}
