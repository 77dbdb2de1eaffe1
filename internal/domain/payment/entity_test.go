//go:build unit

package payment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/domain/payment"
	"finca-reservations/tests/common/builder"
)

var now = time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

func buildPayment(t *testing.T, method payment.Method) *payment.Payment {
	t.Helper()
	p, err := builder.NewPaymentBuilder().WithMethod(method).BuildDomain()
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("initial status follows the method", func(t *testing.T) {
		tests := []struct {
			method payment.Method
			want   payment.Status
		}{
			{payment.MethodOnlineGateway, payment.StatusPendingPayment},
			{payment.MethodBankTransfer, payment.StatusAwaitingConfirm},
			{payment.MethodDirectAgreement, payment.StatusPendingDirect},
		}
		for _, tt := range tests {
			p := buildPayment(t, tt.method)
			assert.Equal(t, tt.want, p.Status(), "method %s", tt.method)
		}
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		_, err := builder.NewPaymentBuilder().WithMethod("cash_on_arrival").BuildDomain()
		assert.ErrorIs(t, err, payment.ErrInvalidMethod)
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		_, err := builder.NewPaymentBuilder().WithAmount(0).BuildDomain()
		assert.ErrorIs(t, err, payment.ErrAmountInvalid)
	})
}

func TestStatusMachine(t *testing.T) {
	t.Run("online payment settles through mark paid", func(t *testing.T) {
		p := buildPayment(t, payment.MethodOnlineGateway)
		require.NoError(t, p.MarkPaid(380000, now))
		assert.Equal(t, payment.StatusPaid, p.Status())
		assert.Equal(t, int64(380000), p.AmountPaid())
	})

	t.Run("direct agreement settles through confirmed direct", func(t *testing.T) {
		p := buildPayment(t, payment.MethodDirectAgreement)
		require.NoError(t, p.MarkConfirmedDirect(now))
		assert.Equal(t, payment.StatusConfirmedDirect, p.Status())
		assert.Equal(t, p.Amount(), p.AmountPaid())
	})

	t.Run("direct agreement cannot mark paid", func(t *testing.T) {
		p := buildPayment(t, payment.MethodDirectAgreement)
		err := p.MarkPaid(380000, now)

		var transErr *payment.InvalidTransitionError
		require.ErrorAs(t, err, &transErr)
		assert.Equal(t, payment.StatusPendingDirect, transErr.From)
		assert.Equal(t, payment.StatusPaid, transErr.To)
	})

	t.Run("settled payment only refunds", func(t *testing.T) {
		p := buildPayment(t, payment.MethodOnlineGateway)
		require.NoError(t, p.MarkPaid(380000, now))

		assert.Error(t, p.MarkFailed("late", now))
		require.NoError(t, p.MarkRefunded(now))
		assert.Equal(t, payment.StatusRefunded, p.Status())
	})

	t.Run("failed payment is terminal", func(t *testing.T) {
		p := buildPayment(t, payment.MethodOnlineGateway)
		require.NoError(t, p.MarkFailed("gateway_declined", now))

		require.NotNil(t, p.FailCode())
		assert.Equal(t, "gateway_declined", *p.FailCode())
		assert.Error(t, p.MarkPaid(380000, now))
		assert.Error(t, p.MarkRefunded(now))
	})

	t.Run("online payment diverts to manual review on reported transfer", func(t *testing.T) {
		p := buildPayment(t, payment.MethodOnlineGateway)
		require.NoError(t, p.RequestBankConfirmation(now))
		assert.Equal(t, payment.StatusAwaitingConfirm, p.Status())
		require.NoError(t, p.MarkPaid(380000, now))
	})
}

func TestAttachEvidence(t *testing.T) {
	t.Run("accepted while awaiting confirmation", func(t *testing.T) {
		p := buildPayment(t, payment.MethodBankTransfer)
		require.NoError(t, p.AttachEvidence("receipt-14", now))
		require.NotNil(t, p.EvidenceRef())
		assert.Equal(t, "receipt-14", *p.EvidenceRef())
	})

	t.Run("rejected in any other status", func(t *testing.T) {
		p := buildPayment(t, payment.MethodDirectAgreement)
		assert.Error(t, p.AttachEvidence("receipt-14", now))
	})
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, payment.StatusPaid.IsSettled())
	assert.True(t, payment.StatusConfirmedDirect.IsSettled())
	assert.False(t, payment.StatusAwaitingConfirm.IsSettled())

	assert.True(t, payment.StatusFailed.IsTerminal())
	assert.True(t, payment.StatusRefunded.IsTerminal())
	assert.False(t, payment.StatusPendingPayment.IsTerminal())
}
