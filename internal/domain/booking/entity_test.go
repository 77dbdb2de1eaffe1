//go:build unit

package booking_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/tests/common/builder"
)

func TestNewBooking(t *testing.T) {
	t.Run("starts pending with no override", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, booking.StatusPending, b.Status())
		assert.False(t, b.IsOverride())
		assert.Nil(t, b.ExpiresAt())
		assert.NotEqual(t, uuid.Nil, b.ID())
	})

	t.Run("invalid plan is rejected", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().WithPlan("weekend_special").BuildDomain()
		assert.ErrorIs(t, err, booking.ErrInvalidPlan)
	})
}

func TestBookingTransitions(t *testing.T) {
	build := func(t *testing.T, status booking.Status) *booking.Booking {
		t.Helper()
		b, err := builder.NewBookingBuilder().WithStatus(status).BuildDomain()
		require.NoError(t, err)
		return b
	}

	t.Run("confirm clears the payment deadline", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().
			WithExpiry(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)).
			BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.Confirm())
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Nil(t, b.ExpiresAt())
	})

	t.Run("confirm reactivates an expired booking", func(t *testing.T) {
		b := build(t, booking.StatusExpired)
		require.NoError(t, b.Confirm())
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("confirm is idempotent on a confirmed booking", func(t *testing.T) {
		b := build(t, booking.StatusConfirmed)
		assert.NoError(t, b.Confirm())
	})

	t.Run("confirm of a cancelled booking fails", func(t *testing.T) {
		b := build(t, booking.StatusCancelled)
		assert.ErrorIs(t, b.Confirm(), booking.ErrInvalidStatus)
	})

	t.Run("expire only applies to pending", func(t *testing.T) {
		b := build(t, booking.StatusPending)
		require.NoError(t, b.Expire())
		assert.Equal(t, booking.StatusExpired, b.Status())

		confirmed := build(t, booking.StatusConfirmed)
		assert.ErrorIs(t, confirmed.Expire(), booking.ErrInvalidStatus)
	})

	t.Run("cancel covers live statuses but not completed", func(t *testing.T) {
		for _, status := range []booking.Status{
			booking.StatusPending, booking.StatusConfirmed, booking.StatusExpired, booking.StatusBlocked,
		} {
			b := build(t, status)
			assert.NoError(t, b.Cancel(), "cancel from %s", status)
		}

		completed := build(t, booking.StatusCompleted)
		assert.ErrorIs(t, completed.Cancel(), booking.ErrInvalidStatus)
	})

	t.Run("complete only applies to confirmed", func(t *testing.T) {
		b := build(t, booking.StatusConfirmed)
		require.NoError(t, b.MarkCompleted())
		assert.Equal(t, booking.StatusCompleted, b.Status())

		pending := build(t, booking.StatusPending)
		assert.ErrorIs(t, pending.MarkCompleted(), booking.ErrInvalidStatus)
	})
}

func TestHoldExpired(t *testing.T) {
	deadline := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	b, err := builder.NewBookingBuilder().WithExpiry(deadline).BuildDomain()
	require.NoError(t, err)

	assert.False(t, b.HoldExpired(deadline.Add(-time.Minute)))
	assert.True(t, b.HoldExpired(deadline.Add(time.Minute)))

	require.NoError(t, b.Confirm())
	assert.False(t, b.HoldExpired(deadline.Add(time.Minute)), "only pending holds expire")
}

func TestApplyOverride(t *testing.T) {
	adminID := uuid.New()
	at := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)

	t.Run("records reason, bypassed rules and actor", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		bypassed := []string{"min_group_size: full-property plans require at least 10 guests"}
		require.NoError(t, b.ApplyOverride(adminID, "regular corporate client", bypassed, at))

		ov := b.Override()
		require.NotNil(t, ov)
		assert.Equal(t, "regular corporate client", ov.Reason)
		assert.Equal(t, bypassed, ov.RulesBypassed)
		assert.Equal(t, adminID, ov.AdminID)
		require.NotNil(t, b.CreatedBy())
		assert.Equal(t, adminID, *b.CreatedBy())
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		assert.ErrorIs(t, b.ApplyOverride(adminID, "", nil, at), booking.ErrOverrideNoReason)
	})
}
