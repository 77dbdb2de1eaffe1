package commands

import (
	"context"
	"log/slog"

	"finca-reservations/internal/pkg/clock"
	"finca-reservations/internal/pkg/errs"
	"finca-reservations/internal/usecase/shared"
)

type SweepCommands interface {
	// SweepExpired releases every pending hold whose payment window lapsed.
	// Returns the number of bookings expired.
	SweepExpired(ctx context.Context) (int, error)
}

type sweepCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSweepCommands(uow shared.UnitOfWork, clk clock.Clock) SweepCommands {
	return &sweepCommandsImpl{uow: uow, clock: clk}
}

func (c *sweepCommandsImpl) SweepExpired(ctx context.Context) (int, error) {
	now := c.clock.Now()
	expired := 0

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		lapsed, err := tx.Bookings().ListExpiredPending(ctx, tx.DB(), now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		for _, b := range lapsed {
			// Status-guarded write: a hold settled between the read above
			// and this statement stays confirmed.
			flipped, err := tx.Bookings().ExpireIfPending(ctx, tx.DB(), b.ID())
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if !flipped {
				continue
			}

			id := b.ID()
			if err := tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
				Action:    "booking_expired",
				BookingID: &id,
				Detail:    "payment window lapsed",
				At:        now,
			}); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		slog.Info("expired pending bookings released", "count", expired)
	}
	return expired, nil
}
