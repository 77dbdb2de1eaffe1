package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/infra"
	"finca-reservations/internal/pkg/clock"
	"finca-reservations/internal/pkg/errs"
	"finca-reservations/internal/usecase/shared"
)

var (
	ErrHolidayExists   = errs.New("holiday override already exists")
	ErrHolidayNotFound = errs.New("holiday override not found")
)

// CalendarCommands manages admin-added holiday overrides. The algorithmic
// Colombian calendar is fixed; overrides only ever add days on top of it.
type CalendarCommands interface {
	AddHoliday(ctx context.Context, date time.Time, name string, adminID uuid.UUID) error
	RemoveHoliday(ctx context.Context, date time.Time, adminID uuid.UUID) error
}

type calendarCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCalendarCommands(uow shared.UnitOfWork, clk clock.Clock) CalendarCommands {
	return &calendarCommandsImpl{uow: uow, clock: clk}
}

func (c *calendarCommandsImpl) AddHoliday(ctx context.Context, date time.Time, name string, adminID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		h := calendar.Holiday{Date: calendar.Normalize(date), Name: name}
		if err := tx.Holidays().CreateOverride(ctx, tx.DB(), h); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrHolidayExists
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:  "holiday_added",
			ActorID: &adminID,
			Detail:  h.Date.Format("2006-01-02") + " " + name,
			At:      c.clock.Now(),
		})
	})
}

func (c *calendarCommandsImpl) RemoveHoliday(ctx context.Context, date time.Time, adminID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Holidays().DeleteOverride(ctx, tx.DB(), date); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrHolidayNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:  "holiday_removed",
			ActorID: &adminID,
			Detail:  calendar.Normalize(date).Format("2006-01-02"),
			At:      c.clock.Now(),
		})
	})
}
