package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/domain/pricing"
	"finca-reservations/internal/infra"
	"finca-reservations/internal/pkg/clock"
	"finca-reservations/internal/pkg/errs"
	"finca-reservations/internal/usecase/shared"
)

var (
	ErrPropertyNotFound        = errs.New("property not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrInvalidStay             = errs.New("invalid stay range")
	ErrInvalidPlan             = errs.New("invalid plan")
	ErrOverrideReasonRequired  = errs.New("override requires a reason")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type OverrideRequest struct {
	AdminID     uuid.UUID
	Reason      string
	ManualTotal *int64
}

type CreateBookingCommand struct {
	PropertyID uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	Plan       string
	GuestCount int
	Guest      booking.Guest
	Override   *OverrideRequest
}

type CreateBookingResult struct {
	BookingID     uuid.UUID
	Status        string
	RulesBypassed []string
	Quote         pricing.Quote
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error)
	BlockDates(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time, adminID uuid.UUID, reason string) (uuid.UUID, error)
	CancelBooking(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
	CompleteBooking(ctx context.Context, id, adminID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow       shared.UnitOfWork
	validator *booking.Validator
	resolver  *pricing.Resolver
	clock     clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	validator *booking.Validator,
	resolver *pricing.Resolver,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:       uow,
		validator: validator,
		resolver:  resolver,
		clock:     clk,
	}
}

// CreateBooking is the admission pipeline: strict pre-checks, commercial
// rules (collected as bypassed under an admin override), then the serialized
// availability check and persist inside one transaction. Overbooking is
// checked under the property lock and is never bypassable.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	stay, err := booking.NewStayRange(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidStay)
	}
	plan := booking.Plan(cmd.Plan)
	if !plan.IsValid() {
		return nil, errs.Mark(fmt.Errorf("plan %q", cmd.Plan), ErrInvalidPlan)
	}
	if cmd.Override != nil && cmd.Override.Reason == "" {
		return nil, ErrOverrideReasonRequired
	}

	req := booking.Request{Stay: stay, Plan: plan, GuestCount: cmd.GuestCount}

	if violation := c.validator.PreCheck(req); violation != nil {
		return nil, violation
	}

	hol, err := c.holidayContext(ctx, stay)
	if err != nil {
		return nil, err
	}

	bypassed, err := c.runCommercialRules(req, hol, cmd.Override != nil)
	if err != nil {
		return nil, err
	}

	entity, err := booking.NewBooking(cmd.PropertyID, stay, plan, cmd.GuestCount, cmd.Guest)
	if err != nil {
		return nil, err
	}
	if cmd.Override != nil {
		if err := entity.ApplyOverride(cmd.Override.AdminID, cmd.Override.Reason, bypassed, c.clock.Now()); err != nil {
			return nil, err
		}
		if cmd.Override.ManualTotal != nil {
			entity.SetManualTotal(*cmd.Override.ManualTotal)
		}
	}

	var manualTotal *int64
	if cmd.Override != nil {
		manualTotal = cmd.Override.ManualTotal
	}
	quote := c.resolver.Price(req, manualTotal)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Properties().Lock(ctx, tx.DB(), cmd.PropertyID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPropertyNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := c.checkConflicts(ctx, tx, cmd.PropertyID, stay); err != nil {
			return err
		}

		if _, err := tx.Bookings().Create(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := c.appendAdmissionAudit(ctx, tx, entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return c.enqueueNotification(ctx, tx, "booking_created", entity.ID())
	})
	if err != nil {
		return nil, err
	}

	return &CreateBookingResult{
		BookingID:     entity.ID(),
		Status:        string(entity.Status()),
		RulesBypassed: bypassed,
		Quote:         quote,
	}, nil
}

// runCommercialRules enforces the plan's rules. Without an override the
// first violation aborts; with one, every violation is collected into the
// bypassed audit list as "rule: message" and admission proceeds.
func (c *bookingCommandsImpl) runCommercialRules(req booking.Request, hol calendar.Context, override bool) ([]string, error) {
	if !override {
		for _, rule := range c.validator.PlanRules(req.Plan) {
			if violation := rule.Check(req, hol); violation != nil {
				return nil, violation
			}
		}
		return nil, nil
	}

	var bypassed []string
	for _, rule := range c.validator.PlanRules(req.Plan) {
		if violation := rule.Check(req, hol); violation != nil {
			bypassed = append(bypassed, fmt.Sprintf("%s: %s", violation.Rule, violation.Message))
		}
	}
	return bypassed, nil
}

// checkConflicts applies the exact overlap predicate to the candidate holds
// fetched under the property lock. Pending holds whose payment window has
// already lapsed no longer block admission even before the sweep visits them.
func (c *bookingCommandsImpl) checkConflicts(ctx context.Context, tx shared.Tx, propertyID uuid.UUID, stay booking.StayRange) error {
	holding, err := tx.Bookings().FindHolding(ctx, tx.DB(), propertyID, stay)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	now := c.clock.Now()
	for _, existing := range holding {
		if existing.HoldExpired(now) {
			continue
		}
		if stay.Overlaps(existing.Stay()) {
			return &booking.OverbookingError{
				PropertyID: propertyID.String(),
				Message: fmt.Sprintf("dates %s to %s conflict with an existing booking",
					stay.CheckIn().Format("2006-01-02"), stay.CheckOut().Format("2006-01-02")),
			}
		}
	}
	return nil
}

// holidayContext merges the algorithmic calendar with stored overrides for
// every year the stay or its window touches.
func (c *bookingCommandsImpl) holidayContext(ctx context.Context, stay booking.StayRange) (calendar.Context, error) {
	winStart, winEnd := calendar.Window(stay.CheckIn())

	years := map[int]bool{}
	for _, d := range []time.Time{winStart, winEnd, stay.CheckIn(), stay.CheckOut()} {
		years[d.Year()] = true
	}

	reads := c.uow.CommandReads()
	var overrides []calendar.Holiday
	for year := range years {
		list, err := reads.HolidayOverrides(ctx, year)
		if err != nil {
			return calendar.Context{}, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		overrides = append(overrides, list...)
	}

	return calendar.BuildContext(stay.CheckIn(), stay.CheckOut(), overrides), nil
}

func (c *bookingCommandsImpl) appendAdmissionAudit(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	action := "booking_created"
	detail := fmt.Sprintf("plan=%s guests=%d %s to %s",
		b.Plan(), b.GuestCount(),
		b.Stay().CheckIn().Format("2006-01-02"), b.Stay().CheckOut().Format("2006-01-02"))

	if ov := b.Override(); ov != nil {
		action = "booking_created_override"
		detail += fmt.Sprintf(" override_reason=%q bypassed=%d", ov.Reason, len(ov.RulesBypassed))
	}

	id := b.ID()
	entry := shared.AuditEntry{
		Action:    action,
		BookingID: &id,
		ActorID:   b.CreatedBy(),
		Detail:    detail,
		At:        c.clock.Now(),
	}
	return tx.Audit().Append(ctx, tx.DB(), entry)
}

func (c *bookingCommandsImpl) enqueueNotification(ctx context.Context, tx shared.Tx, topic string, bookingID uuid.UUID) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id": bookingID,
		"type":       topic,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", topic, payload, c.clock.Now())
}

// BlockDates reserves a range for maintenance. Blocks skip commercial rules
// entirely but still contend for dates like any other hold.
func (c *bookingCommandsImpl) BlockDates(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time, adminID uuid.UUID, reason string) (uuid.UUID, error) {
	stay, err := booking.NewStayRange(checkIn, checkOut)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidStay)
	}

	block := booking.NewBlock(propertyID, stay)
	block.SetCreatedBy(adminID)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Properties().Lock(ctx, tx.DB(), propertyID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPropertyNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := c.checkConflicts(ctx, tx, propertyID, stay); err != nil {
			return err
		}

		if _, err := tx.Bookings().Create(ctx, tx.DB(), block); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		id := block.ID()
		return tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:    "dates_blocked",
			BookingID: &id,
			ActorID:   &adminID,
			Detail:    reason,
			At:        c.clock.Now(),
		})
	})
	if err != nil {
		return uuid.Nil, err
	}
	return block.ID(), nil
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByID(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := entity.Cancel(); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		bid := entity.ID()
		return tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:    "booking_cancelled",
			BookingID: &bid,
			ActorID:   actorID,
			At:        c.clock.Now(),
		})
	})
}

// CompleteBooking closes out a confirmed stay after checkout.
func (c *bookingCommandsImpl) CompleteBooking(ctx context.Context, id, adminID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByID(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := entity.MarkCompleted(); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		bid := entity.ID()
		return tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			Action:    "booking_completed",
			BookingID: &bid,
			ActorID:   &adminID,
			At:        c.clock.Now(),
		})
	})
}
