package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/domain/pricing"
	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/pkg/clock"
	"finca-reservations/internal/pkg/errs"
	"finca-reservations/internal/usecase/readmodel"
	"finca-reservations/internal/usecase/shared"
)

var (
	ErrInvalidRange  = errs.New("invalid date range")
	ErrInvalidPlan   = errs.New("invalid plan")
	ErrQueryFailed   = errs.New("query failed")
	ErrRangeTooLarge = errs.New("date range exceeds the query limit")
)

// maxAvailabilityDays caps the per-day availability expansion.
const maxAvailabilityDays = 366

type BookingView = readmodel.BookingRM

type AvailabilityDay struct {
	Date      time.Time `json:"date"`
	Available bool      `json:"available"`
}

type PricePreview struct {
	Plan        string   `json:"plan"`
	Nights      int      `json:"nights"`
	Subtotal    int64    `json:"subtotal"`
	CleaningFee int64    `json:"cleaning_fee"`
	Deposit     int64    `json:"deposit"`
	Total       int64    `json:"total"`
	Currency    string   `json:"currency"`
	Breakdown   []string `json:"breakdown"`
}

type BookingReads interface {
	ViewByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*readmodel.BookingRM, error)
	List(ctx context.Context, dbtx db.DBTX, status string, from, to *time.Time, limit int32) ([]*readmodel.BookingRM, error)
	OccupiedRanges(ctx context.Context, dbtx db.DBTX, propertyID uuid.UUID, from, to time.Time) ([]*readmodel.OccupiedRangeRM, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, status string, from, to *time.Time, limit int) ([]*BookingView, error)
	Availability(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]AvailabilityDay, error)
	PricePreview(ctx context.Context, plan string, checkIn, checkOut time.Time, guests int) (*PricePreview, error)
}

type bookingQueriesImpl struct {
	uow      shared.UnitOfWork
	reads    BookingReads
	resolver *pricing.Resolver
	clock    clock.Clock
}

func NewBookingQueries(uow shared.UnitOfWork, reads BookingReads, resolver *pricing.Resolver, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{uow: uow, reads: reads, resolver: resolver, clock: clk}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	var view *BookingView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rm, err := q.reads.ViewByID(ctx, dbtx, id)
		if err != nil {
			return err
		}
		view = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, status string, from, to *time.Time, limit int) ([]*BookingView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var views []*BookingView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rms, err := q.reads.List(ctx, dbtx, status, from, to, int32(limit))
		if err != nil {
			return err
		}
		views = rms
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Availability expands the window into per-day occupancy. A day counts as
// occupied when any live hold's stay covers it under the same overlap
// semantics the admission engine uses; expired-pending holds do not block.
func (q *bookingQueriesImpl) Availability(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]AvailabilityDay, error) {
	from, to = calendar.Normalize(from), calendar.Normalize(to)
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days > maxAvailabilityDays {
		return nil, ErrRangeTooLarge
	}

	var occupied []*readmodel.OccupiedRangeRM
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rms, err := q.reads.OccupiedRanges(ctx, dbtx, propertyID, from, to)
		if err != nil {
			return err
		}
		occupied = rms
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	var stays []booking.StayRange
	for _, rm := range occupied {
		if rm.Status == string(booking.StatusPending) && rm.ExpiresAt != nil && rm.ExpiresAt.Before(now) {
			continue
		}
		stay, err := booking.NewStayRange(rm.CheckIn, rm.CheckOut)
		if err != nil {
			continue
		}
		stays = append(stays, stay)
	}

	out := make([]AvailabilityDay, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day, _ := booking.NewStayRange(d, d)
		free := true
		for _, stay := range stays {
			if day.Overlaps(stay) {
				free = false
				break
			}
		}
		out = append(out, AvailabilityDay{Date: d, Available: free})
	}
	return out, nil
}

func (q *bookingQueriesImpl) PricePreview(ctx context.Context, plan string, checkIn, checkOut time.Time, guests int) (*PricePreview, error) {
	p := booking.Plan(plan)
	if !p.IsValid() {
		return nil, ErrInvalidPlan
	}
	stay, err := booking.NewStayRange(checkIn, checkOut)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRange)
	}

	quote := q.resolver.Price(booking.Request{Stay: stay, Plan: p, GuestCount: guests}, nil)
	return &PricePreview{
		Plan:        plan,
		Nights:      stay.Nights(),
		Subtotal:    quote.Subtotal,
		CleaningFee: quote.CleaningFee,
		Deposit:     quote.Deposit,
		Total:       quote.Total,
		Currency:    quote.Currency,
		Breakdown:   quote.Breakdown,
	}, nil
}
