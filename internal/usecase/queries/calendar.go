package queries

import (
	"context"
	"sort"
	"time"

	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/usecase/shared"
)

type HolidayView struct {
	Date     time.Time `json:"date"`
	Name     string    `json:"name"`
	Override bool      `json:"override"`
}

// HolidayContextView explains what the validator will see for a stay: which
// holidays fall inside the booked dates and which fall in the Thu-Mon window
// around it.
type HolidayContextView struct {
	InRange     []time.Time `json:"in_range"`
	InWindow    []time.Time `json:"in_window"`
	WindowStart time.Time   `json:"window_start"`
	WindowEnd   time.Time   `json:"window_end"`
}

type HolidayReads interface {
	ListOverrides(ctx context.Context, dbtx db.DBTX, year int) ([]calendar.Holiday, error)
}

type CalendarQueries interface {
	Year(ctx context.Context, year int) ([]HolidayView, error)
	Context(ctx context.Context, checkIn, checkOut time.Time) (*HolidayContextView, error)
}

type calendarQueriesImpl struct {
	uow   shared.UnitOfWork
	reads HolidayReads
}

func NewCalendarQueries(uow shared.UnitOfWork, reads HolidayReads) CalendarQueries {
	return &calendarQueriesImpl{uow: uow, reads: reads}
}

// Year unions the algorithmic calendar with stored overrides. An override on
// a date the algorithm already covers keeps the algorithmic entry.
func (q *calendarQueriesImpl) Year(ctx context.Context, year int) ([]HolidayView, error) {
	var overrides []calendar.Holiday
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		list, err := q.reads.ListOverrides(ctx, dbtx, year)
		if err != nil {
			return err
		}
		overrides = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[time.Time]bool)
	var out []HolidayView
	for _, h := range calendar.Holidays(year) {
		seen[h.Date] = true
		out = append(out, HolidayView{Date: h.Date, Name: h.Name})
	}
	for _, h := range overrides {
		d := calendar.Normalize(h.Date)
		if seen[d] {
			continue
		}
		out = append(out, HolidayView{Date: d, Name: h.Name, Override: true})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (q *calendarQueriesImpl) Context(ctx context.Context, checkIn, checkOut time.Time) (*HolidayContextView, error) {
	checkIn, checkOut = calendar.Normalize(checkIn), calendar.Normalize(checkOut)
	if checkOut.Before(checkIn) {
		return nil, ErrInvalidRange
	}

	winStart, winEnd := calendar.Window(checkIn)
	years := map[int]bool{}
	for _, d := range []time.Time{winStart, winEnd, checkIn, checkOut} {
		years[d.Year()] = true
	}

	var overrides []calendar.Holiday
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		for year := range years {
			list, err := q.reads.ListOverrides(ctx, dbtx, year)
			if err != nil {
				return err
			}
			overrides = append(overrides, list...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	hol := calendar.BuildContext(checkIn, checkOut, overrides)
	return &HolidayContextView{
		InRange:     hol.InRange,
		InWindow:    hol.InWindow,
		WindowStart: hol.WindowStart,
		WindowEnd:   hol.WindowEnd,
	}, nil
}
