package queries

import (
	"context"
	"time"

	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/usecase/readmodel"
	"finca-reservations/internal/usecase/shared"
)

type RevenueSummary struct {
	From         time.Time                `json:"from"`
	To           time.Time                `json:"to"`
	Currency     string                   `json:"currency"`
	Bookings     int64                    `json:"bookings"`
	TotalRevenue int64                    `json:"total_revenue"`
	Collected    int64                    `json:"collected"`
	ByPlan       map[string]int64         `json:"by_plan"`
	ByMethod     map[string]int64         `json:"by_method"`
	Rows         []*readmodel.RevenueRowRM `json:"rows"`
}

type FinanceReads interface {
	RevenueRows(ctx context.Context, dbtx db.DBTX, from, to time.Time) ([]*readmodel.RevenueRowRM, error)
}

type FinanceQueries interface {
	RevenueSummary(ctx context.Context, from, to time.Time) (*RevenueSummary, error)
}

type financeQueriesImpl struct {
	uow      shared.UnitOfWork
	reads    FinanceReads
	currency string
}

func NewFinanceQueries(uow shared.UnitOfWork, reads FinanceReads, currency string) FinanceQueries {
	return &financeQueriesImpl{uow: uow, reads: reads, currency: currency}
}

// RevenueSummary aggregates settled payments only. A booking with a manual
// total contributes that figure verbatim; everything else counts at the
// payment amount.
func (q *financeQueriesImpl) RevenueSummary(ctx context.Context, from, to time.Time) (*RevenueSummary, error) {
	from, to = calendar.Normalize(from), calendar.Normalize(to)
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	var rows []*readmodel.RevenueRowRM
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		got, err := q.reads.RevenueRows(ctx, dbtx, from, to)
		if err != nil {
			return err
		}
		rows = got
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := &RevenueSummary{
		From:     from,
		To:       to,
		Currency: q.currency,
		ByPlan:   make(map[string]int64),
		ByMethod: make(map[string]int64),
		Rows:     rows,
	}
	for _, row := range rows {
		summary.Bookings += row.Bookings
		summary.TotalRevenue += row.Revenue
		summary.Collected += row.Collected
		summary.ByPlan[row.Plan] += row.Revenue
		summary.ByMethod[row.Method] += row.Revenue
	}
	return summary, nil
}
