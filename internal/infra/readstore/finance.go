package readstore

import (
	"context"
	"time"

	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/usecase/readmodel"
)

// FinanceReadStore aggregates settled revenue. A booking's manual total,
// when present, supersedes the payment amount as the revenue figure.
type FinanceReadStore struct{}

func NewFinanceReadStore() *FinanceReadStore {
	return &FinanceReadStore{}
}

func (s *FinanceReadStore) RevenueRows(ctx context.Context, dbtx db.DBTX, from, to time.Time) ([]*readmodel.RevenueRowRM, error) {
	const query = `
		SELECT b.plan,
		       pay.method,
		       COUNT(*) AS bookings,
		       SUM(COALESCE(b.manual_total, pay.amount)) AS revenue,
		       SUM(pay.amount_paid) AS collected
		FROM payments pay
		JOIN bookings b ON b.id = pay.booking_id
		WHERE pay.status IN ('paid', 'confirmed_direct')
		  AND b.check_in >= $1
		  AND b.check_in <= $2
		GROUP BY b.plan, pay.method
		ORDER BY b.plan, pay.method`

	rows, err := dbtx.Query(ctx, query, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query revenue rows", err)
	}
	defer rows.Close()

	var out []*readmodel.RevenueRowRM
	for rows.Next() {
		var rm readmodel.RevenueRowRM
		if err := rows.Scan(&rm.Plan, &rm.Method, &rm.Bookings, &rm.Revenue, &rm.Collected); err != nil {
			return nil, infra.WrapRepoErr("failed to scan revenue row", err)
		}
		out = append(out, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate revenue rows", err)
	}
	return out, nil
}
