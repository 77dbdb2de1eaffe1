package repository

import (
	"context"
	"time"

	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
)

// HolidayRepository persists admin-added holiday overrides. The algorithmic
// Colombian calendar never touches the database; overrides are unioned with
// it at read time.
type HolidayRepository struct{}

func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{}
}

func (r *HolidayRepository) ListOverrides(ctx context.Context, tx db.DBTX, year int) ([]calendar.Holiday, error) {
	const query = `
		SELECT holiday_date, name
		FROM holiday_overrides
		WHERE EXTRACT(YEAR FROM holiday_date) = $1
		ORDER BY holiday_date`

	rows, err := tx.Query(ctx, query, year)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query holiday overrides", err)
	}
	defer rows.Close()

	var out []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, infra.WrapRepoErr("failed to scan holiday override", err)
		}
		h.Date = calendar.Normalize(h.Date)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate holiday overrides", err)
	}
	return out, nil
}

func (r *HolidayRepository) CreateOverride(ctx context.Context, tx db.DBTX, h calendar.Holiday) error {
	const query = `INSERT INTO holiday_overrides (holiday_date, name) VALUES ($1, $2)`

	if _, err := tx.Exec(ctx, query, calendar.Normalize(h.Date), h.Name); err != nil {
		return infra.WrapRepoErr("failed to create holiday override", err)
	}
	return nil
}

func (r *HolidayRepository) DeleteOverride(ctx context.Context, tx db.DBTX, date time.Time) error {
	const query = `DELETE FROM holiday_overrides WHERE holiday_date = $1`

	tag, err := tx.Exec(ctx, query, calendar.Normalize(date))
	if err != nil {
		return infra.WrapRepoErr("failed to delete holiday override", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "holiday override not found")
	}
	return nil
}
