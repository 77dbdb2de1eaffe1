package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/usecase/readmodel"
	"finca-reservations/internal/usecase/shared"
)

type BookingReadStore struct{}

func NewBookingReadStore() *BookingReadStore {
	return &BookingReadStore{}
}

func (s *BookingReadStore) PropertyByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.PropertySnapshot, error) {
	const query = `SELECT id, name, timezone FROM properties WHERE id = $1`

	var snap shared.PropertySnapshot
	err := dbtx.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.Name, &snap.Timezone)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find property", err)
	}
	return &snap, nil
}

func (s *BookingReadStore) SnapshotByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.BookingSnapshot, error) {
	const query = `
		SELECT id, property_id, check_in, check_out, plan, status, guest_count,
		       expires_at, manual_total
		FROM bookings
		WHERE id = $1`

	var snap shared.BookingSnapshot
	err := dbtx.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.PropertyID, &snap.CheckIn, &snap.CheckOut,
		&snap.Plan, &snap.Status, &snap.GuestCount,
		&snap.ExpiresAt, &snap.ManualTotal,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking snapshot", err)
	}
	return &snap, nil
}

const bookingViewColumns = `
	b.id, b.property_id, p.name, b.check_in, b.check_out, b.plan, b.status,
	b.guest_count, b.guest_name, b.guest_email, b.guest_phone, b.guest_city,
	b.expires_at, b.manual_total,
	b.override_reason, b.override_rules, b.override_admin_id, b.override_at,
	b.created_at, b.updated_at`

func (s *BookingReadStore) ViewByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*readmodel.BookingRM, error) {
	query := `
		SELECT` + bookingViewColumns + `
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE b.id = $1`

	var rm readmodel.BookingRM
	err := dbtx.QueryRow(ctx, query, id).Scan(
		&rm.ID, &rm.PropertyID, &rm.PropertyName, &rm.CheckIn, &rm.CheckOut,
		&rm.Plan, &rm.Status, &rm.GuestCount,
		&rm.GuestName, &rm.GuestEmail, &rm.GuestPhone, &rm.GuestCity,
		&rm.ExpiresAt, &rm.ManualTotal,
		&rm.OverrideReason, &rm.OverrideRules, &rm.OverrideAdminID, &rm.OverrideAt,
		&rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}
	return &rm, nil
}

// List returns bookings filtered by status and/or a date window, newest
// first. Empty status means all statuses.
func (s *BookingReadStore) List(ctx context.Context, dbtx db.DBTX, status string, from, to *time.Time, limit int32) ([]*readmodel.BookingRM, error) {
	query := `
		SELECT` + bookingViewColumns + `
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE ($1 = '' OR b.status = $1)
		  AND ($2::date IS NULL OR b.check_out >= $2)
		  AND ($3::date IS NULL OR b.check_in <= $3)
		ORDER BY b.created_at DESC
		LIMIT $4`

	rows, err := dbtx.Query(ctx, query, status, from, to, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*readmodel.BookingRM
	for rows.Next() {
		var rm readmodel.BookingRM
		err := rows.Scan(
			&rm.ID, &rm.PropertyID, &rm.PropertyName, &rm.CheckIn, &rm.CheckOut,
			&rm.Plan, &rm.Status, &rm.GuestCount,
			&rm.GuestName, &rm.GuestEmail, &rm.GuestPhone, &rm.GuestCity,
			&rm.ExpiresAt, &rm.ManualTotal,
			&rm.OverrideReason, &rm.OverrideRules, &rm.OverrideAdminID, &rm.OverrideAt,
			&rm.CreatedAt, &rm.UpdatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking view", err)
		}
		out = append(out, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking views", err)
	}
	return out, nil
}

// OccupiedRanges lists the stays holding dates that touch the window,
// including expired-pending rows the sweep has not visited yet; the caller
// decides how to treat those.
func (s *BookingReadStore) OccupiedRanges(ctx context.Context, dbtx db.DBTX, propertyID uuid.UUID, from, to time.Time) ([]*readmodel.OccupiedRangeRM, error) {
	const query = `
		SELECT id, check_in, check_out, plan, status, expires_at
		FROM bookings
		WHERE property_id = $1
		  AND status IN ('pending', 'confirmed', 'blocked')
		  AND check_in <= $3
		  AND check_out >= $2
		ORDER BY check_in`

	rows, err := dbtx.Query(ctx, query, propertyID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query occupied ranges", err)
	}
	defer rows.Close()

	var out []*readmodel.OccupiedRangeRM
	for rows.Next() {
		var rm readmodel.OccupiedRangeRM
		if err := rows.Scan(&rm.BookingID, &rm.CheckIn, &rm.CheckOut, &rm.Plan, &rm.Status, &rm.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupied range", err)
		}
		out = append(out, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate occupied ranges", err)
	}
	return out, nil
}
