package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
)

const bookingColumns = `
	id, property_id, check_in, check_out, plan, status, guest_count,
	guest_name, guest_email, guest_phone, guest_city,
	expires_at, manual_total,
	override_reason, override_rules, override_admin_id, override_at,
	created_by, created_at, updated_at`

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	const query = `
		INSERT INTO bookings (
			id, property_id, check_in, check_out, plan, status, guest_count,
			guest_name, guest_email, guest_phone, guest_city,
			expires_at, manual_total,
			override_reason, override_rules, override_admin_id, override_at,
			created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13,
			$14, $15, $16, $17,
			$18
		) RETURNING id`

	var (
		overrideReason  *string
		overrideRules   []string
		overrideAdminID *uuid.UUID
		overrideAt      *time.Time
	)
	if ov := b.Override(); ov != nil {
		overrideReason = &ov.Reason
		overrideRules = ov.RulesBypassed
		overrideAdminID = &ov.AdminID
		overrideAt = &ov.Timestamp
	}

	guest := b.Guest()
	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		b.ID(), b.PropertyID(), b.Stay().CheckIn(), b.Stay().CheckOut(),
		string(b.Plan()), string(b.Status()), b.GuestCount(),
		guest.Name, guest.Email, guest.Phone, guest.City,
		b.ExpiresAt(), b.ManualTotal(),
		overrideReason, overrideRules, overrideAdminID, overrideAt,
		b.CreatedBy(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

func (r *BookingRepository) Update(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET status = $2,
		    expires_at = $3,
		    manual_total = $4,
		    updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, b.ID(), string(b.Status()), b.ExpiresAt(), b.ManualTotal())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return b, nil
}

// FindHolding fetches bookings whose status holds dates and whose range
// touches the given stay. The SQL window is inclusive on both bounds, a
// superset of both overlap modes; the caller applies the exact predicate.
func (r *BookingRepository) FindHolding(ctx context.Context, tx db.DBTX, propertyID uuid.UUID, stay booking.StayRange) ([]*booking.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE property_id = $1
		  AND status IN ('pending', 'confirmed', 'blocked')
		  AND check_in <= $3
		  AND check_out >= $2`

	rows, err := tx.Query(ctx, query, propertyID, stay.CheckIn(), stay.CheckOut())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query holding bookings", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *BookingRepository) ListExpiredPending(ctx context.Context, tx db.DBTX, now time.Time) ([]*booking.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE status = 'pending'
		  AND expires_at IS NOT NULL
		  AND expires_at < $1`

	rows, err := tx.Query(ctx, query, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query expired pending bookings", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ExpireIfPending is the status-guarded write the sweep relies on: a hold
// confirmed between the sweep's read and this statement matches zero rows.
func (r *BookingRepository) ExpireIfPending(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error) {
	const query = `
		UPDATE bookings
		SET status = 'expired',
		    updated_at = now()
		WHERE id = $1
		  AND status = 'pending'`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to expire booking", err)
	}
	return tag.RowsAffected() > 0, nil
}

func collectBookings(rows pgx.Rows) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, propertyID     uuid.UUID
		checkIn, checkOut  time.Time
		plan, status       string
		guestCount         int
		guest              booking.Guest
		expiresAt          *time.Time
		manualTotal        *int64
		overrideReason     *string
		overrideRules      []string
		overrideAdminID    *uuid.UUID
		overrideAt         *time.Time
		createdBy          *uuid.UUID
		createdAt, updated time.Time
	)

	err := row.Scan(
		&id, &propertyID, &checkIn, &checkOut, &plan, &status, &guestCount,
		&guest.Name, &guest.Email, &guest.Phone, &guest.City,
		&expiresAt, &manualTotal,
		&overrideReason, &overrideRules, &overrideAdminID, &overrideAt,
		&createdBy, &createdAt, &updated,
	)
	if err != nil {
		return nil, err
	}

	stay, err := booking.NewStayRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	var override *booking.Override
	if overrideReason != nil {
		override = &booking.Override{
			Reason:        *overrideReason,
			RulesBypassed: overrideRules,
		}
		if overrideAdminID != nil {
			override.AdminID = *overrideAdminID
		}
		if overrideAt != nil {
			override.Timestamp = *overrideAt
		}
	}

	return booking.ReconstructBooking(
		id, propertyID, stay,
		booking.Plan(plan), booking.Status(status),
		guestCount, guest,
		expiresAt, override, manualTotal, createdBy,
		createdAt, updated,
	), nil
}
