package readstore

import (
	"context"

	"github.com/google/uuid"

	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/usecase/readmodel"
	"finca-reservations/internal/usecase/shared"
)

type PaymentReadStore struct{}

func NewPaymentReadStore() *PaymentReadStore {
	return &PaymentReadStore{}
}

const paymentSnapshotColumns = `
	id, booking_id, method, status, amount, amount_paid, is_partial,
	gateway_ref, evidence_ref`

func (s *PaymentReadStore) SnapshotByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.PaymentSnapshot, error) {
	query := `SELECT` + paymentSnapshotColumns + ` FROM payments WHERE id = $1`

	snap, err := scanPaymentSnapshot(ctx, dbtx, query, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment snapshot", err)
	}
	return snap, nil
}

func (s *PaymentReadStore) SnapshotByGatewayRef(ctx context.Context, dbtx db.DBTX, ref string) (*shared.PaymentSnapshot, error) {
	query := `SELECT` + paymentSnapshotColumns + ` FROM payments WHERE gateway_ref = $1`

	snap, err := scanPaymentSnapshot(ctx, dbtx, query, ref)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment by gateway ref", err)
	}
	return snap, nil
}

func scanPaymentSnapshot(ctx context.Context, dbtx db.DBTX, query string, arg any) (*shared.PaymentSnapshot, error) {
	var snap shared.PaymentSnapshot
	err := dbtx.QueryRow(ctx, query, arg).Scan(
		&snap.ID, &snap.BookingID, &snap.Method, &snap.Status,
		&snap.Amount, &snap.AmountPaid, &snap.IsPartial,
		&snap.GatewayRef, &snap.EvidenceRef,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *PaymentReadStore) ViewByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*readmodel.PaymentRM, error) {
	const query = `
		SELECT id, booking_id, method, status, amount, amount_paid, is_partial,
		       gateway_ref, evidence_ref, fail_code, created_at, updated_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var rm readmodel.PaymentRM
	err := dbtx.QueryRow(ctx, query, bookingID).Scan(
		&rm.ID, &rm.BookingID, &rm.Method, &rm.Status,
		&rm.Amount, &rm.AmountPaid, &rm.IsPartial,
		&rm.GatewayRef, &rm.EvidenceRef, &rm.FailCode,
		&rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment view", err)
	}
	return &rm, nil
}
