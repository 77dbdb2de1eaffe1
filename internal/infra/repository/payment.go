package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finca-reservations/internal/domain/payment"
	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
)

const paymentColumns = `
	id, booking_id, method, status, amount, amount_paid, is_partial,
	gateway_ref, evidence_ref, fail_code, created_at, updated_at`

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

func (r *PaymentRepository) Create(ctx context.Context, tx db.DBTX, p *payment.Payment) (uuid.UUID, error) {
	const query = `
		INSERT INTO payments (
			id, booking_id, method, status, amount, amount_paid, is_partial,
			gateway_ref, evidence_ref, fail_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		p.ID(), p.BookingID(), string(p.Method()), string(p.Status()),
		p.Amount(), p.AmountPaid(), p.IsPartial(),
		p.GatewayRef(), p.EvidenceRef(), p.FailCode(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create payment", err)
	}
	return id, nil
}

func (r *PaymentRepository) Update(ctx context.Context, tx db.DBTX, p *payment.Payment) error {
	const query = `
		UPDATE payments
		SET status = $2,
		    amount_paid = $3,
		    gateway_ref = $4,
		    evidence_ref = $5,
		    fail_code = $6,
		    updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		p.ID(), string(p.Status()), p.AmountPaid(),
		p.GatewayRef(), p.EvidenceRef(), p.FailCode(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "payment not found")
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*payment.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return p, nil
}

func (r *PaymentRepository) FindByBookingID(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error) {
	query := `SELECT` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	p, err := scanPayment(tx.QueryRow(ctx, query, bookingID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment by booking", err)
	}
	return p, nil
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var (
		id, bookingID                    uuid.UUID
		method, status                   string
		amount, amountPaid               int64
		isPartial                        bool
		gatewayRef, evidenceRef, failRef *string
		createdAt, updatedAt             time.Time
	)

	err := row.Scan(
		&id, &bookingID, &method, &status, &amount, &amountPaid, &isPartial,
		&gatewayRef, &evidenceRef, &failRef, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return payment.ReconstructPayment(
		id, bookingID,
		payment.Method(method), payment.Status(status),
		amount, amountPaid, isPartial,
		gatewayRef, evidenceRef, failRef,
		createdAt, updatedAt,
	), nil
}
