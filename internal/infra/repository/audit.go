package repository

import (
	"context"

	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/usecase/shared"
)

// AuditRepository appends to the immutable audit trail. There is no update
// or delete path on purpose.
type AuditRepository struct{}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Append(ctx context.Context, tx db.DBTX, entry shared.AuditEntry) error {
	const query = `
		INSERT INTO audit_log (action, booking_id, payment_id, actor_id, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		entry.Action, entry.BookingID, entry.PaymentID, entry.ActorID, entry.Detail, entry.At,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append audit entry", err)
	}
	return nil
}
