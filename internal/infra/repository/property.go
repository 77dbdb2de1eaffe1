package repository

import (
	"context"

	"github.com/google/uuid"

	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
)

type PropertyRepository struct{}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{}
}

// Lock takes the property row FOR UPDATE. Every admission for the same
// property serializes on this lock, so the conflict check that follows sees
// a settled view of existing holds.
func (r *PropertyRepository) Lock(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	const query = `SELECT id FROM properties WHERE id = $1 FOR UPDATE`

	var got uuid.UUID
	if err := tx.QueryRow(ctx, query, id).Scan(&got); err != nil {
		return infra.WrapRepoErr("failed to lock property", err)
	}
	return nil
}
