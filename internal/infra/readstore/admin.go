package readstore

import (
	"context"

	"finca-reservations/internal/infra"
	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/usecase/shared"
)

type AdminReadStore struct{}

func NewAdminReadStore() *AdminReadStore {
	return &AdminReadStore{}
}

func (s *AdminReadStore) FindByEmail(ctx context.Context, dbtx db.DBTX, email string) (*shared.AdminSnapshot, error) {
	const query = `
		SELECT id, email, name, password_hash, is_active
		FROM admins
		WHERE email = $1`

	var snap shared.AdminSnapshot
	err := dbtx.QueryRow(ctx, query, email).Scan(
		&snap.ID, &snap.Email, &snap.Name, &snap.PasswordHash, &snap.IsActive,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find admin", err)
	}
	return &snap, nil
}
