package commands

import (
	"context"

	"github.com/google/uuid"

	"finca-reservations/internal/infra"
	"finca-reservations/internal/pkg/errs"
	"finca-reservations/internal/pkg/jwt"
	"finca-reservations/internal/pkg/password"
	"finca-reservations/internal/usecase/shared"
)

var ErrInvalidCredentials = errs.New("invalid email or password")

type LoginResult struct {
	Token   string
	AdminID uuid.UUID
	Email   string
	Name    string
}

type AuthCommands interface {
	Login(ctx context.Context, email, plaintext string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow shared.UnitOfWork
	jwt *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{uow: uow, jwt: jwtService}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	admin, err := a.uow.CommandReads().AdminByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := password.ComparePassword(admin.PasswordHash, plaintext); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := a.jwt.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return nil, errs.Wrap(err, "failed to sign token")
	}

	return &LoginResult{
		Token:   token,
		AdminID: admin.ID,
		Email:   admin.Email,
		Name:    admin.Name,
	}, nil
}
