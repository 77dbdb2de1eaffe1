package response

import (
	"github.com/google/uuid"

	"finca-reservations/internal/usecase/commands"
)

type LoginResponse struct {
	Token   string    `json:"token"`
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
}

func FromLoginResult(result *commands.LoginResult) *LoginResponse {
	return &LoginResponse{
		Token:   result.Token,
		AdminID: result.AdminID,
		Email:   result.Email,
		Name:    result.Name,
	}
}
