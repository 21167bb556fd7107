package helpers

import (
	"time"

	model "auction-marketplace/internal/models"
)

type RegisterUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type RegisterUserResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresAt   string     `json:"expires_at"`
}

// NewRegisterUserResponse pairs a new user with the token they authenticate with
func NewRegisterUserResponse(user model.User, token string, expiresAt time.Time) RegisterUserResponse {
	return RegisterUserResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}
}
