package dto

import (
	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/auth"
	"github.com/hongminglow/void-bio-be/internal/models"
)

// RegisterRequest leaves email format to the credential issuer so its
// rejection reason reaches the client unchanged.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	InviteCode string `json:"invite_code" validate:"required"`
	Username   string `json:"username" validate:"required"`
}

type RegisterResponse struct {
	UserID  uuid.UUID      `json:"user_id"`
	Profile models.Profile `json:"profile"`
	Token   string         `json:"token,omitempty"`
	Session *auth.Session  `json:"session,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token   string       `json:"token"`
	Session auth.Session `json:"session"`
}
