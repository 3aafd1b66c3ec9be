package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the credential record owned by the credential issuer.
type Identity struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public face of an identity. UserID is 1:1 with Identity.ID.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaxBioLength bounds Profile.Bio in characters.
const MaxBioLength = 200

// ProfileUpdate carries a partial profile edit. Nil fields are left untouched.
type ProfileUpdate struct {
	Username    *string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}
