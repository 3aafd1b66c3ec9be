package models

import (
	"time"

	"github.com/google/uuid"
)

// Badge is a catalog entry managed by admins.
type Badge struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Icon           string    `json:"icon"`
	Tooltip        string    `json:"tooltip"`
	IsPremium      bool      `json:"is_premium"`
	DiscordBuyLink string    `json:"discord_buy_link"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserBadge joins a profile to a badge. At most one per (UserID, BadgeID).
type UserBadge struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	BadgeID     uuid.UUID `json:"badge_id"`
	IsDisplayed bool      `json:"is_displayed"`
	AcquiredAt  time.Time `json:"acquired_at"`
	Badge       *Badge    `json:"badge,omitempty"`
}
