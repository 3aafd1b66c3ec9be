package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks an externally settled badge purchase.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRejected  PaymentStatus = "rejected"
)

// PaymentLog is an append-mostly audit record of a purchase request.
type PaymentLog struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	BadgeID         *uuid.UUID    `json:"badge_id,omitempty"`
	DiscordUsername string        `json:"discord_username"`
	Amount          *float64      `json:"amount,omitempty"`
	Status          PaymentStatus `json:"status"`
	Notes           string        `json:"notes"`
	CreatedAt       time.Time     `json:"created_at"`
}
