package models

import (
	"time"

	"github.com/google/uuid"
)

// InviteCode gates registration. UsesLeft only ever decreases.
type InviteCode struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	UsesLeft  int        `json:"uses_left"`
	MaxUses   int        `json:"max_uses"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	UsedBy    *uuid.UUID `json:"used_by,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Redeemable reports whether the code still has uses left.
func (c InviteCode) Redeemable() bool {
	return c.UsesLeft > 0
}
