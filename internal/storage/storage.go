package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// IdentityStore persists credential identities and the sign-out ledger.
type IdentityStore interface {
	CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (models.Identity, error)
	DeleteIdentity(ctx context.Context, id uuid.UUID) error
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// InviteStore persists invite codes. RedeemInvite is the only path that
// mutates UsesLeft and must be atomic with its uses_left > 0 guard.
type InviteStore interface {
	FindRedeemableInvite(ctx context.Context, code string) (models.InviteCode, error)
	RedeemInvite(ctx context.Context, code string, userID uuid.UUID, at time.Time) (bool, error)
	CreateInvite(ctx context.Context, invite models.InviteCode) (models.InviteCode, error)
	ListInvites(ctx context.Context) ([]models.InviteCode, error)
	DeleteInvite(ctx context.Context, id uuid.UUID) error
}

// ProfileStore persists profiles and their visual settings.
type ProfileStore interface {
	InsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	FindProfileByUsername(ctx context.Context, username string) (models.Profile, error)
	UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	SetAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error

	InsertVisualSettings(ctx context.Context, settings models.VisualSettings) (models.VisualSettings, error)
	GetVisualSettings(ctx context.Context, userID uuid.UUID) (models.VisualSettings, error)
	UpdateVisualSettings(ctx context.Context, settings models.VisualSettings) (models.VisualSettings, error)
}

// LinkStore persists profile links.
type LinkStore interface {
	ListLinks(ctx context.Context, userID uuid.UUID, enabledOnly bool) ([]models.Link, error)
	GetLink(ctx context.Context, userID, linkID uuid.UUID) (models.Link, error)
	CreateLink(ctx context.Context, link models.Link) (models.Link, error)
	UpdateLink(ctx context.Context, link models.Link) (models.Link, error)
	DeleteLink(ctx context.Context, userID, linkID uuid.UUID) error
}

// BadgeStore persists the badge catalog and per-user assignments.
// AssignBadge returns ErrAlreadyExists when the pair is already assigned.
type BadgeStore interface {
	ListBadges(ctx context.Context) ([]models.Badge, error)
	CreateBadge(ctx context.Context, badge models.Badge) (models.Badge, error)
	DeleteBadge(ctx context.Context, id uuid.UUID) error
	ListUserBadges(ctx context.Context, userID uuid.UUID, displayedOnly bool) ([]models.UserBadge, error)
	AssignBadge(ctx context.Context, userBadge models.UserBadge) (models.UserBadge, error)
	SetBadgeDisplayed(ctx context.Context, userID, badgeID uuid.UUID, displayed bool) error
	RevokeBadge(ctx context.Context, userID, badgeID uuid.UUID) error
}

// PaymentStore persists payment audit records.
type PaymentStore interface {
	CreatePaymentLog(ctx context.Context, log models.PaymentLog) (models.PaymentLog, error)
	ListPaymentLogs(ctx context.Context, limit int) ([]models.PaymentLog, error)
}

// Store bundles every persistence concern. Both the postgres and memory
// drivers implement it.
type Store interface {
	IdentityStore
	InviteStore
	ProfileStore
	LinkStore
	BadgeStore
	PaymentStore
	Close()
}
