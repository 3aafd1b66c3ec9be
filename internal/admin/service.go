// Package admin implements the operations behind the admin panel: invite
// codes, the badge catalog, user flags and payment logs.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/invite"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage"
	"github.com/hongminglow/void-bio-be/internal/username"
)

// DefaultPaymentLogLimit matches the admin panel's page size.
const DefaultPaymentLogLimit = 20

// generateAttempts bounds retries when a random code collides.
const generateAttempts = 3

var (
	ErrForbidden     = apperr.New(apperr.CodeForbidden, "admin access required")
	ErrBadgeAssigned = apperr.New(apperr.CodeConflict, "user already has this badge")
	ErrSelfDemotion  = apperr.New(apperr.CodeValidation, "admins cannot remove their own admin access")
)

// Store is the persistence the admin service needs.
type Store interface {
	storage.InviteStore
	storage.BadgeStore
	storage.PaymentStore
	GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	FindProfileByUsername(ctx context.Context, username string) (models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	SetAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error
}

// Options tunes the service.
type Options struct {
	PaymentLogLimit int
}

// Invite is an invite code with its derived state.
type Invite struct {
	models.InviteCode
	State invite.State `json:"state"`
}

// Service runs admin operations. Callers must check RequireAdmin first.
type Service struct {
	store    Store
	logLimit int
	generate func() (string, error)
}

// NewService constructs a Service.
func NewService(store Store, opts Options) *Service {
	if opts.PaymentLogLimit <= 0 {
		opts.PaymentLogLimit = DefaultPaymentLogLimit
	}
	return &Service{store: store, logLimit: opts.PaymentLogLimit, generate: invite.Generate}
}

// RequireAdmin returns ErrForbidden unless userID's profile carries the admin flag.
func (s *Service) RequireAdmin(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("load profile: %w", err)
	}
	if !profile.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// Invites lists every code, newest first.
func (s *Service) Invites(ctx context.Context) ([]Invite, error) {
	codes, err := s.store.ListInvites(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	out := make([]Invite, 0, len(codes))
	for _, code := range codes {
		out = append(out, Invite{InviteCode: code, State: invite.StateOf(code)})
	}
	return out, nil
}

// GenerateInvite creates a fresh code with maxUses uses. createdBy may be
// uuid.Nil for codes minted from the command line.
func (s *Service) GenerateInvite(ctx context.Context, createdBy uuid.UUID, maxUses int) (Invite, error) {
	for attempt := 0; attempt < generateAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return Invite{}, err
		}
		fresh, err := invite.New(code, maxUses)
		if err != nil {
			return Invite{}, err
		}
		if createdBy != uuid.Nil {
			creator := createdBy
			fresh.CreatedBy = &creator
		}
		created, err := s.store.CreateInvite(ctx, fresh)
		if errors.Is(err, storage.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return Invite{}, fmt.Errorf("create invite: %w", err)
		}
		return Invite{InviteCode: created, State: invite.StateOf(created)}, nil
	}
	return Invite{}, fmt.Errorf("create invite: no unique code after %d attempts", generateAttempts)
}

// DeleteInvite removes a code.
func (s *Service) DeleteInvite(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteInvite(ctx, id); err != nil {
		return notFound(err, "invite code")
	}
	return nil
}

// CreateBadge adds a badge to the catalog.
func (s *Service) CreateBadge(ctx context.Context, badge models.Badge) (models.Badge, error) {
	badge.Name = strings.TrimSpace(badge.Name)
	badge.Icon = strings.TrimSpace(badge.Icon)
	if badge.Name == "" || badge.Icon == "" {
		return models.Badge{}, apperr.New(apperr.CodeValidation, "badge name and icon are required")
	}
	created, err := s.store.CreateBadge(ctx, badge)
	if err != nil {
		return models.Badge{}, fmt.Errorf("create badge: %w", err)
	}
	return created, nil
}

// DeleteBadge removes a badge and every assignment of it.
func (s *Service) DeleteBadge(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteBadge(ctx, id); err != nil {
		return notFound(err, "badge")
	}
	return nil
}

// Users lists every profile.
func (s *Service) Users(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return profiles, nil
}

// SetAdmin grants or removes the admin flag. An admin cannot demote themselves.
func (s *Service) SetAdmin(ctx context.Context, actor, target uuid.UUID, isAdmin bool) error {
	if actor == target && !isAdmin {
		return ErrSelfDemotion
	}
	if err := s.store.SetAdmin(ctx, target, isAdmin); err != nil {
		return notFound(err, "user")
	}
	return nil
}

// SetAdminByUsername is the operator path used before any admin exists.
func (s *Service) SetAdminByUsername(ctx context.Context, rawUsername string, isAdmin bool) (models.Profile, error) {
	profile, err := s.store.FindProfileByUsername(ctx, username.Normalize(rawUsername))
	if err != nil {
		return models.Profile{}, notFound(err, "user")
	}
	if err := s.store.SetAdmin(ctx, profile.UserID, isAdmin); err != nil {
		return models.Profile{}, notFound(err, "user")
	}
	profile.IsAdmin = isAdmin
	return profile, nil
}

// AssignBadge grants a badge. A second grant of the same badge is a conflict.
func (s *Service) AssignBadge(ctx context.Context, userID, badgeID uuid.UUID, displayed bool) (models.UserBadge, error) {
	assigned, err := s.store.AssignBadge(ctx, models.UserBadge{UserID: userID, BadgeID: badgeID, IsDisplayed: displayed})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.UserBadge{}, ErrBadgeAssigned
		}
		return models.UserBadge{}, notFound(err, "user or badge")
	}
	return assigned, nil
}

// RevokeBadge removes an assignment.
func (s *Service) RevokeBadge(ctx context.Context, userID, badgeID uuid.UUID) error {
	if err := s.store.RevokeBadge(ctx, userID, badgeID); err != nil {
		return notFound(err, "badge assignment")
	}
	return nil
}

// PaymentLogs returns the most recent payment records.
func (s *Service) PaymentLogs(ctx context.Context) ([]models.PaymentLog, error) {
	logs, err := s.store.ListPaymentLogs(ctx, s.logLimit)
	if err != nil {
		return nil, fmt.Errorf("list payment logs: %w", err)
	}
	if logs == nil {
		logs = []models.PaymentLog{}
	}
	return logs, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.Wrap(apperr.CodeNotFound, what+" not found", err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
