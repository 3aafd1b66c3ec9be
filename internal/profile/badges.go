package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage"
)

// Badges lists the owner's badges.
func (s *Service) Badges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error) {
	badges, err := s.store.ListUserBadges(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	if badges == nil {
		badges = []models.UserBadge{}
	}
	return badges, nil
}

// Catalog lists every badge, premium first.
func (s *Service) Catalog(ctx context.Context) ([]models.Badge, error) {
	badges, err := s.store.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	if badges == nil {
		badges = []models.Badge{}
	}
	return badges, nil
}

// SetBadgeDisplayed shows or hides an owned badge on the public page.
func (s *Service) SetBadgeDisplayed(ctx context.Context, userID, badgeID uuid.UUID, displayed bool) error {
	if err := s.store.SetBadgeDisplayed(ctx, userID, badgeID, displayed); err != nil {
		return notFound(err, "badge")
	}
	return nil
}

// PurchaseRequest records the owner's intent to buy a premium badge.
type PurchaseRequest struct {
	BadgeID         *uuid.UUID
	DiscordUsername string
	Amount          *float64
	Notes           string
}

// RequestPurchase appends a pending payment log for admins to settle.
func (s *Service) RequestPurchase(ctx context.Context, userID uuid.UUID, req PurchaseRequest) (models.PaymentLog, error) {
	if strings.TrimSpace(req.DiscordUsername) == "" {
		return models.PaymentLog{}, apperr.New(apperr.CodeValidation, "discord username is required")
	}
	if req.Amount != nil && *req.Amount < 0 {
		return models.PaymentLog{}, apperr.New(apperr.CodeValidation, "amount must not be negative")
	}
	created, err := s.store.CreatePaymentLog(ctx, models.PaymentLog{
		UserID:          userID,
		BadgeID:         req.BadgeID,
		DiscordUsername: strings.TrimSpace(req.DiscordUsername),
		Amount:          req.Amount,
		Notes:           strings.TrimSpace(req.Notes),
		Status:          models.PaymentPending,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.PaymentLog{}, apperr.Wrap(apperr.CodeNotFound, "badge not found", err)
		}
		return models.PaymentLog{}, fmt.Errorf("create payment log: %w", err)
	}
	return created, nil
}
