// Package profile implements the owner-facing and public profile operations.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage"
	"github.com/hongminglow/void-bio-be/internal/username"
)

// Store is the persistence the profile service reads and writes.
type Store interface {
	storage.ProfileStore
	storage.LinkStore
	storage.BadgeStore
	storage.PaymentStore
}

// Page is everything needed to render a profile.
type Page struct {
	Profile models.Profile        `json:"profile"`
	Visuals models.VisualSettings `json:"visual_settings"`
	Links   []models.Link         `json:"links"`
	Badges  []models.UserBadge    `json:"badges"`
}

// Service exposes profile operations scoped to a single owner.
type Service struct {
	store   Store
	checker *username.Checker
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store, checker: username.NewChecker(store)}
}

// Checker exposes the shared username availability check.
func (s *Service) Checker() *username.Checker {
	return s.checker
}

// Dashboard loads the owner's full editing view.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (Page, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return Page{}, notFound(err, "profile")
	}
	return s.page(ctx, profile, false)
}

// Public loads the page shown at /u/{username}: enabled links and displayed
// badges only.
func (s *Service) Public(ctx context.Context, rawUsername string) (Page, error) {
	profile, err := s.store.FindProfileByUsername(ctx, username.Normalize(rawUsername))
	if err != nil {
		return Page{}, notFound(err, "profile")
	}
	return s.page(ctx, profile, true)
}

func (s *Service) page(ctx context.Context, profile models.Profile, public bool) (Page, error) {
	visuals, err := s.store.GetVisualSettings(ctx, profile.UserID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return Page{}, fmt.Errorf("load visual settings: %w", err)
		}
		visuals = models.DefaultVisualSettings(profile.UserID)
	}
	links, err := s.store.ListLinks(ctx, profile.UserID, public)
	if err != nil {
		return Page{}, fmt.Errorf("load links: %w", err)
	}
	badges, err := s.store.ListUserBadges(ctx, profile.UserID, public)
	if err != nil {
		return Page{}, fmt.Errorf("load badges: %w", err)
	}
	if links == nil {
		links = []models.Link{}
	}
	if badges == nil {
		badges = []models.UserBadge{}
	}
	return Page{Profile: profile, Visuals: visuals, Links: links, Badges: badges}, nil
}

// UpdateProfile applies an edit. Username changes go through the same
// normalization and availability rules as registration.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (models.Profile, error) {
	current, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return models.Profile{}, notFound(err, "profile")
	}

	if update.Username != nil {
		normalized, available, err := s.checker.Available(ctx, *update.Username, userID)
		if err != nil {
			return models.Profile{}, err
		}
		if !available {
			return models.Profile{}, username.ErrTaken
		}
		current.Username = normalized
	}
	if update.DisplayName != nil {
		current.DisplayName = strings.TrimSpace(*update.DisplayName)
	}
	if update.Bio != nil {
		if utf8.RuneCountInString(*update.Bio) > models.MaxBioLength {
			return models.Profile{}, apperr.New(apperr.CodeValidation, fmt.Sprintf("bio must be at most %d characters", models.MaxBioLength))
		}
		current.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		current.AvatarURL = strings.TrimSpace(*update.AvatarURL)
	}

	updated, err := s.store.UpdateProfile(ctx, current)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Profile{}, username.ErrTaken
		}
		return models.Profile{}, notFound(err, "profile")
	}
	return updated, nil
}

// UpdateVisuals applies a partial visuals edit.
func (s *Service) UpdateVisuals(ctx context.Context, userID uuid.UUID, update models.VisualSettingsUpdate) (models.VisualSettings, error) {
	if update.BackgroundType != nil && !update.BackgroundType.Valid() {
		return models.VisualSettings{}, apperr.New(apperr.CodeValidation, "background type must be gradient, image, or video")
	}
	current, err := s.store.GetVisualSettings(ctx, userID)
	if err != nil {
		return models.VisualSettings{}, notFound(err, "visual settings")
	}
	update.Apply(&current)
	updated, err := s.store.UpdateVisualSettings(ctx, current)
	if err != nil {
		return models.VisualSettings{}, notFound(err, "visual settings")
	}
	return updated, nil
}

// notFound converts storage.ErrNotFound into the API's not-found error and
// wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.Wrap(apperr.CodeNotFound, what+" not found", err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
