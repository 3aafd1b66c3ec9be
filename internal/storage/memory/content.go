package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage"
)

// ListLinks returns a user's links ordered by sort_order.
func (s *Store) ListLinks(_ context.Context, userID uuid.UUID, enabledOnly bool) ([]models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Link
	for _, link := range s.links {
		if link.UserID != userID || (enabledOnly && !link.IsEnabled) {
			continue
		}
		out = append(out, link)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetLink fetches one link scoped to its owner.
func (s *Store) GetLink(_ context.Context, userID, linkID uuid.UUID) (models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[linkID]
	if !ok || link.UserID != userID {
		return models.Link{}, storage.ErrNotFound
	}
	return link, nil
}

// CreateLink inserts a link.
func (s *Store) CreateLink(_ context.Context, link models.Link) (models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[link.UserID]; !ok {
		return models.Link{}, storage.ErrNotFound
	}
	link.ID = ensureID(link.ID)
	now := s.now().UTC()
	link.CreatedAt, link.UpdatedAt = now, now
	s.links[link.ID] = link
	return link, nil
}

// UpdateLink overwrites a link owned by link.UserID.
func (s *Store) UpdateLink(_ context.Context, link models.Link) (models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.links[link.ID]
	if !ok || current.UserID != link.UserID {
		return models.Link{}, storage.ErrNotFound
	}
	link.CreatedAt = current.CreatedAt
	link.UpdatedAt = s.now().UTC()
	s.links[link.ID] = link
	return link, nil
}

// DeleteLink removes a link owned by userID.
func (s *Store) DeleteLink(_ context.Context, userID, linkID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[linkID]
	if !ok || link.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.links, linkID)
	return nil
}

// ListBadges returns the catalog with premium badges first.
func (s *Store) ListBadges(_ context.Context) ([]models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Badge, 0, len(s.badges))
	for _, badge := range s.badges {
		out = append(out, badge)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPremium != out[j].IsPremium {
			return out[i].IsPremium
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// CreateBadge inserts a catalog badge.
func (s *Store) CreateBadge(_ context.Context, badge models.Badge) (models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	badge.ID = ensureID(badge.ID)
	badge.CreatedAt = s.now().UTC()
	s.badges[badge.ID] = badge
	return badge, nil
}

// DeleteBadge removes a badge and its assignments.
func (s *Store) DeleteBadge(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.badges[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.badges, id)
	for ubID, ub := range s.userBadges {
		if ub.BadgeID == id {
			delete(s.userBadges, ubID)
		}
	}
	return nil
}

// ListUserBadges returns a user's badges with the catalog entry attached.
func (s *Store) ListUserBadges(_ context.Context, userID uuid.UUID, displayedOnly bool) ([]models.UserBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UserBadge
	for _, ub := range s.userBadges {
		if ub.UserID != userID || (displayedOnly && !ub.IsDisplayed) {
			continue
		}
		if badge, ok := s.badges[ub.BadgeID]; ok {
			b := badge
			ub.Badge = &b
		}
		out = append(out, ub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AcquiredAt.Before(out[j].AcquiredAt) })
	return out, nil
}

// AssignBadge grants a badge; duplicates return storage.ErrAlreadyExists.
func (s *Store) AssignBadge(_ context.Context, ub models.UserBadge) (models.UserBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[ub.UserID]; !ok {
		return models.UserBadge{}, storage.ErrNotFound
	}
	if _, ok := s.badges[ub.BadgeID]; !ok {
		return models.UserBadge{}, storage.ErrNotFound
	}
	for _, existing := range s.userBadges {
		if existing.UserID == ub.UserID && existing.BadgeID == ub.BadgeID {
			return models.UserBadge{}, storage.ErrAlreadyExists
		}
	}
	ub.ID = ensureID(ub.ID)
	ub.AcquiredAt = s.now().UTC()
	ub.Badge = nil
	s.userBadges[ub.ID] = ub
	return ub, nil
}

// SetBadgeDisplayed toggles an owned badge's visibility.
func (s *Store) SetBadgeDisplayed(_ context.Context, userID, badgeID uuid.UUID, displayed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ub := range s.userBadges {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			ub.IsDisplayed = displayed
			s.userBadges[id] = ub
			return nil
		}
	}
	return storage.ErrNotFound
}

// RevokeBadge removes an assignment.
func (s *Store) RevokeBadge(_ context.Context, userID, badgeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ub := range s.userBadges {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			delete(s.userBadges, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

// CreatePaymentLog appends a pending payment record.
func (s *Store) CreatePaymentLog(_ context.Context, log models.PaymentLog) (models.PaymentLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[log.UserID]; !ok {
		return models.PaymentLog{}, storage.ErrNotFound
	}
	log.ID = ensureID(log.ID)
	log.Status = models.PaymentPending
	log.CreatedAt = s.now().UTC()
	s.payments = append(s.payments, log)
	return log, nil
}

// ListPaymentLogs returns up to limit records, newest first.
func (s *Store) ListPaymentLogs(_ context.Context, limit int) ([]models.PaymentLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PaymentLog, 0, len(s.payments))
	for i := len(s.payments) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.payments[i])
	}
	return out, nil
}
