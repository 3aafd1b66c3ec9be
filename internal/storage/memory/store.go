// Package memory implements storage.Store in process. It backs the
// STORAGE_DRIVER=memory dev mode and the service tests, and mirrors the
// constraints the postgres schema enforces.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every table in maps guarded by a single mutex.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	identities map[uuid.UUID]models.Identity
	revoked    map[string]time.Time
	invites    map[uuid.UUID]models.InviteCode
	profiles   map[uuid.UUID]models.Profile
	visuals    map[uuid.UUID]models.VisualSettings
	links      map[uuid.UUID]models.Link
	badges     map[uuid.UUID]models.Badge
	userBadges map[uuid.UUID]models.UserBadge
	payments   []models.PaymentLog
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:        time.Now,
		identities: make(map[uuid.UUID]models.Identity),
		revoked:    make(map[string]time.Time),
		invites:    make(map[uuid.UUID]models.InviteCode),
		profiles:   make(map[uuid.UUID]models.Profile),
		visuals:    make(map[uuid.UUID]models.VisualSettings),
		links:      make(map[uuid.UUID]models.Link),
		badges:     make(map[uuid.UUID]models.Badge),
		userBadges: make(map[uuid.UUID]models.UserBadge),
	}
}

// Close is a no-op.
func (s *Store) Close() {}

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// CreateIdentity inserts an identity; emails are unique.
func (s *Store) CreateIdentity(_ context.Context, identity models.Identity) (models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.identities {
		if existing.Email == identity.Email {
			return models.Identity{}, storage.ErrAlreadyExists
		}
	}
	identity.ID = ensureID(identity.ID)
	identity.CreatedAt = s.now().UTC()
	s.identities[identity.ID] = identity
	return identity, nil
}

// FindIdentityByEmail looks an identity up by email.
func (s *Store) FindIdentityByEmail(_ context.Context, email string) (models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, identity := range s.identities {
		if identity.Email == email {
			return identity, nil
		}
	}
	return models.Identity{}, storage.ErrNotFound
}

// DeleteIdentity removes an identity and cascades to the rows it owns.
func (s *Store) DeleteIdentity(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.identities, id)
	delete(s.profiles, id)
	delete(s.visuals, id)
	for linkID, link := range s.links {
		if link.UserID == id {
			delete(s.links, linkID)
		}
	}
	for ubID, ub := range s.userBadges {
		if ub.UserID == id {
			delete(s.userBadges, ubID)
		}
	}
	kept := s.payments[:0]
	for _, p := range s.payments {
		if p.UserID != id {
			kept = append(kept, p)
		}
	}
	s.payments = kept
	for inviteID, invite := range s.invites {
		if invite.CreatedBy != nil && *invite.CreatedBy == id {
			invite.CreatedBy = nil
		}
		if invite.UsedBy != nil && *invite.UsedBy == id {
			invite.UsedBy = nil
		}
		s.invites[inviteID] = invite
	}
	return nil
}

// RevokeToken records a signed-out token id.
func (s *Store) RevokeToken(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = expiresAt
	return nil
}

// IsTokenRevoked reports whether tokenID was signed out.
func (s *Store) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

// FindRedeemableInvite matches code exactly among codes with uses left.
func (s *Store) FindRedeemableInvite(_ context.Context, code string) (models.InviteCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, invite := range s.invites {
		if invite.Code == code && invite.UsesLeft > 0 {
			return invite, nil
		}
	}
	return models.InviteCode{}, storage.ErrNotFound
}

// RedeemInvite performs the guarded decrement under the store lock.
func (s *Store) RedeemInvite(_ context.Context, code string, userID uuid.UUID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, invite := range s.invites {
		if invite.Code != code {
			continue
		}
		if invite.UsesLeft <= 0 {
			return false, nil
		}
		invite.UsesLeft--
		redeemer := userID
		usedAt := at
		invite.UsedBy = &redeemer
		invite.UsedAt = &usedAt
		s.invites[id] = invite
		return true, nil
	}
	return false, nil
}

// CreateInvite inserts a code; codes are unique.
func (s *Store) CreateInvite(_ context.Context, invite models.InviteCode) (models.InviteCode, error) {
	if invite.MaxUses < 1 || invite.UsesLeft < 0 || invite.UsesLeft > invite.MaxUses {
		return models.InviteCode{}, fmt.Errorf("invite %q: uses_left %d out of range for max_uses %d", invite.Code, invite.UsesLeft, invite.MaxUses)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.invites {
		if existing.Code == invite.Code {
			return models.InviteCode{}, storage.ErrAlreadyExists
		}
	}
	invite.ID = ensureID(invite.ID)
	invite.CreatedAt = s.now().UTC()
	s.invites[invite.ID] = invite
	return invite, nil
}

// ListInvites returns every code, newest first.
func (s *Store) ListInvites(_ context.Context) ([]models.InviteCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InviteCode, 0, len(s.invites))
	for _, invite := range s.invites {
		out = append(out, invite)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteInvite removes a code.
func (s *Store) DeleteInvite(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invites[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.invites, id)
	return nil
}
