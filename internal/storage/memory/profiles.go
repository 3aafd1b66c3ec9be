package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/storage"
)

// InsertProfile creates a profile keyed by UserID. Username and UserID are unique.
func (s *Store) InsertProfile(_ context.Context, profile models.Profile) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[profile.UserID]; !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	if _, ok := s.profiles[profile.UserID]; ok {
		return models.Profile{}, storage.ErrAlreadyExists
	}
	if s.usernameTakenLocked(profile.Username, profile.UserID) {
		return models.Profile{}, storage.ErrAlreadyExists
	}
	profile.ID = ensureID(profile.ID)
	now := s.now().UTC()
	profile.CreatedAt, profile.UpdatedAt = now, now
	s.profiles[profile.UserID] = profile
	return profile, nil
}

// GetProfile fetches the profile owned by userID.
func (s *Store) GetProfile(_ context.Context, userID uuid.UUID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	return profile, nil
}

// FindProfileByUsername matches the stored username exactly.
func (s *Store) FindProfileByUsername(_ context.Context, username string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, profile := range s.profiles {
		if profile.Username == username {
			return profile, nil
		}
	}
	return models.Profile{}, storage.ErrNotFound
}

// UpdateProfile overwrites the editable fields.
func (s *Store) UpdateProfile(_ context.Context, profile models.Profile) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.profiles[profile.UserID]
	if !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	if s.usernameTakenLocked(profile.Username, profile.UserID) {
		return models.Profile{}, storage.ErrAlreadyExists
	}
	current.Username = profile.Username
	current.DisplayName = profile.DisplayName
	current.Bio = profile.Bio
	current.AvatarURL = profile.AvatarURL
	current.UpdatedAt = s.now().UTC()
	s.profiles[profile.UserID] = current
	return current, nil
}

// ListProfiles returns every profile, newest first.
func (s *Store) ListProfiles(_ context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Profile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SetAdmin flips the admin flag.
func (s *Store) SetAdmin(_ context.Context, userID uuid.UUID, isAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return storage.ErrNotFound
	}
	profile.IsAdmin = isAdmin
	profile.UpdatedAt = s.now().UTC()
	s.profiles[userID] = profile
	return nil
}

// InsertVisualSettings creates the visuals row; one per user.
func (s *Store) InsertVisualSettings(_ context.Context, v models.VisualSettings) (models.VisualSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[v.UserID]; !ok {
		return models.VisualSettings{}, storage.ErrNotFound
	}
	if _, ok := s.visuals[v.UserID]; ok {
		return models.VisualSettings{}, storage.ErrAlreadyExists
	}
	v.ID = ensureID(v.ID)
	now := s.now().UTC()
	v.CreatedAt, v.UpdatedAt = now, now
	s.visuals[v.UserID] = v
	return v, nil
}

// GetVisualSettings fetches the visuals row for userID.
func (s *Store) GetVisualSettings(_ context.Context, userID uuid.UUID) (models.VisualSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visuals[userID]
	if !ok {
		return models.VisualSettings{}, storage.ErrNotFound
	}
	return v, nil
}

// UpdateVisualSettings replaces the visuals row in place.
func (s *Store) UpdateVisualSettings(_ context.Context, v models.VisualSettings) (models.VisualSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.visuals[v.UserID]
	if !ok {
		return models.VisualSettings{}, storage.ErrNotFound
	}
	v.ID = current.ID
	v.CreatedAt = current.CreatedAt
	v.UpdatedAt = s.now().UTC()
	s.visuals[v.UserID] = v
	return v, nil
}

func (s *Store) usernameTakenLocked(username string, self uuid.UUID) bool {
	for userID, existing := range s.profiles {
		if existing.Username == username && userID != self {
			return true
		}
	}
	return false
}
