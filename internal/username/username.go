// Package username normalizes usernames and checks their availability. The
// registration flow and the profile editor both go through this package so
// the two can never disagree on what a username is.
package username

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

const (
	MinLength = 3
	MaxLength = 30
)

var (
	// ErrInvalid indicates a username that is too short or too long once normalized.
	ErrInvalid = apperr.New(apperr.CodeInvalidUsername, fmt.Sprintf("username must be %d-%d letters, numbers, or underscores", MinLength, MaxLength))
	// ErrTaken indicates another profile already holds the username.
	ErrTaken = apperr.New(apperr.CodeUsernameTaken, "username already taken")
)

// Normalize lowercases raw and drops every character outside [a-z0-9_].
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return -1
		}
	}, strings.ToLower(raw))
}

// Validate checks the length bounds of an already normalized username.
func Validate(normalized string) error {
	if n := len(normalized); n < MinLength || n > MaxLength {
		return ErrInvalid
	}
	return nil
}

// Finder is the lookup the availability check needs.
type Finder interface {
	FindProfileByUsername(ctx context.Context, username string) (models.Profile, error)
}

// Checker answers availability questions against the profile table.
type Checker struct {
	profiles Finder
}

// NewChecker builds a Checker over the given profile lookup.
func NewChecker(profiles Finder) *Checker {
	return &Checker{profiles: profiles}
}

// Available normalizes raw and reports whether it is free for self to use.
// A row owned by self never counts as a collision; pass uuid.Nil when there
// is no current owner (registration).
//
// This is a fast path for user feedback. The unique constraint on
// profiles.username is what actually guarantees uniqueness.
func (c *Checker) Available(ctx context.Context, raw string, self uuid.UUID) (string, bool, error) {
	normalized := Normalize(raw)
	if err := Validate(normalized); err != nil {
		return normalized, false, err
	}
	existing, err := c.profiles.FindProfileByUsername(ctx, normalized)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return normalized, true, nil
		}
		return normalized, false, fmt.Errorf("lookup username %q: %w", normalized, err)
	}
	if self != uuid.Nil && existing.UserID == self {
		return normalized, true, nil
	}
	return normalized, false, nil
}
