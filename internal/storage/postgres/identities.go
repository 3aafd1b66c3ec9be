package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/models"
)

// CreateIdentity inserts a credential identity.
func (s *Store) CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error) {
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	const query = `
		INSERT INTO identities (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, created_at;
	`
	row := s.pool.QueryRow(ctx, query, identity.ID, identity.Email, identity.PasswordHash)
	var out models.Identity
	if err := row.Scan(&out.ID, &out.Email, &out.PasswordHash, &out.CreatedAt); err != nil {
		return models.Identity{}, translateError(err)
	}
	return out, nil
}

// FindIdentityByEmail fetches an identity by its (lowercased) email.
func (s *Store) FindIdentityByEmail(ctx context.Context, email string) (models.Identity, error) {
	const query = `SELECT id, email, password_hash, created_at FROM identities WHERE email = $1;`
	var out models.Identity
	if err := s.pool.QueryRow(ctx, query, email).Scan(&out.ID, &out.Email, &out.PasswordHash, &out.CreatedAt); err != nil {
		return models.Identity{}, translateError(err)
	}
	return out, nil
}

// DeleteIdentity removes an identity; dependent rows cascade.
func (s *Store) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	return expectRows(s.pool.Exec(ctx, `DELETE FROM identities WHERE id = $1;`, id))
}

// RevokeToken records a signed-out token until it would have expired anyway.
func (s *Store) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < NOW();`); err != nil {
		return translateError(err)
	}
	const query = `
		INSERT INTO revoked_tokens (token_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO NOTHING;
	`
	_, err := s.pool.Exec(ctx, query, tokenID, expiresAt)
	return translateError(err)
}

// IsTokenRevoked reports whether tokenID was signed out.
func (s *Store) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1);`, tokenID).Scan(&revoked)
	return revoked, translateError(err)
}
