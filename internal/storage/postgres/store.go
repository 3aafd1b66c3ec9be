package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/void-bio-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Store provides Postgres-backed persistence for every profile table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity for health reporting.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS identities (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS revoked_tokens (
			token_id TEXT PRIMARY KEY,
			expires_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			user_id UUID UNIQUE NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
			username TEXT UNIQUE NOT NULL CHECK (username = lower(username)),
			display_name TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '' CHECK (char_length(bio) <= 200),
			avatar_url TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS visual_settings (
			id UUID PRIMARY KEY,
			user_id UUID UNIQUE NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
			background_type TEXT NOT NULL DEFAULT 'gradient' CHECK (background_type IN ('gradient', 'image', 'video')),
			background_value TEXT NOT NULL DEFAULT '',
			background_audio_url TEXT NOT NULL DEFAULT '',
			audio_autoplay BOOLEAN NOT NULL DEFAULT FALSE,
			audio_loop BOOLEAN NOT NULL DEFAULT TRUE,
			effect_snowfall BOOLEAN NOT NULL DEFAULT FALSE,
			effect_particles BOOLEAN NOT NULL DEFAULT FALSE,
			effect_glow BOOLEAN NOT NULL DEFAULT TRUE,
			effect_glitch BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS links (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT 'link',
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS links_user_sort_idx ON links (user_id, sort_order);`,
		`CREATE TABLE IF NOT EXISTS badges (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			icon TEXT NOT NULL,
			tooltip TEXT NOT NULL DEFAULT '',
			is_premium BOOLEAN NOT NULL DEFAULT FALSE,
			discord_buy_link TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS user_badges (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
			badge_id UUID NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
			is_displayed BOOLEAN NOT NULL DEFAULT TRUE,
			acquired_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, badge_id)
		);`,
		`CREATE TABLE IF NOT EXISTS invite_codes (
			id UUID PRIMARY KEY,
			code TEXT UNIQUE NOT NULL,
			uses_left INTEGER NOT NULL,
			max_uses INTEGER NOT NULL CHECK (max_uses >= 1),
			created_by UUID REFERENCES identities(id) ON DELETE SET NULL,
			used_by UUID REFERENCES identities(id) ON DELETE SET NULL,
			used_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (uses_left >= 0 AND uses_left <= max_uses)
		);`,
		`CREATE TABLE IF NOT EXISTS payment_logs (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
			badge_id UUID REFERENCES badges(id) ON DELETE SET NULL,
			discord_username TEXT NOT NULL DEFAULT '',
			amount NUMERIC(10,2),
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'rejected')),
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// translateError maps driver errors onto the storage sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return storage.ErrAlreadyExists
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", storage.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

// expectRows turns an update/delete that touched nothing into ErrNotFound.
func expectRows(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
