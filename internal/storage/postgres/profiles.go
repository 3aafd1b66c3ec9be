package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/void-bio-be/internal/models"
)

const profileColumns = `id, user_id, username, display_name, bio, avatar_url, is_admin, created_at, updated_at`

const visualColumns = `id, user_id, background_type, background_value, background_audio_url,
	audio_autoplay, audio_loop, effect_snowfall, effect_particles, effect_glow, effect_glitch,
	created_at, updated_at`

// InsertProfile creates the profile row for an identity. A taken username
// surfaces as storage.ErrAlreadyExists via the unique constraint.
func (s *Store) InsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	query := `
		INSERT INTO profiles (id, user_id, username, display_name, bio, avatar_url, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + profileColumns + `;`
	row := s.pool.QueryRow(ctx, query, profile.ID, profile.UserID, profile.Username, profile.DisplayName, profile.Bio, profile.AvatarURL, profile.IsAdmin)
	return scanProfile(row)
}

// GetProfile fetches the profile owned by userID.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	return scanProfile(s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1;`, userID))
}

// FindProfileByUsername fetches a profile by its stored (lowercase) username.
func (s *Store) FindProfileByUsername(ctx context.Context, username string) (models.Profile, error) {
	return scanProfile(s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE username = $1;`, username))
}

// UpdateProfile overwrites the editable profile fields.
func (s *Store) UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	query := `
		UPDATE profiles
		SET username = $2, display_name = $3, bio = $4, avatar_url = $5, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns + `;`
	row := s.pool.QueryRow(ctx, query, profile.UserID, profile.Username, profile.DisplayName, profile.Bio, profile.AvatarURL)
	return scanProfile(row)
}

// ListProfiles returns every profile, newest first.
func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC;`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, translateError(rows.Err())
}

// SetAdmin flips the admin flag on a profile.
func (s *Store) SetAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error {
	return expectRows(s.pool.Exec(ctx, `UPDATE profiles SET is_admin = $2, updated_at = NOW() WHERE user_id = $1;`, userID, isAdmin))
}

// InsertVisualSettings creates the single visuals row for a profile.
func (s *Store) InsertVisualSettings(ctx context.Context, v models.VisualSettings) (models.VisualSettings, error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	query := `
		INSERT INTO visual_settings (id, user_id, background_type, background_value, background_audio_url,
			audio_autoplay, audio_loop, effect_snowfall, effect_particles, effect_glow, effect_glitch)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + visualColumns + `;`
	row := s.pool.QueryRow(ctx, query, v.ID, v.UserID, string(v.BackgroundType), v.BackgroundValue, v.BackgroundAudioURL,
		v.AudioAutoplay, v.AudioLoop, v.EffectSnowfall, v.EffectParticles, v.EffectGlow, v.EffectGlitch)
	return scanVisualSettings(row)
}

// GetVisualSettings fetches the visuals row for userID.
func (s *Store) GetVisualSettings(ctx context.Context, userID uuid.UUID) (models.VisualSettings, error) {
	return scanVisualSettings(s.pool.QueryRow(ctx, `SELECT `+visualColumns+` FROM visual_settings WHERE user_id = $1;`, userID))
}

// UpdateVisualSettings mutates the visuals row in place.
func (s *Store) UpdateVisualSettings(ctx context.Context, v models.VisualSettings) (models.VisualSettings, error) {
	query := `
		UPDATE visual_settings
		SET background_type = $2, background_value = $3, background_audio_url = $4,
			audio_autoplay = $5, audio_loop = $6, effect_snowfall = $7, effect_particles = $8,
			effect_glow = $9, effect_glitch = $10, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + visualColumns + `;`
	row := s.pool.QueryRow(ctx, query, v.UserID, string(v.BackgroundType), v.BackgroundValue, v.BackgroundAudioURL,
		v.AudioAutoplay, v.AudioLoop, v.EffectSnowfall, v.EffectParticles, v.EffectGlow, v.EffectGlitch)
	return scanVisualSettings(row)
}

func scanProfile(row pgx.Row) (models.Profile, error) {
	var p models.Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURL, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return models.Profile{}, translateError(err)
	}
	return p, nil
}

func scanVisualSettings(row pgx.Row) (models.VisualSettings, error) {
	var v models.VisualSettings
	var background string
	if err := row.Scan(&v.ID, &v.UserID, &background, &v.BackgroundValue, &v.BackgroundAudioURL,
		&v.AudioAutoplay, &v.AudioLoop, &v.EffectSnowfall, &v.EffectParticles, &v.EffectGlow, &v.EffectGlitch,
		&v.CreatedAt, &v.UpdatedAt); err != nil {
		return models.VisualSettings{}, translateError(err)
	}
	v.BackgroundType = models.BackgroundType(background)
	return v, nil
}
